package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/config"
	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/jwt"
	"github.com/guoyuhou/NewLab/pkg/response"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	cfg     *config.AuthConfig
}

// NewAuthHandler 创建 AuthHandler，cfg 为 nil 时 Cookie 有效期取默认值
func NewAuthHandler(authSvc service.AuthService, cfg *config.AuthConfig) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cfg: cfg}
}

// Register 注册，新用户默认为 guest
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, user)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	response.OK(c, result)
}

// RefreshToken 刷新 Token，Refresh Token 取自请求体或 Cookie
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		cookie, cerr := c.Cookie(refreshCookieName)
		if cerr != nil || cookie == "" {
			response.BadRequest(c, response.CodeBadRequest, "缺少 refresh_token")
			return
		}
		req.RefreshToken = cookie
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	response.OK(c, result)
}

// Logout 用户登出，注销当前 Access Token 与 Cookie 中的 Refresh Token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	refresh, _ := c.Cookie(refreshCookieName)
	if err := h.authSvc.Logout(c.Request.Context(), claims, refresh); err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, "", false, true)
	response.OK(c, nil)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	ttl := defaultRefreshTTL
	if h.cfg != nil && h.cfg.RefreshTokenTTL > 0 {
		ttl = h.cfg.RefreshTokenTTL
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, token, int(ttl.Seconds()), refreshCookiePath, "", c.Request.TLS != nil, true)
}

// handleAuthError 统一处理认证模块业务错误
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "用户名或密码错误")
	case errors.Is(err, service.ErrUsernameTaken):
		response.Conflict(c, 11002, "用户名已被占用")
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 11003, "邮箱已被注册")
	case errors.Is(err, jwt.ErrTokenExpired):
		response.Unauthorized(c, 11004, "Token 已过期")
	case errors.Is(err, jwt.ErrTokenInvalid):
		response.Unauthorized(c, 11005, "Token 无效")
	case errors.Is(err, service.ErrTokenRevoked):
		response.Unauthorized(c, 11006, "Token 已注销")
	case errors.Is(err, service.ErrUserNotFound):
		response.Unauthorized(c, 11007, "用户不存在")
	default:
		handleCommonError(c, err)
	}
}
