package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/api/middleware"
	"github.com/guoyuhou/NewLab/pkg/jwt"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return 0, false
	}
	return id, true
}

// MustGetUsername 从 Gin 上下文中安全提取 username。
func MustGetUsername(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxUsername)
	if s == "" {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return "", false
	}
	return s, true
}

// MustGetClaims 提取当前 Access Token 的声明，注销时使用
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.CtxClaims)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return nil, false
	}
	return claims, true
}

// ParseIDParam 解析路径参数中的正整数 ID，失败时写入 400 响应
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, response.CodeBadRequest, "无效的 "+name)
		return 0, false
	}
	return uint(id), true
}
