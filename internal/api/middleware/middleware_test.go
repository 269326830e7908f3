package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/config"
	"github.com/guoyuhou/NewLab/internal/rbac"
	"github.com/guoyuhou/NewLab/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeChecker struct {
	revoked map[string]bool
	err     error
}

func (f *fakeChecker) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

func newJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-testing",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
}

// authEngine 挂载 JWTAuth 并回显注入的用户信息
func authEngine(mgr *jwt.Manager, checker TokenChecker) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(mgr, checker, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetUint(CtxUserID),
			"username": c.GetString(CtxUsername),
			"role":     c.GetString(CtxRole),
		})
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	mgr := newJWT()
	access, err := mgr.GenerateAccessToken(7, "alice", "researcher")
	if err != nil {
		t.Fatalf("生成 Access Token 失败: %v", err)
	}
	refresh, _ := mgr.GenerateRefreshToken(7, "alice", "researcher")
	claims, _ := mgr.ParseToken(access)

	tests := []struct {
		name     string
		token    string
		checker  TokenChecker
		wantCode int
	}{
		{"缺少认证头", "", nil, http.StatusUnauthorized},
		{"Token 无效", "garbage", nil, http.StatusUnauthorized},
		{"Refresh Token 不能访问接口", refresh, nil, http.StatusUnauthorized},
		{"合法 Token", access, nil, http.StatusOK},
		{"已注销", access, &fakeChecker{revoked: map[string]bool{claims.ID: true}}, http.StatusUnauthorized},
		{"黑名单不可用时放行", access, &fakeChecker{err: errors.New("redis down")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(authEngine(mgr, tt.checker), "/me", tt.token)
			if w.Code != tt.wantCode {
				t.Errorf("期望 %d，实际 %d，body=%s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}

	w := doGet(authEngine(mgr, nil), "/me", access)
	if !strings.Contains(w.Body.String(), `"user_id":7`) || !strings.Contains(w.Body.String(), `"role":"researcher"`) {
		t.Errorf("上下文注入的用户信息不符: %s", w.Body.String())
	}
}

func TestJWTAuth_BadScheme(t *testing.T) {
	r := authEngine(newJWT(), nil)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("非 Bearer 认证头应返回 401，实际 %d", w.Code)
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		setRole  bool
		perm     rbac.Permission
		wantCode int
	}{
		{"未认证", "", false, rbac.ViewSchedule, http.StatusUnauthorized},
		{"guest 可查看日程", "guest", true, rbac.ViewSchedule, http.StatusOK},
		{"guest 不能管理库存", "guest", true, rbac.ManageInventory, http.StatusForbidden},
		{"admin 可管理用户", "admin", true, rbac.ManageUsers, http.StatusOK},
		{"未知角色", "root", true, rbac.ViewSchedule, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) {
				if tt.setRole {
					c.Set(CtxRole, tt.role)
				}
				c.Next()
			}, RequirePermission(tt.perm), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := doGet(r, "/x", "")
			if w.Code != tt.wantCode {
				t.Errorf("期望 %d，实际 %d", tt.wantCode, w.Code)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if IsBodyTooLarge(err) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	// 声明长度超限
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("0123456789")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("超限请求期望 413，实际 %d", w.Code)
	}

	// 未声明长度，读取时超限
	req := httptest.NewRequest(http.MethodPost, "/echo", io.NopCloser(strings.NewReader("0123456789")))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("流式超限期望 413，实际 %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("ok")))
	if w.Code != http.StatusOK {
		t.Errorf("未超限期望 200，实际 %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:8501/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:8501")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:8501" {
		t.Errorf("允许的来源应回显，实际 %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("未允许的来源不应返回 CORS 头，code=%d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc" || w.Header().Get("X-Request-ID") != "abc" {
		t.Errorf("应沿用请求头中的 ID，实际 %q", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if len(w.Body.String()) != 36 {
		t.Errorf("超长 ID 应重新生成 UUID，实际 %q", w.Body.String())
	}
}
