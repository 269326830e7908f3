package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/service"
	pkgerrors "github.com/guoyuhou/NewLab/pkg/errors"
	"github.com/guoyuhou/NewLab/pkg/jwt"
	"github.com/guoyuhou/NewLab/pkg/mlkit"
	"github.com/guoyuhou/NewLab/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult *dto.UserResponse
	registerErr    error
	loginResult    *dto.TokenResponse
	loginErr       error
	refreshResult  *dto.TokenResponse
	refreshErr     error
	logoutErr      error

	gotRefresh string
	gotClaims  *jwt.Claims
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.UserResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, token string) (*dto.TokenResponse, error) {
	m.gotRefresh = token
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, claims *jwt.Claims, refresh string) error {
	m.gotClaims = claims
	m.gotRefresh = refresh
	return m.logoutErr
}

// ── Mock InventoryService ──
// 只实现用到的方法，其余调用会因嵌入的 nil 接口而 panic

type mockInventoryService struct {
	service.InventoryService
	item    *model.InventoryItem
	items   []model.InventoryItem
	getErr  error
	listErr error
	gotID   uint
}

func (m *mockInventoryService) GetItem(_ context.Context, id uint) (*model.InventoryItem, error) {
	m.gotID = id
	return m.item, m.getErr
}
func (m *mockInventoryService) ListItems(_ context.Context) ([]model.InventoryItem, error) {
	return m.items, m.listErr
}

// ── Mock FinanceService ──

type mockFinanceService struct {
	service.FinanceService
	addErr   error
	gotUser  uint
	gotLimit int
}

func (m *mockFinanceService) AddTransaction(_ context.Context, userID uint, req *dto.CreateTransactionRequest) (*model.FinancialTransaction, error) {
	m.gotUser = userID
	if m.addErr != nil {
		return nil, m.addErr
	}
	return &model.FinancialTransaction{ID: 1, Type: req.Type, Category: req.Category}, nil
}
func (m *mockFinanceService) RecentTransactions(_ context.Context, limit int) ([]model.FinancialTransaction, error) {
	m.gotLimit = limit
	return nil, nil
}

// ── Mock AnalyticsService ──

type mockAnalyticsService struct {
	service.AnalyticsService
	forecastErr error
	gotMonths   int
}

func (m *mockAnalyticsService) PredictFutureExpenses(_ context.Context, months int) (*dto.ExpenseForecast, error) {
	m.gotMonths = months
	return nil, m.forecastErr
}
func (m *mockAnalyticsService) SimpleRegression(x, y []float64) (*mlkit.LinearRegression, error) {
	return mlkit.FitLinear(x, y)
}
func (m *mockAnalyticsService) DescribeData(data []byte) (*mlkit.DatasetAnalysis, error) {
	f, err := mlkit.ParseFrame(data)
	if err != nil {
		return nil, err
	}
	return mlkit.Analyze(f)
}

// ── Mock ExperimentService ──

type mockExperimentService struct {
	service.ExperimentService
	deleted    bool
	analyzeErr error
}

func (m *mockExperimentService) AnalyzeExperiment(_ context.Context, _, _ uint) (*mlkit.DatasetAnalysis, error) {
	if m.analyzeErr != nil {
		return nil, m.analyzeErr
	}
	return &mlkit.DatasetAnalysis{Rows: 3}, nil
}

func (m *mockExperimentService) DeleteExperiment(_ context.Context, _, _ uint) (bool, error) {
	return m.deleted, nil
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set("user_id", uint(7))
	c.Set("username", "alice")
	c.Set("role", "admin")
	c.Set("claims", &jwt.Claims{UserID: 7, Username: "alice", Role: "admin", TokenType: jwt.TokenTypeAccess})
}

// withAuth 模拟 JWT 中间件已注入用户信息
func withAuth(fn gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAuth(c)
		fn(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    1800,
		},
	}
	h := NewAuthHandler(mock, nil)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Username: "alice", Password: "Test1234"}))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("期望 code=0，实际 %d", resp.Code)
	}

	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" {
			found = true
			if c.Value != "test-refresh-token" {
				t.Errorf("Cookie 值不符合预期: %s", c.Value)
			}
			if !c.HttpOnly {
				t.Error("refresh_token Cookie 应为 HttpOnly")
			}
		}
	}
	if !found {
		t.Error("登录成功后应写入 refresh_token Cookie")
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", bytes.NewReader([]byte("invalid json")))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials}, nil)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Username: "alice", Password: "wrong"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("期望错误码 11001，实际 %d", resp.Code)
	}
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrUsernameTaken}, nil)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	w := serve(r, "POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@lab.cn",
		Password: "Test12345",
	}))

	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，实际 %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_FromCookie(t *testing.T) {
	mock := &mockAuthService{
		refreshResult: &dto.TokenResponse{AccessToken: "new-access", RefreshToken: "new-refresh"},
	}
	h := NewAuthHandler(mock, nil)

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-refresh"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if mock.gotRefresh != "cookie-refresh" {
		t.Errorf("应使用 Cookie 中的 refresh token，实际=%q", mock.gotRefresh)
	}
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	w := serve(r, "POST", "/auth/refresh", jsonBody(map[string]string{}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_Revoked(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrTokenRevoked}, nil)

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	w := serve(r, "POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{RefreshToken: "old"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11006 {
		t.Errorf("期望错误码 11006，实际 %d", resp.Code)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock, nil)

	r := gin.New()
	r.POST("/auth/logout", withAuth(h.Logout))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "to-revoke"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if mock.gotClaims == nil || mock.gotClaims.UserID != 7 {
		t.Error("应把当前 Access Token 的声明传给注销逻辑")
	}
	if mock.gotRefresh != "to-revoke" {
		t.Errorf("应一并注销 Cookie 中的 refresh token，实际=%q", mock.gotRefresh)
	}

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("登出后应清除 refresh_token Cookie")
	}
}

func TestAuthHandler_Logout_NoClaims(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	w := serve(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("未经认证中间件时期望 401，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// InventoryHandler Tests
// ═══════════════════════════════════════════════════════════

func TestInventoryHandler_GetItem(t *testing.T) {
	mock := &mockInventoryService{item: &model.InventoryItem{ID: 3, Name: "烧杯", Quantity: 20}}
	h := NewInventoryHandler(mock)

	r := gin.New()
	r.GET("/items/:id", h.GetItem)
	w := serve(r, "GET", "/items/3", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if mock.gotID != 3 {
		t.Errorf("期望查询 ID=3，实际 %d", mock.gotID)
	}
}

func TestInventoryHandler_GetItem_NotFound(t *testing.T) {
	h := NewInventoryHandler(&mockInventoryService{getErr: service.ErrItemNotFound})

	r := gin.New()
	r.GET("/items/:id", h.GetItem)
	w := serve(r, "GET", "/items/99", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 30001 {
		t.Errorf("期望错误码 30001，实际 %d", resp.Code)
	}
}

func TestInventoryHandler_GetItem_BadID(t *testing.T) {
	h := NewInventoryHandler(&mockInventoryService{})

	r := gin.New()
	r.GET("/items/:id", h.GetItem)

	for _, id := range []string{"abc", "0", "-1"} {
		w := serve(r, "GET", "/items/"+id, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("id=%s 期望 400，实际 %d", id, w.Code)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// FinanceHandler Tests
// ═══════════════════════════════════════════════════════════

func newTransactionBody() io.Reader {
	return jsonBody(map[string]interface{}{
		"type":     "支出",
		"amount":   "12.50",
		"category": "耗材",
		"date":     "2026-04-01",
	})
}

func TestFinanceHandler_AddTransaction(t *testing.T) {
	mock := &mockFinanceService{}
	h := NewFinanceHandler(mock)

	r := gin.New()
	r.POST("/transactions", withAuth(h.AddTransaction))
	w := serve(r, "POST", "/transactions", newTransactionBody())

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际 %d，body=%s", w.Code, w.Body.String())
	}
	if mock.gotUser != 7 {
		t.Errorf("应记录当前用户 ID=7，实际 %d", mock.gotUser)
	}
}

func TestFinanceHandler_AddTransaction_Unauthenticated(t *testing.T) {
	h := NewFinanceHandler(&mockFinanceService{})

	r := gin.New()
	r.POST("/transactions", h.AddTransaction)
	w := serve(r, "POST", "/transactions", newTransactionBody())

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
}

func TestFinanceHandler_AddTransaction_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"金额为负", service.ErrInvalidAmount, http.StatusBadRequest, 40001},
		{"约束冲突", fmt.Errorf("insert: %w", pkgerrors.ErrConstraint), http.StatusConflict, response.CodeBadRequest},
		{"数据库不可用", pkgerrors.ErrUnavailable, http.StatusServiceUnavailable, response.CodeUnavailable},
		{"未知错误", errors.New("boom"), http.StatusInternalServerError, response.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewFinanceHandler(&mockFinanceService{addErr: tt.err})

			r := gin.New()
			r.POST("/transactions", withAuth(h.AddTransaction))
			w := serve(r, "POST", "/transactions", newTransactionBody())

			if w.Code != tt.wantHTTP {
				t.Errorf("期望 HTTP %d，实际 %d", tt.wantHTTP, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("期望错误码 %d，实际 %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestFinanceHandler_RecentTransactions_LimitRange(t *testing.T) {
	mock := &mockFinanceService{}
	h := NewFinanceHandler(mock)

	r := gin.New()
	r.GET("/transactions", h.RecentTransactions)

	w := serve(r, "GET", "/transactions?limit=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if mock.gotLimit != 5 {
		t.Errorf("期望 limit=5，实际 %d", mock.gotLimit)
	}

	w = serve(r, "GET", "/transactions?limit=1000", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("limit 超出上限时期望 400，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AnalyticsHandler / ExperimentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAnalyticsHandler_ExpenseForecast_InsufficientData(t *testing.T) {
	mock := &mockAnalyticsService{forecastErr: mlkit.ErrInsufficientData}
	h := NewAnalyticsHandler(mock, nil)

	r := gin.New()
	r.GET("/forecast", h.ExpenseForecast)
	w := serve(r, "GET", "/forecast?months=6", nil)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("期望 422，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != response.CodeInsufficientData {
		t.Errorf("期望错误码 %d，实际 %d", response.CodeInsufficientData, resp.Code)
	}
	if mock.gotMonths != 6 {
		t.Errorf("期望 months=6，实际 %d", mock.gotMonths)
	}
}

func TestAnalyticsHandler_Regression(t *testing.T) {
	h := NewAnalyticsHandler(&mockAnalyticsService{}, nil)

	r := gin.New()
	r.POST("/regression", h.Regression)

	w := serve(r, "POST", "/regression", jsonBody(dto.RegressionRequest{
		X: []float64{1, 2, 3},
		Y: []float64{2, 4, 6},
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}

	var body struct {
		Data mlkit.LinearRegression `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if body.Data.Slope < 1.999 || body.Data.Slope > 2.001 {
		t.Errorf("期望斜率约为 2，实际 %v", body.Data.Slope)
	}

	w = serve(r, "POST", "/regression", jsonBody(dto.RegressionRequest{
		X: []float64{1, 2, 3},
		Y: []float64{2, 4},
	}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("x、y 长度不一致时期望 400，实际 %d", w.Code)
	}
}

func TestAnalyticsHandler_Regression_ConstantX(t *testing.T) {
	h := NewAnalyticsHandler(&mockAnalyticsService{}, nil)

	r := gin.New()
	r.POST("/regression", h.Regression)

	w := serve(r, "POST", "/regression", jsonBody(dto.RegressionRequest{
		X: []float64{3, 3, 3},
		Y: []float64{1, 2, 3},
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}

	var body struct {
		Code int                    `json:"code"`
		Data mlkit.LinearRegression `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应不是合法 JSON: %v, body=%s", err, w.Body.String())
	}
	if body.Code != 0 {
		t.Errorf("期望 code=0，实际 %d", body.Code)
	}
	if body.Data.Slope != 0 || body.Data.Intercept != 2 {
		t.Errorf("期望 slope=0 intercept=2，实际 %+v", body.Data)
	}
}

func TestAnalyticsHandler_Describe(t *testing.T) {
	h := NewAnalyticsHandler(&mockAnalyticsService{}, nil)

	r := gin.New()
	r.POST("/describe", h.Describe)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"记录数组", `{"data":[{"x":1,"y":2},{"x":2,"y":4},{"x":3,"y":7}]}`, http.StatusOK},
		{"常数列", `{"data":{"x":[1,1,1]}}`, http.StatusOK},
		{"格式错误", `{"data":"1,2,3"}`, http.StatusBadRequest},
		{"没有数值列", `{"data":[{"name":"a"}]}`, http.StatusUnprocessableEntity},
		{"缺少 data", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, "POST", "/describe", bytes.NewBufferString(tt.body))
			if w.Code != tt.wantCode {
				t.Fatalf("期望 %d，实际 %d, body=%s", tt.wantCode, w.Code, w.Body.String())
			}
			if !json.Valid(w.Body.Bytes()) {
				t.Errorf("响应不是合法 JSON: %s", w.Body.String())
			}
		})
	}
}

func TestExperimentHandler_AnalyzeExperiment(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBiz  int
	}{
		{"成功", nil, http.StatusOK, 0},
		{"他人或不存在", service.ErrExperimentNotFound, http.StatusNotFound, 51002},
		{"数据格式错误", mlkit.ErrMalformedData, http.StatusBadRequest, response.CodeBadRequest},
		{"数据不足", mlkit.ErrInsufficientData, http.StatusUnprocessableEntity, response.CodeInsufficientData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewExperimentHandler(&mockExperimentService{analyzeErr: tt.err})
			r := gin.New()
			r.GET("/experiments/:id/analysis", withAuth(h.AnalyzeExperiment))

			w := serve(r, "GET", "/experiments/3/analysis", nil)
			if w.Code != tt.wantCode {
				t.Fatalf("期望 %d，实际 %d", tt.wantCode, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantBiz {
				t.Errorf("期望错误码 %d，实际 %d", tt.wantBiz, resp.Code)
			}
		})
	}
}

func TestExperimentHandler_DeleteExperiment(t *testing.T) {
	h := NewExperimentHandler(&mockExperimentService{deleted: false})

	r := gin.New()
	r.DELETE("/experiments/:id", withAuth(h.DeleteExperiment))
	w := serve(r, "DELETE", "/experiments/5", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	var body struct {
		Data dto.DeleteResult `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Deleted {
		t.Error("删除他人记录时 deleted 应为 false")
	}
}

// ═══════════════════════════════════════════════════════════
// PublicHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPublicHandler_Root(t *testing.T) {
	h := NewPublicHandler(&service.Service{})

	r := gin.New()
	r.GET("/", h.Root)
	w := serve(r, "GET", "/", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["message"] != "Welcome to the Laboratory Management System API" {
		t.Errorf("欢迎语不符合预期: %v", body)
	}
}

func TestPublicHandler_Inventory_BareJSON(t *testing.T) {
	svc := &service.Service{Inventory: &mockInventoryService{
		items: []model.InventoryItem{{ID: 1, Name: "烧杯", Quantity: 20, Unit: "个"}},
	}}
	h := NewPublicHandler(svc)

	r := gin.New()
	r.GET("/inventory", h.Inventory)
	w := serve(r, "GET", "/inventory", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	var items []model.InventoryItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("公开接口应直接返回数组: %v", err)
	}
	if len(items) != 1 || items[0].Name != "烧杯" {
		t.Errorf("返回内容不符合预期: %+v", items)
	}
}

func TestPublicHandler_Inventory_Unavailable(t *testing.T) {
	svc := &service.Service{Inventory: &mockInventoryService{listErr: pkgerrors.ErrUnavailable}}
	h := NewPublicHandler(svc)

	r := gin.New()
	r.GET("/inventory", h.Inventory)
	w := serve(r, "GET", "/inventory", nil)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("期望 503，实际 %d", w.Code)
	}
}
