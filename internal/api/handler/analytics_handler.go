package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// AnalyticsHandler 预测分析与提醒 HTTP 处理器
type AnalyticsHandler struct {
	analytics    service.AnalyticsService
	notification service.NotificationService
}

// NewAnalyticsHandler 创建 AnalyticsHandler
func NewAnalyticsHandler(analytics service.AnalyticsService, notification service.NotificationService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, notification: notification}
}

// ── 预测分析 ──

// ExpenseForecast 未来若干个月支出预测
// GET /api/v1/analytics/expenses/forecast?months=3
func (h *AnalyticsHandler) ExpenseForecast(c *gin.Context) {
	var q dto.ForecastQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	forecast, err := h.analytics.PredictFutureExpenses(c.Request.Context(), q.Months)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, forecast)
}

// InventoryForecast 各物品下月需求预测
// GET /api/v1/analytics/inventory/forecast
func (h *AnalyticsHandler) InventoryForecast(c *gin.Context) {
	list, err := h.analytics.PredictInventoryNeeds(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ProjectSuccess GET /api/v1/analytics/projects/success
func (h *AnalyticsHandler) ProjectSuccess(c *gin.Context) {
	result, err := h.analytics.AnalyzeProjectSuccess(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, result)
}

// UserBehavior GET /api/v1/analytics/users/behavior
func (h *AnalyticsHandler) UserBehavior(c *gin.Context) {
	result, err := h.analytics.AnalyzeUserBehavior(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, result)
}

// Regression 一元线性回归
// POST /api/v1/analytics/regression
func (h *AnalyticsHandler) Regression(c *gin.Context) {
	var req dto.RegressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	if len(req.X) != len(req.Y) {
		response.BadRequest(c, response.CodeBadRequest, "x 与 y 长度必须一致")
		return
	}

	model, err := h.analytics.SimpleRegression(req.X, req.Y)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, model)
}

// Describe 描述性统计、相关矩阵与分组 t 检验
// POST /api/v1/analytics/describe
func (h *AnalyticsHandler) Describe(c *gin.Context) {
	var req dto.DescribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.analytics.DescribeData(req.Data)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, result)
}

// Insights 汇总各项分析的文字结论
// GET /api/v1/analytics/insights
func (h *AnalyticsHandler) Insights(c *gin.Context) {
	list, err := h.analytics.GenerateInsights(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ── 提醒与首页 ──

// Notifications 低库存、预算超支、项目到期提醒
// GET /api/v1/notifications/alerts
func (h *AnalyticsHandler) Notifications(c *gin.Context) {
	list, err := h.notification.GenerateNotifications(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ExpiringProjects 即将到期的项目
// GET /api/v1/projects/expiring?days=7
func (h *AnalyticsHandler) ExpiringProjects(c *gin.Context) {
	var q dto.UpcomingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.notification.ExpiringProjects(c.Request.Context(), q.Days)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Dashboard 个人首页
// GET /api/v1/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	dash, err := h.notification.Dashboard(c.Request.Context(), userID)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, dash)
}
