package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// ExperimentHandler 实验记录、报告与分析历史 HTTP 处理器
type ExperimentHandler struct {
	svc service.ExperimentService
}

// NewExperimentHandler 创建 ExperimentHandler
func NewExperimentHandler(svc service.ExperimentService) *ExperimentHandler {
	return &ExperimentHandler{svc: svc}
}

// ────────────────────── 实验记录 ──────────────────────

// CreateExperiment POST /api/v1/experiments
func (h *ExperimentHandler) CreateExperiment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	exp, err := h.svc.CreateExperiment(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleExperimentError(c, err)
		return
	}
	response.Created(c, exp)
}

// ListExperiments GET /api/v1/experiments
func (h *ExperimentHandler) ListExperiments(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.ListExperiments(c.Request.Context(), userID)
	if err != nil {
		h.handleExperimentError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetExperiment GET /api/v1/experiments/:id
func (h *ExperimentHandler) GetExperiment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	exp, err := h.svc.GetExperiment(c.Request.Context(), id, userID)
	if err != nil {
		h.handleExperimentError(c, err)
		return
	}
	response.OK(c, exp)
}

// AnalyzeExperiment 对实验数据做统计分析
// GET /api/v1/experiments/:id/analysis
func (h *ExperimentHandler) AnalyzeExperiment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.AnalyzeExperiment(c.Request.Context(), id, userID)
	if err != nil {
		h.handleExperimentError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteExperiment 只删除本人的记录，data.deleted 表示是否命中
// DELETE /api/v1/experiments/:id
func (h *ExperimentHandler) DeleteExperiment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.svc.DeleteExperiment(c.Request.Context(), id, userID)
	if err != nil {
		h.handleExperimentError(c, err)
		return
	}
	response.OK(c, dto.DeleteResult{Deleted: deleted})
}

// ────────────────────── 报告 ──────────────────────

// SaveReport POST /api/v1/reports
func (h *ExperimentHandler) SaveReport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SaveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	r, err := h.svc.SaveReport(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleExperimentError(c, err)
		return
	}
	response.Created(c, r)
}

// HistoricalReports GET /api/v1/reports
func (h *ExperimentHandler) HistoricalReports(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.HistoricalReports(c.Request.Context(), userID)
	if err != nil {
		h.handleExperimentError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// MonthlyReport 生成当月报告（不保存）
// GET /api/v1/reports/monthly
func (h *ExperimentHandler) MonthlyReport(c *gin.Context) {
	report, err := h.svc.MonthlyReport(c.Request.Context())
	if err != nil {
		h.handleExperimentError(c, err)
		return
	}
	response.OK(c, report)
}

// SaveMonthlyReport 生成当月报告并保存到历史
// POST /api/v1/reports/monthly
func (h *ExperimentHandler) SaveMonthlyReport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	r, err := h.svc.SaveMonthlyReport(c.Request.Context(), userID)
	if err != nil {
		h.handleExperimentError(c, err)
		return
	}
	response.Created(c, r)
}

// ────────────────────── 分析历史 ──────────────────────

// SaveAnalysis POST /api/v1/analyses
func (h *ExperimentHandler) SaveAnalysis(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SaveAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	rec, err := h.svc.SaveAnalysis(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleExperimentError(c, err)
		return
	}
	response.Created(c, rec)
}

// AnalysisHistory GET /api/v1/analyses
func (h *ExperimentHandler) AnalysisHistory(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.AnalysisHistory(c.Request.Context(), userID)
	if err != nil {
		h.handleExperimentError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

func (h *ExperimentHandler) handleExperimentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 51001, "日期格式错误，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrExperimentNotFound):
		response.NotFound(c, 51002, "实验记录不存在")
	default:
		handleCommonError(c, err)
	}
}
