package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// FinanceHandler 财务模块 HTTP 处理器
type FinanceHandler struct {
	svc service.FinanceService
}

// NewFinanceHandler 创建 FinanceHandler
func NewFinanceHandler(svc service.FinanceService) *FinanceHandler {
	return &FinanceHandler{svc: svc}
}

// AddTransaction 新增收支记录
// POST /api/v1/finance/transactions
func (h *FinanceHandler) AddTransaction(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	tx, err := h.svc.AddTransaction(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.Created(c, tx)
}

// RecentTransactions 最近收支记录
// GET /api/v1/finance/transactions?limit=20
func (h *FinanceHandler) RecentTransactions(c *gin.Context) {
	var q dto.LimitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.svc.RecentTransactions(c.Request.Context(), q.Limit)
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// DeleteTransaction 删除收支记录，记录不存在同样返回成功
// DELETE /api/v1/finance/transactions/:id
func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteTransaction(c.Request.Context(), id); err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, nil)
}

// Summary 收支汇总
// GET /api/v1/finance/summary
func (h *FinanceHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, summary)
}

// ExpenseDistribution 支出分类分布
// GET /api/v1/finance/expense-distribution
func (h *FinanceHandler) ExpenseDistribution(c *gin.Context) {
	list, err := h.svc.ExpenseDistribution(c.Request.Context())
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// MonthlyTrend 按月收支趋势
// GET /api/v1/finance/monthly-trend
func (h *FinanceHandler) MonthlyTrend(c *gin.Context) {
	list, err := h.svc.MonthlyTrend(c.Request.Context())
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListBudgets 预算及使用情况
// GET /api/v1/finance/budgets
func (h *FinanceHandler) ListBudgets(c *gin.Context) {
	list, err := h.svc.ListBudgets(c.Request.Context())
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// SetBudget 设置分类预算
// PUT /api/v1/finance/budgets
func (h *FinanceHandler) SetBudget(c *gin.Context) {
	var req dto.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if err := h.svc.SetBudget(c.Request.Context(), &req); err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, nil)
}

// Report 财务报告
// GET /api/v1/finance/report
func (h *FinanceHandler) Report(c *gin.Context) {
	report, err := h.svc.FinancialReport(c.Request.Context())
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, report)
}

// handleFinanceError 统一处理财务模块业务错误
func (h *FinanceHandler) handleFinanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		response.BadRequest(c, 40001, "金额不能为负数")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 40002, "日期格式错误，应为 YYYY-MM-DD")
	default:
		handleCommonError(c, err)
	}
}
