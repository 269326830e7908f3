package dto

import (
	"github.com/shopspring/decimal"

	"github.com/guoyuhou/NewLab/internal/model"
)

// ── 财务模块 DTO ──

// CreateTransactionRequest 新增收支记录
// Type 接受 income / expense，也接受中文 收入 / 支出
type CreateTransactionRequest struct {
	Type        string          `json:"type"        binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"    binding:"required,max=100"`
	Description string          `json:"description" binding:"max=1000"`
	Date        string          `json:"date"        binding:"required,datetime=2006-01-02"`
}

// SetBudgetRequest 设置分类预算
type SetBudgetRequest struct {
	Category string          `json:"category" binding:"required,max=100"`
	Amount   decimal.Decimal `json:"amount"`
}

// FinancialSummary 收支汇总
type FinancialSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

// MonthlyTrend 单月收支
type MonthlyTrend struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// BudgetUsage 预算及已用金额
type BudgetUsage struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Used     decimal.Decimal `json:"used"`
}

// FinancialReport 财务报告
type FinancialReport struct {
	Summary             FinancialSummary      `json:"summary"`
	ExpenseDistribution []model.CategoryTotal `json:"expense_distribution"`
	MonthlyTrend        []MonthlyTrend        `json:"monthly_trend"`
	Budgets             []BudgetUsage         `json:"budgets"`
}
