package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/config"
	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/repository"
)

// ── 财务模块业务错误 ──

var (
	ErrInvalidAmount = errors.New("金额不能为负数")
	ErrInvalidDate   = errors.New("日期格式错误，应为 YYYY-MM-DD")
)

// incomeLabel 中文收入标记，其余类型一律视为支出
const incomeLabel = "收入"

// FinanceService 财务业务接口
type FinanceService interface {
	AddTransaction(ctx context.Context, userID uint, req *dto.CreateTransactionRequest) (*model.FinancialTransaction, error)
	RecentTransactions(ctx context.Context, limit int) ([]model.FinancialTransaction, error)
	// DeleteTransaction 不存在的记录同样视为删除成功
	DeleteTransaction(ctx context.Context, id uint) error
	Summary(ctx context.Context) (*dto.FinancialSummary, error)
	ExpenseDistribution(ctx context.Context) ([]model.CategoryTotal, error)
	MonthlyTrend(ctx context.Context) ([]dto.MonthlyTrend, error)
	ListBudgets(ctx context.Context) ([]dto.BudgetUsage, error)
	SetBudget(ctx context.Context, req *dto.SetBudgetRequest) error
	FinancialReport(ctx context.Context) (*dto.FinancialReport, error)
}

type financeService struct {
	repo   *repository.Repository
	cfg    *config.AnalyticsConfig
	logger *zap.Logger
}

// NewFinanceService 创建 FinanceService 实例
func NewFinanceService(repo *repository.Repository, cfg *config.AnalyticsConfig, logger *zap.Logger) FinanceService {
	return &financeService{repo: repo, cfg: cfg, logger: logger}
}

// normalizeTransactionType 收入/income 归为收入，其余归为支出
func normalizeTransactionType(t string) string {
	t = strings.TrimSpace(t)
	if t == incomeLabel || strings.EqualFold(t, model.TransactionIncome) {
		return model.TransactionIncome
	}
	return model.TransactionExpense
}

// ────────────────────── AddTransaction ──────────────────────

func (s *financeService) AddTransaction(ctx context.Context, userID uint, req *dto.CreateTransactionRequest) (*model.FinancialTransaction, error) {
	if req.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	date, err := time.ParseInLocation(model.DateLayout, req.Date, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}

	tx := &model.FinancialTransaction{
		UserID:      userID,
		Type:        normalizeTransactionType(req.Type),
		Amount:      req.Amount.Round(2),
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		Date:        date,
	}
	if err := s.repo.Finance.Create(ctx, tx); err != nil {
		s.logger.Error("新增收支记录失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return tx, nil
}

// ────────────────────── RecentTransactions ──────────────────────

func (s *financeService) RecentTransactions(ctx context.Context, limit int) ([]model.FinancialTransaction, error) {
	if limit <= 0 {
		limit = s.cfg.RecentTransactions
	}
	txs, err := s.repo.Finance.Recent(ctx, limit)
	if err != nil {
		s.logger.Error("查询收支记录失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return txs, nil
}

// ────────────────────── DeleteTransaction ──────────────────────

func (s *financeService) DeleteTransaction(ctx context.Context, id uint) error {
	n, err := s.repo.Finance.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除收支记录失败", zap.Uint("id", id), zap.Error(err))
		return classify(err, nil)
	}
	if n == 0 {
		s.logger.Debug("删除的收支记录不存在", zap.Uint("id", id))
	}
	return nil
}

// ────────────────────── Summary ──────────────────────

func (s *financeService) Summary(ctx context.Context) (*dto.FinancialSummary, error) {
	income, err := s.repo.Finance.Sum(ctx, model.TransactionIncome, "")
	if err != nil {
		s.logger.Error("汇总收入失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	expense, err := s.repo.Finance.Sum(ctx, model.TransactionExpense, "")
	if err != nil {
		s.logger.Error("汇总支出失败", zap.Error(err))
		return nil, classify(err, nil)
	}

	return &dto.FinancialSummary{
		TotalIncome:  income.Round(2),
		TotalExpense: expense.Round(2),
		Balance:      income.Sub(expense).Round(2),
	}, nil
}

// ────────────────────── ExpenseDistribution ──────────────────────

func (s *financeService) ExpenseDistribution(ctx context.Context) ([]model.CategoryTotal, error) {
	rows, err := s.repo.Finance.ExpenseByCategory(ctx)
	if err != nil {
		s.logger.Error("统计支出分布失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	for i := range rows {
		rows[i].Total = rows[i].Total.Round(2)
	}
	return rows, nil
}

// ────────────────────── MonthlyTrend ──────────────────────

// MonthlyTrend 按 YYYY-MM 汇总收支，月份升序，只包含有记录的月份
func (s *financeService) MonthlyTrend(ctx context.Context) ([]dto.MonthlyTrend, error) {
	txs, err := s.repo.Finance.Recent(ctx, 0)
	if err != nil {
		s.logger.Error("查询收支记录失败", zap.Error(err))
		return nil, classify(err, nil)
	}

	buckets := make(map[string]*dto.MonthlyTrend)
	for _, tx := range txs {
		key := tx.Date.UTC().Format(model.MonthLayout)
		b, ok := buckets[key]
		if !ok {
			b = &dto.MonthlyTrend{Month: key}
			buckets[key] = b
		}
		if tx.Type == model.TransactionIncome {
			b.Income = b.Income.Add(tx.Amount)
		} else {
			b.Expense = b.Expense.Add(tx.Amount)
		}
	}

	trend := lo.Map(lo.Values(buckets), func(b *dto.MonthlyTrend, _ int) dto.MonthlyTrend {
		return *b
	})
	sort.Slice(trend, func(i, j int) bool { return trend[i].Month < trend[j].Month })
	return trend, nil
}

// ────────────────────── Budgets ──────────────────────

// ListBudgets 每个预算类别及其已发生的支出
func (s *financeService) ListBudgets(ctx context.Context) ([]dto.BudgetUsage, error) {
	budgets, err := s.repo.Finance.ListBudgets(ctx)
	if err != nil {
		s.logger.Error("查询预算失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	spent, err := s.repo.Finance.ExpenseByCategory(ctx)
	if err != nil {
		s.logger.Error("统计支出分布失败", zap.Error(err))
		return nil, classify(err, nil)
	}

	used := lo.SliceToMap(spent, func(c model.CategoryTotal) (string, decimal.Decimal) {
		return c.Category, c.Total
	})
	return lo.Map(budgets, func(b model.Budget, _ int) dto.BudgetUsage {
		return dto.BudgetUsage{
			Category: b.Category,
			Amount:   b.Amount.Round(2),
			Used:     used[b.Category].Round(2),
		}
	}), nil
}

func (s *financeService) SetBudget(ctx context.Context, req *dto.SetBudgetRequest) error {
	if req.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	budget := &model.Budget{
		Category: strings.TrimSpace(req.Category),
		Amount:   req.Amount.Round(2),
	}
	if err := s.repo.Finance.UpsertBudget(ctx, budget); err != nil {
		s.logger.Error("设置预算失败", zap.String("category", budget.Category), zap.Error(err))
		return classify(err, nil)
	}
	return nil
}

// ────────────────────── FinancialReport ──────────────────────

func (s *financeService) FinancialReport(ctx context.Context) (*dto.FinancialReport, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	distribution, err := s.ExpenseDistribution(ctx)
	if err != nil {
		return nil, err
	}
	trend, err := s.MonthlyTrend(ctx)
	if err != nil {
		return nil, err
	}
	budgets, err := s.ListBudgets(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.FinancialReport{
		Summary:             *summary,
		ExpenseDistribution: distribution,
		MonthlyTrend:        trend,
		Budgets:             budgets,
	}, nil
}
