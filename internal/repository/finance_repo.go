package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/guoyuhou/NewLab/internal/model"
)

// FinanceRepository 收支与预算数据访问接口
type FinanceRepository interface {
	Create(ctx context.Context, tx *model.FinancialTransaction) error
	// Recent 按日期倒序返回最近 limit 条，limit<=0 时返回全部
	Recent(ctx context.Context, limit int) ([]model.FinancialTransaction, error)
	// Delete 返回实际删除的行数，不存在的 ID 返回 0 而非错误
	Delete(ctx context.Context, id uint) (int64, error)
	// Sum 某类型的金额合计，category 为空时不限类别
	Sum(ctx context.Context, txType, category string) (decimal.Decimal, error)
	ExpenseByCategory(ctx context.Context) ([]model.CategoryTotal, error)

	ListBudgets(ctx context.Context) ([]model.Budget, error)
	UpsertBudget(ctx context.Context, budget *model.Budget) error
}

type financeRepo struct {
	db *gorm.DB
}

// NewFinanceRepo 创建 FinanceRepository 实例
func NewFinanceRepo(db *gorm.DB) FinanceRepository {
	return &financeRepo{db: db}
}

func (r *financeRepo) Create(ctx context.Context, tx *model.FinancialTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *financeRepo) Recent(ctx context.Context, limit int) ([]model.FinancialTransaction, error) {
	var txs []model.FinancialTransaction
	db := r.db.WithContext(ctx).Order("date DESC, id DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Find(&txs).Error
	return txs, err
}

func (r *financeRepo) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.FinancialTransaction{}, id)
	return res.RowsAffected, res.Error
}

func (r *financeRepo) Sum(ctx context.Context, txType, category string) (decimal.Decimal, error) {
	var total decimal.Decimal
	db := r.db.WithContext(ctx).
		Model(&model.FinancialTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("type = ?", txType)
	if category != "" {
		db = db.Where("category = ?", category)
	}
	err := db.Row().Scan(&total)
	return total, err
}

func (r *financeRepo) ExpenseByCategory(ctx context.Context) ([]model.CategoryTotal, error) {
	var rows []model.CategoryTotal
	err := r.db.WithContext(ctx).
		Model(&model.FinancialTransaction{}).
		Select("category, SUM(amount) AS total").
		Where("type = ?", model.TransactionExpense).
		Group("category").
		Order("category ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *financeRepo) ListBudgets(ctx context.Context) ([]model.Budget, error) {
	var budgets []model.Budget
	err := r.db.WithContext(ctx).Order("category ASC").Find(&budgets).Error
	return budgets, err
}

func (r *financeRepo) UpsertBudget(ctx context.Context, budget *model.Budget) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount"}),
		}).
		Create(budget).Error
}
