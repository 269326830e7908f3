package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 收支类型
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// FinancialTransaction 收支记录，对应 financial_transactions
type FinancialTransaction struct {
	ID          uint            `gorm:"primaryKey"                 json:"id"`
	UserID      uint            `gorm:"not null"                   json:"user_id"`
	Type        string          `gorm:"type:varchar(10);not null"  json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Category    string          `gorm:"type:varchar(100);not null" json:"category"`
	Description string          `gorm:"type:text"                  json:"description"`
	Date        time.Time       `gorm:"not null"                   json:"date"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime"    json:"created_at"`
}

// TableName 指定表名
func (FinancialTransaction) TableName() string { return "financial_transactions" }

// Budget 分类预算，对应 budgets，每个类别一行
type Budget struct {
	Category string          `gorm:"type:varchar(100);primaryKey" json:"category"`
	Amount   decimal.Decimal `gorm:"type:numeric(14,2);not null"  json:"amount"`
}

// TableName 指定表名
func (Budget) TableName() string { return "budgets" }

// CategoryTotal 按类别汇总的金额（聚合查询结果）
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}
