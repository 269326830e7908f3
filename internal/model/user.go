package model

// User 用户表，对应 users
type User struct {
	ID           uint   `gorm:"primaryKey"                                 json:"id"`
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"     json:"username"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                 json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'guest'" json:"role"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// UserActivity 用户活跃度统计（非表结构）
type UserActivity struct {
	UserID                uint   `json:"user_id"`
	Username              string `json:"username"`
	FinancialTransactions int64  `json:"financial_transactions"`
	EventsCreated         int64  `json:"events_created"`
	InventoryUsages       int64  `json:"inventory_usages"`
	CompletedTrainings    int64  `json:"completed_trainings"`
}
