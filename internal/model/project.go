package model

import (
	"time"

	"github.com/guregu/null/v5"
	"github.com/shopspring/decimal"
)

// 项目与任务状态
const (
	StatusInProgress = "进行中"
	StatusCompleted  = "已完成"
)

// Project 科研项目，对应 projects
type Project struct {
	ID          uint            `gorm:"primaryKey"                  json:"id"`
	UserID      uint            `gorm:"not null;index"              json:"user_id"`
	Name        string          `gorm:"type:varchar(200);not null"  json:"name"`
	Description string          `gorm:"type:text"                   json:"description"`
	StartDate   time.Time       `gorm:"not null"                    json:"start_date"`
	EndDate     time.Time       `gorm:"not null"                    json:"end_date"`
	Status      string          `gorm:"type:varchar(20);not null"   json:"status"`
	Budget      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"budget"`
	ActualCost  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"actual_cost"`
	TeamSize    int             `gorm:"not null;default:1"          json:"team_size"`
	CompletedAt null.Time       `json:"completed_at"`
	BaseModel
}

// TableName 指定表名
func (Project) TableName() string { return "projects" }

// Task 项目任务，对应 tasks
type Task struct {
	ID          uint      `gorm:"primaryKey"                json:"id"`
	ProjectID   uint      `gorm:"not null;index"            json:"project_id"`
	Description string    `gorm:"type:text;not null"        json:"description"`
	Status      string    `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime"   json:"created_at"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }

// Todo 个人待办，对应 todos
type Todo struct {
	ID          uint      `gorm:"primaryKey"              json:"id"`
	UserID      uint      `gorm:"not null;index"          json:"user_id"`
	Description string    `gorm:"type:text;not null"      json:"description"`
	Completed   bool      `gorm:"not null;default:false"  json:"completed"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (Todo) TableName() string { return "todos" }

// Notification 通知消息，对应 notifications
type Notification struct {
	ID        uint      `gorm:"primaryKey"              json:"id"`
	UserID    uint      `gorm:"not null;index"          json:"user_id"`
	Message   string    `gorm:"type:text;not null"      json:"message"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// ProjectSummary 项目及其任务完成情况（聚合查询结果）
type ProjectSummary struct {
	Project
	TotalTasks     int64 `json:"total_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
}
