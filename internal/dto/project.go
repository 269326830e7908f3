package dto

import (
	"github.com/shopspring/decimal"

	"github.com/guoyuhou/NewLab/internal/model"
)

// ── 项目模块 DTO ──

// CreateProjectRequest 新建项目
type CreateProjectRequest struct {
	Name        string          `json:"name"        binding:"required,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	StartDate   string          `json:"start_date"  binding:"required,datetime=2006-01-02"`
	EndDate     string          `json:"end_date"    binding:"required,datetime=2006-01-02"`
	Budget      decimal.Decimal `json:"budget"`
	TeamSize    int             `json:"team_size"   binding:"omitempty,min=1"`
}

// UpdateStatusRequest 更新项目或任务状态
type UpdateStatusRequest struct {
	Status     string           `json:"status" binding:"required,max=20"`
	ActualCost *decimal.Decimal `json:"actual_cost"`
}

// CreateTaskRequest 新增任务
type CreateTaskRequest struct {
	Description string `json:"description" binding:"required"`
}

// CreateTodoRequest 新增待办
type CreateTodoRequest struct {
	Description string `json:"description" binding:"required"`
}

// CreateNotificationRequest 发送通知
type CreateNotificationRequest struct {
	UserID  uint   `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// PublicProject 公开接口的项目视图
type PublicProject struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

// ProjectReport 项目进展报告
type ProjectReport struct {
	Total    int                    `json:"total"`
	ByStatus map[string]int         `json:"by_status"`
	Projects []model.ProjectSummary `json:"projects"`
}
