package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
}

// AssignRoleRequest 分配角色请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin lab_manager researcher student guest"`
}

// PermissionCheckResponse 单项权限检查结果
type PermissionCheckResponse struct {
	Permission string `json:"permission"`
	Allowed    bool   `json:"allowed"`
}

// UserActivityScore 用户活跃度（三项计数之和）
type UserActivityScore struct {
	UserID                uint   `json:"user_id"`
	Username              string `json:"username"`
	FinancialTransactions int64  `json:"financial_transactions"`
	EventsCreated         int64  `json:"events_created"`
	InventoryUsages       int64  `json:"inventory_usages"`
	ActivityScore         int64  `json:"activity_score"`
}

// TrainingCompletion 安全培训完成情况
type TrainingCompletion struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}
