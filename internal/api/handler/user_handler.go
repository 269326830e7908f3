package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetCurrentUser 获取当前用户信息（含权限列表）
// GET /api/v1/users/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// ListUsers 用户列表
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	req.Normalize()

	users, total, err := h.userSvc.ListUsers(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OKPage(c, users, total, req.Page, req.PageSize)
}

// GetUser 用户详情
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userSvc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// AssignRole 分配角色
// PUT /api/v1/users/:id/role
func (h *UserHandler) AssignRole(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if err := h.userSvc.AssignRole(c.Request.Context(), id, req.Role, callerID); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetPermissions 用户权限列表
// GET /api/v1/users/:id/permissions
func (h *UserHandler) GetPermissions(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	perms, err := h.userSvc.GetUserPermissions(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, gin.H{"list": perms})
}

// CheckPermission 检查用户是否拥有指定权限
// GET /api/v1/users/:id/permissions/:perm
func (h *UserHandler) CheckPermission(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	perm := c.Param("perm")

	allowed, err := h.userSvc.UserHasPermission(c.Request.Context(), id, perm)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, dto.PermissionCheckResponse{Permission: perm, Allowed: allowed})
}

// UserActivity 用户活跃度排行
// GET /api/v1/users/activity
func (h *UserHandler) UserActivity(c *gin.Context) {
	list, err := h.userSvc.UserActivity(c.Request.Context())
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ActivityReport 用户活跃度明细
// GET /api/v1/users/activity/report
func (h *UserHandler) ActivityReport(c *gin.Context) {
	list, err := h.userSvc.UserActivityReport(c.Request.Context())
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// TrainingCompletion 安全培训完成情况
// GET /api/v1/users/training-completion
func (h *UserHandler) TrainingCompletion(c *gin.Context) {
	list, err := h.userSvc.SafetyTrainingCompletion(c.Request.Context())
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// handleUserError 统一处理用户模块业务错误
func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "用户不存在")
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 20002, "无效的角色")
	case errors.Is(err, service.ErrUnknownPermission):
		response.BadRequest(c, 20003, "未知的权限")
	case errors.Is(err, service.ErrUserSelfRoleChange):
		response.Forbidden(c, 20004, "不能修改自己的角色")
	default:
		handleCommonError(c, err)
	}
}
