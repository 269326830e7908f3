package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// ProjectHandler 项目、任务、待办与通知 HTTP 处理器
type ProjectHandler struct {
	svc service.ProjectService
}

// NewProjectHandler 创建 ProjectHandler
func NewProjectHandler(svc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ────────────────────── 项目 ──────────────────────

// CreateProject 新建项目
// POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	p, err := h.svc.CreateProject(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.Created(c, p)
}

// MyProjects 当前用户的项目（含任务统计）
// GET /api/v1/projects/mine
func (h *ProjectHandler) MyProjects(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.GetUserProjects(c.Request.Context(), userID)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListProjects 全部项目
// GET /api/v1/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	list, err := h.svc.ListAllProjects(c.Request.Context())
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// RecentProjects 当前用户最近的项目
// GET /api/v1/projects/recent
func (h *ProjectHandler) RecentProjects(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.RecentProjects(c.Request.Context(), userID)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Report 项目进展报告
// GET /api/v1/projects/report
func (h *ProjectHandler) Report(c *gin.Context) {
	report, err := h.svc.ProjectReport(c.Request.Context())
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, report)
}

// UpdateStatus 更新项目状态
// PUT /api/v1/projects/:id/status
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if err := h.svc.UpdateProjectStatus(c.Request.Context(), id, &req); err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 任务 ──────────────────────

// AddTask 新增任务
// POST /api/v1/projects/:id/tasks
func (h *ProjectHandler) AddTask(c *gin.Context) {
	projectID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	task, err := h.svc.AddTask(c.Request.Context(), projectID, req.Description)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.Created(c, task)
}

// ListTasks 项目任务列表
// GET /api/v1/projects/:id/tasks
func (h *ProjectHandler) ListTasks(c *gin.Context) {
	projectID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.svc.ListTasks(c.Request.Context(), projectID)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// UpdateTaskStatus 更新任务状态
// PUT /api/v1/tasks/:id/status
func (h *ProjectHandler) UpdateTaskStatus(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if err := h.svc.UpdateTaskStatus(c.Request.Context(), id, req.Status); err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 待办 ──────────────────────

// AddTodo 新增待办
// POST /api/v1/todos
func (h *ProjectHandler) AddTodo(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	todo, err := h.svc.AddTodo(c.Request.Context(), userID, req.Description)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.Created(c, todo)
}

// ListTodos 未完成的待办
// GET /api/v1/todos
func (h *ProjectHandler) ListTodos(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.ListOpenTodos(c.Request.Context(), userID)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CompleteTodo 完成待办
// PUT /api/v1/todos/:id/complete
func (h *ProjectHandler) CompleteTodo(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.CompleteTodo(c.Request.Context(), id, userID); err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 通知 ──────────────────────

// SendNotification 向指定用户发送通知
// POST /api/v1/notifications
func (h *ProjectHandler) SendNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	n, err := h.svc.AddNotification(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.Created(c, n)
}

// RecentNotifications 当前用户最近的通知
// GET /api/v1/notifications
func (h *ProjectHandler) RecentNotifications(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.RecentNotifications(c.Request.Context(), userID)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// handleProjectError 统一处理项目模块业务错误
func (h *ProjectHandler) handleProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, 50001, "项目不存在")
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 50002, "任务不存在")
	case errors.Is(err, service.ErrTodoNotFound):
		response.NotFound(c, 50003, "待办不存在")
	case errors.Is(err, service.ErrRecipientNotFound):
		response.NotFound(c, 50004, "通知接收人不存在")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 50005, "日期格式错误，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 50006, "结束日期不能早于开始日期")
	case errors.Is(err, service.ErrInvalidAmount):
		response.BadRequest(c, 50007, "预算不能为负数")
	default:
		handleCommonError(c, err)
	}
}
