package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// TrainingHandler 安全培训模块 HTTP 处理器
type TrainingHandler struct {
	svc service.TrainingService
}

// NewTrainingHandler 创建 TrainingHandler
func NewTrainingHandler(svc service.TrainingService) *TrainingHandler {
	return &TrainingHandler{svc: svc}
}

// ListCourses 课程列表
// GET /api/v1/training/courses
func (h *TrainingHandler) ListCourses(c *gin.Context) {
	list, err := h.svc.ListCourses(c.Request.Context())
	if err != nil {
		h.handleTrainingError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetCourse 课程详情
// GET /api/v1/training/courses/:id
func (h *TrainingHandler) GetCourse(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.svc.GetCourse(c.Request.Context(), id)
	if err != nil {
		h.handleTrainingError(c, err)
		return
	}
	response.OK(c, course)
}

// CreateCourse 新建课程
// POST /api/v1/training/courses
func (h *TrainingHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	course, err := h.svc.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		h.handleTrainingError(c, err)
		return
	}
	response.Created(c, course)
}

// GetQuestions 课程测验题（不含答案）
// GET /api/v1/training/courses/:id/questions
func (h *TrainingHandler) GetQuestions(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.svc.GetQuestions(c.Request.Context(), id)
	if err != nil {
		h.handleTrainingError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// AddQuestion 新增测验题
// POST /api/v1/training/courses/:id/questions
func (h *TrainingHandler) AddQuestion(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	q, err := h.svc.AddQuestion(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTrainingError(c, err)
		return
	}
	response.Created(c, q)
}

// SubmitAnswers 提交答案，评分并记录完成
// POST /api/v1/training/courses/:id/submit
func (h *TrainingHandler) SubmitAnswers(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.svc.SubmitAnswers(c.Request.Context(), userID, id, req.Answers)
	if err != nil {
		h.handleTrainingError(c, err)
		return
	}
	response.OK(c, result)
}

// MyRecords 当前用户的培训记录
// GET /api/v1/training/records
func (h *TrainingHandler) MyRecords(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.UserTrainingRecords(c.Request.Context(), userID)
	if err != nil {
		h.handleTrainingError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// handleTrainingError 统一处理培训模块业务错误
func (h *TrainingHandler) handleTrainingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 71001, "培训课程不存在")
	case errors.Is(err, service.ErrNoAnswers):
		response.BadRequest(c, 71002, "未提交任何答案")
	case errors.Is(err, service.ErrInvalidOption):
		response.BadRequest(c, 71003, "选项不能包含 '|'")
	case errors.Is(err, service.ErrAnswerNotOption):
		response.BadRequest(c, 71004, "正确答案必须是选项之一")
	default:
		handleCommonError(c, err)
	}
}
