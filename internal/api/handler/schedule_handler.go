package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// ScheduleHandler 日程模块 HTTP 处理器
type ScheduleHandler struct {
	svc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(svc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// AddEvent 新增事件
// POST /api/v1/events
func (h *ScheduleHandler) AddEvent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	evt, err := h.svc.AddEvent(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.Created(c, evt)
}

// EventsByDate 当前用户某日的事件
// GET /api/v1/events?date=2026-01-02
func (h *ScheduleHandler) EventsByDate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.svc.EventsByDate(c.Request.Context(), userID, q.Date)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// EventsByRange 当前用户日期区间内的事件
// GET /api/v1/events/range?start=2026-01-01&end=2026-01-31
func (h *ScheduleHandler) EventsByRange(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.svc.EventsByRange(c.Request.Context(), userID, q.Start, q.End)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// TeamEvents 团队某日的全部事件
// GET /api/v1/events/team?date=2026-01-02
func (h *ScheduleHandler) TeamEvents(c *gin.Context) {
	var q dto.DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.svc.TeamEventsByDate(c.Request.Context(), q.Date)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// UpcomingEvents 未来若干天的事件
// GET /api/v1/events/upcoming?days=7
func (h *ScheduleHandler) UpcomingEvents(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.UpcomingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.svc.UpcomingEvents(c.Request.Context(), userID, q.Days)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// DeleteEvent 删除事件及其参与者
// DELETE /api/v1/events/:id
func (h *ScheduleHandler) DeleteEvent(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteEvent(c.Request.Context(), id); err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ImportICS 导入 ICS 日历
// POST /api/v1/events/import (multipart/form-data, field="file")
func (h *ScheduleHandler) ImportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		if isBodyErr(c, err) {
			return
		}
		response.BadRequest(c, 60010, "请上传 ICS 文件")
		return
	}
	defer file.Close()

	result, err := h.svc.ImportICS(c.Request.Context(), userID, file)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.Created(c, result)
}

// handleScheduleError 统一处理日程模块业务错误
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 60001, "事件不存在")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 60002, "结束时间不能早于开始时间")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 60003, "日期格式错误，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 60004, "结束日期不能早于开始日期")
	case errors.Is(err, service.ErrICSInvalid):
		response.BadRequest(c, 60011, "ICS 格式解析失败")
	case errors.Is(err, service.ErrICSNoEvents):
		response.BadRequest(c, 60012, "ICS 文件中没有可导入的事件")
	default:
		handleCommonError(c, err)
	}
}
