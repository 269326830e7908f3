package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// ────────────────────── 资源预约 ──────────────────────

// ResourceHandler 共享资源预约 HTTP 处理器
type ResourceHandler struct {
	svc service.ResourceService
}

// NewResourceHandler 创建 ResourceHandler
func NewResourceHandler(svc service.ResourceService) *ResourceHandler {
	return &ResourceHandler{svc: svc}
}

// List 资源列表
// GET /api/v1/resources
func (h *ResourceHandler) List(c *gin.Context) {
	list, err := h.svc.ListResources(c.Request.Context())
	if err != nil {
		handleFacilityError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Create 新增资源
// POST /api/v1/resources
func (h *ResourceHandler) Create(c *gin.Context) {
	var req dto.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	res, err := h.svc.CreateResource(c.Request.Context(), &req)
	if err != nil {
		handleFacilityError(c, err)
		return
	}
	response.Created(c, res)
}

// AvailableSlots 某日可预约时段
// GET /api/v1/resources/:id/slots?date=2026-05-01
func (h *ResourceHandler) AvailableSlots(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	var q dto.DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	slots, err := h.svc.AvailableSlots(c.Request.Context(), id, q.Date)
	if err != nil {
		handleFacilityError(c, err)
		return
	}
	response.OK(c, gin.H{"list": slots})
}

// Book 预约资源
// POST /api/v1/resources/:id/bookings
func (h *ResourceHandler) Book(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.BookResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	booking, err := h.svc.Book(c.Request.Context(), userID, id, &req)
	if err != nil {
		handleFacilityError(c, err)
		return
	}
	response.Created(c, booking)
}

// MyBookings 当前用户的资源预约
// GET /api/v1/resources/bookings
func (h *ResourceHandler) MyBookings(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.UserBookings(c.Request.Context(), userID)
	if err != nil {
		handleFacilityError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CancelBooking 取消本人预约
// DELETE /api/v1/resources/bookings/:id
func (h *ResourceHandler) CancelBooking(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.CancelBooking(c.Request.Context(), id, userID); err != nil {
		handleFacilityError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 设备预约与使用日志 ──────────────────────

// EquipmentHandler 设备预约 HTTP 处理器
type EquipmentHandler struct {
	svc service.EquipmentService
}

// NewEquipmentHandler 创建 EquipmentHandler
func NewEquipmentHandler(svc service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{svc: svc}
}

// List 类别为设备的库存物品
// GET /api/v1/equipment
func (h *EquipmentHandler) List(c *gin.Context) {
	list, err := h.svc.ListEquipment(c.Request.Context())
	if err != nil {
		handleFacilityError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Book 预约设备
// POST /api/v1/equipment/bookings
func (h *EquipmentHandler) Book(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.TimeRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	booking, err := h.svc.Book(c.Request.Context(), userID, &req)
	if err != nil {
		handleFacilityError(c, err)
		return
	}
	response.Created(c, booking)
}

// Bookings 区间内的设备预约
// GET /api/v1/equipment/bookings?start=...&end=...
func (h *EquipmentHandler) Bookings(c *gin.Context) {
	var q dto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.svc.BookingsInRange(c.Request.Context(), q.Start, q.End)
	if err != nil {
		handleFacilityError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// LogUsage 记录设备使用
// POST /api/v1/equipment/usage
func (h *EquipmentHandler) LogUsage(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.TimeRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	entry, err := h.svc.LogUsage(c.Request.Context(), userID, &req)
	if err != nil {
		handleFacilityError(c, err)
		return
	}
	response.Created(c, entry)
}

// UsageLogs 区间内的设备使用日志
// GET /api/v1/equipment/usage?start=...&end=...
func (h *EquipmentHandler) UsageLogs(c *gin.Context) {
	var q dto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.svc.UsageLogsInRange(c.Request.Context(), q.Start, q.End)
	if err != nil {
		handleFacilityError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// handleFacilityError 资源与设备共用错误码段 8xxxx
func handleFacilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrResourceNotFound):
		response.NotFound(c, 80001, "资源不存在")
	case errors.Is(err, service.ErrBookingNotFound):
		response.NotFound(c, 80002, "预约不存在")
	case errors.Is(err, service.ErrInvalidTimeSlot):
		response.BadRequest(c, 80003, "无效的预约时段")
	case errors.Is(err, service.ErrEquipmentNotFound):
		response.NotFound(c, 80011, "设备不存在")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 80012, "结束时间不能早于开始时间")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 80013, "日期格式错误，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 80014, "结束日期不能早于开始日期")
	default:
		handleCommonError(c, err)
	}
}
