package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// InventoryHandler 库存模块 HTTP 处理器
type InventoryHandler struct {
	svc service.InventoryService
}

// NewInventoryHandler 创建 InventoryHandler
func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// ListItems 库存列表
// GET /api/v1/inventory/items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.svc.ListItems(c.Request.Context())
	if err != nil {
		h.handleInventoryError(c, err)
		return
	}
	response.OK(c, gin.H{"list": items})
}

// GetItem 物品详情
// GET /api/v1/inventory/items/:id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.svc.GetItem(c.Request.Context(), id)
	if err != nil {
		h.handleInventoryError(c, err)
		return
	}
	response.OK(c, item)
}

// CreateItem 新增物品
// POST /api/v1/inventory/items
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	item, err := h.svc.AddItem(c.Request.Context(), &req)
	if err != nil {
		h.handleInventoryError(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateQuantity 直接设置库存数量
// PUT /api/v1/inventory/items/:id/quantity
func (h *InventoryHandler) UpdateQuantity(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if err := h.svc.UpdateQuantity(c.Request.Context(), id, *req.Quantity); err != nil {
		h.handleInventoryError(c, err)
		return
	}
	response.OK(c, nil)
}

// DeleteItem 删除物品
// DELETE /api/v1/inventory/items/:id
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteItem(c.Request.Context(), id); err != nil {
		h.handleInventoryError(c, err)
		return
	}
	response.OK(c, nil)
}

// LowStock 低库存物品
// GET /api/v1/inventory/low-stock?threshold=10
func (h *InventoryHandler) LowStock(c *gin.Context) {
	var q dto.LowStockQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	items, err := h.svc.LowStock(c.Request.Context(), q.Threshold)
	if err != nil {
		h.handleInventoryError(c, err)
		return
	}
	response.OK(c, gin.H{"list": items})
}

// RecordUsage 领用登记
// POST /api/v1/inventory/usage
func (h *InventoryHandler) RecordUsage(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	usage, err := h.svc.RecordUsage(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleInventoryError(c, err)
		return
	}
	response.Created(c, usage)
}

// ListUsage 最近领用记录
// GET /api/v1/inventory/usage?limit=20
func (h *InventoryHandler) ListUsage(c *gin.Context) {
	var q dto.LimitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	records, err := h.svc.ListUsageRecords(c.Request.Context(), q.Limit)
	if err != nil {
		h.handleInventoryError(c, err)
		return
	}
	response.OK(c, gin.H{"list": records})
}

// UsageHistory 各物品按月领用序列
// GET /api/v1/inventory/usage/history
func (h *InventoryHandler) UsageHistory(c *gin.Context) {
	list, err := h.svc.UsageHistory(c.Request.Context())
	if err != nil {
		h.handleInventoryError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// EquipmentUsageRate 设备使用率
// GET /api/v1/inventory/equipment-usage-rate
func (h *InventoryHandler) EquipmentUsageRate(c *gin.Context) {
	list, err := h.svc.EquipmentUsageRate(c.Request.Context())
	if err != nil {
		h.handleInventoryError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Report 库存报告
// GET /api/v1/inventory/report
func (h *InventoryHandler) Report(c *gin.Context) {
	report, err := h.svc.InventoryReport(c.Request.Context())
	if err != nil {
		h.handleInventoryError(c, err)
		return
	}
	response.OK(c, report)
}

// ImportItems Excel 批量导入
// POST /api/v1/inventory/import (multipart/form-data, field="file")
func (h *InventoryHandler) ImportItems(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		if isBodyErr(c, err) {
			return
		}
		response.BadRequest(c, 30010, "请上传 Excel 文件")
		return
	}
	defer file.Close()

	rows, err := h.svc.ParseImportFile(file)
	if err != nil {
		h.handleInventoryError(c, err)
		return
	}

	result, err := h.svc.ImportItems(c.Request.Context(), rows)
	if err != nil {
		h.handleInventoryError(c, err)
		return
	}
	response.OK(c, result)
}

// handleInventoryError 统一处理库存模块业务错误
func (h *InventoryHandler) handleInventoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		response.NotFound(c, 30001, "库存物品不存在")
	case errors.Is(err, service.ErrImportBadFile):
		response.BadRequest(c, 30011, "无法解析Excel文件")
	case errors.Is(err, service.ErrImportNoData):
		response.BadRequest(c, 30012, err.Error())
	case errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, 30013, err.Error())
	case errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, 30014, err.Error())
	default:
		handleCommonError(c, err)
	}
}
