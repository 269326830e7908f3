package dto

import "github.com/guoyuhou/NewLab/internal/model"

// ── 库存模块 DTO ──

// CreateItemRequest 新增库存物品
type CreateItemRequest struct {
	Name     string `json:"name"     binding:"required,max=200"`
	Category string `json:"category" binding:"required,max=100"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"     binding:"required,max=20"`
}

// UpdateQuantityRequest 直接设置库存数量
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// RecordUsageRequest 领用登记
type RecordUsageRequest struct {
	ItemID   uint `json:"item_id"  binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// EquipmentUsageRate 设备使用率：使用次数 / 自首次使用以来的天数
type EquipmentUsageRate struct {
	ItemID    uint    `json:"item_id"`
	Name      string  `json:"name"`
	Uses      int     `json:"uses"`
	UsageRate float64 `json:"usage_rate"`
}

// UsageHistory 单个物品的按月领用序列
type UsageHistory struct {
	ItemID       uint      `json:"item_id"`
	Name         string    `json:"name"`
	Months       []string  `json:"months"`
	UsageHistory []float64 `json:"usage_history"`
}

// ImportResult 批量导入结果
type ImportResult struct {
	Total   int           `json:"total"`
	Success int           `json:"success"`
	Failed  int           `json:"failed"`
	Errors  []ImportError `json:"errors,omitempty"`
}

// ImportError 导入错误详情
type ImportError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// InventoryReport 库存报告
type InventoryReport struct {
	TotalItems    int                   `json:"total_items"`
	TotalQuantity int                   `json:"total_quantity"`
	ByCategory    map[string]int        `json:"by_category"`
	LowStock      []model.InventoryItem `json:"low_stock"`
	Items         []model.InventoryItem `json:"items"`
}

// LowStockQuery 低库存阈值，0 表示使用配置默认值
type LowStockQuery struct {
	Threshold int `form:"threshold" binding:"omitempty,min=1"`
}
