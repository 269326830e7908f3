package model

import "time"

// 库存物品状态
const (
	ItemStatusAvailable = "available"

	// CategoryEquipment 设备类物品的类别名，设备预约与使用记录只针对此类物品
	CategoryEquipment = "equipment"
)

// InventoryItem 库存物品表，对应 inventory_items
// Quantity 允许为负数（超额领用时不做下限保护）
type InventoryItem struct {
	ID       uint   `gorm:"primaryKey"                          json:"id"`
	Name     string `gorm:"type:varchar(200);not null"          json:"name"`
	Category string `gorm:"type:varchar(100);not null;index"    json:"category"`
	Quantity int    `gorm:"not null;default:0"                  json:"quantity"`
	Unit     string `gorm:"type:varchar(20);not null"           json:"unit"`
	Status   string `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	BaseModel
}

// TableName 指定表名
func (InventoryItem) TableName() string { return "inventory_items" }

// InventoryUsage 库存领用记录，对应 inventory_usage
type InventoryUsage struct {
	ID        uint      `gorm:"primaryKey"         json:"id"`
	UserID    uint      `gorm:"not null"           json:"user_id"`
	ItemID    uint      `gorm:"not null;index"     json:"item_id"`
	Quantity  int       `gorm:"not null"           json:"quantity"`
	Timestamp time.Time `gorm:"not null"           json:"timestamp"`
}

// TableName 指定表名
func (InventoryUsage) TableName() string { return "inventory_usage" }

// UsageRecord 领用记录明细（联表查询结果）
type UsageRecord struct {
	ID        uint      `json:"id"`
	ItemID    uint      `json:"item_id"`
	Username  string    `json:"username"`
	ItemName  string    `json:"item_name"`
	Quantity  int       `json:"quantity"`
	Unit      string    `json:"unit"`
	Timestamp time.Time `json:"timestamp"`
}
