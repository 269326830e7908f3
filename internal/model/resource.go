package model

import "time"

// Resource 可预约的公共资源，对应 resources
type Resource struct {
	ID        uint      `gorm:"primaryKey"                 json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	Type      string    `gorm:"type:varchar(50);not null"  json:"type"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"    json:"created_at"`
}

// TableName 指定表名
func (Resource) TableName() string { return "resources" }

// ResourceBooking 资源预约，对应 resource_bookings
// Date 为 YYYY-MM-DD，TimeSlot 为 "09:00-10:00" 形式的整点时段
type ResourceBooking struct {
	ID         uint      `gorm:"primaryKey"                json:"id"`
	ResourceID uint      `gorm:"not null"                  json:"resource_id"`
	UserID     uint      `gorm:"not null"                  json:"user_id"`
	Date       string    `gorm:"type:varchar(10);not null" json:"date"`
	TimeSlot   string    `gorm:"type:varchar(11);not null" json:"time_slot"`
	Reason     string    `gorm:"type:text"                 json:"reason"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"   json:"created_at"`

	ResourceName string `gorm:"->;-:migration" json:"resource_name,omitempty"`
}

// TableName 指定表名
func (ResourceBooking) TableName() string { return "resource_bookings" }

// EquipmentBooking 设备预约，对应 equipment_bookings
type EquipmentBooking struct {
	ID          uint      `gorm:"primaryKey"              json:"id"`
	UserID      uint      `gorm:"not null"                json:"user_id"`
	EquipmentID uint      `gorm:"not null"                json:"equipment_id"`
	StartTime   time.Time `gorm:"not null"                json:"start_time"`
	EndTime     time.Time `gorm:"not null"                json:"end_time"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (EquipmentBooking) TableName() string { return "equipment_bookings" }

// EquipmentUsageLog 设备使用日志，对应 equipment_usage_logs
type EquipmentUsageLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null"   json:"user_id"`
	EquipmentID uint      `gorm:"not null"   json:"equipment_id"`
	StartTime   time.Time `gorm:"not null"   json:"start_time"`
	EndTime     time.Time `gorm:"not null"   json:"end_time"`
	Notes       string    `gorm:"type:text"  json:"notes"`
}

// TableName 指定表名
func (EquipmentUsageLog) TableName() string { return "equipment_usage_logs" }
