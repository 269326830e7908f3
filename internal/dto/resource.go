package dto

import "time"

// ── 资源与设备模块 DTO ──

// CreateResourceRequest 新增资源
type CreateResourceRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Type string `json:"type" binding:"max=50"`
}

// BookResourceRequest 预约资源时段
type BookResourceRequest struct {
	Date     string `json:"date"      binding:"required,datetime=2006-01-02"`
	TimeSlot string `json:"time_slot" binding:"required"`
	Reason   string `json:"reason"`
}

// TimeRangeRequest 设备预约或使用日志
type TimeRangeRequest struct {
	EquipmentID uint      `json:"equipment_id" binding:"required"`
	StartTime   time.Time `json:"start_time"   binding:"required"`
	EndTime     time.Time `json:"end_time"     binding:"required"`
	Notes       string    `json:"notes"`
}
