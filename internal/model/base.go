package model

import "time"

// 日期与时间段的文本格式
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// BaseModel 通用时间戳字段
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
