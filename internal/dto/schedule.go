package dto

import "time"

// ── 日程模块 DTO ──

// CreateEventRequest 新建事件
// Participants 为逗号加空格分隔的用户名，如 "alice, bob"
type CreateEventRequest struct {
	Title        string    `json:"title"        binding:"required,max=200"`
	StartTime    time.Time `json:"start_time"   binding:"required"`
	EndTime      time.Time `json:"end_time"     binding:"required"`
	Description  string    `json:"description"`
	Participants string    `json:"participants"`
}

// DateQuery 单日查询
type DateQuery struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// RangeQuery 日期区间查询（含两端）
type RangeQuery struct {
	Start string `form:"start" binding:"required,datetime=2006-01-02"`
	End   string `form:"end"   binding:"required,datetime=2006-01-02"`
}

// UpcomingQuery 未来若干天
type UpcomingQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}
