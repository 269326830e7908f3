package model

import "time"

// Experiment 实验记录，对应 experiments
type Experiment struct {
	ID          uint      `gorm:"primaryKey"                 json:"id"`
	UserID      uint      `gorm:"not null;index"             json:"user_id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Description string    `gorm:"type:text"                  json:"description"`
	Data        string    `gorm:"type:text"                  json:"data"`
	Date        string    `gorm:"type:varchar(10)"           json:"date"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime"    json:"created_at"`
}

// TableName 指定表名
func (Experiment) TableName() string { return "experiments" }

// Report 已保存的报告，对应 reports
type Report struct {
	ID        uint      `gorm:"primaryKey"                json:"id"`
	UserID    uint      `gorm:"not null;index"            json:"user_id"`
	Type      string    `gorm:"type:varchar(50);not null" json:"type"`
	Date      string    `gorm:"type:varchar(10);not null" json:"date"`
	Content   string    `gorm:"type:text;not null"        json:"content"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"   json:"created_at"`
}

// TableName 指定表名
func (Report) TableName() string { return "reports" }

// AnalysisRecord 数据分析历史，对应 analysis_history
type AnalysisRecord struct {
	ID           uint      `gorm:"primaryKey"                 json:"id"`
	UserID       uint      `gorm:"not null;index"             json:"user_id"`
	AnalysisType string    `gorm:"type:varchar(100);not null" json:"analysis_type"`
	FileName     string    `gorm:"type:varchar(255)"          json:"file_name"`
	Timestamp    time.Time `gorm:"not null"                   json:"timestamp"`
}

// TableName 指定表名
func (AnalysisRecord) TableName() string { return "analysis_history" }
