package model

import "time"

// SafetyCourse 安全培训课程，对应 safety_courses
type SafetyCourse struct {
	ID          uint      `gorm:"primaryKey"                 json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description string    `gorm:"type:text"                  json:"description"`
	Content     string    `gorm:"type:text"                  json:"content"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime"    json:"created_at"`
}

// TableName 指定表名
func (SafetyCourse) TableName() string { return "safety_courses" }

// SafetyQuestion 课程测验题，对应 safety_questions
// Options 以 '|' 连接存储
type SafetyQuestion struct {
	ID            uint   `gorm:"primaryKey"         json:"id"`
	CourseID      uint   `gorm:"not null;index"     json:"course_id"`
	Question      string `gorm:"type:text;not null" json:"question"`
	Options       string `gorm:"type:text;not null" json:"-"`
	CorrectAnswer string `gorm:"type:text;not null" json:"-"`
}

// TableName 指定表名
func (SafetyQuestion) TableName() string { return "safety_questions" }

// UserTrainingRecord 培训完成记录，对应 user_training_records
type UserTrainingRecord struct {
	ID             uint      `gorm:"primaryKey"     json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	CourseID       uint      `gorm:"not null"       json:"course_id"`
	CompletionDate time.Time `gorm:"not null"       json:"completion_date"`
	Score          float64   `gorm:"not null"       json:"score"`
}

// TableName 指定表名
func (UserTrainingRecord) TableName() string { return "user_training_records" }

// TrainingRecordView 带课程名的培训记录（联表查询结果）
type TrainingRecordView struct {
	CourseID       uint      `json:"course_id"`
	CourseTitle    string    `json:"course_title"`
	CompletionDate time.Time `json:"completion_date"`
	Score          float64   `json:"score"`
}
