package model

import "time"

// Event 日程事件，对应 events
type Event struct {
	ID          uint      `gorm:"primaryKey"                 json:"id"`
	UserID      uint      `gorm:"not null"                   json:"user_id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	StartTime   time.Time `gorm:"not null;index"             json:"start_time"`
	EndTime     time.Time `gorm:"not null"                   json:"end_time"`
	Description string    `gorm:"type:text"                  json:"description"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime"    json:"created_at"`

	// 非表字段：参与者用户名，由服务层填充
	Participants []string `gorm:"-" json:"participants"`
	// 创建者用户名，仅团队日程联表查询时填充
	Creator string `gorm:"->;-:migration" json:"creator,omitempty"`
}

// TableName 指定表名
func (Event) TableName() string { return "events" }

// EventParticipant 事件参与者，对应 event_participants
type EventParticipant struct {
	ID       uint   `gorm:"primaryKey"                 json:"id"`
	EventID  uint   `gorm:"not null;index"             json:"event_id"`
	Username string `gorm:"type:varchar(100);not null" json:"username"`
}

// TableName 指定表名
func (EventParticipant) TableName() string { return "event_participants" }
