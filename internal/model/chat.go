package model

import "time"

// ChatRoom 聊天室，对应 chat_rooms
type ChatRoom struct {
	ID        uint      `gorm:"primaryKey"                 json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatorID uint      `gorm:"not null"                   json:"creator_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"    json:"created_at"`
}

// TableName 指定表名
func (ChatRoom) TableName() string { return "chat_rooms" }

// ChatMessage 聊天消息，对应 chat_messages
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"         json:"id"`
	RoomID    uint      `gorm:"not null;index"     json:"room_id"`
	UserID    uint      `gorm:"not null"           json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time `gorm:"not null"           json:"timestamp"`

	Username string `gorm:"->;-:migration" json:"username,omitempty"`
}

// TableName 指定表名
func (ChatMessage) TableName() string { return "chat_messages" }
