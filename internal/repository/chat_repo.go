package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/model"
)

// ChatRepository 聊天室与消息数据访问接口
type ChatRepository interface {
	ListRooms(ctx context.Context) ([]model.ChatRoom, error)
	GetRoom(ctx context.Context, id uint) (*model.ChatRoom, error)
	CreateRoom(ctx context.Context, room *model.ChatRoom) error
	CreateMessage(ctx context.Context, msg *model.ChatMessage) error
	// ListMessages 返回最近 limit 条消息，按时间正序
	ListMessages(ctx context.Context, roomID uint, limit int) ([]model.ChatMessage, error)
}

type chatRepo struct {
	db *gorm.DB
}

// NewChatRepo 创建 ChatRepository 实例
func NewChatRepo(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) ListRooms(ctx context.Context) ([]model.ChatRoom, error) {
	var rooms []model.ChatRoom
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rooms).Error
	return rooms, err
}

func (r *chatRepo) GetRoom(ctx context.Context, id uint) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRepo) CreateRoom(ctx context.Context, room *model.ChatRoom) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *chatRepo) CreateMessage(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *chatRepo) ListMessages(ctx context.Context, roomID uint, limit int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).
		Select("chat_messages.*, COALESCE(users.username, '') AS username").
		Joins("LEFT JOIN users ON users.id = chat_messages.user_id").
		Where("chat_messages.room_id = ?", roomID).
		Order("chat_messages.timestamp DESC, chat_messages.id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
