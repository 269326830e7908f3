package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/repository"
)

// ── 通讯模块业务错误 ──

var (
	ErrRoomNotFound = errors.New("聊天室不存在")
)

const defaultMessageLimit = 100

// Broadcaster 实时消息推送，由 relay.Hub 实现
type Broadcaster interface {
	Broadcast(user, message string)
}

// CommunicationService 聊天室业务接口
type CommunicationService interface {
	ListRooms(ctx context.Context) ([]model.ChatRoom, error)
	CreateRoom(ctx context.Context, userID uint, name string) (*model.ChatRoom, error)
	// ListMessages 按时间正序返回最近 limit 条，附带发送者用户名
	ListMessages(ctx context.Context, roomID uint, limit int) ([]model.ChatMessage, error)
	// SendMessage 先持久化，成功后再推送给在线客户端
	SendMessage(ctx context.Context, roomID, userID uint, username, content string) (*model.ChatMessage, error)
}

type communicationService struct {
	repo        *repository.Repository
	broadcaster Broadcaster
	logger      *zap.Logger
	now         func() time.Time
}

// NewCommunicationService 创建 CommunicationService 实例
// broadcaster 为 nil 时只持久化不推送
func NewCommunicationService(repo *repository.Repository, broadcaster Broadcaster, logger *zap.Logger) CommunicationService {
	return &communicationService{repo: repo, broadcaster: broadcaster, logger: logger, now: time.Now}
}

func (s *communicationService) ListRooms(ctx context.Context) ([]model.ChatRoom, error) {
	rooms, err := s.repo.Chat.ListRooms(ctx)
	if err != nil {
		s.logger.Error("查询聊天室失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return rooms, nil
}

func (s *communicationService) CreateRoom(ctx context.Context, userID uint, name string) (*model.ChatRoom, error) {
	room := &model.ChatRoom{Name: strings.TrimSpace(name), CreatorID: userID}
	if err := s.repo.Chat.CreateRoom(ctx, room); err != nil {
		s.logger.Error("创建聊天室失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return room, nil
}

func (s *communicationService) ListMessages(ctx context.Context, roomID uint, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if _, err := s.repo.Chat.GetRoom(ctx, roomID); err != nil {
		return nil, classify(err, ErrRoomNotFound)
	}

	msgs, err := s.repo.Chat.ListMessages(ctx, roomID, limit)
	if err != nil {
		s.logger.Error("查询聊天消息失败", zap.Uint("room_id", roomID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return msgs, nil
}

func (s *communicationService) SendMessage(ctx context.Context, roomID, userID uint, username, content string) (*model.ChatMessage, error) {
	msg := &model.ChatMessage{
		RoomID:    roomID,
		UserID:    userID,
		Content:   content,
		Timestamp: s.now().UTC(),
		Username:  username,
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Chat.GetRoom(ctx, roomID); err != nil {
			return err
		}
		return tx.Chat.CreateMessage(ctx, msg)
	})
	if err != nil {
		err = classify(err, ErrRoomNotFound)
		if !errors.Is(err, ErrRoomNotFound) {
			s.logger.Error("发送消息失败", zap.Uint("room_id", roomID), zap.Error(err))
		}
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(username, content)
	}
	return msg, nil
}
