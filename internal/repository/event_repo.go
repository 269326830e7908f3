package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/model"
)

// EventRepository 日程事件数据访问接口
type EventRepository interface {
	Create(ctx context.Context, e *model.Event) error
	AddParticipants(ctx context.Context, eventID uint, usernames []string) error
	// ListRange 开始时间落在 [from, to) 的事件，按开始时间升序
	// userID 为 0 时不限创建者；withCreator 时附带创建者用户名
	ListRange(ctx context.Context, userID uint, from, to time.Time, withCreator bool) ([]model.Event, error)
	Participants(ctx context.Context, eventIDs []uint) ([]model.EventParticipant, error)
	DeleteParticipants(ctx context.Context, eventID uint) error
	Delete(ctx context.Context, id uint) error
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, e *model.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *eventRepo) AddParticipants(ctx context.Context, eventID uint, usernames []string) error {
	if len(usernames) == 0 {
		return nil
	}
	rows := make([]model.EventParticipant, 0, len(usernames))
	for _, name := range usernames {
		rows = append(rows, model.EventParticipant{EventID: eventID, Username: name})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *eventRepo) ListRange(ctx context.Context, userID uint, from, to time.Time, withCreator bool) ([]model.Event, error) {
	var events []model.Event
	db := r.db.WithContext(ctx).Model(&model.Event{})
	if withCreator {
		db = db.Select("events.*, COALESCE(users.username, '') AS creator").
			Joins("LEFT JOIN users ON users.id = events.user_id")
	}
	if userID != 0 {
		db = db.Where("events.user_id = ?", userID)
	}
	err := db.
		Where("events.start_time >= ? AND events.start_time < ?", from, to).
		Order("events.start_time ASC, events.id ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) Participants(ctx context.Context, eventIDs []uint) ([]model.EventParticipant, error) {
	var rows []model.EventParticipant
	if len(eventIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Where("event_id IN ?", eventIDs).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *eventRepo) DeleteParticipants(ctx context.Context, eventID uint) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&model.EventParticipant{}).Error
}

func (r *eventRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Event{}, id))
}
