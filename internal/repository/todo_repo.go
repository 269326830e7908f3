package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/model"
)

// TodoRepository 个人待办数据访问接口
type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	// Complete 只能完成自己的待办
	Complete(ctx context.Context, id, userID uint) error
	ListOpen(ctx context.Context, userID uint) ([]model.Todo, error)
}

type todoRepo struct {
	db *gorm.DB
}

// NewTodoRepo 创建 TodoRepository 实例
func NewTodoRepo(db *gorm.DB) TodoRepository {
	return &todoRepo{db: db}
}

func (r *todoRepo) Create(ctx context.Context, todo *model.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

func (r *todoRepo) Complete(ctx context.Context, id, userID uint) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Todo{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("completed", true))
}

func (r *todoRepo) ListOpen(ctx context.Context, userID uint) ([]model.Todo, error) {
	var todos []model.Todo
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed = ?", userID, false).
		Order("id ASC").
		Find(&todos).Error
	return todos, err
}

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	Recent(ctx context.Context, userID uint, limit int) ([]model.Notification, error)
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) Recent(ctx context.Context, userID uint, limit int) ([]model.Notification, error) {
	var list []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
