package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/model"
)

// ResourceRepository 公共资源与预约数据访问接口
type ResourceRepository interface {
	List(ctx context.Context) ([]model.Resource, error)
	GetByID(ctx context.Context, id uint) (*model.Resource, error)
	Create(ctx context.Context, res *model.Resource) error
	// BookedSlots 某资源某日已被预约的时段
	BookedSlots(ctx context.Context, resourceID uint, date string) ([]string, error)
	CreateBooking(ctx context.Context, b *model.ResourceBooking) error
	ListBookingsByUser(ctx context.Context, userID uint) ([]model.ResourceBooking, error)
	// DeleteBooking 只能取消自己的预约
	DeleteBooking(ctx context.Context, id, userID uint) error
}

type resourceRepo struct {
	db *gorm.DB
}

// NewResourceRepo 创建 ResourceRepository 实例
func NewResourceRepo(db *gorm.DB) ResourceRepository {
	return &resourceRepo{db: db}
}

func (r *resourceRepo) List(ctx context.Context) ([]model.Resource, error) {
	var list []model.Resource
	err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *resourceRepo) GetByID(ctx context.Context, id uint) (*model.Resource, error) {
	var res model.Resource
	if err := r.db.WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *resourceRepo) Create(ctx context.Context, res *model.Resource) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *resourceRepo) BookedSlots(ctx context.Context, resourceID uint, date string) ([]string, error) {
	var slots []string
	err := r.db.WithContext(ctx).
		Model(&model.ResourceBooking{}).
		Where("resource_id = ? AND date = ?", resourceID, date).
		Pluck("time_slot", &slots).Error
	return slots, err
}

func (r *resourceRepo) CreateBooking(ctx context.Context, b *model.ResourceBooking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *resourceRepo) ListBookingsByUser(ctx context.Context, userID uint) ([]model.ResourceBooking, error) {
	var list []model.ResourceBooking
	err := r.db.WithContext(ctx).
		Select("resource_bookings.*, resources.name AS resource_name").
		Joins("JOIN resources ON resources.id = resource_bookings.resource_id").
		Where("resource_bookings.user_id = ?", userID).
		Order("resource_bookings.date ASC, resource_bookings.time_slot ASC").
		Find(&list).Error
	return list, err
}

func (r *resourceRepo) DeleteBooking(ctx context.Context, id, userID uint) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.ResourceBooking{}))
}
