package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/model"
)

// EquipmentRepository 设备预约与使用日志数据访问接口
type EquipmentRepository interface {
	CreateBooking(ctx context.Context, b *model.EquipmentBooking) error
	// BookingsInRange 与 [from, to) 有交集的预约
	BookingsInRange(ctx context.Context, from, to time.Time) ([]model.EquipmentBooking, error)
	CreateUsageLog(ctx context.Context, l *model.EquipmentUsageLog) error
	// UsageLogsInRange 开始时间落在 [from, to) 的使用日志
	UsageLogsInRange(ctx context.Context, from, to time.Time) ([]model.EquipmentUsageLog, error)
}

type equipmentRepo struct {
	db *gorm.DB
}

// NewEquipmentRepo 创建 EquipmentRepository 实例
func NewEquipmentRepo(db *gorm.DB) EquipmentRepository {
	return &equipmentRepo{db: db}
}

func (r *equipmentRepo) CreateBooking(ctx context.Context, b *model.EquipmentBooking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *equipmentRepo) BookingsInRange(ctx context.Context, from, to time.Time) ([]model.EquipmentBooking, error) {
	var list []model.EquipmentBooking
	err := r.db.WithContext(ctx).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time ASC").
		Find(&list).Error
	return list, err
}

func (r *equipmentRepo) CreateUsageLog(ctx context.Context, l *model.EquipmentUsageLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *equipmentRepo) UsageLogsInRange(ctx context.Context, from, to time.Time) ([]model.EquipmentUsageLog, error) {
	var list []model.EquipmentUsageLog
	err := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").
		Find(&list).Error
	return list, err
}
