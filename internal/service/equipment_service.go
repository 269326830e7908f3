package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/repository"
)

// ── 设备模块业务错误 ──

var (
	ErrEquipmentNotFound = errors.New("设备不存在")
)

// EquipmentService 设备预约与使用日志业务接口
// 设备即类别为 equipment 的库存物品；预约不做冲突校验
type EquipmentService interface {
	ListEquipment(ctx context.Context) ([]model.InventoryItem, error)
	Book(ctx context.Context, userID uint, req *dto.TimeRangeRequest) (*model.EquipmentBooking, error)
	BookingsInRange(ctx context.Context, start, end string) ([]model.EquipmentBooking, error)
	LogUsage(ctx context.Context, userID uint, req *dto.TimeRangeRequest) (*model.EquipmentUsageLog, error)
	UsageLogsInRange(ctx context.Context, start, end string) ([]model.EquipmentUsageLog, error)
}

type equipmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEquipmentService 创建 EquipmentService 实例
func NewEquipmentService(repo *repository.Repository, logger *zap.Logger) EquipmentService {
	return &equipmentService{repo: repo, logger: logger}
}

func (s *equipmentService) ListEquipment(ctx context.Context) ([]model.InventoryItem, error) {
	items, err := s.repo.Inventory.List(ctx, model.CategoryEquipment)
	if err != nil {
		s.logger.Error("查询设备列表失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return items, nil
}

// checkEquipment 确认物品存在且属于设备类别
func checkEquipment(ctx context.Context, tx *repository.Repository, id uint) error {
	item, err := tx.Inventory.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item.Category != model.CategoryEquipment {
		return ErrEquipmentNotFound
	}
	return nil
}

// dateRange 将 [start, end] 日期转换为 [from, to) 时间区间
func dateRange(start, end string) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(model.DateLayout, start, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	to, err := time.ParseInLocation(model.DateLayout, end, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to.AddDate(0, 0, 1), nil
}

// ────────────────────── Book ──────────────────────

func (s *equipmentService) Book(ctx context.Context, userID uint, req *dto.TimeRangeRequest) (*model.EquipmentBooking, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	booking := &model.EquipmentBooking{
		UserID:      userID,
		EquipmentID: req.EquipmentID,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
	}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := checkEquipment(ctx, tx, req.EquipmentID); err != nil {
			return err
		}
		return tx.Equipment.CreateBooking(ctx, booking)
	})
	if err != nil {
		err = classify(err, ErrEquipmentNotFound)
		if !errors.Is(err, ErrEquipmentNotFound) {
			s.logger.Error("预约设备失败", zap.Uint("equipment_id", req.EquipmentID), zap.Error(err))
		}
		return nil, err
	}
	return booking, nil
}

func (s *equipmentService) BookingsInRange(ctx context.Context, start, end string) ([]model.EquipmentBooking, error) {
	from, to, err := dateRange(start, end)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.Equipment.BookingsInRange(ctx, from, to)
	if err != nil {
		s.logger.Error("查询设备预约失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}

// ────────────────────── Usage logs ──────────────────────

func (s *equipmentService) LogUsage(ctx context.Context, userID uint, req *dto.TimeRangeRequest) (*model.EquipmentUsageLog, error) {
	if req.EndTime.Before(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	entry := &model.EquipmentUsageLog{
		UserID:      userID,
		EquipmentID: req.EquipmentID,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		Notes:       req.Notes,
	}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := checkEquipment(ctx, tx, req.EquipmentID); err != nil {
			return err
		}
		return tx.Equipment.CreateUsageLog(ctx, entry)
	})
	if err != nil {
		err = classify(err, ErrEquipmentNotFound)
		if !errors.Is(err, ErrEquipmentNotFound) {
			s.logger.Error("记录设备使用失败", zap.Uint("equipment_id", req.EquipmentID), zap.Error(err))
		}
		return nil, err
	}
	return entry, nil
}

func (s *equipmentService) UsageLogsInRange(ctx context.Context, start, end string) ([]model.EquipmentUsageLog, error) {
	from, to, err := dateRange(start, end)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.Equipment.UsageLogsInRange(ctx, from, to)
	if err != nil {
		s.logger.Error("查询设备使用日志失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}
