package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/repository"
)

// ── 资源模块业务错误 ──

var (
	ErrResourceNotFound = errors.New("资源不存在")
	ErrBookingNotFound  = errors.New("预约不存在")
	ErrInvalidTimeSlot  = errors.New("无效的预约时段")
)

// 可预约时段：09:00 至 18:00 的整点时段
const (
	slotFirstHour = 9
	slotLastHour  = 18
)

// HourlySlots 返回全部可预约时段，如 "09:00-10:00"
func HourlySlots() []string {
	slots := make([]string, 0, slotLastHour-slotFirstHour)
	for h := slotFirstHour; h < slotLastHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00-%02d:00", h, h+1))
	}
	return slots
}

// ResourceService 公共资源预约业务接口
// 同一时段允许重复预约，AvailableSlots 只做提示
type ResourceService interface {
	ListResources(ctx context.Context) ([]model.Resource, error)
	CreateResource(ctx context.Context, req *dto.CreateResourceRequest) (*model.Resource, error)
	AvailableSlots(ctx context.Context, resourceID uint, date string) ([]string, error)
	Book(ctx context.Context, userID, resourceID uint, req *dto.BookResourceRequest) (*model.ResourceBooking, error)
	UserBookings(ctx context.Context, userID uint) ([]model.ResourceBooking, error)
	CancelBooking(ctx context.Context, id, userID uint) error
}

type resourceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewResourceService 创建 ResourceService 实例
func NewResourceService(repo *repository.Repository, logger *zap.Logger) ResourceService {
	return &resourceService{repo: repo, logger: logger}
}

func (s *resourceService) ListResources(ctx context.Context) ([]model.Resource, error) {
	list, err := s.repo.Resource.List(ctx)
	if err != nil {
		s.logger.Error("查询资源列表失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}

func (s *resourceService) CreateResource(ctx context.Context, req *dto.CreateResourceRequest) (*model.Resource, error) {
	res := &model.Resource{Name: strings.TrimSpace(req.Name), Type: strings.TrimSpace(req.Type)}
	if err := s.repo.Resource.Create(ctx, res); err != nil {
		s.logger.Error("新增资源失败", zap.String("name", res.Name), zap.Error(err))
		return nil, classify(err, nil)
	}
	return res, nil
}

// ────────────────────── AvailableSlots ──────────────────────

func (s *resourceService) AvailableSlots(ctx context.Context, resourceID uint, date string) ([]string, error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := s.repo.Resource.GetByID(ctx, resourceID); err != nil {
		return nil, classify(err, ErrResourceNotFound)
	}

	booked, err := s.repo.Resource.BookedSlots(ctx, resourceID, date)
	if err != nil {
		s.logger.Error("查询已预约时段失败", zap.Uint("resource_id", resourceID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return lo.Without(HourlySlots(), booked...), nil
}

// ────────────────────── Book ──────────────────────

func (s *resourceService) Book(ctx context.Context, userID, resourceID uint, req *dto.BookResourceRequest) (*model.ResourceBooking, error) {
	if !lo.Contains(HourlySlots(), req.TimeSlot) {
		return nil, ErrInvalidTimeSlot
	}

	booking := &model.ResourceBooking{
		ResourceID: resourceID,
		UserID:     userID,
		Date:       req.Date,
		TimeSlot:   req.TimeSlot,
		Reason:     req.Reason,
	}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		res, err := tx.Resource.GetByID(ctx, resourceID)
		if err != nil {
			return err
		}
		booking.ResourceName = res.Name
		return tx.Resource.CreateBooking(ctx, booking)
	})
	if err != nil {
		err = classify(err, ErrResourceNotFound)
		if !errors.Is(err, ErrResourceNotFound) {
			s.logger.Error("预约资源失败", zap.Uint("resource_id", resourceID), zap.Error(err))
		}
		return nil, err
	}
	return booking, nil
}

func (s *resourceService) UserBookings(ctx context.Context, userID uint) ([]model.ResourceBooking, error) {
	list, err := s.repo.Resource.ListBookingsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户预约失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}

func (s *resourceService) CancelBooking(ctx context.Context, id, userID uint) error {
	if err := s.repo.Resource.DeleteBooking(ctx, id, userID); err != nil {
		err = classify(err, ErrBookingNotFound)
		if !errors.Is(err, ErrBookingNotFound) {
			s.logger.Error("取消预约失败", zap.Uint("id", id), zap.Error(err))
		}
		return err
	}
	return nil
}
