package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/config"
	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/repository"
)

// ── 日程模块业务错误 ──

var (
	ErrEventNotFound    = errors.New("事件不存在")
	ErrInvalidTimeRange = errors.New("结束时间不能早于开始时间")
	ErrICSNoEvents      = errors.New("ICS 文件中没有可导入的事件")
	ErrICSInvalid       = errors.New("ICS 格式解析失败")
)

// participantSeparator 参与者用户名之间的分隔符
const participantSeparator = ", "

// ScheduleService 日程业务接口
type ScheduleService interface {
	AddEvent(ctx context.Context, userID uint, req *dto.CreateEventRequest) (*model.Event, error)
	// EventsByDate 用户某日（UTC）开始的事件，附带参与者
	EventsByDate(ctx context.Context, userID uint, date string) ([]model.Event, error)
	// EventsByRange 用户在 [start, end] 两端都包含的日期区间内开始的事件
	EventsByRange(ctx context.Context, userID uint, start, end string) ([]model.Event, error)
	DeleteEvent(ctx context.Context, id uint) error
	// TeamEventsByDate 所有人某日的事件，附带创建者用户名
	TeamEventsByDate(ctx context.Context, date string) ([]model.Event, error)
	UpcomingEvents(ctx context.Context, userID uint, days int) ([]model.Event, error)
	ImportICS(ctx context.Context, userID uint, reader io.Reader) (*dto.ImportResult, error)
}

type scheduleService struct {
	repo   *repository.Repository
	cfg    *config.AnalyticsConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, cfg *config.AnalyticsConfig, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, cfg: cfg, logger: logger, now: time.Now}
}

// splitParticipants 按 ", " 拆分参与者，去除空白与空项
func splitParticipants(raw string) []string {
	parts := lo.Map(strings.Split(raw, participantSeparator), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Compact(parts)
}

// ────────────────────── AddEvent ──────────────────────

func (s *scheduleService) AddEvent(ctx context.Context, userID uint, req *dto.CreateEventRequest) (*model.Event, error) {
	if req.EndTime.Before(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	event := &model.Event{
		UserID:       userID,
		Title:        strings.TrimSpace(req.Title),
		StartTime:    req.StartTime.UTC(),
		EndTime:      req.EndTime.UTC(),
		Description:  req.Description,
		Participants: splitParticipants(req.Participants),
	}

	// 事件与参与者在同一事务内写入
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Event.Create(ctx, event); err != nil {
			return err
		}
		return tx.Event.AddParticipants(ctx, event.ID, event.Participants)
	})
	if err != nil {
		s.logger.Error("新增事件失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return event, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *scheduleService) EventsByDate(ctx context.Context, userID uint, date string) ([]model.Event, error) {
	day, err := time.ParseInLocation(model.DateLayout, date, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return s.listWithParticipants(ctx, userID, day, day.AddDate(0, 0, 1))
}

func (s *scheduleService) EventsByRange(ctx context.Context, userID uint, start, end string) ([]model.Event, error) {
	from, err := time.ParseInLocation(model.DateLayout, start, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	to, err := time.ParseInLocation(model.DateLayout, end, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	return s.listWithParticipants(ctx, userID, from, to.AddDate(0, 0, 1))
}

func (s *scheduleService) TeamEventsByDate(ctx context.Context, date string) ([]model.Event, error) {
	day, err := time.ParseInLocation(model.DateLayout, date, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	events, err := s.repo.Event.ListRange(ctx, 0, day, day.AddDate(0, 0, 1), true)
	if err != nil {
		s.logger.Error("查询团队日程失败", zap.String("date", date), zap.Error(err))
		return nil, classify(err, nil)
	}
	return events, nil
}

func (s *scheduleService) UpcomingEvents(ctx context.Context, userID uint, days int) ([]model.Event, error) {
	if days <= 0 {
		days = s.cfg.UpcomingDays
	}
	now := s.now().UTC()
	events, err := s.repo.Event.ListRange(ctx, userID, now, now.AddDate(0, 0, days), false)
	if err != nil {
		s.logger.Error("查询近期事件失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return events, nil
}

func (s *scheduleService) listWithParticipants(ctx context.Context, userID uint, from, to time.Time) ([]model.Event, error) {
	events, err := s.repo.Event.ListRange(ctx, userID, from, to, false)
	if err != nil {
		s.logger.Error("查询事件失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}

	ids := lo.Map(events, func(e model.Event, _ int) uint { return e.ID })
	rows, err := s.repo.Event.Participants(ctx, ids)
	if err != nil {
		s.logger.Error("查询事件参与者失败", zap.Error(err))
		return nil, classify(err, nil)
	}

	byEvent := lo.GroupBy(rows, func(p model.EventParticipant) uint { return p.EventID })
	for i := range events {
		events[i].Participants = lo.Map(byEvent[events[i].ID], func(p model.EventParticipant, _ int) string {
			return p.Username
		})
		if events[i].Participants == nil {
			events[i].Participants = []string{}
		}
	}
	return events, nil
}

// ────────────────────── DeleteEvent ──────────────────────

func (s *scheduleService) DeleteEvent(ctx context.Context, id uint) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Event.DeleteParticipants(ctx, id); err != nil {
			return err
		}
		return tx.Event.Delete(ctx, id)
	})
	if err != nil {
		err = classify(err, ErrEventNotFound)
		if !errors.Is(err, ErrEventNotFound) {
			s.logger.Error("删除事件失败", zap.Uint("id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

// ────────────────────── ImportICS ──────────────────────

func (s *scheduleService) ImportICS(ctx context.Context, userID uint, reader io.Reader) (*dto.ImportResult, error) {
	events, err := ParseICS(reader, userID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrICSNoEvents
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for i := range events {
			if err := tx.Event.Create(ctx, &events[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("导入 ICS 事件失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}

	s.logger.Info("ICS 导入完成", zap.Uint("user_id", userID), zap.Int("events", len(events)))
	return &dto.ImportResult{Total: len(events), Success: len(events)}, nil
}
