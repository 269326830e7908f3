package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/config"
	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/repository"
)

// NotificationService 系统提醒与个人首页
type NotificationService interface {
	// GenerateNotifications 依次生成低库存、预算超支、项目即将到期三类提醒
	GenerateNotifications(ctx context.Context) ([]string, error)
	ExpiringProjects(ctx context.Context, days int) ([]dto.ExpiringProject, error)
	Dashboard(ctx context.Context, userID uint) (*dto.Dashboard, error)
}

type notificationService struct {
	repo      *repository.Repository
	cfg       *config.AnalyticsConfig
	inventory InventoryService
	finance   FinanceService
	project   ProjectService
	schedule  ScheduleService
	logger    *zap.Logger
	now       func() time.Time
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(
	repo *repository.Repository,
	cfg *config.AnalyticsConfig,
	inventory InventoryService,
	finance FinanceService,
	project ProjectService,
	schedule ScheduleService,
	logger *zap.Logger,
) NotificationService {
	return &notificationService{
		repo:      repo,
		cfg:       cfg,
		inventory: inventory,
		finance:   finance,
		project:   project,
		schedule:  schedule,
		logger:    logger,
		now:       time.Now,
	}
}

// ────────────────────── GenerateNotifications ──────────────────────

func (s *notificationService) GenerateNotifications(ctx context.Context) ([]string, error) {
	var alerts []string

	// 低库存
	low, err := s.inventory.LowStock(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	for _, item := range low {
		alerts = append(alerts, fmt.Sprintf("警告：%s 库存不足，当前数量：%d %s", item.Name, item.Quantity, item.Unit))
	}

	// 预算超支，只检查设置了预算的类别
	budgets, err := s.finance.ListBudgets(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range budgets {
		if b.Used.GreaterThan(b.Amount) {
			alerts = append(alerts, fmt.Sprintf("警告：%s 类别预算超支，当前支出：¥%.2f，预算：¥%.2f",
				b.Category, b.Used.InexactFloat64(), b.Amount.InexactFloat64()))
		}
	}

	// 即将到期的项目
	expiring, err := s.ExpiringProjects(ctx, s.cfg.ExpiringDays)
	if err != nil {
		return nil, err
	}
	for _, p := range expiring {
		alerts = append(alerts, fmt.Sprintf("提醒：项目 '%s' 将在 %d 天后到期", p.Name, p.DaysLeft))
	}

	return alerts, nil
}

// ────────────────────── ExpiringProjects ──────────────────────

// ExpiringProjects 结束日期在今天到 days 天后（含）之间、尚未完成的项目
func (s *notificationService) ExpiringProjects(ctx context.Context, days int) ([]dto.ExpiringProject, error) {
	if days <= 0 {
		days = s.cfg.ExpiringDays
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	// 上界取 days 天后的最后一刻，保证结束日当天的项目被包含
	until := today.AddDate(0, 0, days+1).Add(-time.Nanosecond)

	projects, err := s.repo.Project.EndingBetween(ctx, today, until, model.StatusCompleted)
	if err != nil {
		s.logger.Error("查询即将到期项目失败", zap.Int("days", days), zap.Error(err))
		return nil, classify(err, nil)
	}

	result := make([]dto.ExpiringProject, 0, len(projects))
	for _, p := range projects {
		end := p.EndDate.UTC().Truncate(24 * time.Hour)
		result = append(result, dto.ExpiringProject{
			ID:       p.ID,
			Name:     p.Name,
			EndDate:  end.Format(model.DateLayout),
			DaysLeft: int(end.Sub(today).Hours() / 24),
		})
	}
	return result, nil
}

// ────────────────────── Dashboard ──────────────────────

func (s *notificationService) Dashboard(ctx context.Context, userID uint) (*dto.Dashboard, error) {
	projects, err := s.project.RecentProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	todos, err := s.project.ListOpenTodos(ctx, userID)
	if err != nil {
		return nil, err
	}
	notifications, err := s.project.RecentNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.schedule.UpcomingEvents(ctx, userID, s.cfg.UpcomingDays)
	if err != nil {
		return nil, err
	}
	alerts, err := s.GenerateNotifications(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.Dashboard{
		RecentProjects: projects,
		Todos:          todos,
		Notifications:  notifications,
		UpcomingEvents: events,
		Alerts:         alerts,
	}, nil
}
