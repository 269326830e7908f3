package service

import (
	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/config"
	"github.com/guoyuhou/NewLab/internal/repository"
	"github.com/guoyuhou/NewLab/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth          AuthService
	User          UserService
	Inventory     InventoryService
	Finance       FinanceService
	Project       ProjectService
	Schedule      ScheduleService
	Literature    LiteratureService
	Training      TrainingService
	Resource      ResourceService
	Equipment     EquipmentService
	Lab           LabService
	Communication CommunicationService
	Storage       StorageService
	Analytics     AnalyticsService
	Notification  NotificationService
	Experiment    ExperimentService
}

// NewService 创建 Service 聚合
// 汇总层依赖各业务模块，须在业务模块之后构造
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	broadcaster Broadcaster,
	logger *zap.Logger,
) *Service {
	s := &Service{
		Auth:          NewAuthService(repo, jwtMgr, blacklist, logger),
		User:          NewUserService(repo, logger),
		Inventory:     NewInventoryService(repo, &cfg.Analytics, logger),
		Finance:       NewFinanceService(repo, &cfg.Analytics, logger),
		Project:       NewProjectService(repo, logger),
		Schedule:      NewScheduleService(repo, &cfg.Analytics, logger),
		Literature:    NewLiteratureService(repo, logger),
		Training:      NewTrainingService(repo, logger),
		Resource:      NewResourceService(repo, logger),
		Equipment:     NewEquipmentService(repo, logger),
		Lab:           NewLabService(repo, logger),
		Communication: NewCommunicationService(repo, broadcaster, logger),
		Storage:       NewStorageService(repo, &cfg.Storage, logger),
	}

	s.Analytics = NewAnalyticsService(&cfg.Analytics, s.Finance, s.Inventory, s.Project, s.User, logger)
	s.Notification = NewNotificationService(repo, &cfg.Analytics, s.Inventory, s.Finance, s.Project, s.Schedule, logger)
	s.Experiment = NewExperimentService(repo, &cfg.Analytics, s.Inventory, s.Finance, s.Project, s.Analytics, logger)
	return s
}
