package handler

import (
	"github.com/guoyuhou/NewLab/config"
	"github.com/guoyuhou/NewLab/internal/relay"
	"github.com/guoyuhou/NewLab/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Public        *PublicHandler
	Auth          *AuthHandler
	User          *UserHandler
	Inventory     *InventoryHandler
	Finance       *FinanceHandler
	Project       *ProjectHandler
	Schedule      *ScheduleHandler
	Literature    *LiteratureHandler
	Training      *TrainingHandler
	Resource      *ResourceHandler
	Equipment     *EquipmentHandler
	Lab           *LabHandler
	Communication *CommunicationHandler
	Storage       *StorageHandler
	Analytics     *AnalyticsHandler
	Experiment    *ExperimentHandler
}

// NewHandler 创建 Handler 聚合，hub 为 nil 时聊天 WebSocket 返回 503
func NewHandler(cfg *config.Config, svc *service.Service, hub *relay.Hub) *Handler {
	return &Handler{
		Public:        NewPublicHandler(svc),
		Auth:          NewAuthHandler(svc.Auth, &cfg.Auth),
		User:          NewUserHandler(svc.User),
		Inventory:     NewInventoryHandler(svc.Inventory),
		Finance:       NewFinanceHandler(svc.Finance),
		Project:       NewProjectHandler(svc.Project),
		Schedule:      NewScheduleHandler(svc.Schedule),
		Literature:    NewLiteratureHandler(svc.Literature),
		Training:      NewTrainingHandler(svc.Training),
		Resource:      NewResourceHandler(svc.Resource),
		Equipment:     NewEquipmentHandler(svc.Equipment),
		Lab:           NewLabHandler(svc.Lab),
		Communication: NewCommunicationHandler(svc.Communication, hub),
		Storage:       NewStorageHandler(svc.Storage),
		Analytics:     NewAnalyticsHandler(svc.Analytics, svc.Notification),
		Experiment:    NewExperimentHandler(svc.Experiment),
	}
}
