package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Inventory    InventoryRepository
	Finance      FinanceRepository
	Project      ProjectRepository
	Todo         TodoRepository
	Notification NotificationRepository
	Event        EventRepository
	Literature   LiteratureRepository
	Training     TrainingRepository
	Resource     ResourceRepository
	Equipment    EquipmentRepository
	File         FileRepository
	Chat         ChatRepository
	Lab          LabRepository
	Experiment   ExperimentRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Inventory:    NewInventoryRepo(db),
		Finance:      NewFinanceRepo(db),
		Project:      NewProjectRepo(db),
		Todo:         NewTodoRepo(db),
		Notification: NewNotificationRepo(db),
		Event:        NewEventRepo(db),
		Literature:   NewLiteratureRepo(db),
		Training:     NewTrainingRepo(db),
		Resource:     NewResourceRepo(db),
		Equipment:    NewEquipmentRepo(db),
		File:         NewFileRepo(db),
		Chat:         NewChatRepo(db),
		Lab:          NewLabRepo(db),
		Experiment:   NewExperimentRepo(db),
	}
}

// Transaction 在单个数据库事务中执行 fn
// fn 收到的 Repository 绑定到该事务；事务内只能使用它，sqlite 单连接下混用外层仓储会死锁
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Ping 检查数据库连接，供健康检查使用
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// affected 将"未命中任何行"转换为 gorm.ErrRecordNotFound
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
