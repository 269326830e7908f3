package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]model.User, int64, error)
	UpdateRole(ctx context.Context, id uint, role string) error
	// Activity 统计每个用户的收支、事件、领用与培训记录数，按用户 ID 升序
	Activity(ctx context.Context) ([]model.UserActivity, error)
	// TrainingCompletion 已完成：培训记录条数；未完成：没有任何培训记录的用户数
	TrainingCompletion(ctx context.Context) (completed, pending int64, err error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *userRepo) UpdateRole(ctx context.Context, id uint, role string) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("role", role))
}

func (r *userRepo) Activity(ctx context.Context) ([]model.UserActivity, error) {
	var rows []model.UserActivity
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS user_id, u.username,
		       (SELECT COUNT(*) FROM financial_transactions f WHERE f.user_id = u.id) AS financial_transactions,
		       (SELECT COUNT(*) FROM events e WHERE e.user_id = u.id)                 AS events_created,
		       (SELECT COUNT(*) FROM inventory_usage iu WHERE iu.user_id = u.id)      AS inventory_usages,
		       (SELECT COUNT(*) FROM user_training_records t WHERE t.user_id = u.id)  AS completed_trainings
		FROM users u
		ORDER BY u.id`).
		Scan(&rows).Error
	return rows, err
}

func (r *userRepo) TrainingCompletion(ctx context.Context) (int64, int64, error) {
	var completed, pending int64
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.UserTrainingRecord{}).Count(&completed).Error; err != nil {
		return 0, 0, err
	}
	err := db.Model(&model.User{}).
		Where("NOT EXISTS (SELECT 1 FROM user_training_records t WHERE t.user_id = users.id)").
		Count(&pending).Error
	return completed, pending, err
}
