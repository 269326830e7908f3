package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/model"
)

// LiteratureRepository 文献数据访问接口
type LiteratureRepository interface {
	Create(ctx context.Context, l *model.Literature) error
	GetByID(ctx context.Context, id uint) (*model.Literature, error)
	// GetOwned 只返回 userID 录入的文献，他人的记录按不存在处理
	GetOwned(ctx context.Context, id, userID uint) (*model.Literature, error)
	Update(ctx context.Context, l *model.Literature) error
	// Delete 只能删除自己录入的文献
	Delete(ctx context.Context, id, userID uint) error
	// Search 在标题、作者、笔记中模糊匹配关键词
	Search(ctx context.Context, keyword string) ([]model.Literature, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Literature, error)
}

type literatureRepo struct {
	db *gorm.DB
}

// NewLiteratureRepo 创建 LiteratureRepository 实例
func NewLiteratureRepo(db *gorm.DB) LiteratureRepository {
	return &literatureRepo{db: db}
}

func (r *literatureRepo) Create(ctx context.Context, l *model.Literature) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *literatureRepo) GetByID(ctx context.Context, id uint) (*model.Literature, error) {
	var l model.Literature
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *literatureRepo) GetOwned(ctx context.Context, id, userID uint) (*model.Literature, error) {
	var l model.Literature
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *literatureRepo) Update(ctx context.Context, l *model.Literature) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *literatureRepo) Delete(ctx context.Context, id, userID uint) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Literature{}))
}

func (r *literatureRepo) Search(ctx context.Context, keyword string) ([]model.Literature, error) {
	var list []model.Literature
	like := "%" + keyword + "%"
	err := r.db.WithContext(ctx).
		Where("title LIKE ? OR authors LIKE ? OR notes LIKE ?", like, like, like).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *literatureRepo) ListByUser(ctx context.Context, userID uint) ([]model.Literature, error) {
	var list []model.Literature
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&list).Error
	return list, err
}
