package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/model"
)

// FileRepository 云盘文件与共享关系数据访问接口
type FileRepository interface {
	Create(ctx context.Context, f *model.File) error
	GetByID(ctx context.Context, id uint) (*model.File, error)
	GetByOwnerAndName(ctx context.Context, userID uint, name string) (*model.File, error)
	ListByUser(ctx context.Context, userID uint) ([]model.File, error)
	// Delete 同时删除该文件的全部共享关系
	Delete(ctx context.Context, id uint) error

	CreateShare(ctx context.Context, s *model.FileShare) error
	IsSharedWith(ctx context.Context, fileID, userID uint) (bool, error)
	ListSharedWith(ctx context.Context, userID uint) ([]model.SharedFile, error)
}

type fileRepo struct {
	db *gorm.DB
}

// NewFileRepo 创建 FileRepository 实例
func NewFileRepo(db *gorm.DB) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, f *model.File) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fileRepo) GetByID(ctx context.Context, id uint) (*model.File, error) {
	var f model.File
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fileRepo) GetByOwnerAndName(ctx context.Context, userID uint, name string) (*model.File, error) {
	var f model.File
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		Order("id DESC").
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fileRepo) ListByUser(ctx context.Context, userID uint) ([]model.File, error) {
	var files []model.File
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&files).Error
	return files, err
}

func (r *fileRepo) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("file_id = ?", id).Delete(&model.FileShare{}).Error; err != nil {
		return err
	}
	return affected(db.Delete(&model.File{}, id))
}

func (r *fileRepo) CreateShare(ctx context.Context, s *model.FileShare) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *fileRepo) IsSharedWith(ctx context.Context, fileID, userID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.FileShare{}).
		Where("file_id = ? AND shared_with = ?", fileID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *fileRepo) ListSharedWith(ctx context.Context, userID uint) ([]model.SharedFile, error) {
	var rows []model.SharedFile
	err := r.db.WithContext(ctx).
		Table("file_shares AS s").
		Select("f.id AS file_id, f.name, f.size, COALESCE(u.username, '') AS shared_by, s.created_at").
		Joins("JOIN files f ON f.id = s.file_id").
		Joins("LEFT JOIN users u ON u.id = s.shared_by").
		Where("s.shared_with = ?", userID).
		Order("s.created_at DESC, s.id DESC").
		Scan(&rows).Error
	return rows, err
}
