package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/model"
)

// LabRepository 实验室信息数据访问接口
type LabRepository interface {
	// GetInfo 实验室信息只有一行，不存在时返回 gorm.ErrRecordNotFound
	GetInfo(ctx context.Context) (*model.LabInfo, error)
	SaveInfo(ctx context.Context, info *model.LabInfo) error
	ListMembers(ctx context.Context) ([]model.LabMember, error)
	CreateMember(ctx context.Context, m *model.LabMember) error
	ListEquipment(ctx context.Context) ([]model.LabEquipment, error)
	CreateEquipment(ctx context.Context, e *model.LabEquipment) error
	RecentPapers(ctx context.Context, limit int) ([]model.Paper, error)
	CreatePaper(ctx context.Context, p *model.Paper) error
}

type labRepo struct {
	db *gorm.DB
}

// NewLabRepo 创建 LabRepository 实例
func NewLabRepo(db *gorm.DB) LabRepository {
	return &labRepo{db: db}
}

func (r *labRepo) GetInfo(ctx context.Context) (*model.LabInfo, error) {
	var info model.LabInfo
	if err := r.db.WithContext(ctx).Order("id ASC").First(&info).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *labRepo) SaveInfo(ctx context.Context, info *model.LabInfo) error {
	return r.db.WithContext(ctx).Save(info).Error
}

func (r *labRepo) ListMembers(ctx context.Context) ([]model.LabMember, error) {
	var list []model.LabMember
	err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *labRepo) CreateMember(ctx context.Context, m *model.LabMember) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *labRepo) ListEquipment(ctx context.Context) ([]model.LabEquipment, error) {
	var list []model.LabEquipment
	err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *labRepo) CreateEquipment(ctx context.Context, e *model.LabEquipment) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *labRepo) RecentPapers(ctx context.Context, limit int) ([]model.Paper, error) {
	var list []model.Paper
	err := r.db.WithContext(ctx).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *labRepo) CreatePaper(ctx context.Context, p *model.Paper) error {
	return r.db.WithContext(ctx).Create(p).Error
}
