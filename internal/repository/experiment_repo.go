package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/model"
)

// ExperimentRepository 实验记录、报告与分析历史数据访问接口
type ExperimentRepository interface {
	Create(ctx context.Context, e *model.Experiment) error
	ListByUser(ctx context.Context, userID uint) ([]model.Experiment, error)
	// GetOwned 只返回本人的实验记录
	GetOwned(ctx context.Context, id, userID uint) (*model.Experiment, error)
	// Delete 只删除本人的实验记录，返回删除行数
	Delete(ctx context.Context, id, userID uint) (int64, error)

	CreateReport(ctx context.Context, rep *model.Report) error
	ListReports(ctx context.Context, userID uint) ([]model.Report, error)

	CreateAnalysis(ctx context.Context, rec *model.AnalysisRecord) error
	ListAnalysis(ctx context.Context, userID uint) ([]model.AnalysisRecord, error)
}

type experimentRepo struct {
	db *gorm.DB
}

// NewExperimentRepo 创建 ExperimentRepository 实例
func NewExperimentRepo(db *gorm.DB) ExperimentRepository {
	return &experimentRepo{db: db}
}

func (r *experimentRepo) Create(ctx context.Context, e *model.Experiment) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *experimentRepo) ListByUser(ctx context.Context, userID uint) ([]model.Experiment, error) {
	var list []model.Experiment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *experimentRepo) GetOwned(ctx context.Context, id, userID uint) (*model.Experiment, error) {
	var e model.Experiment
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *experimentRepo) Delete(ctx context.Context, id, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Experiment{})
	return res.RowsAffected, res.Error
}

func (r *experimentRepo) CreateReport(ctx context.Context, rep *model.Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *experimentRepo) ListReports(ctx context.Context, userID uint) ([]model.Report, error) {
	var list []model.Report
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *experimentRepo) CreateAnalysis(ctx context.Context, rec *model.AnalysisRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *experimentRepo) ListAnalysis(ctx context.Context, userID uint) ([]model.AnalysisRecord, error) {
	var list []model.AnalysisRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Find(&list).Error
	return list, err
}
