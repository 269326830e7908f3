package repository

import (
	"context"
	"time"

	"github.com/guregu/null/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/model"
)

// ProjectRepository 项目与任务数据访问接口
type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id uint) (*model.Project, error)
	UpdateStatus(ctx context.Context, id uint, status string, completedAt null.Time) error
	UpdateActualCost(ctx context.Context, id uint, cost decimal.Decimal) error
	// ListSummaries 带任务统计的项目列表，userID 为 0 时返回全部
	ListSummaries(ctx context.Context, userID uint) ([]model.ProjectSummary, error)
	Recent(ctx context.Context, userID uint, limit int) ([]model.Project, error)
	// EndingBetween 结束日期落在 [from, to] 且状态不是 excludeStatus 的项目
	EndingBetween(ctx context.Context, from, to time.Time, excludeStatus string) ([]model.Project, error)

	CreateTask(ctx context.Context, t *model.Task) error
	ListTasks(ctx context.Context, projectID uint) ([]model.Task, error)
	UpdateTaskStatus(ctx context.Context, id uint, status string) error
}

type projectRepo struct {
	db *gorm.DB
}

// NewProjectRepo 创建 ProjectRepository 实例
func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) UpdateStatus(ctx context.Context, id uint, status string, completedAt null.Time) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"completed_at": completedAt,
		}))
}

func (r *projectRepo) UpdateActualCost(ctx context.Context, id uint, cost decimal.Decimal) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		Update("actual_cost", cost))
}

func (r *projectRepo) ListSummaries(ctx context.Context, userID uint) ([]model.ProjectSummary, error) {
	var rows []model.ProjectSummary
	db := r.db.WithContext(ctx).
		Table("projects AS p").
		Select(`p.*,
			(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS total_tasks,
			(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id AND t.status = ?) AS completed_tasks`,
			model.StatusCompleted)
	if userID != 0 {
		db = db.Where("p.user_id = ?", userID)
	}
	err := db.Order("p.id ASC").Scan(&rows).Error
	return rows, err
}

func (r *projectRepo) Recent(ctx context.Context, userID uint, limit int) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) EndingBetween(ctx context.Context, from, to time.Time, excludeStatus string) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("end_date >= ? AND end_date <= ? AND status <> ?", from, to, excludeStatus).
		Order("end_date ASC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) CreateTask(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *projectRepo) ListTasks(ctx context.Context, projectID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *projectRepo) UpdateTaskStatus(ctx context.Context, id uint, status string) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ?", id).
		Update("status", status))
}
