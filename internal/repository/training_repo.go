package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/model"
)

// TrainingRepository 安全培训数据访问接口
type TrainingRepository interface {
	ListCourses(ctx context.Context) ([]model.SafetyCourse, error)
	GetCourse(ctx context.Context, id uint) (*model.SafetyCourse, error)
	CreateCourse(ctx context.Context, c *model.SafetyCourse) error
	CreateQuestion(ctx context.Context, q *model.SafetyQuestion) error
	ListQuestions(ctx context.Context, courseID uint) ([]model.SafetyQuestion, error)
	CreateRecord(ctx context.Context, rec *model.UserTrainingRecord) error
	ListRecords(ctx context.Context, userID uint) ([]model.TrainingRecordView, error)
}

type trainingRepo struct {
	db *gorm.DB
}

// NewTrainingRepo 创建 TrainingRepository 实例
func NewTrainingRepo(db *gorm.DB) TrainingRepository {
	return &trainingRepo{db: db}
}

func (r *trainingRepo) ListCourses(ctx context.Context) ([]model.SafetyCourse, error) {
	var courses []model.SafetyCourse
	err := r.db.WithContext(ctx).Order("id ASC").Find(&courses).Error
	return courses, err
}

func (r *trainingRepo) GetCourse(ctx context.Context, id uint) (*model.SafetyCourse, error) {
	var c model.SafetyCourse
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *trainingRepo) CreateCourse(ctx context.Context, c *model.SafetyCourse) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *trainingRepo) CreateQuestion(ctx context.Context, q *model.SafetyQuestion) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *trainingRepo) ListQuestions(ctx context.Context, courseID uint) ([]model.SafetyQuestion, error) {
	var qs []model.SafetyQuestion
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("id ASC").
		Find(&qs).Error
	return qs, err
}

func (r *trainingRepo) CreateRecord(ctx context.Context, rec *model.UserTrainingRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *trainingRepo) ListRecords(ctx context.Context, userID uint) ([]model.TrainingRecordView, error) {
	var rows []model.TrainingRecordView
	err := r.db.WithContext(ctx).
		Table("user_training_records AS r").
		Select("r.course_id, c.title AS course_title, r.completion_date, r.score").
		Joins("JOIN safety_courses c ON c.id = r.course_id").
		Where("r.user_id = ?", userID).
		Order("r.completion_date DESC, r.id DESC").
		Scan(&rows).Error
	return rows, err
}
