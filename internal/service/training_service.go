package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/repository"
)

// ── 安全培训模块业务错误 ──

var (
	ErrCourseNotFound  = errors.New("培训课程不存在")
	ErrNoAnswers       = errors.New("未提交任何答案")
	ErrInvalidOption   = errors.New("选项不能包含 '|'")
	ErrAnswerNotOption = errors.New("正确答案必须是选项之一")
)

// optionSeparator 选项在数据库中的连接符
const optionSeparator = "|"

// TrainingService 安全培训业务接口
type TrainingService interface {
	ListCourses(ctx context.Context) ([]model.SafetyCourse, error)
	GetCourse(ctx context.Context, id uint) (*model.SafetyCourse, error)
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*model.SafetyCourse, error)
	GetQuestions(ctx context.Context, courseID uint) ([]dto.QuestionView, error)
	AddQuestion(ctx context.Context, courseID uint, req *dto.CreateQuestionRequest) (*dto.QuestionView, error)
	// EvaluateAnswers 答对题数占提交题数的百分比，保留两位小数
	EvaluateAnswers(ctx context.Context, courseID uint, answers map[uint]string) (float64, error)
	MarkCompleted(ctx context.Context, userID, courseID uint, score float64) (*dto.EvaluationResult, error)
	// SubmitAnswers 评分并记录完成
	SubmitAnswers(ctx context.Context, userID, courseID uint, answers map[uint]string) (*dto.EvaluationResult, error)
	UserTrainingRecords(ctx context.Context, userID uint) ([]model.TrainingRecordView, error)
}

type trainingService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewTrainingService 创建 TrainingService 实例
func NewTrainingService(repo *repository.Repository, logger *zap.Logger) TrainingService {
	return &trainingService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Courses ──────────────────────

func (s *trainingService) ListCourses(ctx context.Context) ([]model.SafetyCourse, error) {
	courses, err := s.repo.Training.ListCourses(ctx)
	if err != nil {
		s.logger.Error("查询培训课程失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return courses, nil
}

func (s *trainingService) GetCourse(ctx context.Context, id uint) (*model.SafetyCourse, error) {
	course, err := s.repo.Training.GetCourse(ctx, id)
	if err != nil {
		return nil, classify(err, ErrCourseNotFound)
	}
	return course, nil
}

func (s *trainingService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*model.SafetyCourse, error) {
	course := &model.SafetyCourse{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Content:     req.Content,
	}
	if err := s.repo.Training.CreateCourse(ctx, course); err != nil {
		s.logger.Error("创建培训课程失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return course, nil
}

// ────────────────────── Questions ──────────────────────

func toQuestionView(q model.SafetyQuestion) dto.QuestionView {
	return dto.QuestionView{
		ID:       q.ID,
		Question: q.Question,
		Options:  strings.Split(q.Options, optionSeparator),
	}
}

func (s *trainingService) GetQuestions(ctx context.Context, courseID uint) ([]dto.QuestionView, error) {
	qs, err := s.repo.Training.ListQuestions(ctx, courseID)
	if err != nil {
		s.logger.Error("查询测验题失败", zap.Uint("course_id", courseID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return lo.Map(qs, func(q model.SafetyQuestion, _ int) dto.QuestionView {
		return toQuestionView(q)
	}), nil
}

func (s *trainingService) AddQuestion(ctx context.Context, courseID uint, req *dto.CreateQuestionRequest) (*dto.QuestionView, error) {
	options := lo.Map(req.Options, func(o string, _ int) string { return strings.TrimSpace(o) })
	if lo.SomeBy(options, func(o string) bool { return strings.Contains(o, optionSeparator) }) {
		return nil, ErrInvalidOption
	}
	answer := strings.TrimSpace(req.CorrectAnswer)
	if !lo.Contains(options, answer) {
		return nil, ErrAnswerNotOption
	}

	q := &model.SafetyQuestion{
		CourseID:      courseID,
		Question:      strings.TrimSpace(req.Question),
		Options:       strings.Join(options, optionSeparator),
		CorrectAnswer: answer,
	}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Training.GetCourse(ctx, courseID); err != nil {
			return err
		}
		return tx.Training.CreateQuestion(ctx, q)
	})
	if err != nil {
		err = classify(err, ErrCourseNotFound)
		if !errors.Is(err, ErrCourseNotFound) {
			s.logger.Error("新增测验题失败", zap.Uint("course_id", courseID), zap.Error(err))
		}
		return nil, err
	}

	view := toQuestionView(*q)
	return &view, nil
}

// ────────────────────── EvaluateAnswers ──────────────────────

func (s *trainingService) EvaluateAnswers(ctx context.Context, courseID uint, answers map[uint]string) (float64, error) {
	if len(answers) == 0 {
		return 0, ErrNoAnswers
	}

	qs, err := s.repo.Training.ListQuestions(ctx, courseID)
	if err != nil {
		s.logger.Error("查询测验题失败", zap.Uint("course_id", courseID), zap.Error(err))
		return 0, classify(err, nil)
	}
	correct := lo.SliceToMap(qs, func(q model.SafetyQuestion) (uint, string) {
		return q.ID, q.CorrectAnswer
	})

	// 不属于本课程的题目按答错计
	right := lo.CountBy(lo.Entries(answers), func(e lo.Entry[uint, string]) bool {
		want, ok := correct[e.Key]
		return ok && strings.TrimSpace(e.Value) == want
	})
	return round2(float64(right) / float64(len(answers)) * 100), nil
}

// ────────────────────── Records ──────────────────────

func (s *trainingService) MarkCompleted(ctx context.Context, userID, courseID uint, score float64) (*dto.EvaluationResult, error) {
	rec := &model.UserTrainingRecord{
		UserID:         userID,
		CourseID:       courseID,
		CompletionDate: s.now().UTC(),
		Score:          score,
	}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Training.GetCourse(ctx, courseID); err != nil {
			return err
		}
		return tx.Training.CreateRecord(ctx, rec)
	})
	if err != nil {
		err = classify(err, ErrCourseNotFound)
		if !errors.Is(err, ErrCourseNotFound) {
			s.logger.Error("记录培训完成失败",
				zap.Uint("user_id", userID),
				zap.Uint("course_id", courseID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	return &dto.EvaluationResult{
		CourseID:       courseID,
		Score:          score,
		CompletionDate: rec.CompletionDate,
	}, nil
}

func (s *trainingService) SubmitAnswers(ctx context.Context, userID, courseID uint, answers map[uint]string) (*dto.EvaluationResult, error) {
	score, err := s.EvaluateAnswers(ctx, courseID, answers)
	if err != nil {
		return nil, err
	}
	return s.MarkCompleted(ctx, userID, courseID, score)
}

func (s *trainingService) UserTrainingRecords(ctx context.Context, userID uint) ([]model.TrainingRecordView, error) {
	rows, err := s.repo.Training.ListRecords(ctx, userID)
	if err != nil {
		s.logger.Error("查询培训记录失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return rows, nil
}
