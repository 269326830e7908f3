package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/guregu/null/v5"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/repository"
)

// ── 项目模块业务错误 ──

var (
	ErrProjectNotFound   = errors.New("项目不存在")
	ErrTaskNotFound      = errors.New("任务不存在")
	ErrTodoNotFound      = errors.New("待办不存在")
	ErrInvalidDateRange  = errors.New("结束日期不能早于开始日期")
	ErrRecipientNotFound = errors.New("通知接收人不存在")
)

const (
	recentProjectLimit      = 5
	recentNotificationLimit = 5
)

// ProjectService 项目、任务、待办与通知业务接口
type ProjectService interface {
	CreateProject(ctx context.Context, userID uint, req *dto.CreateProjectRequest) (*model.Project, error)
	GetUserProjects(ctx context.Context, userID uint) ([]model.ProjectSummary, error)
	ListAllProjects(ctx context.Context) ([]model.ProjectSummary, error)
	PublicProjects(ctx context.Context) ([]dto.PublicProject, error)
	ProjectReport(ctx context.Context) (*dto.ProjectReport, error)
	RecentProjects(ctx context.Context, userID uint) ([]model.Project, error)
	// UpdateProjectStatus 状态改为已完成时记录完成时间，改回其他状态时清空
	UpdateProjectStatus(ctx context.Context, id uint, req *dto.UpdateStatusRequest) error

	AddTask(ctx context.Context, projectID uint, description string) (*model.Task, error)
	ListTasks(ctx context.Context, projectID uint) ([]model.Task, error)
	UpdateTaskStatus(ctx context.Context, id uint, status string) error

	AddTodo(ctx context.Context, userID uint, description string) (*model.Todo, error)
	CompleteTodo(ctx context.Context, id, userID uint) error
	ListOpenTodos(ctx context.Context, userID uint) ([]model.Todo, error)

	AddNotification(ctx context.Context, userID uint, message string) (*model.Notification, error)
	RecentNotifications(ctx context.Context, userID uint) ([]model.Notification, error)
}

type projectService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewProjectService 创建 ProjectService 实例
func NewProjectService(repo *repository.Repository, logger *zap.Logger) ProjectService {
	return &projectService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── CreateProject ──────────────────────

func (s *projectService) CreateProject(ctx context.Context, userID uint, req *dto.CreateProjectRequest) (*model.Project, error) {
	start, err := time.ParseInLocation(model.DateLayout, req.StartDate, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := time.ParseInLocation(model.DateLayout, req.EndDate, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	if req.Budget.IsNegative() {
		return nil, ErrInvalidAmount
	}

	teamSize := req.TeamSize
	if teamSize <= 0 {
		teamSize = 1
	}

	project := &model.Project{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Status:      model.StatusInProgress,
		Budget:      req.Budget.Round(2),
		TeamSize:    teamSize,
	}
	if err := s.repo.Project.Create(ctx, project); err != nil {
		s.logger.Error("创建项目失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}

	s.logger.Info("项目已创建", zap.Uint("id", project.ID), zap.String("name", project.Name))
	return project, nil
}

// ────────────────────── 项目查询 ──────────────────────

func (s *projectService) GetUserProjects(ctx context.Context, userID uint) ([]model.ProjectSummary, error) {
	rows, err := s.repo.Project.ListSummaries(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户项目失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return rows, nil
}

func (s *projectService) ListAllProjects(ctx context.Context) ([]model.ProjectSummary, error) {
	rows, err := s.repo.Project.ListSummaries(ctx, 0)
	if err != nil {
		s.logger.Error("查询项目列表失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return rows, nil
}

func (s *projectService) PublicProjects(ctx context.Context) ([]dto.PublicProject, error) {
	rows, err := s.ListAllProjects(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(p model.ProjectSummary, _ int) dto.PublicProject {
		return dto.PublicProject{
			Name:      p.Name,
			StartDate: p.StartDate.UTC().Format(model.DateLayout),
			EndDate:   p.EndDate.UTC().Format(model.DateLayout),
			Status:    p.Status,
		}
	}), nil
}

func (s *projectService) ProjectReport(ctx context.Context) (*dto.ProjectReport, error) {
	rows, err := s.ListAllProjects(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ProjectReport{
		Total: len(rows),
		ByStatus: lo.CountValuesBy(rows, func(p model.ProjectSummary) string {
			return p.Status
		}),
		Projects: rows,
	}, nil
}

func (s *projectService) RecentProjects(ctx context.Context, userID uint) ([]model.Project, error) {
	projects, err := s.repo.Project.Recent(ctx, userID, recentProjectLimit)
	if err != nil {
		s.logger.Error("查询最近项目失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return projects, nil
}

// ────────────────────── UpdateProjectStatus ──────────────────────

func (s *projectService) UpdateProjectStatus(ctx context.Context, id uint, req *dto.UpdateStatusRequest) error {
	var completedAt null.Time
	if req.Status == model.StatusCompleted {
		completedAt = null.TimeFrom(s.now().UTC())
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Project.UpdateStatus(ctx, id, req.Status, completedAt); err != nil {
			return err
		}
		if req.ActualCost != nil {
			return tx.Project.UpdateActualCost(ctx, id, req.ActualCost.Round(2))
		}
		return nil
	})
	if err != nil {
		err = classify(err, ErrProjectNotFound)
		if !errors.Is(err, ErrProjectNotFound) {
			s.logger.Error("更新项目状态失败", zap.Uint("id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

// ────────────────────── Tasks ──────────────────────

func (s *projectService) AddTask(ctx context.Context, projectID uint, description string) (*model.Task, error) {
	task := &model.Task{
		ProjectID:   projectID,
		Description: strings.TrimSpace(description),
		Status:      model.StatusInProgress,
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Project.GetByID(ctx, projectID); err != nil {
			return err
		}
		return tx.Project.CreateTask(ctx, task)
	})
	if err != nil {
		err = classify(err, ErrProjectNotFound)
		if !errors.Is(err, ErrProjectNotFound) {
			s.logger.Error("新增任务失败", zap.Uint("project_id", projectID), zap.Error(err))
		}
		return nil, err
	}
	return task, nil
}

func (s *projectService) ListTasks(ctx context.Context, projectID uint) ([]model.Task, error) {
	tasks, err := s.repo.Project.ListTasks(ctx, projectID)
	if err != nil {
		s.logger.Error("查询任务失败", zap.Uint("project_id", projectID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return tasks, nil
}

func (s *projectService) UpdateTaskStatus(ctx context.Context, id uint, status string) error {
	if err := s.repo.Project.UpdateTaskStatus(ctx, id, status); err != nil {
		err = classify(err, ErrTaskNotFound)
		if !errors.Is(err, ErrTaskNotFound) {
			s.logger.Error("更新任务状态失败", zap.Uint("id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

// ────────────────────── Todos ──────────────────────

func (s *projectService) AddTodo(ctx context.Context, userID uint, description string) (*model.Todo, error) {
	todo := &model.Todo{UserID: userID, Description: strings.TrimSpace(description)}
	if err := s.repo.Todo.Create(ctx, todo); err != nil {
		s.logger.Error("新增待办失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return todo, nil
}

func (s *projectService) CompleteTodo(ctx context.Context, id, userID uint) error {
	if err := s.repo.Todo.Complete(ctx, id, userID); err != nil {
		err = classify(err, ErrTodoNotFound)
		if !errors.Is(err, ErrTodoNotFound) {
			s.logger.Error("完成待办失败", zap.Uint("id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *projectService) ListOpenTodos(ctx context.Context, userID uint) ([]model.Todo, error) {
	todos, err := s.repo.Todo.ListOpen(ctx, userID)
	if err != nil {
		s.logger.Error("查询待办失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return todos, nil
}

// ────────────────────── Notifications ──────────────────────

func (s *projectService) AddNotification(ctx context.Context, userID uint, message string) (*model.Notification, error) {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		return nil, classify(err, ErrRecipientNotFound)
	}

	n := &model.Notification{UserID: userID, Message: message}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.logger.Error("发送通知失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return n, nil
}

func (s *projectService) RecentNotifications(ctx context.Context, userID uint) ([]model.Notification, error) {
	list, err := s.repo.Notification.Recent(ctx, userID, recentNotificationLimit)
	if err != nil {
		s.logger.Error("查询通知失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}
