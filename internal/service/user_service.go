package service

import (
	"context"
	"errors"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/rbac"
	"github.com/guoyuhou/NewLab/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrInvalidRole        = errors.New("无效的角色")
	ErrUnknownPermission  = errors.New("未知的权限")
	ErrUserSelfRoleChange = errors.New("不能修改自己的角色")
)

// 培训完成情况状态名
const (
	TrainingStatusCompleted = "已完成"
	TrainingStatusPending   = "未完成"
)

// UserService 用户与权限业务接口
type UserService interface {
	GetUser(ctx context.Context, id uint) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	AssignRole(ctx context.Context, id uint, role string, callerID uint) error
	GetUserPermissions(ctx context.Context, id uint) ([]string, error)
	UserHasPermission(ctx context.Context, id uint, perm string) (bool, error)
	// UserActivity 活跃度 = 收支记录 + 创建事件 + 库存领用，按活跃度降序
	UserActivity(ctx context.Context) ([]dto.UserActivityScore, error)
	// UserActivityReport 四项计数明细，供聚类分析使用
	UserActivityReport(ctx context.Context) ([]model.UserActivity, error)
	SafetyTrainingCompletion(ctx context.Context) ([]dto.TrainingCompletion, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── GetUser ──────────────────────

func (s *userService) GetUser(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		err = classify(err, ErrUserNotFound)
		if !errors.Is(err, ErrUserNotFound) {
			s.logger.Error("查询用户失败", zap.Uint("id", id), zap.Error(err))
		}
		return nil, err
	}

	resp := toUserResponse(user)
	resp.Permissions = permissionNames(user.Role)
	return resp, nil
}

// ────────────────────── ListUsers ──────────────────────

func (s *userService) ListUsers(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	req.Normalize()

	users, total, err := s.repo.User.List(ctx, req.Offset(), req.PageSize)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, classify(err, nil)
	}

	list := lo.Map(users, func(u model.User, _ int) dto.UserResponse {
		return *toUserResponse(&u)
	})
	return list, total, nil
}

// ────────────────────── AssignRole ──────────────────────

func (s *userService) AssignRole(ctx context.Context, id uint, role string, callerID uint) error {
	if !rbac.ValidRole(role) {
		return ErrInvalidRole
	}
	if id == callerID {
		return ErrUserSelfRoleChange
	}

	if err := s.repo.User.UpdateRole(ctx, id, role); err != nil {
		err = classify(err, ErrUserNotFound)
		if !errors.Is(err, ErrUserNotFound) {
			s.logger.Error("分配角色失败", zap.Uint("id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info("角色已变更",
		zap.Uint("user_id", id),
		zap.String("role", role),
		zap.Uint("operator", callerID),
	)
	return nil
}

// ────────────────────── Permissions ──────────────────────

func (s *userService) GetUserPermissions(ctx context.Context, id uint) ([]string, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, ErrUserNotFound)
	}
	return permissionNames(user.Role), nil
}

func (s *userService) UserHasPermission(ctx context.Context, id uint, perm string) (bool, error) {
	if !lo.Contains(rbac.AllPermissions(), rbac.Permission(perm)) {
		return false, ErrUnknownPermission
	}
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return false, classify(err, ErrUserNotFound)
	}
	return rbac.HasPermission(user.Role, rbac.Permission(perm)), nil
}

func permissionNames(role string) []string {
	return lo.Map(rbac.Permissions(role), func(p rbac.Permission, _ int) string {
		return string(p)
	})
}

// ────────────────────── Activity ──────────────────────

func (s *userService) UserActivity(ctx context.Context) ([]dto.UserActivityScore, error) {
	rows, err := s.repo.User.Activity(ctx)
	if err != nil {
		s.logger.Error("统计用户活跃度失败", zap.Error(err))
		return nil, classify(err, nil)
	}

	scores := lo.Map(rows, func(a model.UserActivity, _ int) dto.UserActivityScore {
		return dto.UserActivityScore{
			UserID:                a.UserID,
			Username:              a.Username,
			FinancialTransactions: a.FinancialTransactions,
			EventsCreated:         a.EventsCreated,
			InventoryUsages:       a.InventoryUsages,
			ActivityScore:         a.FinancialTransactions + a.EventsCreated + a.InventoryUsages,
		}
	})
	// 同分时保持用户 ID 升序
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].ActivityScore > scores[j].ActivityScore
	})
	return scores, nil
}

func (s *userService) UserActivityReport(ctx context.Context) ([]model.UserActivity, error) {
	rows, err := s.repo.User.Activity(ctx)
	if err != nil {
		s.logger.Error("统计用户活跃度失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return rows, nil
}

// ────────────────────── SafetyTrainingCompletion ──────────────────────

func (s *userService) SafetyTrainingCompletion(ctx context.Context) ([]dto.TrainingCompletion, error) {
	completed, pending, err := s.repo.User.TrainingCompletion(ctx)
	if err != nil {
		s.logger.Error("统计培训完成情况失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return []dto.TrainingCompletion{
		{Status: TrainingStatusCompleted, Count: completed},
		{Status: TrainingStatusPending, Count: pending},
	}, nil
}
