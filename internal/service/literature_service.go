package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/repository"
)

// ── 文献模块业务错误 ──

var (
	ErrLiteratureNotFound = errors.New("文献不存在")
)

// LiteratureService 文献管理业务接口
type LiteratureService interface {
	Add(ctx context.Context, userID uint, req *dto.LiteratureRequest) (*model.Literature, error)
	Search(ctx context.Context, keyword string) ([]model.Literature, error)
	Get(ctx context.Context, id uint) (*model.Literature, error)
	// Update 与 Delete 仅限录入人本人，他人的文献返回 ErrLiteratureNotFound
	Update(ctx context.Context, id, userID uint, req *dto.LiteratureRequest) (*model.Literature, error)
	Delete(ctx context.Context, id, userID uint) error
	ListByUser(ctx context.Context, userID uint) ([]model.Literature, error)
}

type literatureService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLiteratureService 创建 LiteratureService 实例
func NewLiteratureService(repo *repository.Repository, logger *zap.Logger) LiteratureService {
	return &literatureService{repo: repo, logger: logger}
}

func applyLiterature(l *model.Literature, req *dto.LiteratureRequest) {
	l.Title = strings.TrimSpace(req.Title)
	l.Authors = strings.TrimSpace(req.Authors)
	l.Journal = strings.TrimSpace(req.Journal)
	l.Year = req.Year
	l.DOI = req.DOI
	l.Notes = req.Notes
}

func (s *literatureService) Add(ctx context.Context, userID uint, req *dto.LiteratureRequest) (*model.Literature, error) {
	l := &model.Literature{UserID: userID}
	applyLiterature(l, req)
	if err := s.repo.Literature.Create(ctx, l); err != nil {
		s.logger.Error("新增文献失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return l, nil
}

func (s *literatureService) Search(ctx context.Context, keyword string) ([]model.Literature, error) {
	list, err := s.repo.Literature.Search(ctx, strings.TrimSpace(keyword))
	if err != nil {
		s.logger.Error("检索文献失败", zap.String("keyword", keyword), zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}

func (s *literatureService) Get(ctx context.Context, id uint) (*model.Literature, error) {
	l, err := s.repo.Literature.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, ErrLiteratureNotFound)
	}
	return l, nil
}

func (s *literatureService) Update(ctx context.Context, id, userID uint, req *dto.LiteratureRequest) (*model.Literature, error) {
	var updated *model.Literature
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		l, err := tx.Literature.GetOwned(ctx, id, userID)
		if err != nil {
			return err
		}
		applyLiterature(l, req)
		if err := tx.Literature.Update(ctx, l); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		err = classify(err, ErrLiteratureNotFound)
		if !errors.Is(err, ErrLiteratureNotFound) {
			s.logger.Error("更新文献失败", zap.Uint("id", id), zap.Error(err))
		}
		return nil, err
	}
	return updated, nil
}

func (s *literatureService) Delete(ctx context.Context, id, userID uint) error {
	if err := s.repo.Literature.Delete(ctx, id, userID); err != nil {
		err = classify(err, ErrLiteratureNotFound)
		if !errors.Is(err, ErrLiteratureNotFound) {
			s.logger.Error("删除文献失败", zap.Uint("id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *literatureService) ListByUser(ctx context.Context, userID uint) ([]model.Literature, error) {
	list, err := s.repo.Literature.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户文献失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}
