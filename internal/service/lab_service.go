package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/repository"
)

// ── 实验室信息模块业务错误 ──

var (
	ErrLabInfoNotFound = errors.New("尚未设置实验室信息")
)

const recentPaperLimit = 5

// LabService 实验室信息业务接口
type LabService interface {
	GetInfo(ctx context.Context) (*model.LabInfo, error)
	// UpdateInfo 实验室信息只保留一行，不存在时创建
	UpdateInfo(ctx context.Context, req *dto.LabInfoRequest) (*model.LabInfo, error)
	ListMembers(ctx context.Context) ([]model.LabMember, error)
	AddMember(ctx context.Context, req *dto.LabMemberRequest) (*model.LabMember, error)
	ListEquipment(ctx context.Context) ([]model.LabEquipment, error)
	AddEquipment(ctx context.Context, req *dto.LabEquipmentRequest) (*model.LabEquipment, error)
	RecentPapers(ctx context.Context) ([]model.Paper, error)
	AddPaper(ctx context.Context, req *dto.PaperRequest) (*model.Paper, error)
}

type labService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLabService 创建 LabService 实例
func NewLabService(repo *repository.Repository, logger *zap.Logger) LabService {
	return &labService{repo: repo, logger: logger}
}

func (s *labService) GetInfo(ctx context.Context) (*model.LabInfo, error) {
	info, err := s.repo.Lab.GetInfo(ctx)
	if err != nil {
		return nil, classify(err, ErrLabInfoNotFound)
	}
	return info, nil
}

func (s *labService) UpdateInfo(ctx context.Context, req *dto.LabInfoRequest) (*model.LabInfo, error) {
	var saved *model.LabInfo
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		info, err := tx.Lab.GetInfo(ctx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			info = &model.LabInfo{}
		} else if err != nil {
			return err
		}

		info.Name = strings.TrimSpace(req.Name)
		info.Institution = strings.TrimSpace(req.Institution)
		info.EstablishedDate = req.EstablishedDate
		info.ResearchFocus = req.ResearchFocus
		if err := tx.Lab.SaveInfo(ctx, info); err != nil {
			return err
		}
		saved = info
		return nil
	})
	if err != nil {
		s.logger.Error("更新实验室信息失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return saved, nil
}

func (s *labService) ListMembers(ctx context.Context) ([]model.LabMember, error) {
	list, err := s.repo.Lab.ListMembers(ctx)
	if err != nil {
		s.logger.Error("查询实验室成员失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}

func (s *labService) AddMember(ctx context.Context, req *dto.LabMemberRequest) (*model.LabMember, error) {
	m := &model.LabMember{
		Name:         strings.TrimSpace(req.Name),
		Position:     req.Position,
		Email:        req.Email,
		ResearchArea: req.ResearchArea,
	}
	if err := s.repo.Lab.CreateMember(ctx, m); err != nil {
		s.logger.Error("新增实验室成员失败", zap.String("name", m.Name), zap.Error(err))
		return nil, classify(err, nil)
	}
	return m, nil
}

func (s *labService) ListEquipment(ctx context.Context) ([]model.LabEquipment, error) {
	list, err := s.repo.Lab.ListEquipment(ctx)
	if err != nil {
		s.logger.Error("查询实验室设备失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}

func (s *labService) AddEquipment(ctx context.Context, req *dto.LabEquipmentRequest) (*model.LabEquipment, error) {
	e := &model.LabEquipment{
		Name:         strings.TrimSpace(req.Name),
		Model:        req.Model,
		PurchaseDate: req.PurchaseDate,
		Status:       req.Status,
	}
	if err := s.repo.Lab.CreateEquipment(ctx, e); err != nil {
		s.logger.Error("登记实验室设备失败", zap.String("name", e.Name), zap.Error(err))
		return nil, classify(err, nil)
	}
	return e, nil
}

func (s *labService) RecentPapers(ctx context.Context) ([]model.Paper, error) {
	list, err := s.repo.Lab.RecentPapers(ctx, recentPaperLimit)
	if err != nil {
		s.logger.Error("查询近期论文失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}

func (s *labService) AddPaper(ctx context.Context, req *dto.PaperRequest) (*model.Paper, error) {
	p := &model.Paper{
		Title:   strings.TrimSpace(req.Title),
		Authors: req.Authors,
		Journal: req.Journal,
		Date:    req.Date,
	}
	if err := s.repo.Lab.CreatePaper(ctx, p); err != nil {
		s.logger.Error("登记论文失败", zap.String("title", p.Title), zap.Error(err))
		return nil, classify(err, nil)
	}
	return p, nil
}
