package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/config"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/repository"
)

// ── 云盘模块业务错误 ──

var (
	ErrFileNotFound    = errors.New("文件不存在")
	ErrInvalidFileName = errors.New("无效的文件名")
	ErrShareToSelf     = errors.New("不能共享给自己")
	ErrShareUserAbsent = errors.New("共享对象用户不存在")
)

// StorageService 云盘业务接口
type StorageService interface {
	// Upload 只保留文件名的最后一段，磁盘上以 uuid 前缀存储
	Upload(ctx context.Context, userID uint, filename string, content io.Reader) (*model.File, error)
	ListUserFiles(ctx context.Context, userID uint) ([]model.File, error)
	// Open 所有者或被共享者可下载，返回的 File.Path 为磁盘路径
	Open(ctx context.Context, userID, fileID uint) (*model.File, error)
	Delete(ctx context.Context, userID, fileID uint) error
	Share(ctx context.Context, userID uint, fileName, username string) error
	ListSharedWithMe(ctx context.Context, userID uint) ([]model.SharedFile, error)
}

type storageService struct {
	repo   *repository.Repository
	dir    string
	logger *zap.Logger
}

// NewStorageService 创建 StorageService 实例
func NewStorageService(repo *repository.Repository, cfg *config.StorageConfig, logger *zap.Logger) StorageService {
	return &storageService{repo: repo, dir: cfg.UploadDir, logger: logger}
}

// sanitizeFileName 去掉目录部分，拒绝空名与特殊目录名
func sanitizeFileName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	switch base {
	case "", ".", "..", "/":
		return "", ErrInvalidFileName
	}
	return base, nil
}

// ────────────────────── Upload ──────────────────────

func (s *storageService) Upload(ctx context.Context, userID uint, filename string, content io.Reader) (*model.File, error) {
	name, err := sanitizeFileName(filename)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Error("创建上传目录失败", zap.String("dir", s.dir), zap.Error(err))
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}

	stored := uuid.New().String() + "_" + name
	path := filepath.Join(s.dir, stored)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		s.logger.Error("创建文件失败", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("创建文件失败: %w", err)
	}
	size, err := io.Copy(dst, content)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		s.logger.Error("写入文件失败", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("写入文件失败: %w", err)
	}

	file := &model.File{
		Name:       name,
		StoredName: stored,
		Path:       path,
		Size:       size,
		UserID:     userID,
	}
	if err := s.repo.File.Create(ctx, file); err != nil {
		_ = os.Remove(path)
		s.logger.Error("保存文件记录失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}

	s.logger.Info("文件已上传",
		zap.Uint("user_id", userID),
		zap.String("name", name),
		zap.Int64("size", size),
	)
	return file, nil
}

func (s *storageService) ListUserFiles(ctx context.Context, userID uint) ([]model.File, error) {
	files, err := s.repo.File.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户文件失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return files, nil
}

// ────────────────────── Open ──────────────────────

func (s *storageService) Open(ctx context.Context, userID, fileID uint) (*model.File, error) {
	file, err := s.repo.File.GetByID(ctx, fileID)
	if err != nil {
		return nil, classify(err, ErrFileNotFound)
	}

	if file.UserID != userID {
		shared, err := s.repo.File.IsSharedWith(ctx, fileID, userID)
		if err != nil {
			s.logger.Error("查询共享关系失败", zap.Uint("file_id", fileID), zap.Error(err))
			return nil, classify(err, nil)
		}
		// 无权访问与不存在返回同一错误
		if !shared {
			return nil, ErrFileNotFound
		}
	}

	if _, err := os.Stat(file.Path); err != nil {
		s.logger.Warn("文件记录存在但磁盘文件缺失", zap.Uint("file_id", fileID), zap.String("path", file.Path))
		return nil, ErrFileNotFound
	}
	return file, nil
}

// ────────────────────── Delete ──────────────────────

func (s *storageService) Delete(ctx context.Context, userID, fileID uint) error {
	var path string
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		file, err := tx.File.GetByID(ctx, fileID)
		if err != nil {
			return err
		}
		if file.UserID != userID {
			return ErrFileNotFound
		}
		path = file.Path
		return tx.File.Delete(ctx, fileID)
	})
	if err != nil {
		err = classify(err, ErrFileNotFound)
		if !errors.Is(err, ErrFileNotFound) {
			s.logger.Error("删除文件记录失败", zap.Uint("file_id", fileID), zap.Error(err))
		}
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("删除磁盘文件失败", zap.String("path", path), zap.Error(err))
	}
	return nil
}

// ────────────────────── Share ──────────────────────

func (s *storageService) Share(ctx context.Context, userID uint, fileName, username string) error {
	name, err := sanitizeFileName(fileName)
	if err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		file, err := tx.File.GetByOwnerAndName(ctx, userID, name)
		if err != nil {
			return classify(err, ErrFileNotFound)
		}
		target, err := tx.User.GetByUsername(ctx, strings.TrimSpace(username))
		if err != nil {
			return classify(err, ErrShareUserAbsent)
		}
		if target.ID == userID {
			return ErrShareToSelf
		}
		return tx.File.CreateShare(ctx, &model.FileShare{
			FileID:     file.ID,
			SharedBy:   userID,
			SharedWith: target.ID,
		})
	})
	if err != nil {
		if errors.Is(err, ErrFileNotFound) || errors.Is(err, ErrShareUserAbsent) || errors.Is(err, ErrShareToSelf) {
			return err
		}
		s.logger.Error("共享文件失败", zap.Uint("user_id", userID), zap.String("file", name), zap.Error(err))
		return classify(err, nil)
	}
	return nil
}

func (s *storageService) ListSharedWithMe(ctx context.Context, userID uint) ([]model.SharedFile, error) {
	list, err := s.repo.File.ListSharedWith(ctx, userID)
	if err != nil {
		s.logger.Error("查询共享文件失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}
