package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUpload_SanitizesName(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	owner := createTestUser(t, env.repo, "alice", "researcher")

	file, err := env.svc.Storage.Upload(ctx, owner.ID, "../../etc/数据.csv", strings.NewReader("a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("Upload 失败: %v", err)
	}
	if file.Name != "数据.csv" {
		t.Errorf("文件名应只保留基础名，实际=%s", file.Name)
	}
	if filepath.Dir(file.Path) != filepath.Clean(env.cfg.Storage.UploadDir) {
		t.Errorf("文件应保存在上传目录内，实际=%s", file.Path)
	}
	data, err := os.ReadFile(file.Path)
	if err != nil {
		t.Fatalf("读取上传文件失败: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Errorf("文件内容不符: %q", data)
	}

	if _, err := env.svc.Storage.Upload(ctx, owner.ID, "..", strings.NewReader("x")); !errors.Is(err, ErrInvalidFileName) {
		t.Errorf("非法文件名期望 ErrInvalidFileName，实际: %v", err)
	}
}

func TestShareAndOpen(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	owner := createTestUser(t, env.repo, "alice", "researcher")
	friend := createTestUser(t, env.repo, "bob", "student")
	stranger := createTestUser(t, env.repo, "eve", "guest")

	file, err := env.svc.Storage.Upload(ctx, owner.ID, "report.pdf", strings.NewReader("pdf"))
	if err != nil {
		t.Fatalf("Upload 失败: %v", err)
	}

	if _, err := env.svc.Storage.Open(ctx, friend.ID, file.ID); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("未共享前期望 ErrFileNotFound，实际: %v", err)
	}

	if err := env.svc.Storage.Share(ctx, owner.ID, "report.pdf", "bob"); err != nil {
		t.Fatalf("Share 失败: %v", err)
	}
	if err := env.svc.Storage.Share(ctx, owner.ID, "report.pdf", "alice"); !errors.Is(err, ErrShareToSelf) {
		t.Errorf("共享给自己期望 ErrShareToSelf，实际: %v", err)
	}
	if err := env.svc.Storage.Share(ctx, owner.ID, "report.pdf", "nobody"); !errors.Is(err, ErrShareUserAbsent) {
		t.Errorf("共享对象不存在期望 ErrShareUserAbsent，实际: %v", err)
	}
	if err := env.svc.Storage.Share(ctx, owner.ID, "missing.pdf", "bob"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("文件不存在期望 ErrFileNotFound，实际: %v", err)
	}

	if _, err := env.svc.Storage.Open(ctx, owner.ID, file.ID); err != nil {
		t.Errorf("所有者应能打开: %v", err)
	}
	if _, err := env.svc.Storage.Open(ctx, friend.ID, file.ID); err != nil {
		t.Errorf("共享对象应能打开: %v", err)
	}
	if _, err := env.svc.Storage.Open(ctx, stranger.ID, file.ID); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("无关用户期望 ErrFileNotFound，实际: %v", err)
	}

	shared, err := env.svc.Storage.ListSharedWithMe(ctx, friend.ID)
	if err != nil {
		t.Fatalf("ListSharedWithMe 失败: %v", err)
	}
	if len(shared) != 1 {
		t.Errorf("期望 1 个共享文件，实际=%d", len(shared))
	}
}

func TestDeleteFile_OwnerOnly(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	owner := createTestUser(t, env.repo, "alice", "researcher")
	other := createTestUser(t, env.repo, "bob", "student")

	file, err := env.svc.Storage.Upload(ctx, owner.ID, "raw.dat", strings.NewReader("0101"))
	if err != nil {
		t.Fatalf("Upload 失败: %v", err)
	}

	if err := env.svc.Storage.Delete(ctx, other.ID, file.ID); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("非所有者删除期望 ErrFileNotFound，实际: %v", err)
	}
	if err := env.svc.Storage.Delete(ctx, owner.ID, file.ID); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if _, err := os.Stat(file.Path); !os.IsNotExist(err) {
		t.Error("磁盘文件应已删除")
	}

	files, err := env.svc.Storage.ListUserFiles(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListUserFiles 失败: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("删除后不应有文件，实际=%d", len(files))
	}
}
