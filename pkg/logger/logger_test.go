package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guoyuhou/NewLab/config"
)

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "loud"}); err == nil {
		t.Fatal("无效日志级别应返回错误")
	}
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger(&config.LogConfig{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("NewLogger 失败: %v", err)
	}

	logger.Debug("不应输出")
	logger.Info("库存已更新")
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, "库存已更新") {
		t.Errorf("日志文件缺少 info 记录: %s", out)
	}
	if strings.Contains(out, "不应输出") {
		t.Error("低于配置级别的日志不应输出")
	}
	if !strings.Contains(out, `"logger":"newlab"`) {
		t.Errorf("日志应带 newlab 名称: %s", out)
	}
}
