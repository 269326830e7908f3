// Package testutil 为仓储层与服务层测试提供迁移完毕的内存数据库。
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/guoyuhou/NewLab/config"
	"github.com/guoyuhou/NewLab/pkg/database"
)

// NewTestDB 创建独立的内存 SQLite 数据库并执行全部迁移
// 每次调用得到一个全新的库，测试结束时自动关闭
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层 sql.DB 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.RunMigrations(sqlDB, config.DriverSQLite, zap.NewNop()); err != nil {
		t.Fatalf("测试数据库迁移失败: %v", err)
	}
	return db
}

// Date 构造 UTC 零点时间，测试中常用
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
