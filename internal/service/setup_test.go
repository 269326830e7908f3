package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/config"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/repository"
	"github.com/guoyuhou/NewLab/internal/testutil"
	"github.com/guoyuhou/NewLab/pkg/jwt"
)

// ── 测试公共设施 ──

type memBlacklist struct {
	mu   sync.Mutex
	jtis map[string]time.Duration
}

func newMemBlacklist() *memBlacklist {
	return &memBlacklist{jtis: make(map[string]time.Duration)}
}

func (m *memBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jtis[jti] = ttl
	return nil
}

func (m *memBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jtis[jti]
	return ok, nil
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []string
}

func (b *recordingBroadcaster) Broadcast(user, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, user+":"+message)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-unit-testing",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Storage: config.StorageConfig{UploadDir: t.TempDir()},
		Analytics: config.AnalyticsConfig{
			LowStockThreshold:  10,
			ExpiringDays:       7,
			UpcomingDays:       7,
			ForecastMonths:     3,
			MinUsageHistory:    12,
			Clusters:           3,
			Trees:              20,
			Seed:               42,
			RecentTransactions: 20,
		},
	}
}

// testEnv 基于内存 SQLite 的完整服务层
type testEnv struct {
	svc         *Service
	repo        *repository.Repository
	cfg         *config.Config
	blacklist   *memBlacklist
	broadcaster *recordingBroadcaster
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig(t)
	repo := repository.NewRepository(testutil.NewTestDB(t))
	bl := newMemBlacklist()
	bc := &recordingBroadcaster{}
	svc := NewService(cfg, repo, jwt.NewManager(&cfg.Auth), bl, bc, zap.NewNop())
	return &testEnv{svc: svc, repo: repo, cfg: cfg, blacklist: bl, broadcaster: bc}
}

func createTestUser(t *testing.T, repo *repository.Repository, username, role string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@lab.test", PasswordHash: "x", Role: role}
	if err := repo.User.Create(context.Background(), u); err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return u
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
