package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: test-secret-key-for-unit-testing\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("期望默认端口 8000，实际=%d", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("期望默认驱动 sqlite，实际=%s", cfg.Database.Driver)
	}
	if cfg.Database.Path != "lab_management.db" {
		t.Errorf("期望默认数据库文件 lab_management.db，实际=%s", cfg.Database.Path)
	}
	if cfg.Analytics.LowStockThreshold != 10 {
		t.Errorf("期望低库存阈值 10，实际=%d", cfg.Analytics.LowStockThreshold)
	}
	if cfg.Analytics.Clusters != 3 {
		t.Errorf("期望聚类数 3，实际=%d", cfg.Analytics.Clusters)
	}
	if cfg.Auth.AccessTokenTTL != 30*time.Minute {
		t.Errorf("期望 AccessTokenTTL=30m，实际=%v", cfg.Auth.AccessTokenTTL)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: test-secret-key-for-unit-testing\n")
	t.Setenv("NEWLAB_SERVER_PORT", "9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("期望环境变量覆盖端口为 9100，实际=%d", cfg.Server.Port)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8000\n")

	if _, err := Load(path); err == nil {
		t.Error("缺少 jwt_secret 时应返回错误")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8000},
			Database:  DatabaseConfig{Driver: DriverSQLite},
			Auth:      AuthConfig{JWTSecret: "0123456789abcdef"},
			Analytics: AnalyticsConfig{Clusters: 3},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"合法配置", func(c *Config) {}, false},
		{"密钥过短", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }, true},
		{"未知驱动", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"postgres 驱动", func(c *Config) { c.Database.Driver = DriverPostgres }, false},
		{"聚类数为零", func(c *Config) { c.Analytics.Clusters = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Driver: DriverSQLite, Path: "lab.db"}
	if got := c.DSN(); got != "lab.db?_busy_timeout=5000" {
		t.Errorf("sqlite DSN 不符合预期: %s", got)
	}

	pg := DatabaseConfig{Driver: DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable", Timezone: "UTC"}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable TimeZone=UTC"
	if got := pg.DSN(); got != want {
		t.Errorf("postgres DSN 不符合预期: %s", got)
	}
}
