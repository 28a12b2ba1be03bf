package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 30.0, cfg.Revenue.DefaultHourlyRate)
	assert.Equal(t, "Europe/Paris", cfg.Revenue.Timezone)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Report.Compress)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestLoadConfig_ValidYAML_PopulatesAllFields(t *testing.T) {
	path := writeFile(t, "config.yaml", `server:
  host: "127.0.0.1"
  port: 9000
database:
  driver: postgres
  dsn: "host=db user=tutor"
auth:
  jwt_secret: "s3cret"
  token_ttl: 1h
revenue:
  default_hourly_rate: 35
  timezone: UTC
report:
  compress: false
cache:
  enabled: true
  backend: redis
  ttl: 45s
  redis_addr: "cache:6379"
ratelimit:
  pdf_per_minute: 5
  burst: 2
log:
  level: debug
  pretty: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=db user=tutor", cfg.Database.DSN)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 35.0, cfg.Revenue.DefaultHourlyRate)
	assert.False(t, cfg.Report.Compress)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 45*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 5, cfg.RateLimit.PDFPerMinute)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)

	loc, err := cfg.Revenue.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("TUTORAPP_AUTH_JWT_SECRET", "from-env")
	t.Setenv("TUTORAPP_SERVER_PORT", "7070")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "server: port: : 1")
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	invalid := writeFile(t, "invalid.yaml", `database:
  driver: mysql
revenue:
  timezone: Mars/Olympus
`)
	_, err = LoadConfig(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
	assert.Contains(t, err.Error(), "revenue.timezone")
}

func TestRegistry(t *testing.T) {
	path := writeFile(t, "tutorapprc", `[default]
url = http://localhost:8080
token = abc

[staging]
url = https://staging.example.com

[empty]
`)

	reg, err := NewRegistry(path)
	require.NoError(t, err)
	ctx := context.Background()

	profiles, err := reg.GetProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "staging"}, profiles)

	p, err := reg.GetProfile(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", p.URL)
	assert.Equal(t, "abc", p.Token)

	p, err = reg.GetProfile(ctx, "staging")
	require.NoError(t, err)
	assert.Empty(t, p.Token)

	_, err = reg.GetProfile(ctx, "empty")
	assert.Error(t, err)
	_, err = reg.GetProfile(ctx, "missing")
	assert.Error(t, err)
}

func TestNewRegistry_MissingFile(t *testing.T) {
	_, err := NewRegistry(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
