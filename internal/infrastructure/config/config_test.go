package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mealengine", cfg.App.Name)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "json", cfg.App.LogFormat)

	assert.Equal(t, 4.0, cfg.Planner.DefaultBudgetPerMeal)
	assert.Equal(t, 500.0, cfg.Planner.DefaultTargetCalories)
	assert.Equal(t, 14, cfg.Planner.MaxBatchSize)

	assert.Equal(t, 30*time.Minute, cfg.Cache.ScoreTTL)
	assert.Equal(t, 1000, cfg.Cache.MaxSize)

	assert.Equal(t, 100, cfg.Guard.MonthlyLimit)
	assert.False(t, cfg.Guard.UseRedis)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PETPLATES_GUARD_MONTHLY_LIMIT", "25")
	t.Setenv("PETPLATES_APP_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Guard.MonthlyLimit)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	yaml := `
app:
  log_level: warn
planner:
  max_batch_size: 7
cache:
  score_ttl: 10m
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, 7, cfg.Planner.MaxBatchSize)
	assert.Equal(t, 10*time.Minute, cfg.Cache.ScoreTTL)
	// Untouched keys keep their defaults.
	assert.Equal(t, 100, cfg.Guard.MonthlyLimit)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Planner.MaxBatchSize = 0
	assert.Error(t, cfg.Validate())

	cfg, _ = Load("")
	cfg.Cache.ScoreTTL = 0
	assert.Error(t, cfg.Validate())

	cfg, _ = Load("")
	cfg.Guard.MonthlyLimit = -1
	assert.Error(t, cfg.Validate())
}
