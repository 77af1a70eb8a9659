// Package config provides centralized configuration management using
// Viper for loading, environment overrides and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all engine configuration.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Planner PlannerConfig `mapstructure:"planner"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Guard   GuardConfig   `mapstructure:"guard"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// AppConfig contains application-level configuration.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// CatalogConfig locates the ingredient feed. An empty path selects the
// embedded feed.
type CatalogConfig struct {
	FeedPath string `mapstructure:"feed_path"`
}

// PlannerConfig tunes generation defaults.
type PlannerConfig struct {
	DefaultBudgetPerMeal  float64 `mapstructure:"default_budget_per_meal"`
	DefaultTargetCalories float64 `mapstructure:"default_target_calories"`
	MaxBatchSize          int     `mapstructure:"max_batch_size"`
}

// CacheConfig tunes the compatibility score cache.
type CacheConfig struct {
	ScoreTTL time.Duration `mapstructure:"score_ttl"`
	MaxSize  int           `mapstructure:"max_size"`
}

// GuardConfig tunes the generation guards.
type GuardConfig struct {
	MonthlyLimit int  `mapstructure:"monthly_limit"`
	UseRedis     bool `mapstructure:"use_redis"`
}

// RedisConfig contains Redis connection settings for the counter store.
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the host:port pair for the Redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration from an optional file plus PETPLATES_*
// environment variables, with sane defaults for everything.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/petplates")
	}

	v.SetEnvPrefix("PETPLATES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults plus env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "mealengine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	v.SetDefault("catalog.feed_path", "")

	v.SetDefault("planner.default_budget_per_meal", 4.0)
	v.SetDefault("planner.default_target_calories", 500.0)
	v.SetDefault("planner.max_batch_size", 14)

	v.SetDefault("cache.score_ttl", "30m")
	v.SetDefault("cache.max_size", 1000)

	v.SetDefault("guard.monthly_limit", 100)
	v.SetDefault("guard.use_redis", false)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Planner.MaxBatchSize <= 0 {
		return fmt.Errorf("planner.max_batch_size must be positive, got %d", c.Planner.MaxBatchSize)
	}
	if c.Cache.ScoreTTL <= 0 {
		return fmt.Errorf("cache.score_ttl must be positive, got %s", c.Cache.ScoreTTL)
	}
	if c.Guard.MonthlyLimit <= 0 {
		return fmt.Errorf("guard.monthly_limit must be positive, got %d", c.Guard.MonthlyLimit)
	}
	return nil
}
