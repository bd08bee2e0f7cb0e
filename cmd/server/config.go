package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"codepad/internal/common/cache"
	"codepad/internal/common/db"
	"codepad/internal/runner/dispatch"
	"codepad/internal/server/middleware"
	"codepad/pkg/utils/logger"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8090"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultWorkRoot        = "/tmp/codepad"
	defaultStaticDir       = "web/static"
	defaultMaxCodeBytes    = 64 * 1024
	defaultSnippetCacheTTL = time.Hour
	defaultRateLimitWindow = time.Minute
	defaultRunsPerWindow   = 30
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// RunnerConfig holds execution dispatcher settings.
type RunnerConfig struct {
	WorkRoot         string        `yaml:"workRoot"`
	Timeout          time.Duration `yaml:"timeout"`
	OutputLimitBytes int64         `yaml:"outputLimitBytes"`
	MaxCodeBytes     int           `yaml:"maxCodeBytes"`
}

// StaticConfig holds editor UI file serving settings.
type StaticConfig struct {
	Dir string `yaml:"dir"`
}

// SnippetConfig holds snippet storage settings.
type SnippetConfig struct {
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// RateLimitConfig holds per-IP run limiting settings.
type RateLimitConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Window        time.Duration `yaml:"window"`
	RunsPerWindow int           `yaml:"runsPerWindow"`
}

// AppConfig holds the full server configuration.
type AppConfig struct {
	Server    ServerConfig          `yaml:"server"`
	Logger    logger.Config         `yaml:"logger"`
	Runner    RunnerConfig          `yaml:"runner"`
	Static    StaticConfig          `yaml:"static"`
	Redis     cache.RedisConfig     `yaml:"redis"`
	Database  db.MySQLConfig        `yaml:"database"`
	Snippets  SnippetConfig         `yaml:"snippets"`
	RateLimit RateLimitConfig       `yaml:"rateLimit"`
	CORS      middleware.CORSConfig `yaml:"cors"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if cfg.RateLimit.Enabled && cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("rate limiting requires a redis addr")
	}
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		// Must exceed the run timeout or responses get cut off mid-run.
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Runner.WorkRoot == "" {
		cfg.Runner.WorkRoot = defaultWorkRoot
	}
	if cfg.Runner.Timeout == 0 {
		cfg.Runner.Timeout = dispatch.DefaultTimeout
	}
	if cfg.Runner.OutputLimitBytes == 0 {
		cfg.Runner.OutputLimitBytes = dispatch.DefaultOutputLimitBytes
	}
	if cfg.Runner.MaxCodeBytes == 0 {
		cfg.Runner.MaxCodeBytes = defaultMaxCodeBytes
	}
	if cfg.Static.Dir == "" {
		cfg.Static.Dir = defaultStaticDir
	}
	if cfg.Snippets.CacheTTL == 0 {
		cfg.Snippets.CacheTTL = defaultSnippetCacheTTL
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = defaultRateLimitWindow
	}
	if cfg.RateLimit.RunsPerWindow == 0 {
		cfg.RateLimit.RunsPerWindow = defaultRunsPerWindow
	}
	if cfg.Redis.Addr != "" {
		applyRedisDefaults(&cfg.Redis)
	}
}

func applyRedisDefaults(cfg *cache.RedisConfig) {
	defaults := cache.DefaultRedisConfig()
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.MinRetryBackoff == 0 {
		cfg.MinRetryBackoff = defaults.MinRetryBackoff
	}
	if cfg.MaxRetryBackoff == 0 {
		cfg.MaxRetryBackoff = defaults.MaxRetryBackoff
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaults.DialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.PoolSize == 0 {
		cfg.PoolSize = defaults.PoolSize
	}
	if cfg.MinIdleConns == 0 {
		cfg.MinIdleConns = defaults.MinIdleConns
	}
	if cfg.PoolTimeout == 0 {
		cfg.PoolTimeout = defaults.PoolTimeout
	}
}
