package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Source struct {
		Type    string        `yaml:"type"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
		Retries int           `yaml:"retries"`
	} `yaml:"source"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Cache struct {
		Type  string        `yaml:"type"`
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Charts struct {
		DefaultWindowDays  int      `yaml:"default_window_days"`
		MaxParallelFetches int      `yaml:"max_parallel_fetches"`
		MACDSignalFactor   string   `yaml:"macd_signal_factor"`
		CorrelationWindow  int      `yaml:"correlation_window"`
		Assets             []string `yaml:"assets"`
		Strategies         []string `yaml:"strategies"`
		TableFactors       []string `yaml:"table_factors"`
	} `yaml:"charts"`
	RateLimit struct {
		Enabled      bool    `yaml:"enabled"`
		Capacity     int     `yaml:"capacity"`
		RefillPerSec float64 `yaml:"refill_per_sec"`
	} `yaml:"rate_limit"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes, fills defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("FINLENS_SOURCE"); v != "" {
		c.Source.Type = v
	}
	if v := os.Getenv("FINLENS_BASE_URL"); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Type = "redis"
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FINLENS_ASSETS"); v != "" {
		c.Charts.Assets = strings.Split(v, ",")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Source.Type == "" {
		c.Source.Type = "http"
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 10 * time.Second
	}
	if c.Cache.Type == "" {
		c.Cache.Type = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 60 * time.Second
	}
	if c.Charts.DefaultWindowDays == 0 {
		c.Charts.DefaultWindowDays = 180
	}
	if c.Charts.MaxParallelFetches == 0 {
		c.Charts.MaxParallelFetches = 8
	}
	if c.Charts.MACDSignalFactor == "" {
		c.Charts.MACDSignalFactor = "ema_12"
	}
	if c.Charts.CorrelationWindow == 0 {
		c.Charts.CorrelationWindow = 60
	}
	if len(c.Charts.Strategies) == 0 {
		c.Charts.Strategies = []string{"momentum"}
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 60
	}
	if c.RateLimit.RefillPerSec == 0 {
		c.RateLimit.RefillPerSec = 10
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Source.Type {
	case "http":
		if c.Source.BaseURL == "" {
			return fmt.Errorf("source.base_url is required for http source")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for clickhouse source")
		}
	default:
		return fmt.Errorf("source.type must be 'http' or 'clickhouse', got '%s'", c.Source.Type)
	}
	if c.Cache.Type != "memory" && c.Cache.Type != "redis" {
		return fmt.Errorf("cache.type must be 'memory' or 'redis', got '%s'", c.Cache.Type)
	}
	if c.Cache.Type == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for redis cache")
	}
	if len(c.Charts.Assets) == 0 {
		return fmt.Errorf("charts.assets cannot be empty")
	}
	if c.Charts.MaxParallelFetches < 0 {
		return fmt.Errorf("charts.max_parallel_fetches must be positive")
	}
	if c.Charts.CorrelationWindow < 5 {
		return fmt.Errorf("charts.correlation_window must be at least 5")
	}
	return nil
}
