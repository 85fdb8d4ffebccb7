package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	defaultPort               = 8080
	defaultMetricsPort        = "9090"
	defaultSmoothing          = 1
	defaultMaxSmoothing       = 600
	defaultCacheTTLSeconds    = 60
	defaultRateLimitPerMinute = 600
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	StaticDir   string `toml:"static_dir"`

	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis, used for rate limiting only; leave host empty to disable
	RedisHost           string `toml:"redis_host"`
	RedisPort           string `toml:"redis_port"`
	RateLimitAllowedMin int    `toml:"rate_limit_per_min"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// charts
	DefaultSmoothing  int    `toml:"default_smoothing"`
	MaxSmoothing      int    `toml:"max_smoothing"`
	DefaultLabelUnit  string `toml:"default_label_unit"`
	CacheTTLSeconds   int    `toml:"cache_ttl_seconds"`
	CacheSizeMegabyte int    `toml:"cache_size_mb"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML config file and returns the config for the given env,
// with defaults set for everything left out.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}

	return cfg, nil
}

func (c *Config) SetDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = defaultMetricsPort
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.RateLimitAllowedMin == 0 {
		c.RateLimitAllowedMin = defaultRateLimitPerMinute
	}
	if c.DefaultSmoothing == 0 {
		c.DefaultSmoothing = defaultSmoothing
	}
	if c.MaxSmoothing == 0 {
		c.MaxSmoothing = defaultMaxSmoothing
	}
	if c.DefaultLabelUnit == "" {
		c.DefaultLabelUnit = "minutes"
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = defaultCacheTTLSeconds
	}
	if c.CacheSizeMegabyte == 0 {
		c.CacheSizeMegabyte = 16
	}
}
