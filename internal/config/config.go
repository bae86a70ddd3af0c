package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage
	StoreBackend   string `toml:"store_backend"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`

	// progress read cache (freecache)
	CacheSizeMegabytes int `toml:"cache_size_mb"`
	CacheTTLSeconds    int `toml:"cache_ttl_seconds"`

	// activity recording
	RecordRateLimitPerMin  int  `toml:"record_rate_limit_per_min"`
	IdempotencyTTLMinutes  int  `toml:"idempotency_ttl_minutes"`
	DispatcherWorkers      int  `toml:"dispatcher_workers"`
	DispatcherQueueSize    int  `toml:"dispatcher_queue_size"`
	ReconcileIntervalMin   int  `toml:"reconcile_interval_minutes"`
	ReconcileLookbackHours int  `toml:"reconcile_lookback_hours"`
	ReconcileBatchSize     int  `toml:"reconcile_batch_size"`
	TracingEnabled         bool `toml:"tracing_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the section for env,
// with defaults filled in for anything left unset.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return fromToml(&t, env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.applyDefaults(env)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults(env string) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.StoreBackend == "" {
		c.StoreBackend = StoreBackendPostgres
	}
	if c.CacheSizeMegabytes == 0 {
		c.CacheSizeMegabytes = 16
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 30
	}
	if c.RecordRateLimitPerMin == 0 {
		c.RecordRateLimitPerMin = 120
	}
	if c.IdempotencyTTLMinutes == 0 {
		c.IdempotencyTTLMinutes = 24 * 60
	}
	if c.DispatcherWorkers == 0 {
		c.DispatcherWorkers = 4
	}
	if c.DispatcherQueueSize == 0 {
		c.DispatcherQueueSize = 256
	}
	if c.ReconcileIntervalMin == 0 {
		c.ReconcileIntervalMin = 30
	}
	if c.ReconcileLookbackHours == 0 {
		c.ReconcileLookbackHours = 24
	}
	if c.ReconcileBatchSize == 0 {
		c.ReconcileBatchSize = 500
	}
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendPostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			return fmt.Errorf("postgres store backend requires postgres_host, postgres_port and postgres_db_name")
		}
	case StoreBackendMemory:
	default:
		return fmt.Errorf("unknown store backend: %s", c.StoreBackend)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempotencyTTLMinutes) * time.Minute
}

func (c *Config) ReconcileInterval() time.Duration {
	return time.Duration(c.ReconcileIntervalMin) * time.Minute
}

func (c *Config) ReconcileLookback() time.Duration {
	return time.Duration(c.ReconcileLookbackHours) * time.Hour
}
