package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the carescot engine.
// Configuration can come from a YAML file (config.yaml) or environment
// variables; environment variables always override YAML values. Secrets
// (passwords, the scheduler token) must only come from environment variables.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8443"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Compliance ComplianceConfig `yaml:"compliance"`
	Rota       RotaConfig       `yaml:"rota"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host            string        `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"PGPORT" env-default:"5432"`
	User            string        `yaml:"user" env:"PGUSER" env-default:"carescot"`
	Password        string        `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database        string        `yaml:"database" env:"PGDATABASE" env-default:"carescot"`
	MaxConnections  int32         `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"PGCONN_MAX_LIFETIME" env-default:"1h"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env:"PGCONN_MAX_IDLE_TIME" env-default:"30m"`
	SSLMode         string        `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath  string        `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// RedisConfig holds Redis configuration. Redis is optional: it only backs the
// fleet run lock, and an empty host disables it.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// ComplianceConfig holds engine-level settings for the compliance scheduler.
// Per-organisation rule thresholds live in the organisations table, not here.
type ComplianceConfig struct {
	// SchedulerSecret is the bearer token the external scheduler must present
	// on POST /api/compliance/run. The server refuses to start without it
	// outside local env.
	SchedulerSecret string `yaml:"-" env:"COMPLIANCE_SCHEDULER_SECRET"`

	// SchedulerEnabled turns the built-in interval scheduler on. When false
	// the engine only runs when triggered over HTTP.
	SchedulerEnabled bool `yaml:"scheduler_enabled" env:"COMPLIANCE_SCHEDULER_ENABLED" env-default:"false"`

	// RunInterval is how often the built-in scheduler sweeps all organisations.
	RunInterval time.Duration `yaml:"run_interval" env:"COMPLIANCE_RUN_INTERVAL" env-default:"1h"`

	// TenantTimeout bounds one organisation's run; a hung tenant is reported
	// as a normal per-tenant failure.
	TenantTimeout time.Duration `yaml:"tenant_timeout" env:"COMPLIANCE_TENANT_TIMEOUT" env-default:"2m"`

	// Concurrency is the number of organisation runs evaluated in parallel.
	Concurrency int `yaml:"concurrency" env:"COMPLIANCE_CONCURRENCY" env-default:"4"`

	// HolidaysPath points at a YAML list of bank-holiday dates (YYYY-MM-DD)
	// excluded from working-day arithmetic. Empty means weekends only.
	HolidaysPath string `yaml:"holidays_path" env:"COMPLIANCE_HOLIDAYS_PATH" env-default:""`
}

// RotaConfig holds the connection settings for the external scheduling/rota
// system. The engine only consumes its read contract.
type RotaConfig struct {
	BaseURL string        `yaml:"base_url" env:"ROTA_BASE_URL" env-default:""`
	APIKey  string        `yaml:"-" env:"ROTA_API_KEY"` // Secret - not in YAML
	Timeout time.Duration `yaml:"timeout" env:"ROTA_TIMEOUT" env-default:"10s"`
}

// Load reads configuration from config.yaml (if present) and the environment.
func Load(version string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment config: %w", err)
		}
	}

	cfg.Version = version

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Compliance.SchedulerSecret == "" && c.Env != "local" {
		return fmt.Errorf("COMPLIANCE_SCHEDULER_SECRET must be set outside local environment")
	}
	if c.Compliance.Concurrency < 1 {
		return fmt.Errorf("compliance concurrency must be at least 1, got %d", c.Compliance.Concurrency)
	}
	if c.Compliance.TenantTimeout <= 0 {
		return fmt.Errorf("compliance tenant_timeout must be positive")
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
