package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ARCADE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	Refresh       RefreshConfig
	Notifications NotificationsConfig
	OpenAI        OpenAIConfig
	Steam         SteamConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ARCADE_APP_ENV" default:"dev"`
	Port         string `envconfig:"ARCADE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ARCADE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ARCADE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ARCADE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	Driver string `envconfig:"ARCADE_DB_DRIVER" default:"sqlite"`
	// DSN is a Postgres connection string when Driver is postgres, or the
	// sqlite file path when Driver is sqlite.
	DSN string `envconfig:"ARCADE_DB_DSN" default:"free_games.db"`

	MaxOpenConns    int           `envconfig:"ARCADE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"ARCADE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"ARCADE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ARCADE_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"ARCADE_DB_AUTO_MIGRATE" default:"true"`
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	if db.DSN == "" {
		return fmt.Errorf("%s_DB_DSN is required", EnvPrefix)
	}
	return nil
}

type RedisConfig struct {
	// URL is optional; when empty the cron worker falls back to a local
	// in-process lock, which is fine for single-instance deployments.
	URL          string        `envconfig:"ARCADE_REDIS_URL"`
	Address      string        `envconfig:"ARCADE_REDIS_ADDR"`
	Password     string        `envconfig:"ARCADE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ARCADE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ARCADE_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"ARCADE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ARCADE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ARCADE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type RefreshConfig struct {
	Interval       time.Duration `envconfig:"ARCADE_REFRESH_INTERVAL" default:"6h"`
	ExpiryWarning  time.Duration `envconfig:"ARCADE_REFRESH_EXPIRY_WARNING" default:"24h"`
	SourceTimeout  time.Duration `envconfig:"ARCADE_REFRESH_SOURCE_TIMEOUT" default:"30s"`
	MetricsAddress string        `envconfig:"ARCADE_REFRESH_METRICS_ADDR" default:":9090"`
}

type NotificationsConfig struct {
	// WebhookURL posts combined alerts to a Discord-compatible webhook.
	WebhookURL     string        `envconfig:"ARCADE_NOTIFY_WEBHOOK_URL"`
	WebhookTimeout time.Duration `envconfig:"ARCADE_NOTIFY_WEBHOOK_TIMEOUT" default:"10s"`
}

type OpenAIConfig struct {
	APIKey         string `envconfig:"ARCADE_OPENAI_API_KEY"`
	EmbeddingModel string `envconfig:"ARCADE_OPENAI_EMBEDDING_MODEL" default:"text-embedding-3-small"`
}

type SteamConfig struct {
	APIKey  string        `envconfig:"ARCADE_STEAM_API_KEY"`
	Timeout time.Duration `envconfig:"ARCADE_STEAM_TIMEOUT" default:"30s"`
}
