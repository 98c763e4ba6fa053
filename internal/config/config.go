package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	ServerID    string `envconfig:"SERVER_ID" default:"make-server-396a4785"`
	Environment string `envconfig:"APP_ENV" default:"development"`

	KVBackend     string `envconfig:"KV_BACKEND" default:"memory"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	GoogleServiceAccountKey string        `envconfig:"GOOGLE_SERVICE_ACCOUNT_KEY"`
	SpreadsheetID           string        `envconfig:"SPREADSHEET_ID"`
	SheetName               string        `envconfig:"SHEET_NAME" default:"Sheet1"`
	SheetsTimezone          string        `envconfig:"SHEETS_TIMEZONE" default:"America/New_York"`
	SheetsMaxAttempts       int           `envconfig:"SHEETS_MAX_ATTEMPTS" default:"3"`
	SheetsBackoff           time.Duration `envconfig:"SHEETS_BACKOFF" default:"1s"`

	AMQPURL string `envconfig:"AMQP_URL"`

	SMTPHost   string   `envconfig:"SMTP_HOST"`
	SMTPPort   int      `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser   string   `envconfig:"SMTP_USER"`
	SMTPPass   string   `envconfig:"SMTP_PASS"`
	NotifyFrom string   `envconfig:"NOTIFY_FROM" default:"leads@localhost"`
	NotifyTo   []string `envconfig:"NOTIFY_TO"`

	SentryDSN string `envconfig:"SENTRY_DSN"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"10"`
	AdminJWTSecret     string   `envconfig:"ADMIN_JWT_SECRET"`
	AllowedOrigins     []string `envconfig:"ALLOWED_ORIGINS" default:"*"`

	FormEndpoint string        `envconfig:"FORM_ENDPOINT"`
	FormTimeout  time.Duration `envconfig:"FORM_TIMEOUT" default:"15s"`
}

// Load lê o .env (se existir) e depois o ambiente.
func Load() (*Config, error) {
	godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	c.KVBackend = strings.ToLower(strings.TrimSpace(c.KVBackend))
	if c.KVBackend == "" {
		c.KVBackend = BackendMemory
	}

	switch c.KVBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when KV_BACKEND=postgres")
		}
	default:
		return errors.Errorf("unknown KV_BACKEND %q (memory, redis, postgres)", c.KVBackend)
	}

	if c.KVBackend == BackendRedis && c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required when KV_BACKEND=redis")
	}
	if c.SheetsMaxAttempts < 1 {
		return errors.Errorf("SHEETS_MAX_ATTEMPTS must be >= 1, got %d", c.SheetsMaxAttempts)
	}
	if c.SheetsBackoff < 0 {
		return errors.Errorf("SHEETS_BACKOFF must not be negative, got %s", c.SheetsBackoff)
	}
	if c.RateLimitPerMinute < 0 {
		return errors.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimitPerMinute)
	}
	if strings.Trim(c.ServerID, "/") == "" {
		return errors.New("SERVER_ID must not be empty")
	}
	c.ServerID = strings.Trim(c.ServerID, "/")

	return nil
}

// SheetsEnabled: relay só sobe com chave e planilha.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleServiceAccountKey != "" && c.SpreadsheetID != ""
}

func (c *Config) QueueEnabled() bool {
	return c.AMQPURL != ""
}

func (c *Config) NotificationsEnabled() bool {
	return c.QueueEnabled() && c.SMTPHost != "" && len(c.NotifyTo) > 0
}

// Summary é seguro pra log: nada de segredo.
func (c *Config) Summary() logrus.Fields {
	return logrus.Fields{
		"port":           c.Port,
		"server_id":      c.ServerID,
		"env":            c.Environment,
		"kv_backend":     c.KVBackend,
		"sheets":         c.SheetsEnabled(),
		"sheet_name":     c.SheetName,
		"queue":          c.QueueEnabled(),
		"notifications":  c.NotificationsEnabled(),
		"sentry":         c.SentryDSN != "",
		"admin_auth":     c.AdminJWTSecret != "",
		"rate_limit_min": c.RateLimitPerMinute,
	}
}
