package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Tenantry"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host         string        `envconfig:"DB_HOST" default:"localhost"`
		Port         int           `envconfig:"DB_PORT" default:"5432"`
		User         string        `envconfig:"DB_USER" default:"postgres"`
		Password     string        `envconfig:"DB_PASSWORD" default:""`
		Name         string        `envconfig:"DB_NAME" default:"tenantry"`
		MaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
		Migrate      bool          `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:3001"`
	}

	Redis struct {
		URL      string        `envconfig:"REDIS_URL"`
		PoolSize int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
		StatsTTL time.Duration `envconfig:"REDIS_STATS_TTL" default:"1m"`
	}

	Auth struct {
		Secret     string        `envconfig:"AUTH_SECRET"`
		ManagerKey string        `envconfig:"AUTH_MANAGER_KEY"`
		TokenTTL   time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"12h"`
		CodeTTL    time.Duration `envconfig:"AUTH_CODE_TTL" default:"15m"`
	}

	Mail struct {
		Host     string `envconfig:"SMTP_HOST"`
		Port     int    `envconfig:"SMTP_PORT" default:"587"`
		Username string `envconfig:"SMTP_USERNAME"`
		Password string `envconfig:"SMTP_PASSWORD"`
		From     string `envconfig:"MAIL_FROM" default:"leasing@localhost"`
		FromName string `envconfig:"MAIL_FROM_NAME" default:"Leasing Office"`
	}

	Screening struct {
		Reviewer string `envconfig:"SCREENING_REVIEWER" default:"Property Manager"`
	}

	Metrics struct {
		Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
		Path    string `envconfig:"METRICS_PATH" default:"/metrics"`
	}

	Documents struct {
		Token string `envconfig:"DOCUMENTS_TOKEN"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// MailEnabled reports whether an SMTP relay is configured.
func (c *Config) MailEnabled() bool {
	return c.Mail.Host != ""
}

// MinSecretLength is the shortest AUTH_SECRET the API accepts for signing tokens.
const MinSecretLength = 32

// ValidateAuth reports whether the token signing secret is usable. The API
// refuses to start without one.
func (c *Config) ValidateAuth() error {
	if c.Auth.Secret == "" {
		return errors.New("AUTH_SECRET is required")
	}

	if len(c.Auth.Secret) < MinSecretLength {
		return fmt.Errorf("AUTH_SECRET must be at least %d characters", MinSecretLength)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
