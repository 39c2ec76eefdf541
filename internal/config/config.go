package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServerPort  string `env:"PORT" envDefault:"5000"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"mysql"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"user:password@tcp(localhost:3306)/users?charset=utf8mb4&parseTime=True&loc=UTC"`

	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	UserCacheTTL  time.Duration `env:"USER_CACHE_TTL" envDefault:"1h"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"720h"`

	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	AppBaseURL  string `env:"APP_BASE_URL"`
	SwaggerHost string `env:"SWAGGER_HOST"`

	Mail MailConfig
	Seed SeedConfig
}

// MailConfig selects and configures the outbound mail transport.
type MailConfig struct {
	Driver       string `env:"MAIL_DRIVER" envDefault:"log"`
	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.mailtrap.io"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"2525"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`
	FromEmail    string `env:"FROM_EMAIL" envDefault:"noreply@example.com"`
	FromName     string `env:"FROM_NAME" envDefault:"User Auth API"`
	ResendAPIKey string `env:"RESEND_API_KEY"`
}

// SeedConfig describes the administrator created by cmd/seed.
type SeedConfig struct {
	AdminName     string `env:"SEED_ADMIN_NAME" envDefault:"Super Admin"`
	AdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"adminpassword123"`
}

// Load builds Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether internal error detail must be hidden from callers.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.Mail.Driver {
	case "log", "smtp", "resend":
	default:
		return fmt.Errorf("unsupported MAIL_DRIVER %q", c.Mail.Driver)
	}
	if c.Mail.Driver == "resend" && c.Mail.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY is required when MAIL_DRIVER=resend")
	}
	if c.UserCacheTTL <= 0 {
		return fmt.Errorf("USER_CACHE_TTL must be positive")
	}
	return nil
}
