package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig selects the gorm dialector and its DSN.
type DatabaseConfig struct {
	Driver string // sqlite, postgres or mysql
	DSN    string
}

// AuthConfig configures bearer token issuing.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// AdminConfig describes the staff account ensured at startup. Empty Username disables it.
type AdminConfig struct {
	Username string
	Password string
	Email    string
}

// RabbitMQConfig holds the broker URL. Empty URL disables order events.
type RabbitMQConfig struct {
	URL string
}

// Config is the whole application configuration.
type Config struct {
	Env      string
	AppPort  string
	Database DatabaseConfig
	Auth     AuthConfig
	Admin    AdminConfig
	RabbitMQ RabbitMQConfig
}

const devJWTSecret = "dev_jwt_secret_change_me"

// IsDevelopment reports whether the app runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "test"
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "toko.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_EMAIL", "")
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:     v.GetString("APP_ENV"),
		AppPort: v.GetString("APP_PORT"),
		Database: DatabaseConfig{
			Driver: v.GetString("DB_DRIVER"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("TOKEN_TTL"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
			Email:    v.GetString("ADMIN_EMAIL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL: v.GetString("RABBITMQ_URL"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET must be set outside development")
		}
		cfg.Auth.JWTSecret = devJWTSecret
	}
	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.Auth.TokenTTL)
	}
	switch cfg.Database.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Admin.Username != "" && cfg.Admin.Password == "" {
		return nil, errors.New("ADMIN_PASSWORD is required when ADMIN_USERNAME is set")
	}
	return cfg, nil
}
