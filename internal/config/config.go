package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	NewRelic NewRelicConfig `envPrefix:"NEW_RELIC_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	Events   EventsConfig   `envPrefix:"EVENTS_"`
	Sweeper  SweeperConfig  `envPrefix:"SWEEPER_"`
	Log      LogConfig      `envPrefix:"LOG_"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string        `env:"PORT"            envDefault:"8080"`
	ReadTimeout    time.Duration `env:"READ_TIMEOUT"    envDefault:"10s"`
	WriteTimeout   time.Duration `env:"WRITE_TIMEOUT"   envDefault:"10s"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL          string `env:"URL"`
	Host         string `env:"HOST"           envDefault:"localhost"`
	Port         string `env:"PORT"           envDefault:"5432"`
	User         string `env:"USER"           envDefault:"postgres"`
	Password     string `env:"PASSWORD"       envDefault:"postgres"`
	DBName       string `env:"NAME"           envDefault:"trek"`
	SSLMode      string `env:"SSLMODE"        envDefault:"disable"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS" envDefault:"50"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS" envDefault:"25"`
	AutoMigrate  bool   `env:"AUTO_MIGRATE"   envDefault:"false"`
}

// DSN returns URL when set, otherwise a key/value connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string `env:"ADDR"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"        envDefault:"0"`
	PoolSize int    `env:"POOL_SIZE" envDefault:"20"`
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string `env:"APP_NAME"    envDefault:"trek-service"`
	LicenseKey string `env:"LICENSE_KEY"`
	Enabled    bool   `env:"ENABLED"     envDefault:"false"`
}

// AuthConfig holds bearer token verification settings.
type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
	Issuer    string `env:"ISSUER"`
}

// EventsConfig holds domain event stream settings.
type EventsConfig struct {
	Stream    string `env:"STREAM"     envDefault:"trek:events"`
	MaxLength int64  `env:"MAX_LENGTH" envDefault:"100000"`
}

// SweeperConfig holds the trip completion sweeper settings.
type SweeperConfig struct {
	Enabled  bool          `env:"ENABLED"  envDefault:"true"`
	Interval time.Duration `env:"INTERVAL" envDefault:"5m"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level slog.Level `env:"LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	if c.Sweeper.Enabled && c.Sweeper.Interval <= 0 {
		errs = append(errs, errors.New("SWEEPER_INTERVAL must be positive"))
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, errors.New("DB_MAX_IDLE_CONNS must not exceed DB_MAX_OPEN_CONNS"))
	}
	return errors.Join(errs...)
}
