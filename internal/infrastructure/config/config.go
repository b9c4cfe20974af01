package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=3000"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET"`
	// SecretKey is the legacy name, read only when JWT_SECRET is unset.
	SecretKey string `env:"SECRET_KEY"`

	Auth   AuthConfig
	HTTP   HTTPConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Limits RateLimitConfig

	ActivityWorkers int `env:"ACTIVITY_WORKERS, default=4"`
}

type AuthConfig struct {
	// TokenTTL of zero issues tokens without an exp claim.
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=24h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

type HTTPConfig struct {
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,      default=15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,     default=10s"`
	BodyLimit       string        `env:"BODY_LIMIT,           default=1M"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS, default=*"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=blog"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

// RedisConfig is optional; an empty Addr keeps rate limiting in process memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type RateLimitConfig struct {
	Max    int           `env:"RATE_LIMIT_MAX,    default=100"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.TokenTTL < 0 {
		errs = append(errs, errors.New("TOKEN_TTL must not be negative"))
	}
	if c.Limits.Max <= 0 || c.Limits.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive"))
	}
	if c.HTTP.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads a .env file when present, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = cfg.SecretKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
