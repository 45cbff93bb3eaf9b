package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Storage  StorageConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	TierCacheTTLSec int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// TokenConfig carries the signing secret and lifetime for one token kind.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// AuthConfig defines authentication parameters. Access, Refresh and
// PasswordReset tokens are signed with distinct secrets and expire
// independently. The password-reset flow currently verifies but never
// mints tokens; the slot stays configured regardless.
type AuthConfig struct {
	AccessToken   TokenConfig
	RefreshToken  TokenConfig
	PasswordReset TokenConfig
	BcryptCost    int
}

// StorageConfig holds object storage (S3-compatible) connection values.
type StorageConfig struct {
	Endpoint      string
	Region        string
	AccessKeyID   string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	UsePathStyle  bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "specialist-marketplace"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			TierCacheTTLSec: getEnvAsInt("REDIS_TIER_CACHE_TTL_SECONDS", 60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			AccessToken: TokenConfig{
				Secret: getEnv("AUTH_ACCESS_TOKEN_SECRET", "dev-access-secret"),
				TTL:    time.Duration(getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 15)) * time.Minute,
			},
			RefreshToken: TokenConfig{
				Secret: getEnv("AUTH_REFRESH_TOKEN_SECRET", "dev-refresh-secret"),
				TTL:    time.Duration(getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_DAYS", 30)) * 24 * time.Hour,
			},
			PasswordReset: TokenConfig{
				Secret: getEnv("AUTH_PASSWORD_RESET_SECRET", "dev-reset-secret"),
				TTL:    time.Duration(getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 30)) * time.Minute,
			},
			BcryptCost: getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Storage: StorageConfig{
			Endpoint:      os.Getenv("STORAGE_ENDPOINT"),
			Region:        getEnv("STORAGE_REGION", "us-east-1"),
			AccessKeyID:   os.Getenv("STORAGE_ACCESS_KEY_ID"),
			SecretKey:     os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
			Bucket:        getEnv("STORAGE_BUCKET", "marketplace-media"),
			PublicBaseURL: os.Getenv("STORAGE_PUBLIC_BASE_URL"),
			UsePathStyle:  getEnvAsBool("STORAGE_USE_PATH_STYLE", true),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TierCacheTTL returns the tier table cache lifetime.
func (r RedisConfig) TierCacheTTL() time.Duration {
	if r.TierCacheTTLSec <= 0 {
		return time.Minute
	}
	return time.Duration(r.TierCacheTTLSec) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
