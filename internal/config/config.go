package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

type Config struct {
	Port     string
	LogLevel slog.Level

	MirrorBackend string
	MirrorDir     string
	SQLitePath    string
	DatabaseURL   string
	S3Bucket      string
	AWSRegion     string
	S3Endpoint    string

	RabbitMQURL     string
	SearchIndexPath string

	SessionSecret string
	SessionTTL    time.Duration
	StoreLatency  time.Duration
	CORSOrigins   []string
}

// Load reads the environment, after an optional .env file, and validates it
// for the API server.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWorker is Load for the event consumer, which only needs the broker.
func LoadWorker() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if cfg.RabbitMQURL == "" {
		return nil, errors.New("RABBITMQ_URL is required")
	}
	return cfg, nil
}

func read() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Default().Warn("loading .env failed", "error", err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		MirrorBackend:   strings.ToLower(getEnv("MIRROR_BACKEND", BackendFile)),
		MirrorDir:       getEnv("MIRROR_DIR", "./data"),
		SQLitePath:      getEnv("SQLITE_PATH", "./data/devblog.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		SearchIndexPath: getEnv("SEARCH_INDEX_PATH", ""),
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.StoreLatency, err = getEnvDuration("STORE_LATENCY", 0); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.MirrorBackend {
	case BackendFile:
		if c.MirrorDir == "" {
			return errors.New("MIRROR_DIR is required for the file backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown MIRROR_BACKEND %q", c.MirrorBackend)
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.StoreLatency < 0 {
		return errors.New("STORE_LATENCY must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
