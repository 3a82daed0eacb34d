package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	strutil "github.com/AmineOzil/user-registration/pkg/platform/strings"
)

// Store backends selectable with STORE_BACKEND.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Server captures process level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	Log             LogConfig
	Store           StoreConfig
	Database        DatabaseConfig
	Redis           RedisConfig
	Audit           AuditConfig
	Sentry          SentryConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type StoreConfig struct {
	Backend string
}

type DatabaseConfig struct {
	URL    string
	Driver string
}

// RedisConfig holds connection settings for the Redis store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig selects the audit sink. Without brokers events are logged.
type AuditConfig struct {
	Brokers   []string
	Topic     string
	QueueSize int
}

type SentryConfig struct {
	DSN         string
	Environment string
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding the real environment. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:            getEnv("USERAPI_ADDR", ":8080"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		},
		Database: DatabaseConfig{
			URL:    os.Getenv("DATABASE_URL"),
			Driver: getEnv("DATABASE_DRIVER", "pgx"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Audit: AuditConfig{
			Brokers:   strutil.SplitList(os.Getenv("KAFKA_BROKERS"), ","),
			Topic:     getEnv("AUDIT_TOPIC", "user-audit"),
			QueueSize: getInt("AUDIT_QUEUE_SIZE", 1024),
		},
		Sentry: SentryConfig{
			DSN:         os.Getenv("SENTRY_DSN"),
			Environment: getEnv("SENTRY_ENVIRONMENT", "development"),
		},
	}
}

// Validate reports settings that cannot work together.
func (s Server) Validate() error {
	switch s.Store.Backend {
	case StoreMemory:
	case StorePostgres:
		if s.Database.URL == "" {
			return errors.New("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
		if s.Database.Driver != "pgx" && s.Database.Driver != "postgres" {
			return fmt.Errorf("unsupported DATABASE_DRIVER %q (want pgx or postgres)", s.Database.Driver)
		}
	case StoreRedis:
		if s.Redis.URL == "" {
			return errors.New("REDIS_URL is required when STORE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q (want memory, postgres or redis)", s.Store.Backend)
	}
	if s.Audit.QueueSize <= 0 {
		return errors.New("AUDIT_QUEUE_SIZE must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
