package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"USERAPI_ADDR", "STORE_BACKEND", "LOG_LEVEL", "KAFKA_BROKERS", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "user-audit", cfg.Audit.Topic)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.Audit.Brokers)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("USERAPI_ADDR", ":9090")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/users")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("REDIS_POOL_SIZE", "not-a-number")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, StorePostgres, cfg.Store.Backend)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Audit.Brokers)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := Server{Store: StoreConfig{Backend: StoreMemory}, Audit: AuditConfig{QueueSize: 1}}

	t.Run("postgres needs a url", func(t *testing.T) {
		cfg := base
		cfg.Store.Backend = StorePostgres
		cfg.Database.Driver = "pgx"
		assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
	})

	t.Run("postgres driver must be known", func(t *testing.T) {
		cfg := base
		cfg.Store.Backend = StorePostgres
		cfg.Database = DatabaseConfig{URL: "postgres://x", Driver: "mysql"}
		assert.ErrorContains(t, cfg.Validate(), "DATABASE_DRIVER")
	})

	t.Run("redis needs a url", func(t *testing.T) {
		cfg := base
		cfg.Store.Backend = StoreRedis
		assert.ErrorContains(t, cfg.Validate(), "REDIS_URL")
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := base
		cfg.Store.Backend = "cassandra"
		assert.ErrorContains(t, cfg.Validate(), "STORE_BACKEND")
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("loads without overriding the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("USERAPI_TEST_FROM_FILE=file\nUSERAPI_TEST_PRESET=file\n"), 0o600))
		t.Setenv("USERAPI_TEST_PRESET", "env")
		t.Setenv("USERAPI_TEST_FROM_FILE", "")
		require.NoError(t, os.Unsetenv("USERAPI_TEST_FROM_FILE"))

		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, "file", os.Getenv("USERAPI_TEST_FROM_FILE"))
		assert.Equal(t, "env", os.Getenv("USERAPI_TEST_PRESET"))
		require.NoError(t, os.Unsetenv("USERAPI_TEST_FROM_FILE"))
	})
}
