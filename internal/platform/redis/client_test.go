package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmineOzil/user-registration/internal/platform/config"
)

func TestNewWithoutURL(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{})
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "not-a-url://"})
	assert.Error(t, err)
}

func TestApplyPoolSettings(t *testing.T) {
	opts, err := redis.ParseURL("redis://localhost:6379/0")
	require.NoError(t, err)

	applyPoolSettings(opts, config.RedisConfig{PoolSize: 20, ReadTimeout: time.Second})
	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, time.Second, opts.ReadTimeout)
	assert.Zero(t, opts.MinIdleConns)
}
