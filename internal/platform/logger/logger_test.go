package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmineOzil/user-registration/internal/platform/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWithWriter(t *testing.T) {
	t.Run("json by default", func(t *testing.T) {
		var buf bytes.Buffer
		NewWithWriter(&buf, config.LogConfig{Level: "info"}).Info("hello", "request_id", "r-1")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "hello", line["msg"])
		assert.Equal(t, "r-1", line["request_id"])
		assert.Equal(t, "user-registration", line["service"])
	})

	t.Run("level filters debug", func(t *testing.T) {
		var buf bytes.Buffer
		NewWithWriter(&buf, config.LogConfig{Level: "info", Format: "text"}).Debug("hidden")
		assert.Empty(t, buf.String())
	})
}
