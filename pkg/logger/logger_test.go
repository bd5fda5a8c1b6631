package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		value string
		env   string
		want  slog.Level
	}{
		{value: "", env: "production", want: slog.LevelInfo},
		{value: "", env: "development", want: slog.LevelDebug},
		{value: "WARN", env: "production", want: slog.LevelWarn},
		{value: "fatal", env: "production", want: LevelCritical},
		{value: "bogus", env: "production", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.value, tt.env), "value=%q env=%q", tt.value, tt.env)
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, "json", parseFormat(""))
	assert.Equal(t, "pretty", parseFormat(" Pretty "))
	assert.Equal(t, "text", parseFormat("text"))
	assert.Equal(t, "json", parseFormat("xml"))
}

func TestCriticalLevelName(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, "json")

	log.Critical("app: init failed", "component", "db")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "CRITICAL", entry["level"])
	assert.Equal(t, "db", entry["component"])
}

func TestBusinessErrorSkipsNil(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "json")

	log.BusinessError("households.create: ignored", nil)
	assert.Zero(t, buf.Len())

	log.BusinessError("households.create: rejected", errors.New("name is required"), "user_id", "u-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "name is required", entry["err"])
	assert.Equal(t, "u-1", entry["user_id"])
}
