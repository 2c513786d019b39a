package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-router/internal/config"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&config.Config{ServiceName: "chat-router", LogLevel: "warn", LogFormat: "json"}, &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	log.Info().Msg("dropped")
	log.Warn().Str("conversation_id", "c1").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "chat-router", entry["service"])
	assert.Equal(t, "c1", entry["conversation_id"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&config.Config{LogLevel: "loud", LogFormat: "json"}, &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
