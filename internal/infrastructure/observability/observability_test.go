package observability

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-router/internal/config"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		raw      string
		endpoint string
		insecure bool
	}{
		{"http://otel:4318", "otel:4318", true},
		{"https://otel.example.com", "otel.example.com", false},
		{"otel:4318", "otel:4318", true},
	}

	for _, tt := range tests {
		endpoint, insecure := normalizeEndpoint(tt.raw)
		assert.Equal(t, tt.endpoint, endpoint)
		assert.Equal(t, tt.insecure, insecure)
	}
}

func TestSetupWithoutExport(t *testing.T) {
	cfg := &config.Config{ServiceName: "chat-router", Environment: "test"}

	shutdown, err := Setup(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
