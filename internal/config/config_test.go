package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "chat-router", cfg.ServiceName)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 6, cfg.RetrievalTopK)
	assert.Equal(t, "gpt-4o-mini", cfg.CompletionModel)
	assert.Equal(t, RetrievalBackendLocal, cfg.RetrievalBackend)
	assert.False(t, cfg.LockEnabled)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Equal(t, ":8190", cfg.Addr())
}

func TestLoadOperatorWords(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CLASSIFIER_OPERATOR_WORDS", "mal,geteilt durch")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"mal", "geteilt durch"}, cfg.OperatorWords)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing api key", env: map[string]string{"OPENAI_API_KEY": ""}},
		{name: "zero history", env: map[string]string{"CONVERSATION_HISTORY_LIMIT": "0"}},
		{name: "zero top k", env: map[string]string{"RETRIEVAL_TOP_K": "0"}},
		{name: "unknown backend", env: map[string]string{"RETRIEVAL_BACKEND": "pinecone"}},
		{name: "unknown locale", env: map[string]string{"PERSONA_LOCALE": "fr"}},
		{name: "unknown pii level", env: map[string]string{"TELEMETRY_PII_LEVEL": "partial"}},
		{name: "lock without ttl", env: map[string]string{"CONVERSATION_LOCK_ENABLED": "true", "CONVERSATION_LOCK_TTL": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", "sk-test")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
