package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Retrieval backends.
const (
	RetrievalBackendLocal  = "local"
	RetrievalBackendRemote = "remote"
)

// Config holds all configuration for the chat-router service.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"chat-router"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"CHAT_ROUTER_PORT" envDefault:"8190"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	// Conversation store
	RedisURL          string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	KeyPrefix         string        `env:"CONVERSATION_KEY_PREFIX" envDefault:""`
	HistoryLimit      int           `env:"CONVERSATION_HISTORY_LIMIT" envDefault:"50"`
	LockEnabled       bool          `env:"CONVERSATION_LOCK_ENABLED" envDefault:"false"`
	LockTTL           time.Duration `env:"CONVERSATION_LOCK_TTL" envDefault:"30s"`
	ReconcileEnabled  bool          `env:"RECONCILE_ENABLED" envDefault:"true"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"10m"`

	// Completion service (OpenAI-compatible)
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	CompletionModel string `env:"COMPLETION_MODEL" envDefault:"gpt-4o-mini"`
	EmbeddingModel  string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	// Retrieval index
	RetrievalBackend    string `env:"RETRIEVAL_BACKEND" envDefault:"local"`
	RetrievalIndexPath  string `env:"RETRIEVAL_INDEX_PATH" envDefault:"data/help-center-index.json"`
	RetrievalServiceURL string `env:"RETRIEVAL_SERVICE_URL" envDefault:"http://localhost:3015"`
	RetrievalTopK       int    `env:"RETRIEVAL_TOP_K" envDefault:"6"`
	EmbeddingCacheSize  int    `env:"EMBEDDING_CACHE_SIZE" envDefault:"1024"`

	// Routing and presentation
	OperatorWords []string `env:"CLASSIFIER_OPERATOR_WORDS" envSeparator:","`
	PersonaLocale string   `env:"PERSONA_LOCALE" envDefault:"pt-BR"`
	PIILevel      string   `env:"TELEMETRY_PII_LEVEL" envDefault:"hashed"`
	PIISalt       string   `env:"TELEMETRY_PII_SALT" envDefault:""`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that env tags cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(c.RedisURL) == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("CONVERSATION_HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("RETRIEVAL_TOP_K must be positive, got %d", c.RetrievalTopK)
	}
	if c.LockEnabled && c.LockTTL <= 0 {
		return fmt.Errorf("CONVERSATION_LOCK_TTL must be positive when CONVERSATION_LOCK_ENABLED is true")
	}
	if c.ReconcileEnabled && c.ReconcileInterval <= 0 {
		return fmt.Errorf("RECONCILE_INTERVAL must be positive when RECONCILE_ENABLED is true")
	}

	switch c.RetrievalBackend {
	case RetrievalBackendLocal:
		if strings.TrimSpace(c.RetrievalIndexPath) == "" {
			return fmt.Errorf("RETRIEVAL_INDEX_PATH is required for the local retrieval backend")
		}
	case RetrievalBackendRemote:
		if strings.TrimSpace(c.RetrievalServiceURL) == "" {
			return fmt.Errorf("RETRIEVAL_SERVICE_URL is required for the remote retrieval backend")
		}
	default:
		return fmt.Errorf("unsupported RETRIEVAL_BACKEND %q", c.RetrievalBackend)
	}

	switch c.PersonaLocale {
	case "pt-BR", "en":
	default:
		return fmt.Errorf("unsupported PERSONA_LOCALE %q", c.PersonaLocale)
	}

	switch c.PIILevel {
	case "none", "hashed", "full":
	default:
		return fmt.Errorf("unsupported TELEMETRY_PII_LEVEL %q", c.PIILevel)
	}

	return nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
