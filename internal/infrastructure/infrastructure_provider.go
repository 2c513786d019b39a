package infrastructure

import (
	"context"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"jan-server/services/chat-router/internal/config"
	"jan-server/services/chat-router/internal/domain/audit"
	"jan-server/services/chat-router/internal/domain/chat"
	"jan-server/services/chat-router/internal/domain/conversation"
	"jan-server/services/chat-router/internal/domain/responder"
	"jan-server/services/chat-router/internal/infrastructure/events"
	"jan-server/services/chat-router/internal/infrastructure/llm"
	"jan-server/services/chat-router/internal/infrastructure/lock"
	"jan-server/services/chat-router/internal/infrastructure/redisclient"
	"jan-server/services/chat-router/internal/infrastructure/retrieval"
	"jan-server/services/chat-router/internal/infrastructure/store"
	"jan-server/services/chat-router/internal/infrastructure/telemetry"
)

// ProvideRedisClient connects to Redis. The cleanup closes the client.
func ProvideRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (redis.UniversalClient, func(), error) {
	client, err := redisclient.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis client")
		}
	}
	return client, cleanup, nil
}

// ProvideConversationStore provides the Redis backed conversation store.
func ProvideConversationStore(client redis.UniversalClient, cfg *config.Config, log zerolog.Logger) conversation.Store {
	return store.NewRedisStore(client, cfg.KeyPrefix, cfg.HistoryLimit, log)
}

// ProvideReconciler provides the orphan sweep, or nil when disabled.
func ProvideReconciler(client redis.UniversalClient, cfg *config.Config, log zerolog.Logger) *store.Reconciler {
	if !cfg.ReconcileEnabled {
		return nil
	}
	return store.NewReconciler(client, cfg.KeyPrefix, cfg.ReconcileInterval, log)
}

// ProvideLocker provides the per-conversation lease, or nil when disabled.
func ProvideLocker(client redis.UniversalClient, cfg *config.Config, log zerolog.Logger) chat.Locker {
	if !cfg.LockEnabled {
		return nil
	}
	return lock.NewRedsyncLocker(client, cfg.LockTTL, log)
}

// ProvideLLMClient provides the OpenAI compatible client.
func ProvideLLMClient(cfg *config.Config, log zerolog.Logger) *llm.Client {
	return llm.NewClient(cfg, log)
}

// ProvideCompleter exposes the LLM client as the completion port.
func ProvideCompleter(client *llm.Client) responder.Completer {
	return client
}

// ProvideRetriever provides the lazily loaded retrieval index.
func ProvideRetriever(cfg *config.Config, client *llm.Client, log zerolog.Logger) (responder.Retriever, error) {
	return retrieval.NewFromConfig(cfg, client, log)
}

// ProvideSanitizer provides the PII sanitizer for emitted events.
func ProvideSanitizer(cfg *config.Config) *telemetry.Sanitizer {
	return telemetry.NewSanitizer(telemetry.PIILevel(cfg.PIILevel), cfg.PIISalt)
}

// ProvideEventSink provides the log and metrics audit sink.
func ProvideEventSink(log zerolog.Logger, sanitizer *telemetry.Sanitizer) audit.Sink {
	return events.NewDefault(log, sanitizer)
}

// InfrastructureProvider provides all infrastructure dependencies.
var InfrastructureProvider = wire.NewSet(
	ProvideRedisClient,
	ProvideConversationStore,
	ProvideReconciler,
	ProvideLocker,
	ProvideLLMClient,
	ProvideCompleter,
	ProvideRetriever,
	ProvideSanitizer,
	ProvideEventSink,
)
