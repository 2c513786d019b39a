package retrieval

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"jan-server/services/chat-router/internal/config"
	"jan-server/services/chat-router/internal/domain/responder"
)

// NewFromConfig returns a lazily loaded index backed by the configured
// backend. Nothing is read or dialed until the first retrieval.
func NewFromConfig(cfg *config.Config, embedder Embedder, log zerolog.Logger) (*LazyIndex, error) {
	var loader Loader

	switch cfg.RetrievalBackend {
	case config.RetrievalBackendLocal:
		cached, err := NewCachedEmbedder(embedder, cfg.EmbeddingCacheSize)
		if err != nil {
			return nil, fmt.Errorf("create embedding cache: %w", err)
		}
		path := cfg.RetrievalIndexPath
		loader = func(context.Context) (responder.Retriever, error) {
			idx, err := LoadLocalIndex(path, cached)
			if err != nil {
				return nil, err
			}
			log.Info().Str("path", path).Int("documents", idx.Size()).Msg("local retrieval index ready")
			return idx, nil
		}
	case config.RetrievalBackendRemote:
		url := cfg.RetrievalServiceURL
		loader = func(context.Context) (responder.Retriever, error) {
			return NewRemoteIndex(url)
		}
	default:
		return nil, fmt.Errorf("unknown retrieval backend %q", cfg.RetrievalBackend)
	}

	return NewLazyIndex(loader, log), nil
}
