package retrieval

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"jan-server/services/chat-router/internal/domain/responder"
	"jan-server/services/chat-router/internal/infrastructure/metrics"
	"jan-server/services/chat-router/internal/utils/platformerrors"
)

// Loader builds the underlying retriever.
type Loader func(ctx context.Context) (responder.Retriever, error)

// LazyIndex defers loading until first use. Concurrent first callers wait
// for the same load; a failed load is retried by the next caller.
type LazyIndex struct {
	mu     sync.Mutex
	loaded responder.Retriever
	load   Loader
	log    zerolog.Logger
}

var _ responder.Retriever = (*LazyIndex)(nil)

func NewLazyIndex(load Loader, log zerolog.Logger) *LazyIndex {
	return &LazyIndex{
		load: load,
		log:  log.With().Str("component", "retrieval-index").Logger(),
	}
}

// Ready reports whether the index has been loaded.
func (l *LazyIndex) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded != nil
}

func (l *LazyIndex) get(ctx context.Context) (responder.Retriever, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded != nil {
		return l.loaded, nil
	}

	retriever, err := l.load(ctx)
	if err != nil {
		metrics.RetrievalIndexLoads.WithLabelValues("failure").Inc()
		l.log.Error().Err(err).Msg("failed to load retrieval index")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"retrieval index unavailable", err)
	}

	metrics.RetrievalIndexLoads.WithLabelValues("success").Inc()
	l.log.Info().Msg("retrieval index loaded")
	l.loaded = retriever
	return retriever, nil
}

// Retrieve loads the index if needed and delegates to it.
func (l *LazyIndex) Retrieve(ctx context.Context, query string, k int) ([]responder.Passage, error) {
	retriever, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return retriever.Retrieve(ctx, query, k)
}
