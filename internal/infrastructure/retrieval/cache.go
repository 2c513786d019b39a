package retrieval

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"jan-server/services/chat-router/internal/infrastructure/metrics"
)

// CachedEmbedder memoizes embeddings of repeated texts. Concurrent callers
// missing on the same inputs share one upstream request.
type CachedEmbedder struct {
	next   Embedder
	cache  *lru.Cache
	flight singleflight.Group
}

// NewCachedEmbedder wraps next with an LRU of size entries. A non-positive
// size disables caching.
func NewCachedEmbedder(next Embedder, size int) (Embedder, error) {
	if size <= 0 {
		return next, nil
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedEmbedder{next: next, cache: cache}, nil
}

// Embed serves cached vectors and forwards only the misses, in one call.
func (c *CachedEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	var (
		missing []string
		slots   []int
	)
	for i, input := range inputs {
		if v, ok := c.cache.Get(input); ok {
			out[i] = v.([]float32)
			metrics.EmbeddingCacheLookups.WithLabelValues("hit").Inc()
			continue
		}
		metrics.EmbeddingCacheLookups.WithLabelValues("miss").Inc()
		missing = append(missing, input)
		slots = append(slots, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	shared, err, _ := c.flight.Do(strings.Join(missing, "\x00"), func() (interface{}, error) {
		return c.next.Embed(ctx, missing)
	})
	if err != nil {
		return nil, err
	}
	vectors := shared.([][]float32)
	for j, v := range vectors {
		if j >= len(slots) {
			break
		}
		out[slots[j]] = v
		c.cache.Add(missing[j], v)
	}
	return out, nil
}
