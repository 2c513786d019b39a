// Package retrieval provides the knowledge base lookups used by the
// knowledge responder.
package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"jan-server/services/chat-router/internal/domain/responder"
)

// Embedder turns texts into vectors.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// Document is one indexed chunk with its precomputed embedding.
type Document struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Embedding []float32      `json:"embedding"`
}

type indexFile struct {
	Model     string     `json:"model,omitempty"`
	Documents []Document `json:"documents"`
}

// LocalIndex ranks in-memory documents by cosine similarity to the query.
type LocalIndex struct {
	docs     []Document
	norms    []float64
	embedder Embedder
}

var _ responder.Retriever = (*LocalIndex)(nil)

// NewLocalIndex validates docs and precomputes their norms. Every document
// must carry an embedding of the same dimension.
func NewLocalIndex(docs []Document, embedder Embedder) (*LocalIndex, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("retrieval index has no documents")
	}

	dim := len(docs[0].Embedding)
	norms := make([]float64, len(docs))
	for i, doc := range docs {
		if len(doc.Embedding) == 0 {
			return nil, fmt.Errorf("document %q has no embedding", doc.ID)
		}
		if len(doc.Embedding) != dim {
			return nil, fmt.Errorf("document %q has dimension %d, want %d", doc.ID, len(doc.Embedding), dim)
		}
		norms[i] = norm(doc.Embedding)
	}

	return &LocalIndex{docs: docs, norms: norms, embedder: embedder}, nil
}

// LoadLocalIndex reads a JSON index file written by the ingestion pipeline.
func LoadLocalIndex(path string, embedder Embedder) (*LocalIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read retrieval index: %w", err)
	}

	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode retrieval index %s: %w", path, err)
	}
	return NewLocalIndex(file.Documents, embedder)
}

// Size returns the number of indexed documents.
func (l *LocalIndex) Size() int {
	return len(l.docs)
}

// Retrieve embeds query and returns the k closest documents, best first.
func (l *LocalIndex) Retrieve(ctx context.Context, query string, k int) ([]responder.Passage, error) {
	if k <= 0 {
		return nil, nil
	}

	vectors, err := l.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected one query embedding, got %d", len(vectors))
	}
	q := vectors[0]
	if len(q) != len(l.docs[0].Embedding) {
		return nil, fmt.Errorf("query embedding has dimension %d, index has %d", len(q), len(l.docs[0].Embedding))
	}
	qNorm := norm(q)

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(l.docs))
	for i, doc := range l.docs {
		ranked[i] = scored{idx: i, score: cosine(q, doc.Embedding, qNorm, l.norms[i])}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]responder.Passage, k)
	for i := 0; i < k; i++ {
		doc := l.docs[ranked[i].idx]
		out[i] = responder.Passage{
			Content:  doc.Content,
			Score:    ranked[i].score,
			Metadata: doc.Metadata,
		}
	}
	return out, nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}
