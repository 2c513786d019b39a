// Package responder holds the category responders the router dispatches to.
package responder

import "context"

// CompletionRequest is a single-prompt completion call.
type CompletionRequest struct {
	Prompt      string
	Temperature float32
}

// Completer calls an external completion service.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Passage is one retrieved chunk of the knowledge base.
type Passage struct {
	Content  string
	Score    float64
	Metadata map[string]any
}

// Retriever returns the k passages most relevant to query, best first.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]Passage, error)
}
