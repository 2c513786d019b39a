package chat

import (
	"context"
	"fmt"
)

// AnswerResult is a responder's raw answer. Success is false when the
// responder could not produce a real answer and Text is its fixed apology or
// not-found sentinel.
type AnswerResult struct {
	Text    string
	Success bool
}

// Responder answers questions of one category. A responder converts its own
// upstream failures into an unsuccessful AnswerResult; a returned error means
// something outside that contract went wrong.
type Responder interface {
	Answer(ctx context.Context, question string) (AnswerResult, error)
}

// Dispatcher picks a category for a message and runs the matching responder.
type Dispatcher interface {
	Classify(message string) Category
	Dispatch(ctx context.Context, category Category, message string) (AnswerResult, error)
}

// Registry is a Dispatcher over a Classifier and a set of responders keyed
// by category.
type Registry struct {
	classifier Classifier
	responders map[Category]Responder
}

// NewRegistry creates an empty registry using classifier.
func NewRegistry(classifier Classifier) *Registry {
	return &Registry{
		classifier: classifier,
		responders: make(map[Category]Responder),
	}
}

// Register binds responder to category, replacing any previous binding.
// Registration is not safe to run concurrently with Dispatch.
func (r *Registry) Register(category Category, responder Responder) *Registry {
	r.responders[category] = responder
	return r
}

// Classify implements Dispatcher.
func (r *Registry) Classify(message string) Category {
	return r.classifier.Classify(message)
}

// Dispatch implements Dispatcher.
func (r *Registry) Dispatch(ctx context.Context, category Category, message string) (AnswerResult, error) {
	responder, ok := r.responders[category]
	if !ok {
		return AnswerResult{}, fmt.Errorf("no responder registered for category %q", category)
	}
	return responder.Answer(ctx, message)
}
