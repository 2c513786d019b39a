// Package audit defines the structured events emitted while a chat turn is
// routed and answered, and the sink they are emitted to.
package audit

import (
	"context"
	"time"
)

// Level is the severity of an event.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Event names.
const (
	EventHandleUserMessage = "handle_user_message"
	EventSeedBotMessage    = "seed_bot_message"
	EventMathAnswer        = "math_answer"
	EventKnowledgeAnswer   = "knowledge_answer"
)

// Source identifies a retrieved passage by its metadata.
type Source struct {
	Source string `json:"source,omitempty"`
	URL    string `json:"url,omitempty"`
	Title  string `json:"title,omitempty"`
}

// Event is one structured record of what an agent did.
type Event struct {
	Level          Level
	Agent          string
	Name           string
	ConversationID string
	UserID         string
	Decision       string
	Message        string
	Response       string
	Success        bool
	Error          string
	Sources        []Source
	Duration       time.Duration
}

// Sink receives events. Implementations must be safe for concurrent use and
// must not block the caller on slow outputs.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NopSink discards every event.
type NopSink struct{}

// Emit implements Sink.
func (NopSink) Emit(context.Context, Event) {}
