// Package events provides audit.Sink implementations backed by zerolog and
// Prometheus.
package events

import (
	"context"

	"github.com/rs/zerolog"

	"jan-server/services/chat-router/internal/domain/audit"
	"jan-server/services/chat-router/internal/infrastructure/metrics"
	"jan-server/services/chat-router/internal/infrastructure/telemetry"
	"jan-server/services/chat-router/internal/utils/platformerrors"
)

// LogSink writes each event as one structured log line.
type LogSink struct {
	log       zerolog.Logger
	sanitizer *telemetry.Sanitizer
}

// NewLogSink creates a log sink. User text and ids pass through sanitizer.
func NewLogSink(log zerolog.Logger, sanitizer *telemetry.Sanitizer) *LogSink {
	return &LogSink{
		log:       log.With().Str("component", "audit").Logger(),
		sanitizer: sanitizer,
	}
}

// Emit implements audit.Sink.
func (s *LogSink) Emit(ctx context.Context, event audit.Event) {
	entry := s.log.Info()
	if event.Level == audit.LevelError {
		entry = s.log.Error()
	}

	entry = entry.
		Str("agent", event.Agent).
		Str("event", event.Name).
		Bool("success", event.Success).
		Int64("execution_time", event.Duration.Milliseconds())

	if requestID := platformerrors.RequestIDFromContext(ctx); requestID != "" {
		entry = entry.Str("request_id", requestID)
	}
	if event.ConversationID != "" {
		entry = entry.Str("conversation_id", event.ConversationID)
	}
	if event.UserID != "" {
		entry = entry.Str("user_id", s.sanitizer.UserID(event.UserID))
	}
	if event.Decision != "" {
		entry = entry.Str("decision", event.Decision)
	}
	if event.Message != "" {
		entry = entry.Str("user_message", s.sanitizer.Text(event.Message))
	}
	if event.Response != "" {
		entry = entry.Str("response", s.sanitizer.Text(event.Response))
	}
	if len(event.Sources) > 0 {
		entry = entry.Interface("sources", event.Sources)
	}
	if event.Error != "" {
		entry = entry.Str("error", event.Error)
	}

	entry.Msg(event.Name)
}

// MetricsSink turns events into Prometheus samples.
type MetricsSink struct{}

// Emit implements audit.Sink.
func (MetricsSink) Emit(_ context.Context, event audit.Event) {
	metrics.AgentEventsTotal.WithLabelValues(event.Agent, event.Name, string(event.Level)).Inc()
	metrics.AgentDuration.WithLabelValues(event.Agent, event.Name).Observe(event.Duration.Seconds())

	if event.Name == audit.EventHandleUserMessage {
		outcome := "answered"
		switch {
		case event.Level == audit.LevelError:
			outcome = "error"
		case !event.Success:
			outcome = "apologized"
		}
		metrics.RecordRouted(event.Decision, outcome)
	}
}

// Multi fans an event out to every sink in order.
type Multi []audit.Sink

// Emit implements audit.Sink.
func (m Multi) Emit(ctx context.Context, event audit.Event) {
	for _, sink := range m {
		sink.Emit(ctx, event)
	}
}

// NewDefault returns the sink used by the service: structured logs plus metrics.
func NewDefault(log zerolog.Logger, sanitizer *telemetry.Sanitizer) audit.Sink {
	return Multi{NewLogSink(log, sanitizer), MetricsSink{}}
}
