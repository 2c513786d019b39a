package responder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jan-server/services/chat-router/internal/domain/audit"
	"jan-server/services/chat-router/internal/domain/chat"
)

// MathApology is returned when an expression could not be computed.
const MathApology = "I couldn't compute the mathematical expression"

// MathAgent is the agent name used in events.
const MathAgent = "Math"

// mathFailureSentinels are answers the completion service uses to signal
// that it could not evaluate the expression.
var mathFailureSentinels = []string{
	"could not resolve the expression",
	"invalid expression",
	strings.ToLower(MathApology),
}

const mathPrompt = `You are a calculator.
The user will provide a mathematical expression.
Your task is to calculate it and return ONLY the result as a short text message.
Do not include explanations or extra unnecessary text, other than it was required above.
If the expression cannot be calculated, reply with exactly: could not resolve the expression
User message: %s`

var _ chat.Responder = (*Math)(nil)

// Math answers arithmetic questions through the completion service.
type Math struct {
	completer Completer
	sink      audit.Sink
	log       zerolog.Logger
}

// NewMath creates the math responder.
func NewMath(completer Completer, sink audit.Sink, log zerolog.Logger) *Math {
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &Math{
		completer: completer,
		sink:      sink,
		log:       log.With().Str("component", "math-responder").Logger(),
	}
}

// Answer implements chat.Responder. Upstream failures are reported as an
// unsuccessful result, never as an error.
func (m *Math) Answer(ctx context.Context, question string) (chat.AnswerResult, error) {
	start := time.Now()

	answer, err := m.completer.Complete(ctx, CompletionRequest{
		Prompt:      fmt.Sprintf(mathPrompt, question),
		Temperature: 0,
	})
	if err != nil {
		m.log.Warn().Err(err).Msg("completion failed")
		m.emit(ctx, question, MathApology, false, err, start)
		return chat.AnswerResult{Text: MathApology, Success: false}, nil
	}

	answer = strings.TrimSpace(answer)
	if answer == "" || isMathFailure(answer) {
		m.emit(ctx, question, answer, false, nil, start)
		return chat.AnswerResult{Text: MathApology, Success: false}, nil
	}

	m.emit(ctx, question, answer, true, nil, start)
	return chat.AnswerResult{Text: answer, Success: true}, nil
}

func (m *Math) emit(ctx context.Context, question, answer string, success bool, err error, start time.Time) {
	event := audit.Event{
		Level:    audit.LevelInfo,
		Agent:    MathAgent,
		Name:     audit.EventMathAnswer,
		Message:  question,
		Response: answer,
		Success:  success,
		Duration: time.Since(start),
	}
	if err != nil {
		event.Level = audit.LevelError
		event.Error = err.Error()
	}
	m.sink.Emit(ctx, event)
}

func isMathFailure(answer string) bool {
	normalized := strings.ToLower(strings.TrimRight(strings.TrimSpace(answer), ".! "))
	for _, sentinel := range mathFailureSentinels {
		if normalized == sentinel {
			return true
		}
	}
	return false
}
