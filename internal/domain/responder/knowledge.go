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

const (
	// KnowledgeNotFound is the exact sentence the completion service is told
	// to answer with when the retrieved context is insufficient.
	KnowledgeNotFound = "Não consegui encontrar uma resposta nos artigos da Central de Ajuda da InfinitePay."
	// KnowledgeApology is returned when retrieval or completion fails.
	KnowledgeApology = "Ops! Algo deu errado ao processar sua solicitação."
	// KnowledgeAgent is the agent name used in events.
	KnowledgeAgent = "Knowledge"
	// DefaultTopK is the number of passages used as grounding context.
	DefaultTopK = 6
)

const knowledgePrompt = `Você é um assistente de suporte da InfinitePay.
Responda de forma curta, direta e com base exclusivamente no CONTEXTO fornecido.
Se não encontrar informação ou se o CONTEXTO fornecido for insuficiente, responda
SOMENTE com a exata sentença: "%s".
### CONTEXTO: %s
### PERGUNTA: %s
### RESPOSTA:`

var _ chat.Responder = (*Knowledge)(nil)

// Knowledge answers help-center questions from retrieved passages.
type Knowledge struct {
	retriever Retriever
	completer Completer
	topK      int
	sink      audit.Sink
	log       zerolog.Logger
}

// NewKnowledge creates the knowledge responder. A non-positive topK falls
// back to DefaultTopK.
func NewKnowledge(retriever Retriever, completer Completer, topK int, sink audit.Sink, log zerolog.Logger) *Knowledge {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &Knowledge{
		retriever: retriever,
		completer: completer,
		topK:      topK,
		sink:      sink,
		log:       log.With().Str("component", "knowledge-responder").Logger(),
	}
}

// Answer implements chat.Responder. Retrieval runs first, then completion;
// a failure in either is reported as KnowledgeApology.
func (k *Knowledge) Answer(ctx context.Context, question string) (chat.AnswerResult, error) {
	start := time.Now()

	passages, err := k.retriever.Retrieve(ctx, question, k.topK)
	if err != nil {
		k.log.Warn().Err(err).Msg("retrieval failed")
		k.emitFailure(ctx, question, err, start)
		return chat.AnswerResult{Text: KnowledgeApology, Success: false}, nil
	}

	answer, err := k.completer.Complete(ctx, CompletionRequest{
		Prompt:      BuildKnowledgePrompt(FormatContext(passages), question),
		Temperature: 0,
	})
	if err != nil {
		k.log.Warn().Err(err).Msg("completion failed")
		k.emitFailure(ctx, question, err, start)
		return chat.AnswerResult{Text: KnowledgeApology, Success: false}, nil
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = KnowledgeNotFound
	}
	success := answer != KnowledgeNotFound

	k.sink.Emit(ctx, audit.Event{
		Level:    audit.LevelInfo,
		Agent:    KnowledgeAgent,
		Name:     audit.EventKnowledgeAnswer,
		Message:  question,
		Response: answer,
		Success:  success,
		Sources:  ExtractSources(passages),
		Duration: time.Since(start),
	})

	return chat.AnswerResult{Text: answer, Success: success}, nil
}

func (k *Knowledge) emitFailure(ctx context.Context, question string, err error, start time.Time) {
	k.sink.Emit(ctx, audit.Event{
		Level:    audit.LevelError,
		Agent:    KnowledgeAgent,
		Name:     audit.EventKnowledgeAnswer,
		Message:  question,
		Response: KnowledgeApology,
		Error:    err.Error(),
		Duration: time.Since(start),
	})
}

// BuildKnowledgePrompt embeds the grounding context and the question.
func BuildKnowledgePrompt(grounding, question string) string {
	return fmt.Sprintf(knowledgePrompt, KnowledgeNotFound, grounding, question)
}

// FormatContext joins passage contents with blank lines, in rank order.
func FormatContext(passages []Passage) string {
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		parts = append(parts, p.Content)
	}
	return strings.Join(parts, "\n\n")
}

// ExtractSources reads source, url and title from passage metadata.
func ExtractSources(passages []Passage) []audit.Source {
	sources := make([]audit.Source, 0, len(passages))
	for _, p := range passages {
		sources = append(sources, audit.Source{
			Source: firstString(p.Metadata, "source", "path"),
			URL:    firstString(p.Metadata, "url", "source"),
			Title:  firstString(p.Metadata, "title", "heading"),
		})
	}
	return sources
}

func firstString(meta map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := meta[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
