package responder

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-router/internal/domain/audit"
)

type mockCompleter struct {
	CompleteFunc func(ctx context.Context, req CompletionRequest) (string, error)
	requests     []CompletionRequest
}

func (m *mockCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m.requests = append(m.requests, req)
	return m.CompleteFunc(ctx, req)
}

type mockRetriever struct {
	RetrieveFunc func(ctx context.Context, query string, k int) ([]Passage, error)
	ks           []int
}

func (m *mockRetriever) Retrieve(ctx context.Context, query string, k int) ([]Passage, error) {
	m.ks = append(m.ks, k)
	return m.RetrieveFunc(ctx, query, k)
}

type captureSink struct {
	events []audit.Event
}

func (c *captureSink) Emit(_ context.Context, event audit.Event) {
	c.events = append(c.events, event)
}

func reply(text string, err error) *mockCompleter {
	return &mockCompleter{CompleteFunc: func(context.Context, CompletionRequest) (string, error) {
		return text, err
	}}
}

func TestMathAnswer(t *testing.T) {
	tests := []struct {
		name        string
		completion  string
		err         error
		wantText    string
		wantSuccess bool
	}{
		{"numeric result", "  4\n", nil, "4", true},
		{"textual result", "quatro", nil, "quatro", true},
		{"zero", "0", nil, "0", true},
		{"empty result", "   ", nil, MathApology, false},
		{"resolve sentinel", "Could not resolve the expression.", nil, MathApology, false},
		{"invalid sentinel", "invalid expression", nil, MathApology, false},
		{"upstream error", "", errors.New("429 too many requests"), MathApology, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &captureSink{}
			completer := reply(tt.completion, tt.err)
			math := NewMath(completer, sink, zerolog.Nop())

			result, err := math.Answer(context.Background(), "2+2")
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, result.Text)
			assert.Equal(t, tt.wantSuccess, result.Success)

			require.Len(t, completer.requests, 1)
			assert.Contains(t, completer.requests[0].Prompt, "User message: 2+2")
			assert.Contains(t, completer.requests[0].Prompt, "ONLY the result")
			assert.Zero(t, completer.requests[0].Temperature)

			require.Len(t, sink.events, 1)
			assert.Equal(t, audit.EventMathAnswer, sink.events[0].Name)
			if tt.err != nil {
				assert.Equal(t, audit.LevelError, sink.events[0].Level)
			}
		})
	}
}

func TestKnowledgeAnswer(t *testing.T) {
	passages := []Passage{
		{Content: "O Pix cai na hora.", Metadata: map[string]any{"url": "https://ajuda.infinitepay.io/pix", "title": "Pix"}},
		{Content: "Taxas a partir de 0,75%.", Metadata: map[string]any{"source": "taxas.html"}},
	}

	t.Run("grounded answer", func(t *testing.T) {
		sink := &captureSink{}
		retriever := &mockRetriever{RetrieveFunc: func(context.Context, string, int) ([]Passage, error) {
			return passages, nil
		}}
		completer := reply(" O Pix cai na hora. ", nil)

		knowledge := NewKnowledge(retriever, completer, 0, sink, zerolog.Nop())
		result, err := knowledge.Answer(context.Background(), "Quando cai o Pix?")
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.Equal(t, "O Pix cai na hora.", result.Text)
		assert.Equal(t, []int{DefaultTopK}, retriever.ks)

		prompt := completer.requests[0].Prompt
		assert.Contains(t, prompt, "### CONTEXTO: O Pix cai na hora.\n\nTaxas a partir de 0,75%.")
		assert.Contains(t, prompt, "### PERGUNTA: Quando cai o Pix?")
		assert.Contains(t, prompt, KnowledgeNotFound)

		require.Len(t, sink.events, 1)
		assert.Equal(t, []audit.Source{
			{URL: "https://ajuda.infinitepay.io/pix", Title: "Pix"},
			{Source: "taxas.html", URL: "taxas.html"},
		}, sink.events[0].Sources)
	})

	t.Run("not found sentinel", func(t *testing.T) {
		retriever := &mockRetriever{RetrieveFunc: func(context.Context, string, int) ([]Passage, error) {
			return passages, nil
		}}
		knowledge := NewKnowledge(retriever, reply(KnowledgeNotFound, nil), 6, nil, zerolog.Nop())

		result, err := knowledge.Answer(context.Background(), "Qual a cor do céu?")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, KnowledgeNotFound, result.Text)
	})

	t.Run("blank completion", func(t *testing.T) {
		retriever := &mockRetriever{RetrieveFunc: func(context.Context, string, int) ([]Passage, error) {
			return nil, nil
		}}
		knowledge := NewKnowledge(retriever, reply("", nil), 6, nil, zerolog.Nop())

		result, err := knowledge.Answer(context.Background(), "?")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, KnowledgeNotFound, result.Text)
	})

	t.Run("retrieval failure skips completion", func(t *testing.T) {
		retriever := &mockRetriever{RetrieveFunc: func(context.Context, string, int) ([]Passage, error) {
			return nil, errors.New("index file missing")
		}}
		completer := reply("unused", nil)
		knowledge := NewKnowledge(retriever, completer, 6, nil, zerolog.Nop())

		result, err := knowledge.Answer(context.Background(), "Como funciona?")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, KnowledgeApology, result.Text)
		assert.Empty(t, completer.requests)
	})

	t.Run("completion failure", func(t *testing.T) {
		retriever := &mockRetriever{RetrieveFunc: func(context.Context, string, int) ([]Passage, error) {
			return passages, nil
		}}
		knowledge := NewKnowledge(retriever, reply("", context.DeadlineExceeded), 6, nil, zerolog.Nop())

		result, err := knowledge.Answer(context.Background(), "Como funciona?")
		require.NoError(t, err)
		assert.Equal(t, KnowledgeApology, result.Text)
		assert.False(t, result.Success)
	})
}
