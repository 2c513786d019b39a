// Package llm adapts an OpenAI compatible API to the completion and
// embedding ports.
package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"jan-server/services/chat-router/internal/config"
	"jan-server/services/chat-router/internal/domain/responder"
	"jan-server/services/chat-router/internal/utils/platformerrors"
)

const requestTimeout = 60 * time.Second

// Client performs chat completions and embeddings.
type Client struct {
	api            *openai.Client
	model          string
	embeddingModel string
	log            zerolog.Logger
}

var _ responder.Completer = (*Client)(nil)

// NewClient builds a client from the OpenAI section of cfg. An empty base
// URL keeps the public endpoint.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if base := strings.TrimRight(strings.TrimSpace(cfg.OpenAIBaseURL), "/"); base != "" {
		apiCfg.BaseURL = base
	}
	apiCfg.HTTPClient = &http.Client{Timeout: requestTimeout}

	return &Client{
		api:            openai.NewClientWithConfig(apiCfg),
		model:          cfg.CompletionModel,
		embeddingModel: cfg.EmbeddingModel,
		log:            log.With().Str("component", "llm-client").Logger(),
	}
}

// Complete sends req.Prompt as a single user message and returns the first
// choice's content.
func (c *Client) Complete(ctx context.Context, req responder.CompletionRequest) (string, error) {
	temperature := req.Temperature
	if temperature == 0 {
		// the API client drops a literal zero
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		return "", c.externalError(ctx, "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"chat completion returned no choices", nil)
	}

	c.log.Debug().
		Str("model", resp.Model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("chat completion")

	return resp.Choices[0].Message.Content, nil
}

// Embed returns one vector per input, in input order.
func (c *Client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: inputs,
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, c.externalError(ctx, "embedding request failed", err)
	}
	if len(resp.Data) != len(inputs) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("embedding returned %d vectors for %d inputs", len(resp.Data), len(inputs)), nil)
	}

	out := make([][]float32, len(inputs))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(out) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
				fmt.Sprintf("embedding index %d out of range", item.Index), nil)
		}
		out[item.Index] = item.Embedding
	}
	return out, nil
}

func (c *Client) externalError(ctx context.Context, message string, err error) error {
	errType := platformerrors.ErrorTypeExternal
	if ctx.Err() != nil {
		errType = platformerrors.ErrorTypeTimeout
	}
	fields := map[string]any{"model": c.model}
	if apiErr, ok := err.(*openai.APIError); ok {
		fields["status"] = apiErr.HTTPStatusCode
	}
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure, errType, message, err, fields)
}
