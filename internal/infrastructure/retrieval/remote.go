package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"jan-server/services/chat-router/internal/domain/responder"
)

type queryRequest struct {
	Text string `json:"text"`
	TopK int    `json:"top_k,omitempty"`
}

type queryResult struct {
	DocumentID  string         `json:"document_id"`
	Score       float64        `json:"score"`
	TextPreview string         `json:"text_preview"`
	Metadata    map[string]any `json:"metadata"`
}

type queryResponse struct {
	Count   int           `json:"count"`
	Results []queryResult `json:"results"`
}

// RemoteIndex queries a vector store service over HTTP.
type RemoteIndex struct {
	http *resty.Client
}

var _ responder.Retriever = (*RemoteIndex)(nil)

func NewRemoteIndex(baseURL string) (*RemoteIndex, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("vector store URL is not configured")
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", "Jan-Chat-Router/1.0").
		SetTimeout(10 * time.Second)
	return &RemoteIndex{http: client}, nil
}

// Retrieve posts the query and maps results to passages in the order
// returned. A "content" metadata field, when present, wins over the
// preview text.
func (r *RemoteIndex) Retrieve(ctx context.Context, query string, k int) ([]responder.Passage, error) {
	var resp queryResponse
	httpResp, err := r.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(queryRequest{Text: query, TopK: k}).
		SetResult(&resp).
		Post("/query")
	if err != nil {
		return nil, fmt.Errorf("vector store query request failed: %w", err)
	}
	if httpResp.IsError() {
		return nil, fmt.Errorf("vector store query error (%d): %s", httpResp.StatusCode(), httpResp.String())
	}

	passages := make([]responder.Passage, 0, len(resp.Results))
	for _, result := range resp.Results {
		content := result.TextPreview
		if full, ok := result.Metadata["content"].(string); ok && full != "" {
			content = full
		}
		metadata := result.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		if _, ok := metadata["document_id"]; !ok && result.DocumentID != "" {
			metadata["document_id"] = result.DocumentID
		}
		passages = append(passages, responder.Passage{
			Content:  content,
			Score:    result.Score,
			Metadata: metadata,
		})
		if k > 0 && len(passages) == k {
			break
		}
	}
	return passages, nil
}
