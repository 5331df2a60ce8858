package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const placeholderSummary = "Resumen generado exitosamente"

type implWebhookBackend struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewWebhookBackend creates a Backend that POSTs the request as JSON to an
// HTTP endpoint. The response body is expected to carry the summary under
// "summary" or "content".
func NewWebhookBackend(endpoint, apiKey string) Backend {
	return &implWebhookBackend{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{},
	}
}

type webhookResponse struct {
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	Metadata *Usage `json:"metadata"`
}

func (b *implWebhookBackend) Summarize(ctx context.Context, req Request) (string, *Usage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", nil, fmt.Errorf("post summary request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("summary endpoint returned %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read response: %w", err)
	}

	var parsed webhookResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", nil, fmt.Errorf("decode response: %w", err)
	}

	text := parsed.Summary
	if text == "" {
		text = parsed.Content
	}
	if text == "" {
		text = placeholderSummary
	}
	return text, parsed.Metadata, nil
}
