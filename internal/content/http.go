package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"memento/internal/platform/config"
)

// HTTPGenerator calls a JSON text-generation endpoint:
//
//	POST {endpoint}  {"purpose": ..., "locale": ..., "facts": {...}}
//	200              {"text": "..."}
type HTTPGenerator struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPGenerator returns nil when no endpoint is configured.
func NewHTTPGenerator(cfg config.ContentConfig) *HTTPGenerator {
	if cfg.Endpoint == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPGenerator{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Purpose string            `json:"purpose"`
	Locale  string            `json:"locale,omitempty"`
	Facts   map[string]string `json:"facts,omitempty"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	body, err := json.Marshal(generateRequest{Purpose: p.Purpose, Locale: p.Locale, Facts: p.Facts})
	if err != nil {
		return "", fmt.Errorf("encode prompt: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("content request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("content endpoint returned %d", resp.StatusCode)
	}
	var out generateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("decode content response: %w", err)
	}
	return out.Text, nil
}
