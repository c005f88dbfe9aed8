package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"DiligenceScanner/internal/config"
	"DiligenceScanner/internal/ports"
)

// InfrastructureError marks backend failures (credentials, connectivity,
// bad status) that should trigger the extractor fallback rather than
// abort the run.
type InfrastructureError struct {
	Reason string
	Err    error
}

func (e *InfrastructureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cohere: %s: %v", e.Reason, e.Err)
	}
	return "cohere: " + e.Reason
}

func (e *InfrastructureError) Unwrap() error { return e.Err }

// CohereClient implements ports.CompletionClient against the Cohere
// chat API.
type CohereClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

var _ ports.CompletionClient = (*CohereClient)(nil)

// NewCohereClient builds a client from configuration. Construction
// fails when the credential is absent so the pipeline can select the
// fallback extractor up front.
func NewCohereClient(cfg config.ModelConfig) (*CohereClient, error) {
	if cfg.APIKey == "" {
		return nil, &InfrastructureError{Reason: "COHERE_API_KEY env var not set"}
	}
	if cfg.Endpoint == "" {
		return nil, &InfrastructureError{Reason: "endpoint not configured"}
	}

	return &CohereClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Complete posts a single blocking chat request and returns the raw
// response text.
func (c *CohereClient) Complete(ctx context.Context, model, message string, temperature float64) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model":       model,
		"message":     message,
		"temperature": temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &InfrastructureError{Reason: "chat request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &InfrastructureError{
			Reason: fmt.Sprintf("chat error %s: %s", resp.Status, strings.TrimSpace(string(payload))),
		}
	}

	var chat struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", &InfrastructureError{Reason: "decode chat response", Err: err}
	}

	return strings.TrimSpace(chat.Text), nil
}
