package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"DiligenceScanner/internal/config"
)

func TestNewCohereClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewCohereClient(config.ModelConfig{Endpoint: "https://api.cohere.com/v1/chat"})

	var infraErr *InfrastructureError
	if !errors.As(err, &infraErr) {
		t.Fatalf("expected InfrastructureError, got %v", err)
	}
}

func TestCohereClientComplete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}

		var payload struct {
			Model       string  `json:"model"`
			Message     string  `json:"message"`
			Temperature float64 `json:"temperature"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.Model != "command-r-plus" || payload.Message != "extract this" {
			t.Errorf("unexpected payload: %+v", payload)
		}

		_, _ = w.Write([]byte(`{"text": "  {\"doc_name\": \"x\"}  "}`))
	}))
	defer server.Close()

	client, err := NewCohereClient(config.ModelConfig{APIKey: "test-key", Endpoint: server.URL})
	if err != nil {
		t.Fatalf("NewCohereClient returned error: %v", err)
	}

	text, err := client.Complete(context.Background(), "command-r-plus", "extract this", 0.0)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if text != `{"doc_name": "x"}` {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestCohereClientBadStatusIsInfrastructureError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "invalid api token"}`))
	}))
	defer server.Close()

	client, err := NewCohereClient(config.ModelConfig{APIKey: "bad-key", Endpoint: server.URL})
	if err != nil {
		t.Fatalf("NewCohereClient returned error: %v", err)
	}

	_, err = client.Complete(context.Background(), "command-r-plus", "extract", 0.0)

	var infraErr *InfrastructureError
	if !errors.As(err, &infraErr) {
		t.Fatalf("expected InfrastructureError, got %v", err)
	}
}
