package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/prof/server/internal/shared/errors"
)

func testConfig(baseURL string) *Config {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.APIKey = "test-key"
	cfg.RequestTimeout = 5 * time.Second
	return cfg
}

func completionBody(model, content string) map[string]any {
	return map[string]any{
		"model": model,
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
	}
}

func TestComplete(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(completionBody("llama-3.1-8b-instant", "the answer"))
	}))
	defer srv.Close()

	client := NewGroqClient(testConfig(srv.URL), nil)

	completion, err := client.Complete(context.Background(), &CompletionRequest{
		Messages: []Message{
			{Role: "system", Content: "instructions"},
			{Role: "user", Content: "question"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "the answer", completion.Content)
	assert.Equal(t, "llama-3.1-8b-instant", completion.Model)
	require.NotNil(t, completion.Usage)
	assert.Equal(t, 30, completion.Usage.TotalTokens)

	assert.Equal(t, "llama-3.1-8b-instant", captured["model"])
	assert.Equal(t, float64(1024), captured["max_tokens"])
	assert.Equal(t, 0.7, captured["temperature"])
	assert.Len(t, captured["messages"], 2)
}

func TestComplete_PremiumModelSelection(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(completionBody("llama-3.3-70b-versatile", "deep answer"))
	}))
	defer srv.Close()

	client := NewGroqClient(testConfig(srv.URL), nil)

	_, err := client.Complete(context.Background(), &CompletionRequest{
		Messages: []Message{{Role: "user", Content: "q"}},
		Premium:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "llama-3.3-70b-versatile", captured["model"])
	assert.Equal(t, float64(2048), captured["max_tokens"])
}

func TestComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer srv.Close()

	client := NewGroqClient(testConfig(srv.URL), nil)

	_, err := client.Complete(context.Background(), &CompletionRequest{
		Messages: []Message{{Role: "user", Content: "q"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "rate limit exceeded")
	assert.NotContains(t, err.Error(), "test-key")
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"model": "m", "choices": []any{}})
	}))
	defer srv.Close()

	client := NewGroqClient(testConfig(srv.URL), nil)

	_, err := client.Complete(context.Background(), &CompletionRequest{
		Messages: []Message{{Role: "user", Content: "q"}},
	})
	assert.ErrorContains(t, err, "no choices")
}

func TestComplete_CircuitBreakerOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.FailureThreshold = 3
	client := NewGroqClient(cfg, nil)

	req := &CompletionRequest{Messages: []Message{{Role: "user", Content: "q"}}}
	for i := 0; i < 3; i++ {
		_, err := client.Complete(context.Background(), req)
		require.Error(t, err)
	}

	// Breaker is now open: the next call fails fast without hitting the server
	_, err := client.Complete(context.Background(), req)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
