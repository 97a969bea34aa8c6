// Package provider implements the completion provider client: an
// OpenAI-compatible chat-completions API fronted by a circuit breaker.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	apperrors "github.com/prof/server/internal/shared/errors"
)

// Message is one turn of the prompt sent to the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest carries the assembled prompt and the tier that selects
// the model and output budget.
type CompletionRequest struct {
	Messages []Message
	Premium  bool
}

// Usage reports provider-side token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the provider's generated answer.
type Completion struct {
	Content string
	Model   string
	Usage   *Usage
}

// Client defines the completion provider interface.
type Client interface {
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)
}

// Config holds Groq client configuration.
type Config struct {
	BaseURL          string
	APIKey           string
	FreeModel        string
	PremiumModel     string
	FreeMaxTokens    int
	PremiumMaxTokens int
	Temperature      float64
	RequestTimeout   time.Duration
	FailureThreshold uint32
	CircuitTimeout   time.Duration
}

// DefaultConfig returns the default Groq configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          "https://api.groq.com/openai/v1",
		FreeModel:        "llama-3.1-8b-instant",
		PremiumModel:     "llama-3.3-70b-versatile",
		FreeMaxTokens:    1024,
		PremiumMaxTokens: 2048,
		Temperature:      0.7,
		RequestTimeout:   120 * time.Second,
		FailureThreshold: 5,
		CircuitTimeout:   60 * time.Second,
	}
}

// GroqClient calls the Groq chat-completions endpoint. Calls go through a
// circuit breaker so a failing provider sheds load fast instead of holding
// request slots for the full timeout.
type GroqClient struct {
	config  *Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*Completion]
	logger  *zap.Logger
}

// NewGroqClient creates a new Groq client.
func NewGroqClient(config *Config, logger *zap.Logger) *GroqClient {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:    "groq",
		Timeout: config.CircuitTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("completion provider circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &GroqClient{
		config:  config,
		client:  &http.Client{Timeout: config.RequestTimeout},
		breaker: gobreaker.NewCircuitBreaker[*Completion](settings),
		logger:  logger,
	}
}

// Complete performs a non-streaming chat completion. Model and output
// budget are selected by the request's premium tier.
func (g *GroqClient) Complete(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	return g.breaker.Execute(func() (*Completion, error) {
		return g.complete(ctx, req)
	})
}

func (g *GroqClient) complete(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	model := g.config.FreeModel
	maxTokens := g.config.FreeMaxTokens
	if req.Premium {
		model = g.config.PremiumModel
		maxTokens = g.config.PremiumMaxTokens
	}

	body := map[string]any{
		"model":       model,
		"messages":    req.Messages,
		"temperature": g.config.Temperature,
		"max_tokens":  maxTokens,
	}

	respBody, err := g.doRequest(ctx, "/chat/completions", body)
	if err != nil {
		return nil, err
	}
	defer respBody.Close()

	var groqResp struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage *Usage `json:"usage"`
	}

	if err := json.NewDecoder(respBody).Decode(&groqResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(groqResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &Completion{
		Content: groqResp.Choices[0].Message.Content,
		Model:   groqResp.Model,
		Usage:   groqResp.Usage,
	}, nil
}

// doRequest performs an HTTP request to the provider API. Error bodies are
// surfaced for debugging; the API key is never included.
func (g *GroqClient) doRequest(ctx context.Context, path string, body map[string]any) (io.ReadCloser, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.config.BaseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(resp.Body)
		return nil, apperrors.Upstream(
			fmt.Sprintf("API error (status %d)", resp.StatusCode),
			fmt.Errorf("%s", errBody),
		)
	}

	return resp.Body, nil
}

// Compile-time check
var _ Client = (*GroqClient)(nil)
