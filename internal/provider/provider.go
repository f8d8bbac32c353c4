// Package provider implements chat clients for the model backends the
// agents talk to. Both clients speak plain JSON over HTTP: the openai
// client targets any OpenAI-compatible /chat/completions endpoint, and
// the ollama client targets a local Ollama server's native API.
package provider

import (
	"context"
	"time"

	"github.com/hbarrett/planwright/internal/config"
	"github.com/hbarrett/planwright/internal/errors"
	"github.com/hbarrett/planwright/internal/logging"
)

// Role constants for chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a request for a single model completion.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Usage tracks token consumption for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the provider's reply to a ChatRequest.
type ChatResponse struct {
	Model   string `json:"model"`
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// Generator produces chat completions. Implementations must honor the
// request context for cancellation and timeouts.
type Generator interface {
	// Name identifies the backend (e.g. "openai", "ollama").
	Name() string

	// Chat sends a chat request and returns the completion.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// Options configures a provider client.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *logging.Logger
}

// New creates the Generator named by the provider config.
func New(cfg config.ProviderConfig, log *logging.Logger) (Generator, error) {
	opts := Options{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey(),
		Timeout: cfg.Timeout(),
		Logger:  log,
	}

	switch cfg.Name {
	case "openai":
		return NewOpenAI(opts), nil
	case "ollama":
		return NewOllama(opts), nil
	default:
		return nil, errors.NewProviderError("unknown provider", errors.ErrInvalidInput).
			WithProvider(cfg.Name)
	}
}
