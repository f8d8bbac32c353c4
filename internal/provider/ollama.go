package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/hbarrett/planwright/internal/errors"
	"github.com/hbarrett/planwright/internal/logging"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// Ollama talks to a local Ollama server through its native /api/chat
// endpoint. No API key is needed.
type Ollama struct {
	baseURL string
	client  *http.Client
	log     *logging.Logger
}

// NewOllama creates an Ollama client.
func NewOllama(opts Options) *Ollama {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logging.NopLogger()
	}
	return &Ollama{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Name identifies the backend.
func (p *Ollama) Name() string { return "ollama" }

// Chat sends a non-streaming chat request to Ollama.
func (p *Ollama) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	payload := map[string]any{
		"model":    req.Model,
		"messages": req.Messages,
		"stream":   false,
	}
	options := map[string]any{}
	if req.Temperature > 0 {
		options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	if len(options) > 0 {
		payload["options"] = options
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, errors.NewProviderError("chat request failed", errors.Join(errors.ErrProviderUnavailable, err)).
			WithProvider(p.Name()).WithModel(req.Model)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.NewProviderError(string(respBody), errors.ErrBadStatus).
			WithProvider(p.Name()).WithModel(req.Model).WithStatusCode(resp.StatusCode)
	}

	var raw struct {
		Model   string  `json:"model"`
		Message Message `json:"message"`
		Done    bool    `json:"done"`

		PromptEvalCount int `json:"prompt_eval_count"`
		EvalCount       int `json:"eval_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}

	if raw.Message.Content == "" {
		return nil, errors.NewProviderError("empty message content", errors.ErrEmptyResponse).
			WithProvider(p.Name()).WithModel(req.Model)
	}

	p.log.Debug("chat completed",
		"provider", p.Name(),
		"model", req.Model,
		"tokens", raw.PromptEvalCount+raw.EvalCount,
		"duration_ms", time.Since(start).Milliseconds())

	return &ChatResponse{
		Model:   raw.Model,
		Content: raw.Message.Content,
		Usage: Usage{
			PromptTokens:     raw.PromptEvalCount,
			CompletionTokens: raw.EvalCount,
			TotalTokens:      raw.PromptEvalCount + raw.EvalCount,
		},
	}, nil
}
