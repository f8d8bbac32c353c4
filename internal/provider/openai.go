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

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *logging.Logger
}

// NewOpenAI creates an OpenAI-compatible client.
func NewOpenAI(opts Options) *OpenAI {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logging.NopLogger()
	}
	return &OpenAI{
		baseURL: baseURL,
		apiKey:  opts.APIKey,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Name identifies the backend.
func (p *OpenAI) Name() string { return "openai" }

// Chat sends a non-streaming chat completion request.
func (p *OpenAI) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

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
		ID      string `json:"id"`
		Model   string `json:"model"`
		Choices []struct {
			Message      Message `json:"message"`
			FinishReason string  `json:"finish_reason"`
		} `json:"choices"`
		Usage Usage `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}

	if len(raw.Choices) == 0 || raw.Choices[0].Message.Content == "" {
		return nil, errors.NewProviderError("no choices in response", errors.ErrEmptyResponse).
			WithProvider(p.Name()).WithModel(req.Model)
	}

	p.log.Debug("chat completed",
		"provider", p.Name(),
		"model", req.Model,
		"tokens", raw.Usage.TotalTokens,
		"duration_ms", time.Since(start).Milliseconds())

	return &ChatResponse{
		Model:   raw.Model,
		Content: raw.Choices[0].Message.Content,
		Usage:   raw.Usage,
	}, nil
}
