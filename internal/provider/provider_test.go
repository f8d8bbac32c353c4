package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hbarrett/planwright/internal/config"
	"github.com/hbarrett/planwright/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantName string
		wantErr  bool
	}{
		{"openai", "openai", "openai", false},
		{"ollama", "ollama", "ollama", false},
		{"unknown", "bedrock", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default().Provider
			cfg.Name = tt.provider

			g, err := New(cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if g.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", g.Name(), tt.wantName)
			}
		})
	}
}

func TestOpenAI_Chat(t *testing.T) {
	var gotAuth string
	var gotReq ChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-1",
			"model": "gpt-4o",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hello"}, "finish_reason": "stop"},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	defer srv.Close()

	p := NewOpenAI(Options{BaseURL: srv.URL, APIKey: "sk-test"})
	resp, err := p.Chat(context.Background(), &ChatRequest{
		Model:    "gpt-4o",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o" {
		t.Errorf("request model = %q", gotReq.Model)
	}
	if resp.Content != "hello" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("TotalTokens = %d", resp.Usage.TotalTokens)
	}
}

func TestOpenAI_Chat_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewOpenAI(Options{BaseURL: srv.URL})
	_, err := p.Chat(context.Background(), &ChatRequest{Model: "gpt-4o"})
	if !errors.Is(err, errors.ErrBadStatus) {
		t.Errorf("error = %v, want ErrBadStatus", err)
	}

	var provErr *errors.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatal("error is not a ProviderError")
	}
	if provErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", provErr.StatusCode)
	}
	if !errors.IsRetryable(err) {
		t.Error("provider errors should be retryable")
	}
}

func TestOpenAI_Chat_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	p := NewOpenAI(Options{BaseURL: srv.URL})
	_, err := p.Chat(context.Background(), &ChatRequest{Model: "gpt-4o"})
	if !errors.Is(err, errors.ErrEmptyResponse) {
		t.Errorf("error = %v, want ErrEmptyResponse", err)
	}
}

func TestOpenAI_Chat_Unreachable(t *testing.T) {
	p := NewOpenAI(Options{BaseURL: "http://127.0.0.1:1"})
	_, err := p.Chat(context.Background(), &ChatRequest{Model: "gpt-4o"})
	if !errors.Is(err, errors.ErrProviderUnavailable) {
		t.Errorf("error = %v, want ErrProviderUnavailable", err)
	}
}

func TestOllama_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}

		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if stream, ok := req["stream"].(bool); !ok || stream {
			t.Error("stream should be false")
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":             "qwen2.5-coder:14b",
			"message":           map[string]string{"role": "assistant", "content": "package main"},
			"done":              true,
			"prompt_eval_count": 20,
			"eval_count":        30,
		})
	}))
	defer srv.Close()

	p := NewOllama(Options{BaseURL: srv.URL})
	resp, err := p.Chat(context.Background(), &ChatRequest{
		Model:       "qwen2.5-coder:14b",
		Messages:    []Message{{Role: RoleUser, Content: "write main"}},
		Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if resp.Content != "package main" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 50 {
		t.Errorf("TotalTokens = %d, want 50", resp.Usage.TotalTokens)
	}
}

func TestOllama_Chat_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "qwen2.5-coder:14b",
			"message": map[string]string{"role": "assistant", "content": ""},
			"done":    true,
		})
	}))
	defer srv.Close()

	p := NewOllama(Options{BaseURL: srv.URL})
	_, err := p.Chat(context.Background(), &ChatRequest{Model: "qwen2.5-coder:14b"})
	if !errors.Is(err, errors.ErrEmptyResponse) {
		t.Errorf("error = %v, want ErrEmptyResponse", err)
	}
}
