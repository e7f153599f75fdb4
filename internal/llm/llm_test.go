package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProvider(t *testing.T, provider string, h http.HandlerFunc) Completer {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	base := srv.URL
	if provider == ProviderOpenAI || provider == ProviderHFRouter {
		base += "/v1/"
	}
	c, err := New(Options{
		Provider:    provider,
		BaseURL:     base,
		APIKey:      "secret",
		Model:       "test-model",
		ModelSuffix: "fastest",
		Temperature: 0.2,
		MaxTokens:   256,
		Timeout:     5 * time.Second,
	}, quietLogger())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return c
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(Options{Provider: "nope"}, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestHF_ListResponse(t *testing.T) {
	c := newProvider(t, ProviderHF, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer token, got %q", got)
		}
		var req hfRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Inputs != "prompt" || req.Parameters.MaxNewTokens != 256 || !req.Options.WaitForModel {
			t.Errorf("unexpected request %+v", req)
		}
		w.Write([]byte(`[{"generated_text": "MARKDOWN:\nШаг 1"}]`))
	})

	got, err := c.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "MARKDOWN:\nШаг 1" {
		t.Errorf("unexpected completion %q", got)
	}
}

func TestHF_ObjectResponse(t *testing.T) {
	c := newProvider(t, ProviderHF, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generated_text": "single"}`))
	})
	got, err := c.Complete(context.Background(), "prompt")
	if err != nil || got != "single" {
		t.Fatalf("expected single, got %q, %v", got, err)
	}
}

func TestHF_InvalidEnvelope(t *testing.T) {
	for _, body := range []string{`[]`, `{"error": "loading"}`, `"text"`, `[{"text": "x"}]`} {
		c := newProvider(t, ProviderHF, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		if _, err := c.Complete(context.Background(), "prompt"); !errors.Is(err, ErrInvalidResponse) {
			t.Errorf("body %s: expected ErrInvalidResponse, got %v", body, err)
		}
	}
}

func TestHF_ErrorStatus(t *testing.T) {
	c := newProvider(t, ProviderHF, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})
	_, err := c.Complete(context.Background(), "prompt")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected RequestError 503, got %v", err)
	}
}

func chatCompletion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "test-model",
		"choices": []any{map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func TestOpenAI_Complete(t *testing.T) {
	c := newProvider(t, ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("expected model test-model, got %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "prompt" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletion("guide text")))
	})

	got, err := c.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "guide text" {
		t.Errorf("expected guide text, got %q", got)
	}
}

func TestRouter_ModelSuffixAndNoSystemMessage(t *testing.T) {
	c := newProvider(t, ProviderHFRouter, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string           `json:"model"`
			Messages []map[string]any `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "test-model:fastest" {
			t.Errorf("expected suffixed model, got %q", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0]["role"] != "user" {
			t.Errorf("expected a single user message, got %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletion("ok")))
	})
	if c.Model() != "test-model:fastest" {
		t.Errorf("expected Model() to report suffixed id, got %q", c.Model())
	}
	if _, err := c.Complete(context.Background(), "prompt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOpenAI_ErrorStatus(t *testing.T) {
	c := newProvider(t, ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})
	_, err := c.Complete(context.Background(), "prompt")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected RequestError 500, got %v", err)
	}
}

func TestOpenAI_NoChoices(t *testing.T) {
	c := newProvider(t, ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	})
	if _, err := c.Complete(context.Background(), "prompt"); !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestRouterModelID(t *testing.T) {
	tests := []struct{ model, suffix, want string }{
		{"org/model", "fastest", "org/model:fastest"},
		{"org/model:together", "fastest", "org/model:together"},
		{"org/model", "", "org/model"},
	}
	for _, tc := range tests {
		if got := RouterModelID(tc.model, tc.suffix); got != tc.want {
			t.Errorf("RouterModelID(%q, %q) = %q, want %q", tc.model, tc.suffix, got, tc.want)
		}
	}
}

func TestAnthropic_Complete(t *testing.T) {
	c := newProvider(t, ProviderAnthropic, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "secret" || r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing anthropic headers")
		}
		var req anthropicRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.MaxTokens != 256 || len(req.Messages) != 1 || req.Messages[0].Content != "prompt" {
			t.Errorf("unexpected request %+v", req)
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"part one "},{"type":"text","text":"part two"}]}`))
	})
	got, err := c.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "part one part two" {
		t.Errorf("unexpected completion %q", got)
	}
}

func TestAnthropic_Errors(t *testing.T) {
	c := newProvider(t, ProviderAnthropic, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	var reqErr *RequestError
	if _, err := c.Complete(context.Background(), "p"); !errors.As(err, &reqErr) || reqErr.StatusCode != 429 {
		t.Errorf("expected RequestError 429, got %v", err)
	}

	c = newProvider(t, ProviderAnthropic, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	})
	if _, err := c.Complete(context.Background(), "p"); !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("expected ErrInvalidResponse, got %v", err)
	}
}
