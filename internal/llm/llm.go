// Package llm provides the completion collaborator: one Complete capability
// with interchangeable provider envelopes selected by configuration.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Provider names accepted by New.
const (
	ProviderHF        = "hf"
	ProviderHFRouter  = "hf_router"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Providers lists every supported provider name.
var Providers = []string{ProviderHF, ProviderHFRouter, ProviderOpenAI, ProviderAnthropic}

// ErrInvalidResponse is returned when a provider answers 2xx with an envelope
// that carries no completion text.
var ErrInvalidResponse = errors.New("invalid llm response format")

// RequestError is a non-2xx answer from a provider.
type RequestError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("llm api error (%s): %d", e.Provider, e.StatusCode)
}

// Completer turns a prompt into completion text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
	Model() string
}

// Options configures a provider.
type Options struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Model       string
	ModelSuffix string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// New builds the completer for opts.Provider.
func New(opts Options, log *slog.Logger) (Completer, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "llm", "provider", opts.Provider)
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	switch opts.Provider {
	case ProviderHF:
		return NewHFClient(opts, log), nil
	case ProviderHFRouter:
		return NewRouterClient(opts, log), nil
	case ProviderOpenAI:
		return NewOpenAIClient(opts, log), nil
	case ProviderAnthropic:
		return NewAnthropicClient(opts, log), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
