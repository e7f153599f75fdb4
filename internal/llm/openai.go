package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const technicalWriterSystem = "You are a technical writer."

// ChatClient speaks the OpenAI chat-completions protocol. It backs both the
// openai provider and the Hugging Face router, which exposes the same API.
type ChatClient struct {
	client      openai.Client
	name        string
	model       string
	system      string
	temperature float64
	log         *slog.Logger
}

// NewOpenAIClient returns a chat client for the OpenAI API.
func NewOpenAIClient(opts Options, log *slog.Logger) *ChatClient {
	return newChatClient(ProviderOpenAI, opts.Model, technicalWriterSystem, opts, log)
}

// NewRouterClient returns a chat client for the Hugging Face router. Model ids
// without an explicit ":provider" get the configured suffix.
func NewRouterClient(opts Options, log *slog.Logger) *ChatClient {
	return newChatClient(ProviderHFRouter, RouterModelID(opts.Model, opts.ModelSuffix), "", opts, log)
}

// RouterModelID appends ":suffix" to model unless it already names a provider.
func RouterModelID(model, suffix string) string {
	if strings.Contains(model, ":") || suffix == "" {
		return model
	}
	return model + ":" + suffix
}

func newChatClient(name, model, system string, opts Options, log *slog.Logger) *ChatClient {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(opts.Timeout),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &ChatClient{
		client:      openai.NewClient(reqOpts...),
		name:        name,
		model:       model,
		system:      system,
		temperature: opts.Temperature,
		log:         log,
	}
}

func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if c.system != "" {
		messages = append(messages, openai.SystemMessage(c.system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    messages,
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			c.log.Warn("llm error response", "status", apiErr.StatusCode, "model", c.model)
			return "", &RequestError{Provider: c.name, StatusCode: apiErr.StatusCode}
		}
		return "", fmt.Errorf("%s api: %w", c.name, err)
	}
	c.log.Info("llm request", "model", c.model, "status", 200)

	if len(resp.Choices) == 0 {
		return "", ErrInvalidResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *ChatClient) Name() string  { return c.name }
func (c *ChatClient) Model() string { return c.model }
