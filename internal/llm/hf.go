package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// HFClient calls the Hugging Face text-generation inference API. The base URL
// is the full model endpoint.
type HFClient struct {
	opts       Options
	httpClient *http.Client
	log        *slog.Logger
}

func NewHFClient(opts Options, log *slog.Logger) *HFClient {
	return &HFClient{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		log:        log,
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	Temperature  float64 `json:"temperature"`
	MaxNewTokens int     `json:"max_new_tokens"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfGeneration struct {
	GeneratedText *string `json:"generated_text"`
}

func (c *HFClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			Temperature:  c.opts.Temperature,
			MaxNewTokens: c.opts.MaxTokens,
		},
		Options: hfOptions{WaitForModel: true},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.opts.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("hf api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	c.log.Info("llm request", "url", c.opts.BaseURL, "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		c.log.Warn("llm error response", "status", resp.StatusCode, "body", truncate(string(respBody), 300))
		return "", &RequestError{Provider: ProviderHF, StatusCode: resp.StatusCode, Body: truncate(string(respBody), 300)}
	}

	// The endpoint answers with either a list of generations or a single one.
	var list []hfGeneration
	if err := json.Unmarshal(respBody, &list); err == nil {
		if len(list) > 0 && list[0].GeneratedText != nil {
			return *list[0].GeneratedText, nil
		}
		return "", ErrInvalidResponse
	}
	var single hfGeneration
	if err := json.Unmarshal(respBody, &single); err == nil && single.GeneratedText != nil {
		return *single.GeneratedText, nil
	}
	return "", ErrInvalidResponse
}

func (c *HFClient) Name() string  { return ProviderHF }
func (c *HFClient) Model() string { return c.opts.Model }
