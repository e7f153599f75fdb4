package figma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	ErrBadURL       = errors.New("cannot extract file id from url")
	ErrUnauthorized = errors.New("invalid or unauthorized token")
	ErrNotFound     = errors.New("file not found")
	ErrRateLimited  = errors.New("figma rate limit exceeded")

	ErrInvalidResponse = errors.New("invalid figma response")
)

// RequestError is an unexpected non-2xx answer from the Figma API.
type RequestError struct {
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("figma api error: %d", e.StatusCode)
}

var (
	bareIDRe  = regexp.MustCompile(`^[A-Za-z0-9]{10,}$`)
	fileURLRe = regexp.MustCompile(`https?://(?:www\.)?figma\.com/(?:file|proto|design)/([A-Za-z0-9]+)`)
)

// ExtractFileID accepts either a bare file key or a figma.com file, design or
// prototype link.
func ExtractFileID(value string) (string, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return "", fmt.Errorf("%w: url is empty", ErrBadURL)
	}
	if bareIDRe.MatchString(raw) {
		return raw, nil
	}
	if m := fileURLRe.FindStringSubmatch(raw); len(m) > 1 {
		return m[1], nil
	}
	return "", ErrBadURL
}

// Client fetches design files from the Figma REST API.
type Client struct {
	baseURL    string
	maxBytes   int64
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, maxBytes int64, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With("component", "figma"),
	}
}

// GetFile returns the raw JSON of a design file.
func (c *Client) GetFile(ctx context.Context, fileID, token string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files/"+url.PathEscape(fileID), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("X-FIGMA-TOKEN", token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	defer resp.Body.Close()

	c.log.Info("figma request", "path", httpReq.URL.Path, "status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 400:
		return nil, &RequestError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidResponse, c.maxBytes)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: body is not json", ErrInvalidResponse)
	}
	return body, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
