// Package pipeline wires the design-file fetch, the tree filter, the prompt
// builder, the completion call and the response parser into one request flow.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/uiguide/internal/doctree"
	"github.com/dgallion1/uiguide/internal/figma"
	"github.com/dgallion1/uiguide/internal/guide"
	"github.com/dgallion1/uiguide/internal/llm"
)

// ErrTokenRequired is returned when neither the request nor the configuration
// carries a Figma token.
var ErrTokenRequired = errors.New("figma token is required")

// FileFetcher downloads raw design files.
type FileFetcher interface {
	GetFile(ctx context.Context, fileID, token string) ([]byte, error)
}

// Request identifies a design file and the guide settings.
type Request struct {
	FigmaURL   string `json:"figma_url"`
	FigmaToken string `json:"figma_token"`
	guide.Params
}

// Result is a generated guide.
type Result struct {
	FileID    string          `json:"file_id"`
	Markdown  string          `json:"markdown"`
	GuideJSON json.RawMessage `json:"guide_json"`
}

// Generator runs fetch → filter → prompt → completion → parse.
type Generator struct {
	files        FileFetcher
	completer    llm.Completer
	defaultToken string
	elementLimit int
	log          *slog.Logger
}

func NewGenerator(files FileFetcher, completer llm.Completer, defaultToken string, elementLimit int, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		files:        files,
		completer:    completer,
		defaultToken: defaultToken,
		elementLimit: elementLimit,
		log:          log.With("component", "pipeline"),
	}
}

// Fetch returns the file id and the raw design JSON.
func (g *Generator) Fetch(ctx context.Context, req Request) (string, []byte, error) {
	token := req.FigmaToken
	if token == "" {
		token = g.defaultToken
	}
	if token == "" {
		return "", nil, ErrTokenRequired
	}
	fileID, err := figma.ExtractFileID(req.FigmaURL)
	if err != nil {
		return "", nil, err
	}
	raw, err := g.files.GetFile(ctx, fileID, token)
	if err != nil {
		return fileID, nil, err
	}
	return fileID, raw, nil
}

// Filter returns the file id and the filtered view of the design file.
func (g *Generator) Filter(ctx context.Context, req Request) (string, *doctree.Filtered, error) {
	fileID, raw, err := g.Fetch(ctx, req)
	if err != nil {
		return fileID, nil, err
	}
	file, err := figma.Decode(raw)
	if err != nil {
		return fileID, nil, err
	}
	return fileID, doctree.Filter(file), nil
}

// Generate produces the guide for a design file.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	fileID, filtered, err := g.Filter(ctx, req)
	if err != nil {
		return nil, err
	}
	log := g.log.With("file_id", fileID)

	prompt := guide.BuildPrompt(filtered, req.Params, g.elementLimit)
	log.Info("prompt built",
		"screens", len(filtered.Screens),
		"elements", filtered.ElementCount(),
		"est_tokens", guide.EstimateTokens(prompt),
		"prompt_sha", ContentHashHex([]byte(prompt))[:12],
	)

	start := time.Now()
	output, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		log.Error("completion failed", "provider", g.completer.Name(), "error", err)
		return nil, err
	}
	log.Info("completion received", "provider", g.completer.Name(), "chars", len(output), "duration_ms", time.Since(start).Milliseconds())

	markdown, guideJSON := guide.Parse(output)
	return &Result{FileID: fileID, Markdown: markdown, GuideJSON: guideJSON}, nil
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
