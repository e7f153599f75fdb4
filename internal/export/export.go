// Package export renders a generated guide into downloadable formats.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/uiguide/internal/guide"
	"github.com/dgallion1/uiguide/internal/pipeline"
)

// DefaultTitle heads documents whose guide JSON carries no title.
const DefaultTitle = "Руководство"

// Exporter writes a guide in one output format.
type Exporter interface {
	Export(w io.Writer, res *pipeline.Result) error
	ContentType() string
	Extension() string
}

// Formats lists the supported format names.
var Formats = []string{"json", "md", "html", "docx"}

// ForFormat returns the exporter for a format name. An empty name selects json.
func ForFormat(name string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSONExporter{}, nil
	case "md", "markdown":
		return MarkdownExporter{}, nil
	case "html", "htm":
		return HTMLExporter{}, nil
	case "docx":
		return DOCXExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", name)
	}
}

// Filename builds the download name for a file id.
func Filename(fileID string, e Exporter) string {
	if fileID == "" {
		fileID = "guide"
	}
	return "guide-" + fileID + e.Extension()
}

func guideTitle(res *pipeline.Result) string {
	if t := strings.TrimSpace(guide.Decode(res.GuideJSON).Title); t != "" {
		return t
	}
	return DefaultTitle
}

// JSONExporter writes the API response body.
type JSONExporter struct{}

func (JSONExporter) ContentType() string { return "application/json" }
func (JSONExporter) Extension() string   { return ".json" }

func (JSONExporter) Export(w io.Writer, res *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(res)
}

// MarkdownExporter writes the guide markdown followed by its JSON in a fenced
// block.
type MarkdownExporter struct{}

func (MarkdownExporter) ContentType() string { return "text/markdown; charset=utf-8" }
func (MarkdownExporter) Extension() string   { return ".md" }

func (MarkdownExporter) Export(w io.Writer, res *pipeline.Result) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, res.GuideJSON, "", "  "); err != nil {
		pretty.Reset()
		pretty.WriteString("{}")
	}
	_, err := fmt.Fprintf(w, "# %s\n\n%s\n\n```json\n%s\n```\n", DefaultTitle, res.Markdown, pretty.String())
	return err
}
