package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/dgallion1/uiguide/internal/pipeline"
)

const htmlSkeleton = `<!DOCTYPE html><html><head><meta charset="utf-8"><title></title></head><body></body></html>`

// Model output is untrusted; rendered markdown goes through the UGC policy.
var sanitizer = bluemonday.UGCPolicy()

// HTMLExporter renders the guide markdown as a standalone HTML page.
type HTMLExporter struct{}

func (HTMLExporter) ContentType() string { return "text/html; charset=utf-8" }
func (HTMLExporter) Extension() string   { return ".html" }

func (HTMLExporter) Export(w io.Writer, res *pipeline.Result) error {
	var rendered bytes.Buffer
	if err := markdown.Convert([]byte(res.Markdown), &rendered); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	safe := sanitizer.SanitizeBytes(rendered.Bytes())

	doc, err := html.Parse(strings.NewReader(htmlSkeleton))
	if err != nil {
		return fmt.Errorf("parse skeleton: %w", err)
	}
	title := findElement(doc, "title")
	body := findElement(doc, "body")
	if title == nil || body == nil {
		return fmt.Errorf("html skeleton is missing title or body")
	}
	title.AppendChild(&html.Node{Type: html.TextNode, Data: guideTitle(res)})

	nodes, err := html.ParseFragment(bytes.NewReader(safe), body)
	if err != nil {
		return fmt.Errorf("parse rendered guide: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return html.Render(w, doc)
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
