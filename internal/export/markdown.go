package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// block is one paragraph-level unit of guide markdown.
type block struct {
	text    string
	heading int    // heading level, 0 for body text
	marker  string // list marker, empty outside lists
}

// markdownBlocks flattens markdown into paragraph-level blocks for formats
// that cannot render HTML.
func markdownBlocks(src []byte) []block {
	doc := markdown.Parser().Parse(text.NewReader(src))
	var out []block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		out = appendBlocks(out, n, src)
	}
	return out
}

func appendBlocks(out []block, n ast.Node, src []byte) []block {
	switch node := n.(type) {
	case *ast.Heading:
		if t := inlineText(node, src); t != "" {
			out = append(out, block{text: t, heading: node.Level})
		}
		return out
	case *ast.List:
		num := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "•"
			if node.IsOrdered() {
				marker = fmt.Sprintf("%d.", num)
				num++
			}
			out = append(out, block{text: inlineText(item, src), marker: marker})
		}
		return out
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if t := linesText(n, src); t != "" {
			out = append(out, block{text: t})
		}
		return out
	case *ast.ThematicBreak:
		return out
	}
	if t := inlineText(n, src); t != "" {
		out = append(out, block{text: t})
	}
	return out
}

// inlineText concatenates the text leaves below n.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

func linesText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}
