package figma

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgallion1/uiguide/internal/doctree"
)

// Leaf fields are kept raw so a mistyped value decodes to nil instead of
// an allocated empty string.
type wireFile struct {
	Name     json.RawMessage `json:"name"`
	Document *wireNode       `json:"document"`
}

type wireNode struct {
	ID         json.RawMessage `json:"id"`
	Name       json.RawMessage `json:"name"`
	Type       json.RawMessage `json:"type"`
	Characters json.RawMessage `json:"characters"`
	Children   []*wireNode     `json:"children"`
}

// Decode parses raw design JSON into the tree the filter walks. The top level
// must be an object. Below it, fields with an unexpected JSON type are left
// nil rather than failing the whole file.
//
// Nesting is bounded by encoding/json's limit of 10000 levels. Each tree
// level costs two (the node object and its children array), so trees deeper
// than about 5000 nodes are rejected with ErrInvalidResponse.
func Decode(raw []byte) (*doctree.File, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: design file is not a json object", ErrInvalidResponse)
	}

	var w wireFile
	if err := json.Unmarshal(raw, &w); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: decode figma file: %v", ErrInvalidResponse, err)
		}
	}
	return &doctree.File{
		Name:     optionalString(w.Name),
		Document: buildTree(w.Document),
	}, nil
}

// buildTree converts the wire tree with an explicit stack. Nil children are
// kept in place; the filter skips them.
func buildTree(root *wireNode) *doctree.Node {
	if root == nil {
		return nil
	}
	type pending struct {
		src *wireNode
		dst *doctree.Node
	}
	out := &doctree.Node{}
	stack := []pending{{root, out}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p.dst.ID = optionalString(p.src.ID)
		p.dst.Name = optionalString(p.src.Name)
		p.dst.Type = optionalString(p.src.Type)
		p.dst.Characters = optionalString(p.src.Characters)
		if len(p.src.Children) == 0 {
			continue
		}
		p.dst.Children = make([]*doctree.Node, len(p.src.Children))
		for i, c := range p.src.Children {
			if c == nil {
				continue
			}
			p.dst.Children[i] = &doctree.Node{}
			stack = append(stack, pending{c, p.dst.Children[i]})
		}
	}
	return out
}

// optionalString returns the value of a JSON string, or nil for an absent,
// null or non-string value.
func optionalString(raw json.RawMessage) *string {
	if len(raw) == 0 || raw[0] != '"' {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}
