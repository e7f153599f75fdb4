package guide

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// Parse splits a raw completion into its markdown section and its structured
// guide JSON. It never fails: when the JSON section is missing or malformed
// the guide JSON degrades to {"markdown": <markdown>}.
//
// A JSON section wrapped in a ``` or ```json fence is unwrapped before it is
// validated, so a fenced object is returned as the guide JSON rather than
// degrading to the markdown-only form.
func Parse(raw string) (string, json.RawMessage) {
	cleaned := StripThinking(raw)

	before, after, found := strings.Cut(cleaned, JSONMarker)
	if !found {
		md := strings.TrimSpace(cleaned)
		return md, markdownOnly(md)
	}

	md := strings.TrimSpace(strings.ReplaceAll(before, MarkdownMarker, ""))
	jsonPart := stripCodeBlock(after)
	if !json.Valid([]byte(jsonPart)) {
		return md, markdownOnly(md)
	}
	return md, json.RawMessage(jsonPart)
}

// StripThinking removes <think>...</think> regions some models emit before
// their answer. An opening tag without a later closing tag ends the removal;
// leftover bare tags are dropped afterwards.
func StripThinking(text string) string {
	for {
		start := strings.Index(text, thinkOpen)
		if start == -1 {
			break
		}
		end := strings.Index(text[start:], thinkClose)
		if end == -1 {
			break
		}
		text = text[:start] + text[start+end+len(thinkClose):]
	}
	text = strings.ReplaceAll(text, thinkOpen, "")
	return strings.ReplaceAll(text, thinkClose, "")
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func markdownOnly(md string) json.RawMessage {
	return json.RawMessage(compactJSON(map[string]string{"markdown": md}))
}
