package guide

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgallion1/uiguide/internal/doctree"
)

// DefaultElementLimit bounds how many elements are embedded in a prompt.
const DefaultElementLimit = 20

// Section markers the model is asked to emit and Parse splits on.
const (
	MarkdownMarker = "MARKDOWN:"
	JSONMarker     = "JSON:"
)

// Params are the user-supplied generation settings. They are echoed into the
// prompt verbatim.
type Params struct {
	Language    string `json:"language"`
	DetailLevel string `json:"detail_level"`
	Audience    string `json:"audience"`
}

const instructions = "Ты — технический писатель. Сгенерируй пошаговое руководство по интерфейсу. " +
	"Ответ должен содержать два раздела: MARKDOWN и JSON. " +
	"В JSON укажи: title, steps (массив объектов с полями index, title, description)."

// BuildPrompt renders the completion prompt for a filtered design file.
// A limit <= 0 embeds every element.
func BuildPrompt(filtered *doctree.Filtered, p Params, limit int) string {
	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Язык: %s\n", p.Language))
	sb.WriteString(fmt.Sprintf("Детализация: %s\n", p.DetailLevel))
	sb.WriteString(fmt.Sprintf("Аудитория: %s\n\n", p.Audience))
	sb.WriteString("Данные об интерфейсе (JSON):\n")
	sb.WriteString(compactJSON(LimitElements(filtered, limit)))
	sb.WriteString("\n\n")
	sb.WriteString("Формат ответа:\n")
	sb.WriteString(MarkdownMarker + "\n<текст>\n\n" + JSONMarker + "\n<json>")
	return sb.String()
}

// LimitElements returns a copy of filtered holding at most limit elements,
// taken in document order. Screens after the budget runs out are dropped.
func LimitElements(filtered *doctree.Filtered, limit int) *doctree.Filtered {
	if filtered == nil || limit <= 0 {
		return filtered
	}
	out := &doctree.Filtered{FileName: filtered.FileName, Screens: []doctree.Screen{}}
	remaining := limit
	for _, s := range filtered.Screens {
		if remaining <= 0 {
			break
		}
		els := s.Elements
		if len(els) > remaining {
			els = els[:remaining]
		}
		remaining -= len(els)
		if els == nil {
			els = []doctree.Element{}
		}
		out.Screens = append(out.Screens, doctree.Screen{
			ID:       s.ID,
			Name:     s.Name,
			Type:     s.Type,
			Elements: els,
		})
	}
	return out
}

// compactJSON encodes v without HTML escaping so UI copy reaches the model
// unchanged.
func compactJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return strings.TrimRight(buf.String(), "\n")
}

// EstimateTokens gives a rough token count for logging prompt sizes.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
