package guide

import "encoding/json"

// Step is one instruction of a generated guide.
type Step struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Document is a typed view over guide JSON. Models do not always follow the
// requested schema, so fields the model omitted or mistyped stay zero.
type Document struct {
	Title string `json:"title"`
	Steps []Step `json:"steps"`
}

// Decode reads a best-effort Document from guide JSON.
func Decode(raw json.RawMessage) Document {
	var fields struct {
		Title json.RawMessage `json:"title"`
		Steps json.RawMessage `json:"steps"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Document{}
	}

	var doc Document
	_ = json.Unmarshal(fields.Title, &doc.Title)
	var steps []json.RawMessage
	_ = json.Unmarshal(fields.Steps, &steps)
	for i, s := range steps {
		var step Step
		if err := json.Unmarshal(s, &step); err != nil {
			// Tolerate a mistyped field by decoding into a loose map.
			var loose map[string]any
			if json.Unmarshal(s, &loose) != nil {
				continue
			}
			step.Title, _ = loose["title"].(string)
			step.Description, _ = loose["description"].(string)
		}
		if step.Index == 0 {
			step.Index = i + 1
		}
		doc.Steps = append(doc.Steps, step)
	}
	return doc
}
