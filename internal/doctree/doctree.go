package doctree

// Node types the filter cares about. Any other type tag is carried through
// as-is and treated as a generic container.
const (
	TypeDocument  = "DOCUMENT"
	TypeFrame     = "FRAME"
	TypeComponent = "COMPONENT"
	TypeText      = "TEXT"
)

// File is the decoded top level of a design file as returned by the
// design-tool API. Unknown fields are ignored.
type File struct {
	Name     *string `json:"name"`
	Document *Node   `json:"document"`
}

// Node is a recursive element of the design tree. Absent string fields stay
// nil so the filtered output can report them as null.
type Node struct {
	ID         *string `json:"id"`
	Name       *string `json:"name"`
	Type       *string `json:"type"`
	Characters *string `json:"characters"`
	Children   []*Node `json:"children"`
}

// TypeTag returns the node's type, or "" when it has none.
func (n *Node) TypeTag() string {
	if n.Type == nil {
		return ""
	}
	return *n.Type
}

// Kind classifies an extracted element.
type Kind string

const (
	KindButton    Kind = "button"
	KindInput     Kind = "input"
	KindHeader    Kind = "header"
	KindText      Kind = "text"
	KindComponent Kind = "component"
)

// Element is a flattened point of interest extracted from a screen.
type Element struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
	Type *string `json:"type"`
	Kind Kind    `json:"kind"`
	Text *string `json:"text,omitempty"` // set only for KindText
}

// Screen groups the elements found below one top-level frame (or below the
// whole document when it has no frames).
type Screen struct {
	ID       *string   `json:"id"`
	Name     *string   `json:"name"`
	Type     *string   `json:"type"`
	Elements []Element `json:"elements"`
}

// Filtered is the simplified view of a design file fed to the prompt builder.
type Filtered struct {
	FileName *string  `json:"file_name"`
	Screens  []Screen `json:"screens"`
}

// ElementCount returns the total number of elements across all screens.
func (f *Filtered) ElementCount() int {
	n := 0
	for _, s := range f.Screens {
		n += len(s.Elements)
	}
	return n
}
