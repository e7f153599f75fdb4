package doctree

import "strings"

// keywordGroup maps a kind to the name tokens that select it.
type keywordGroup struct {
	kind   Kind
	tokens []string
}

// keywordGroups is consulted in order; the first group with a matching token
// wins.
var keywordGroups = []keywordGroup{
	{KindButton, []string{"button", "btn"}},
	{KindInput, []string{"input", "textfield", "text field", "textbox", "field", "search"}},
	{KindHeader, []string{"header", "title", "heading", "h1", "h2", "h3"}},
}

// Filter extracts screens and their elements of interest from a design file.
// It never fails: missing documents, names and children are treated as empty.
func Filter(file *File) *Filtered {
	out := &Filtered{}
	doc := &Node{}
	if file != nil {
		out.FileName = file.Name
		if file.Document != nil {
			doc = file.Document
		}
	}

	for _, child := range doc.Children {
		if child != nil && child.TypeTag() == TypeFrame {
			out.Screens = append(out.Screens, newScreen(child))
		}
	}
	if len(out.Screens) == 0 {
		out.Screens = []Screen{newScreen(doc)}
	}
	return out
}

// Classify returns the kind of a node. Nodes with no keyword match are
// KindComponent.
func Classify(n *Node) Kind {
	if n.TypeTag() == TypeText {
		return KindText
	}
	name := normalizeName(n.Name)
	for _, g := range keywordGroups {
		if containsAny(name, g.tokens) {
			return g.kind
		}
	}
	return KindComponent
}

// IsRelevant reports whether a node becomes an element. Text nodes always do;
// other nodes only when their name carries a keyword.
func IsRelevant(n *Node) bool {
	return Classify(n) != KindComponent
}

func newScreen(scope *Node) Screen {
	return Screen{
		ID:       scope.ID,
		Name:     scope.Name,
		Type:     scope.Type,
		Elements: collectElements(scope),
	}
}

// collectElements flattens the relevant descendants of scope in pre-order.
// An explicit stack keeps arbitrarily deep trees off the goroutine stack.
func collectElements(scope *Node) []Element {
	elements := []Element{}
	stack := pushChildren(nil, scope)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if kind := Classify(n); kind != KindComponent {
			el := Element{ID: n.ID, Name: n.Name, Type: n.Type, Kind: kind}
			if kind == KindText {
				text := ""
				if n.Characters != nil {
					text = *n.Characters
				}
				el.Text = &text
			}
			elements = append(elements, el)
		}
		stack = pushChildren(stack, n)
	}
	return elements
}

// pushChildren pushes n's children in reverse so they pop in document order.
func pushChildren(stack []*Node, n *Node) []*Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if c := n.Children[i]; c != nil {
			stack = append(stack, c)
		}
	}
	return stack
}

func normalizeName(name *string) string {
	if name == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*name))
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
