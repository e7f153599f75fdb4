package export

import (
	"fmt"
	"io"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/uiguide/internal/guide"
	"github.com/dgallion1/uiguide/internal/pipeline"
)

// Run sizes in half-points.
var headingSizes = map[int]string{1: "32", 2: "28", 3: "26"}

// DOCXExporter writes the guide as a Word document: the markdown body
// followed by the structured step list.
type DOCXExporter struct{}

func (DOCXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
func (DOCXExporter) Extension() string { return ".docx" }

func (DOCXExporter) Export(w io.Writer, res *pipeline.Result) error {
	doc := docx.New().WithDefaultTheme()
	doc.AddParagraph().AddText(guideTitle(res)).Bold().Size("36")

	for _, b := range markdownBlocks([]byte(res.Markdown)) {
		switch {
		case b.heading > 0:
			size, ok := headingSizes[b.heading]
			if !ok {
				size = "24"
			}
			doc.AddParagraph().AddText(b.text).Bold().Size(size)
		case b.marker != "":
			doc.AddParagraph().AddText(b.marker + " " + b.text)
		default:
			doc.AddParagraph().AddText(b.text)
		}
	}

	if steps := guide.Decode(res.GuideJSON).Steps; len(steps) > 0 {
		doc.AddParagraph().AddText("Шаги").Bold().Size(headingSizes[2])
		for _, s := range steps {
			doc.AddParagraph().AddText(fmt.Sprintf("%d. %s", s.Index, s.Title)).Bold()
			if s.Description != "" {
				doc.AddParagraph().AddText(s.Description)
			}
		}
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
