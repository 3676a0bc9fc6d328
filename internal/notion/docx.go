package notion

import (
	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	docxFont     = "Times New Roman"
	docxFontSize = 13
)

// RenderDocx writes the page tree to a styled .docx file. Same tree as
// the live and preview renderers, third output format.
func RenderDocx(page Page, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addDocxRun(doc.AddParagraph(""), page.Title, true, 16)
	writeDocxBlocks(doc, page.Blocks, "")

	return doc.SaveTo(outputPath)
}

func writeDocxBlocks(doc *docx.RootDoc, blocks []Block, prefix string) {
	for _, b := range blocks {
		switch b.Kind {
		case KindHeading1:
			addDocxRun(doc.AddParagraph(""), prefix+b.Text, true, 16)
		case KindHeading2:
			addDocxRun(doc.AddParagraph(""), prefix+b.Text, true, 15)
		case KindBullet:
			addDocxRun(doc.AddParagraph(""), prefix+"• "+b.Text, false, docxFontSize)
		case KindCheckItem:
			addDocxRun(doc.AddParagraph(""), prefix+"☐ "+b.Text, false, docxFontSize)
		case KindToggle:
			addDocxRun(doc.AddParagraph(""), prefix+b.Text, true, 14)
			writeDocxBlocks(doc, b.Children, prefix)
		case KindDivider:
			doc.AddParagraph("")
		default:
			addDocxRun(doc.AddParagraph(""), prefix+b.Text, false, docxFontSize)
		}
	}
}

func addDocxRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(docxFont).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
