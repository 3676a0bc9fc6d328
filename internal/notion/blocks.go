package notion

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/keithce/notion-voice-notes/internal/summarizer"
	"github.com/keithce/notion-voice-notes/internal/transcriber"
)

// richTextLimit is Notion's maximum length for a single rich text
// content string; transcript paragraphs are cut to fit.
const richTextLimit = 2000

const pageIcon = "🎙️"

// BlockKind discriminates the node types of the page tree.
type BlockKind string

const (
	KindHeading1  BlockKind = "heading_1"
	KindHeading2  BlockKind = "heading_2"
	KindParagraph BlockKind = "paragraph"
	KindBullet    BlockKind = "bulleted_list_item"
	KindCheckItem BlockKind = "to_do"
	KindToggle    BlockKind = "toggle"
	KindDivider   BlockKind = "divider"
)

// Block is one node of the content tree. The same tree feeds the live
// Notion renderer, the dry-run preview and the docx export, which keeps
// the three outputs structurally identical.
type Block struct {
	Kind     BlockKind
	Text     string
	Checked  bool
	Children []Block
}

// Page is the fully derived content of one knowledge-base page.
type Page struct {
	Title  string
	Icon   string
	Blocks []Block
}

// BuildPage derives the page tree from the summary and transcript. It is
// a pure function: no I/O, no client types. An empty titleOverride keeps
// the model-generated title. Empty Key Points and Action Items sections
// are omitted entirely rather than rendered headless.
func BuildPage(titleOverride string, sum *summarizer.Result, tr *transcriber.Result) Page {
	title := titleOverride
	if title == "" {
		title = sum.Title
	}

	blocks := []Block{
		{Kind: KindHeading2, Text: "Summary"},
		{Kind: KindParagraph, Text: sum.Summary},
	}

	if len(sum.MainPoints) > 0 {
		blocks = append(blocks, Block{Kind: KindHeading2, Text: "Key Points"})
		for _, point := range sum.MainPoints {
			blocks = append(blocks, Block{Kind: KindBullet, Text: point})
		}
	}

	if len(sum.ActionItems) > 0 {
		blocks = append(blocks, Block{Kind: KindHeading2, Text: "Action Items"})
		for _, item := range sum.ActionItems {
			blocks = append(blocks, Block{Kind: KindCheckItem, Text: item})
		}
	}

	transcript := Block{Kind: KindToggle, Text: "Full Transcript"}
	for _, part := range splitText(tr.Text, richTextLimit) {
		transcript.Children = append(transcript.Children, Block{Kind: KindParagraph, Text: part})
	}
	blocks = append(blocks, transcript)

	blocks = append(blocks,
		Block{Kind: KindDivider},
		Block{Kind: KindParagraph, Text: metadataLine(tr)},
	)

	return Page{Title: title, Icon: pageIcon, Blocks: blocks}
}

func metadataLine(tr *transcriber.Result) string {
	minutes := int(math.Round(tr.DurationSeconds / 60))
	return fmt.Sprintf("Duration: %d min | Transcribed by %s", minutes, tr.Provider)
}

// splitText cuts s into pieces of at most limit bytes, preferring to
// break at a space so words stay intact.
func splitText(s string, limit int) []string {
	if s == "" {
		return []string{""}
	}

	var parts []string
	for len(s) > limit {
		cut := limit
		found := false
		for i := limit; i > limit/2; i-- {
			if s[i-1] == ' ' {
				cut = i
				found = true
				break
			}
		}
		if !found {
			// Text without spaces: back off to a rune boundary so a
			// multibyte character is never cut in half.
			for cut > 0 && !utf8.RuneStart(s[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
		}
		parts = append(parts, s[:cut])
		s = s[cut:]
	}
	return append(parts, s)
}
