package notion

import "strings"

// Preview renders the page tree as plain text for dry runs. It derives
// from the same tree the live renderer submits, so inspecting the preview
// inspects the page that would have been created.
func Preview(page Page) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(page.Title)
	b.WriteString("\n\n")
	writeBlocks(&b, page.Blocks, "")
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeBlocks(b *strings.Builder, blocks []Block, indent string) {
	for _, block := range blocks {
		switch block.Kind {
		case KindHeading1:
			b.WriteString(indent + "# " + block.Text + "\n\n")
		case KindHeading2:
			b.WriteString(indent + "## " + block.Text + "\n\n")
		case KindBullet:
			b.WriteString(indent + "- " + block.Text + "\n")
		case KindCheckItem:
			mark := "[ ]"
			if block.Checked {
				mark = "[x]"
			}
			b.WriteString(indent + mark + " " + block.Text + "\n")
		case KindToggle:
			b.WriteString(indent + "> " + block.Text + "\n")
			writeBlocks(b, block.Children, indent+"  ")
			b.WriteString("\n")
		case KindDivider:
			b.WriteString(indent + "---\n")
		default:
			b.WriteString(indent + block.Text + "\n\n")
		}
	}
}
