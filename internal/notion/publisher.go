package notion

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/keithce/notion-voice-notes/internal/apperror"
	"github.com/keithce/notion-voice-notes/pkg/retry"
)

// Publish renders the page tree to Notion API blocks and creates the page
// in the target database. A missing database is permanent
// misconfiguration, never retried; other failures go through the usual
// transient classifier.
func (p *implPublisher) Publish(ctx context.Context, page Page) (*PageResult, error) {
	if p.apiKey == "" {
		return nil, apperror.ErrMissingEnv("NOTION_API_KEY")
	}
	if p.databaseID == "" {
		return nil, apperror.ErrMissingEnv("NOTION_DATABASE_ID")
	}

	client := notionapi.NewClient(notionapi.Token(p.apiKey))
	request := p.buildRequest(page)

	p.logger.Info(ctx, "Creating Notion page %q in database %s", page.Title, p.databaseID)

	created, err := retry.Do(ctx, p.logger, "notion page create",
		retry.Options{Retryable: p.retryable},
		func(ctx context.Context) (*notionapi.Page, error) {
			return client.Page.Create(ctx, request)
		})
	if err != nil {
		if isDatabaseNotFound(err) {
			return nil, apperror.ErrDatabaseNotFound(p.databaseID)
		}
		return nil, apperror.ErrNotionFailed(err)
	}

	result := &PageResult{
		PageID: string(created.ID),
		URL:    created.URL,
	}
	if result.URL == "" {
		result.URL = "https://www.notion.so/" + strings.ReplaceAll(result.PageID, "-", "")
	}

	p.logger.Info(ctx, "Notion page created: %s", result.URL)
	return result, nil
}

// retryable treats a missing target database as permanent even though the
// API reports it with a server-ish error shape.
func (p *implPublisher) retryable(err error) bool {
	if isDatabaseNotFound(err) {
		return false
	}
	return retry.IsTransient(err)
}

func isDatabaseNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "object_not_found") ||
		strings.Contains(msg, "could not find database") ||
		strings.Contains(msg, "database not found")
}

func (p *implPublisher) buildRequest(page Page) *notionapi.PageCreateRequest {
	emoji := notionapi.Emoji(page.Icon)
	return &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(p.databaseID),
		},
		Icon: &notionapi.Icon{
			Type:  "emoji",
			Emoji: &emoji,
		},
		Properties: notionapi.Properties{
			"Name": notionapi.TitleProperty{
				Title: richText(page.Title),
			},
		},
		Children: toAPIBlocks(page.Blocks),
	}
}

func toAPIBlocks(blocks []Block) []notionapi.Block {
	out := make([]notionapi.Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, toAPIBlock(b))
	}
	return out
}

func toAPIBlock(b Block) notionapi.Block {
	switch b.Kind {
	case KindHeading1:
		return &notionapi.Heading1Block{
			BasicBlock: basicBlock(notionapi.BlockTypeHeading1),
			Heading1:   notionapi.Heading{RichText: richText(b.Text)},
		}
	case KindHeading2:
		return &notionapi.Heading2Block{
			BasicBlock: basicBlock(notionapi.BlockTypeHeading2),
			Heading2:   notionapi.Heading{RichText: richText(b.Text)},
		}
	case KindBullet:
		return &notionapi.BulletedListItemBlock{
			BasicBlock:       basicBlock(notionapi.BlockTypeBulletedListItem),
			BulletedListItem: notionapi.ListItem{RichText: richText(b.Text)},
		}
	case KindCheckItem:
		return &notionapi.ToDoBlock{
			BasicBlock: basicBlock(notionapi.BlockTypeToDo),
			ToDo:       notionapi.ToDo{RichText: richText(b.Text), Checked: b.Checked},
		}
	case KindToggle:
		return &notionapi.ToggleBlock{
			BasicBlock: basicBlock(notionapi.BlockTypeToggle),
			Toggle: notionapi.Toggle{
				RichText: richText(b.Text),
				Children: toAPIBlocks(b.Children),
			},
		}
	case KindDivider:
		return &notionapi.DividerBlock{
			BasicBlock: basicBlock(notionapi.BlockTypeDivider),
			Divider:    notionapi.Divider{},
		}
	default:
		return &notionapi.ParagraphBlock{
			BasicBlock: basicBlock(notionapi.BlockTypeParagraph),
			Paragraph:  notionapi.Paragraph{RichText: richText(b.Text)},
		}
	}
}

func basicBlock(t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{
		Object: notionapi.ObjectTypeBlock,
		Type:   t,
	}
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{Content: s},
		},
	}
}
