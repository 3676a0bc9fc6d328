package notion

import "context"

// PageResult identifies a created remote page.
type PageResult struct {
	PageID string `json:"page_id"`
	URL    string `json:"url"`
}

// Publisher writes a page tree into the remote document database.
type Publisher interface {
	Publish(ctx context.Context, page Page) (*PageResult, error)
}
