package summarizer

import "context"

// Result is the structured extraction from a transcript. ActionItems is
// always present, empty when nothing actionable was said.
type Result struct {
	Title       string   `json:"title" validate:"required"`
	Summary     string   `json:"summary" validate:"required"`
	MainPoints  []string `json:"main_points" validate:"required"`
	ActionItems []string `json:"action_items"`
}

// Summarizer turns transcript text into a Result via a language model.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*Result, error)
}
