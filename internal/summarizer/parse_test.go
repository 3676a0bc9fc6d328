package summarizer

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/keithce/notion-voice-notes/internal/apperror"
	"github.com/keithce/notion-voice-notes/internal/logger"
)

func testSummarizer() *implSummarizer {
	return &implSummarizer{
		logger:   logger.NewNop(),
		validate: validator.New(),
	}
}

const validResponse = `{
  "title": "Team Standup",
  "summary": "Discussed the release.",
  "main_points": ["Release slips a week", "QA needs access"],
  "action_items": ["Grant QA access"]
}`

func TestParseResultValid(t *testing.T) {
	result, err := testSummarizer().parseResult(validResponse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Title != "Team Standup" {
		t.Errorf("title = %q", result.Title)
	}
	if len(result.MainPoints) != 2 {
		t.Errorf("main points = %d, want 2", len(result.MainPoints))
	}
	if len(result.ActionItems) != 1 {
		t.Errorf("action items = %d, want 1", len(result.ActionItems))
	}
}

func TestParseResultStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"

	result, err := testSummarizer().parseResult(fenced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Title != "Team Standup" {
		t.Errorf("title = %q", result.Title)
	}
}

func TestParseResultEmptyActionItems(t *testing.T) {
	raw := `{"title": "t", "summary": "s", "main_points": ["p"], "action_items": []}`

	result, err := testSummarizer().parseResult(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ActionItems == nil {
		t.Error("action items should be an empty slice, not nil")
	}
	if len(result.ActionItems) != 0 {
		t.Errorf("action items = %d, want 0", len(result.ActionItems))
	}
}

func TestParseResultRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"title": "x"`},
		{"prose instead of json", "Here is your summary: the meeting went well."},
		{"missing summary", `{"title": "x", "main_points": [], "action_items": []}`},
		{"only title", `{"title": "x"}`},
		{"null action_items", `{"title": "t", "summary": "s", "main_points": ["p"], "action_items": null}`},
		{"empty title", `{"title": "", "summary": "s", "main_points": ["p"], "action_items": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testSummarizer().parseResult(tt.raw)

			var appErr apperror.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("error is not typed: %v", err)
			}
			if appErr.Code != apperror.CodeInvalidSummary {
				t.Errorf("code = %d, want %d", appErr.Code, apperror.CodeInvalidSummary)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n```json\n{}\n```\n ", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
