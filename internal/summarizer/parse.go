package summarizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/keithce/notion-voice-notes/internal/apperror"
)

// responsePayload uses pointer fields so an absent key is distinguishable
// from a present-but-empty one.
type responsePayload struct {
	Title       *string   `json:"title"`
	Summary     *string   `json:"summary"`
	MainPoints  *[]string `json:"main_points"`
	ActionItems *[]string `json:"action_items"`
}

// parseResult validates the model output against the four-field contract.
// Every violation is a typed summarization error; none of them retries.
func (s *implSummarizer) parseResult(raw string) (*Result, error) {
	cleaned := stripCodeFence(raw)

	var payload responsePayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, apperror.ErrInvalidSummaryResponse(fmt.Sprintf("malformed JSON: %v", err))
	}

	switch {
	case payload.Title == nil:
		return nil, apperror.ErrInvalidSummaryResponse(`missing field "title"`)
	case payload.Summary == nil:
		return nil, apperror.ErrInvalidSummaryResponse(`missing field "summary"`)
	case payload.MainPoints == nil:
		return nil, apperror.ErrInvalidSummaryResponse(`missing field "main_points"`)
	case payload.ActionItems == nil:
		return nil, apperror.ErrInvalidSummaryResponse(`missing field "action_items"`)
	}

	result := &Result{
		Title:       *payload.Title,
		Summary:     *payload.Summary,
		MainPoints:  *payload.MainPoints,
		ActionItems: *payload.ActionItems,
	}
	if result.ActionItems == nil {
		result.ActionItems = []string{}
	}

	if err := s.validate.Struct(result); err != nil {
		return nil, apperror.ErrInvalidSummaryResponse(err.Error())
	}

	return result, nil
}

// stripCodeFence removes a surrounding markdown code fence the model may
// wrap the JSON in despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
