package summarizer

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/keithce/notion-voice-notes/internal/apperror"
	"github.com/keithce/notion-voice-notes/pkg/retry"
)

const systemInstruction = `You are a note-taking assistant. Given the transcript of a voice recording, extract its essence as JSON with exactly these four fields:
- "title": a short descriptive title for the recording
- "summary": 2-3 sentences capturing what was said
- "main_points": the key points, in the order they came up
- "action_items": concrete follow-up tasks; use an empty array when there are none

Respond with a single JSON object and nothing else.`

const userPromptTemplate = `Transcript:
---
%s
---`

// Summarize sends the transcript to Gemini and parses the strict JSON
// contract back. Only the network call is retried; a response that fails
// the shape contract is deterministic for the same input and reported
// immediately.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string) (*Result, error) {
	if s.apiKey == "" {
		return nil, apperror.ErrMissingEnv("GEMINI_API_KEY")
	}

	s.logger.Info(ctx, "Summarizing transcript (%d chars) with %s", len(transcript), s.model)

	text, err := retry.Do(ctx, s.logger, "gemini summarization",
		retry.Options{Retryable: retry.IsTransient},
		func(ctx context.Context) (string, error) {
			return s.callGemini(ctx, transcript)
		})
	if err != nil {
		return nil, apperror.ErrSummarizationFailed(err)
	}

	result, err := s.parseResult(text)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Summary ready: %q, %d main points, %d action items",
		result.Title, len(result.MainPoints), len(result.ActionItems))
	return result, nil
}

// callGemini performs one generation request and returns the raw text of
// the first candidate.
func (s *implSummarizer) callGemini(ctx context.Context, transcript string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	prompt := fmt.Sprintf(userPromptTemplate, transcript)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text, nil
}
