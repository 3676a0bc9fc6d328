package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const groqWhisperModel = "whisper-large-v3"

// groqProvider is a minimal client for the Groq audio transcription
// endpoint, which mirrors the OpenAI shape.
type groqProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newGroqProvider(apiKey, baseURL string) *groqProvider {
	if baseURL == "" {
		baseURL = "https://api.groq.com"
	}
	return &groqProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

func (p *groqProvider) Name() string {
	return ProviderGroq
}

// transcriptionResponse is the minimal response shape
type transcriptionResponse struct {
	Text string `json:"text"`
}

func (p *groqProvider) TranscribeFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio chunk: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		if err := form.WriteField("model", groqWhisperModel); err != nil {
			pw.CloseWithError(err)
			return
		}
		part, err := form.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(form.Close())
	}()

	endpoint := p.baseURL + "/openai/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("groq returned status %d: %s", resp.StatusCode, body)
	}

	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode groq response: %w", err)
	}

	return tr.Text, nil
}
