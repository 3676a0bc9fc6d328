package transcriber

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAIProvider struct {
	client openai.Client
}

func newOpenAIProvider(apiKey string) Provider {
	return &openAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (p *openAIProvider) Name() string {
	return ProviderOpenAI
}

func (p *openAIProvider) TranscribeFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio chunk: %w", err)
	}
	defer f.Close()

	transcription, err := p.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModelWhisper1,
	})
	if err != nil {
		return "", err
	}

	return transcription.Text, nil
}
