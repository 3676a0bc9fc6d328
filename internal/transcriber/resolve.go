package transcriber

import (
	"context"
	"fmt"

	"github.com/keithce/notion-voice-notes/internal/apperror"
	"github.com/keithce/notion-voice-notes/internal/config"
	"github.com/keithce/notion-voice-notes/internal/logger"
)

const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
)

// Resolve picks the speech-to-text provider. An explicitly requested
// provider must hold a key. Otherwise the configured default is used; if
// the default has no key but the other provider does, the other is chosen
// and the fallback is logged. Neither configured is a typed config error.
func Resolve(ctx context.Context, cfg *config.Config, requested string, log logger.Logger) (Provider, error) {
	name := requested
	explicit := name != ""
	if !explicit {
		name = cfg.Transcription.Provider
	}

	if name != ProviderOpenAI && name != ProviderGroq {
		return nil, apperror.ErrInvalidArgument(fmt.Sprintf("unknown transcription provider %q (want %q or %q)", name, ProviderOpenAI, ProviderGroq))
	}

	if keyFor(cfg, name) == "" {
		if explicit {
			return nil, apperror.ErrMissingAPIKey(name)
		}
		other := otherProvider(name)
		if keyFor(cfg, other) == "" {
			return nil, apperror.ErrNoProviderConfigured()
		}
		log.Info(ctx, "Provider %s has no API key, falling back to %s", name, other)
		name = other
	}

	switch name {
	case ProviderGroq:
		return newGroqProvider(keyFor(cfg, name), cfg.Transcription.GroqAPIURL), nil
	default:
		return newOpenAIProvider(keyFor(cfg, name)), nil
	}
}

func keyFor(cfg *config.Config, name string) string {
	if name == ProviderGroq {
		return cfg.Transcription.GroqAPIKey
	}
	return cfg.Transcription.OpenAIAPIKey
}

func otherProvider(name string) string {
	if name == ProviderOpenAI {
		return ProviderGroq
	}
	return ProviderOpenAI
}
