package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config carries everything the pipeline needs. An optional YAML file
// supplies defaults; .env and real environment variables always win.
type Config struct {
	Notion        NotionConfig        `yaml:"notion"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Cache         CacheConfig         `yaml:"cache"`
}

type NotionConfig struct {
	APIKey     string `yaml:"api_key" envconfig:"NOTION_API_KEY"`
	DatabaseID string `yaml:"database_id" envconfig:"NOTION_DATABASE_ID"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" envconfig:"GEMINI_API_KEY"`
	Model  string `yaml:"model" envconfig:"GEMINI_MODEL"`
}

type TranscriptionConfig struct {
	// Provider is the default speech-to-text backend: "openai" or "groq".
	Provider     string `yaml:"provider" envconfig:"TRANSCRIPTION_PROVIDER"`
	OpenAIAPIKey string `yaml:"openai_api_key" envconfig:"OPENAI_API_KEY"`
	GroqAPIKey   string `yaml:"groq_api_key" envconfig:"GROQ_API_KEY"`

	// GroqAPIURL points the Groq client at an alternate endpoint.
	GroqAPIURL string `yaml:"groq_api_url" envconfig:"GROQ_API_URL"`

	// GroqFileSizeLimitMB raises the Groq upload ceiling for developer
	// tier accounts. Parsed during Validate; anything that is not a
	// positive integer is ignored.
	GroqFileSizeLimitMB string `yaml:"groq_file_size_limit_mb" envconfig:"GROQ_FILE_SIZE_LIMIT_MB"`

	// GroqLimitMB is the vetted override, 0 when unset or invalid.
	GroqLimitMB int `yaml:"-" ignored:"true"`
}

type CacheConfig struct {
	Dir string `yaml:"dir" envconfig:"VOICE_NOTES_CACHE_DIR"`
}

// Load builds the configuration: optional YAML file, then .env, then
// environment variables, then defaults via Validate. An empty path skips
// the file layer entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// .env is a convenience for local runs; absence is not an error.
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate normalizes and applies defaults. Required credentials are
// checked at the point of use, not here, so a dry run never demands the
// Notion key.
func (c *Config) Validate() error {
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = "openai"
	}
	c.Transcription.Provider = strings.ToLower(strings.TrimSpace(c.Transcription.Provider))

	c.Transcription.GroqLimitMB = 0
	if raw := strings.TrimSpace(c.Transcription.GroqFileSizeLimitMB); raw != "" {
		if mb, err := strconv.Atoi(raw); err == nil && mb > 0 {
			c.Transcription.GroqLimitMB = mb
		}
	}

	if c.Transcription.GroqAPIURL == "" {
		c.Transcription.GroqAPIURL = "https://api.groq.com"
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = ".voice-notes-cache"
	}

	return nil
}
