package pipeline

import (
	"context"

	"github.com/keithce/notion-voice-notes/internal/audio"
	"github.com/keithce/notion-voice-notes/internal/cache"
	"github.com/keithce/notion-voice-notes/internal/notion"
	"github.com/keithce/notion-voice-notes/internal/summarizer"
	"github.com/keithce/notion-voice-notes/internal/transcriber"
)

// Options is the immutable per-run configuration, parsed once by the CLI
// before anything fallible happens.
type Options struct {
	AudioPath  string
	Provider   string // requested provider, "" means configured default
	Title      string // page title override, "" keeps the generated one
	DatabaseID string // target database override
	DryRun     bool
	NoCache    bool
	DocxPath   string // when set, also render the page tree to this .docx
}

// Result aggregates one pipeline run for reporting. It doubles as the
// JSON output envelope.
type Result struct {
	Success       bool                `json:"success"`
	AudioFile     string              `json:"audioFile"`
	Audio         *audio.Metadata     `json:"audio,omitempty"`
	Transcription *transcriber.Result `json:"transcription,omitempty"`
	Summary       *summarizer.Result  `json:"summary,omitempty"`
	Notion        *notion.PageResult  `json:"notion,omitempty"`
	Preview       string              `json:"preview,omitempty"`
	Error         string              `json:"error,omitempty"`
}

// Pipeline sequences audio analysis, transcription, summarization and
// publication over one recording.
type Pipeline interface {
	Run(ctx context.Context, opts Options) (*Result, error)

	// RunStep re-runs a single step standalone, sourcing its input from
	// the preceding step's cached output.
	RunStep(ctx context.Context, step cache.Step, opts Options) (*Result, error)
}
