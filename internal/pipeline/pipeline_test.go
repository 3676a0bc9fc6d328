package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keithce/notion-voice-notes/internal/apperror"
	"github.com/keithce/notion-voice-notes/internal/audio"
	"github.com/keithce/notion-voice-notes/internal/cache"
	"github.com/keithce/notion-voice-notes/internal/config"
	"github.com/keithce/notion-voice-notes/internal/logger"
	"github.com/keithce/notion-voice-notes/internal/notion"
	"github.com/keithce/notion-voice-notes/internal/summarizer"
	"github.com/keithce/notion-voice-notes/internal/transcriber"
)

type fakeAnalyzer struct {
	md          audio.Metadata
	probeErr    error
	probeCalls  int
	splitCalls  int
	cleanupDone bool
}

func (f *fakeAnalyzer) Probe(ctx context.Context, path string) (audio.Metadata, error) {
	f.probeCalls++
	return f.md, f.probeErr
}

func (f *fakeAnalyzer) Split(ctx context.Context, path string, md audio.Metadata, ceilingBytes int64) ([]audio.Chunk, error) {
	f.splitCalls++
	return []audio.Chunk{{Path: path, Index: 0, StartSeconds: 0, EndSeconds: md.DurationSeconds}}, nil
}

func (f *fakeAnalyzer) Cleanup(ctx context.Context, originalPath string, chunks []audio.Chunk) {
	f.cleanupDone = true
}

type fakeProvider struct {
	name  string
	text  string
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) TranscribeFile(ctx context.Context, path string) (string, error) {
	f.calls++
	return f.text, nil
}

type fakeSummarizer struct {
	result *summarizer.Result
	err    error
	calls  int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, transcript string) (*summarizer.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakePublisher struct {
	result *notion.PageResult
	err    error
	calls  int
	page   notion.Page
}

func (f *fakePublisher) Publish(ctx context.Context, page notion.Page) (*notion.PageResult, error) {
	f.calls++
	f.page = page
	return f.result, f.err
}

type fixture struct {
	cfg         *config.Config
	store       *cache.Store
	analyzer    *fakeAnalyzer
	provider    *fakeProvider
	sum         *fakeSummarizer
	publisher   *fakePublisher
	pipeline    Pipeline
	audioPath   string
	publishedTo string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	audioPath := filepath.Join(t.TempDir(), "note.mp3")
	if err := os.WriteFile(audioPath, []byte("fake audio"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	cfg.Notion.DatabaseID = "db-default"

	f := &fixture{
		cfg:       cfg,
		store:     cache.NewStore(t.TempDir(), logger.NewNop()),
		audioPath: audioPath,
		analyzer: &fakeAnalyzer{md: audio.Metadata{
			DurationSeconds: 60,
			Format:          "mp3",
			Channels:        1,
			SampleRate:      44100,
			SizeBytes:       10 * 1024 * 1024,
		}},
		provider: &fakeProvider{name: "openai", text: "we planned the sprint"},
		sum: &fakeSummarizer{result: &summarizer.Result{
			Title:       "Sprint Planning",
			Summary:     "Planned the sprint.",
			MainPoints:  []string{"Starts Monday"},
			ActionItems: []string{},
		}},
		publisher: &fakePublisher{result: &notion.PageResult{PageID: "pg-1", URL: "https://www.notion.so/pg1"}},
	}

	f.pipeline = NewWithDeps(cfg, f.store, logger.NewNop(), Deps{
		Analyzer:   f.analyzer,
		Summarizer: f.sum,
		Resolve: func(ctx context.Context, requested string) (transcriber.Provider, error) {
			return f.provider, nil
		},
		Publisher: func(databaseID string) notion.Publisher {
			f.publishedTo = databaseID
			return f.publisher
		},
	})
	return f
}

func TestRunDryRun(t *testing.T) {
	f := newFixture(t)

	result, err := f.pipeline.Run(context.Background(), Options{AudioPath: f.audioPath, DryRun: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Success {
		t.Error("result not marked successful")
	}
	if result.Audio == nil || result.Audio.DurationSeconds != 60 {
		t.Errorf("audio metadata = %+v", result.Audio)
	}
	if result.Transcription == nil || result.Transcription.Text != "we planned the sprint" {
		t.Errorf("transcription = %+v", result.Transcription)
	}
	if result.Summary == nil || result.Summary.Title != "Sprint Planning" {
		t.Errorf("summary = %+v", result.Summary)
	}

	if !strings.HasPrefix(result.Preview, "# Sprint Planning\n") {
		t.Errorf("preview does not start with the title heading:\n%s", result.Preview)
	}
	if result.Notion != nil {
		t.Error("dry run must not create a page")
	}
	if f.publisher.calls != 0 {
		t.Errorf("publisher called %d times during dry run", f.publisher.calls)
	}
	if !f.analyzer.cleanupDone {
		t.Error("chunks not cleaned up")
	}

	// Dry run must leave no notion cache entry.
	if _, ok := cache.Read[*notion.PageResult](context.Background(), f.store, cache.StepNotion); ok {
		t.Error("dry run wrote a notion cache entry")
	}
}

func TestRunCreatesPage(t *testing.T) {
	f := newFixture(t)

	result, err := f.pipeline.Run(context.Background(), Options{AudioPath: f.audioPath})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Notion == nil || result.Notion.PageID != "pg-1" {
		t.Errorf("notion result = %+v", result.Notion)
	}
	if f.publisher.calls != 1 {
		t.Errorf("publisher called %d times, want 1", f.publisher.calls)
	}
	if f.publisher.page.Title != "Sprint Planning" {
		t.Errorf("published page title = %q", f.publisher.page.Title)
	}
	if f.publishedTo != "db-default" {
		t.Errorf("published to database %q, want the configured default", f.publishedTo)
	}
}

func TestRunDatabaseOverride(t *testing.T) {
	f := newFixture(t)

	if _, err := f.pipeline.Run(context.Background(), Options{AudioPath: f.audioPath, DatabaseID: "db-other"}); err != nil {
		t.Fatal(err)
	}
	if f.publishedTo != "db-other" {
		t.Errorf("published to database %q, want the override", f.publishedTo)
	}
}

func TestRunMissingFile(t *testing.T) {
	f := newFixture(t)

	result, err := f.pipeline.Run(context.Background(), Options{AudioPath: "/nowhere/gone.mp3"})

	var appErr apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error is not typed: %v", err)
	}
	if appErr.Code != apperror.CodeFileNotFound {
		t.Errorf("code = %d, want %d", appErr.Code, apperror.CodeFileNotFound)
	}
	if result == nil || result.Success {
		t.Error("result should exist and not be successful")
	}
	if f.analyzer.probeCalls != 0 {
		t.Error("probe should not run for a missing file")
	}
}

func TestRunSecondRunHitsCache(t *testing.T) {
	f := newFixture(t)
	opts := Options{AudioPath: f.audioPath, DryRun: true}

	if _, err := f.pipeline.Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if _, err := f.pipeline.Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	if f.analyzer.probeCalls != 1 {
		t.Errorf("probe called %d times, want 1", f.analyzer.probeCalls)
	}
	if f.analyzer.splitCalls != 1 {
		t.Errorf("split called %d times, want 1 (cache hit must skip splitting)", f.analyzer.splitCalls)
	}
	if f.provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", f.provider.calls)
	}
	if f.sum.calls != 1 {
		t.Errorf("summarizer called %d times, want 1", f.sum.calls)
	}
}

func TestRunNoCacheRecomputes(t *testing.T) {
	f := newFixture(t)
	opts := Options{AudioPath: f.audioPath, DryRun: true, NoCache: true}

	for i := 0; i < 2; i++ {
		if _, err := f.pipeline.Run(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}

	if f.provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", f.provider.calls)
	}
	if f.sum.calls != 2 {
		t.Errorf("summarizer called %d times, want 2", f.sum.calls)
	}
}

func TestRunPartialResultOnFailure(t *testing.T) {
	f := newFixture(t)
	f.sum.result = nil
	f.sum.err = apperror.ErrSummarizationFailed(errors.New("boom"))

	result, err := f.pipeline.Run(context.Background(), Options{AudioPath: f.audioPath, DryRun: true})
	if err == nil {
		t.Fatal("expected an error")
	}

	// Steps completed before the failure stay reported.
	if result.Transcription == nil {
		t.Error("transcription missing from the partial result")
	}
	if result.Summary != nil {
		t.Error("failed step should not report output")
	}
}

func TestRunOversizedFileWithoutDuration(t *testing.T) {
	f := newFixture(t)
	f.analyzer.md.SizeBytes = 60 * 1024 * 1024
	f.analyzer.md.DurationSeconds = 0

	_, err := f.pipeline.Run(context.Background(), Options{AudioPath: f.audioPath, DryRun: true})

	var appErr apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error is not typed: %v", err)
	}
	if appErr.Code != apperror.CodeFileTooLarge {
		t.Errorf("code = %d, want %d", appErr.Code, apperror.CodeFileTooLarge)
	}
	if f.analyzer.splitCalls != 0 {
		t.Error("split must not run for a file that cannot be chunked")
	}
}

func TestRunTitleOverride(t *testing.T) {
	f := newFixture(t)

	result, err := f.pipeline.Run(context.Background(), Options{AudioPath: f.audioPath, Title: "My Note", DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(result.Preview, "# My Note\n") {
		t.Errorf("preview title not overridden:\n%s", result.Preview)
	}
}
