package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keithce/notion-voice-notes/internal/apperror"
	"github.com/keithce/notion-voice-notes/internal/cache"
	"github.com/keithce/notion-voice-notes/internal/config"
	"github.com/keithce/notion-voice-notes/internal/logger"
	"github.com/keithce/notion-voice-notes/internal/pipeline"
)

const version = "1.0.0"

// options holds every flag value in one place. Flags are parsed once by
// cobra and both the success and failure paths read from the same struct.
type options struct {
	provider   string
	title      string
	database   string
	docxPath   string
	configPath string
	dryRun     bool
	jsonOut    bool
	verbose    bool
	noCache    bool
}

func newRootCmd() (*cobra.Command, *options) {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "notion-voice-notes <audio-file>",
		Short: "Transcribe a voice recording, summarize it, and publish it to Notion",
		Long: `notion-voice-notes turns a local audio recording into a structured
Notion page: it probes the file with ffprobe, transcribes speech with
OpenAI or Groq, summarizes the transcript with Gemini, and creates a
page in a Notion database. Intermediate step outputs are cached on disk
so interrupted runs resume where they left off.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Argument errors go through emit like every other failure,
			// so JSON mode still prints its single object and the exit
			// code stays in the input range.
			if len(args) != 1 {
				return emit(opts, nil, apperror.ErrInvalidArgument(
					fmt.Sprintf("expected exactly one audio file argument, got %d", len(args))))
			}
			return runPipeline(cmd.Context(), opts, args[0], "")
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&opts.jsonOut, "json", false, "emit a single JSON result object on stdout")
	pf.StringVar(&opts.configPath, "config", "", "path to an optional YAML config file")
	pf.StringVarP(&opts.provider, "provider", "p", "", "transcription provider (openai or groq)")
	pf.StringVarP(&opts.title, "title", "t", "", "override the Notion page title")
	pf.StringVar(&opts.database, "database", "", "override the target Notion database ID")
	pf.BoolVar(&opts.dryRun, "dry-run", false, "render a text preview instead of creating a Notion page")
	pf.BoolVar(&opts.noCache, "no-cache", false, "ignore cached step outputs and recompute everything")
	pf.StringVar(&opts.docxPath, "docx", "", "also export the page content as a .docx file at this path")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return emit(opts, nil, apperror.ErrInvalidArgument(err.Error()))
	})

	cmd.AddCommand(newStepCmd(opts))
	cmd.AddCommand(newCacheCmd(opts))
	cmd.AddCommand(newWatchCmd(opts))

	return cmd, opts
}

// runPipeline wires configuration, cache, and pipeline together and runs
// either the whole flow or, when step is non-empty, a single replayed step.
func runPipeline(ctx context.Context, opts *options, audioPath, step string) error {
	log := logger.New(opts.verbose)

	popts := pipeline.Options{
		AudioPath:  audioPath,
		Provider:   opts.provider,
		Title:      opts.title,
		DatabaseID: opts.database,
		DryRun:     opts.dryRun,
		NoCache:    opts.noCache,
		DocxPath:   opts.docxPath,
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return emit(opts, &pipeline.Result{AudioFile: audioPath}, err)
	}

	store := cache.NewStore(cfg.Cache.Dir, log)
	p := pipeline.New(cfg, store, log)

	var result *pipeline.Result
	if step != "" {
		result, err = p.RunStep(ctx, cache.Step(step), popts)
	} else {
		result, err = p.Run(ctx, popts)
	}
	return emit(opts, result, err)
}

// emit writes the run outcome to stdout. In JSON mode it always prints a
// single object, success or not; error text itself goes to stderr in main.
func emit(opts *options, result *pipeline.Result, err error) error {
	if result == nil {
		result = &pipeline.Result{}
	}
	result.Success = err == nil
	if err != nil {
		result.Error = err.Error()
	}

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(result); encErr != nil {
			return encErr
		}
		return err
	}

	if err != nil {
		return err
	}
	switch {
	case result.Preview != "":
		fmt.Print(result.Preview)
	case result.Notion != nil:
		fmt.Printf("Created Notion page: %s\n", result.Notion.URL)
	}
	return nil
}

func parseStep(name string) (cache.Step, error) {
	for _, s := range cache.Steps {
		if string(s) == name {
			return s, nil
		}
	}
	return "", apperror.ErrInvalidArgument(fmt.Sprintf("unknown step %q (valid: audio, transcription, summarization, notion)", name))
}
