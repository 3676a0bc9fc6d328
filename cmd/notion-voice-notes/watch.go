package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/keithce/notion-voice-notes/internal/cache"
	"github.com/keithce/notion-voice-notes/internal/config"
	"github.com/keithce/notion-voice-notes/internal/logger"
	"github.com/keithce/notion-voice-notes/internal/pipeline"
	"github.com/keithce/notion-voice-notes/internal/watcher"
)

func newWatchCmd(opts *options) *cobra.Command {
	var maxConcurrent int

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and process audio files as they appear",
		Long: `watch monitors a directory for new audio files and runs the full
pipeline on each one. Step caching is disabled while watching because
every file needs a fresh run. Stop with Ctrl-C.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(opts.verbose)

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			store := cache.NewStore(cfg.Cache.Dir, log)
			p := pipeline.New(cfg, store, log)

			handler := func(ctx context.Context, path string) error {
				result, err := p.Run(ctx, pipeline.Options{
					AudioPath:  path,
					Provider:   opts.provider,
					DatabaseID: opts.database,
					DryRun:     opts.dryRun,
					NoCache:    true,
				})
				if err != nil {
					log.Error(ctx, "processing %s failed: %v", path, err)
					return err
				}
				if result.Notion != nil {
					log.Info(ctx, "created Notion page for %s: %s", path, result.Notion.URL)
				}
				return nil
			}

			w, err := watcher.New(args[0], handler, log, maxConcurrent)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info(ctx, "watching %s for new audio files", args[0])
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.Stop()
				return err
			}
			return w.Stop()
		},
	}
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 1, "maximum files processed at once")
	return cmd
}
