package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/keithce/notion-voice-notes/internal/apperror"
	"github.com/keithce/notion-voice-notes/internal/cache"
	"github.com/keithce/notion-voice-notes/internal/config"
	"github.com/keithce/notion-voice-notes/internal/logger"
)

func newCacheCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached step outputs",
	}
	cmd.AddCommand(newCacheListCmd(opts))
	cmd.AddCommand(newCacheClearCmd(opts))
	return cmd
}

func openStore(opts *options) (*cache.Store, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	return cache.NewStore(cfg.Cache.Dir, logger.New(opts.verbose)), nil
}

func newCacheListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "Show which steps have cached output",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}
			for _, st := range store.List(cmd.Context()) {
				if st.Cached {
					fmt.Printf("%-14s cached at %s (took %s)\n",
						st.Step,
						st.Timestamp.Format(time.RFC3339),
						time.Duration(st.DurationMS)*time.Millisecond)
				} else {
					fmt.Printf("%-14s not cached\n", st.Step)
				}
			}
			return nil
		},
	}
}

func newCacheClearCmd(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:           "clear [step]",
		Short:         "Remove cached output for one step or all of them",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}

			var targets []cache.Step
			switch {
			case len(args) == 1:
				step, err := parseStep(args[0])
				if err != nil {
					return err
				}
				targets = []cache.Step{step}
			case all:
				targets = nil // Clear treats empty as every step
			default:
				return apperror.ErrInvalidArgument("cache clear needs a step name or --all")
			}

			removed := store.Clear(cmd.Context(), targets...)
			if len(removed) == 0 {
				fmt.Println("nothing to clear")
				return nil
			}
			for _, step := range removed {
				fmt.Printf("cleared %s\n", step)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "clear every cached step")
	return cmd
}
