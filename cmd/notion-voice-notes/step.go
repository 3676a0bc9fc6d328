package main

import (
	"github.com/spf13/cobra"

	"github.com/keithce/notion-voice-notes/internal/apperror"
)

func newStepCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "step <audio|transcription|summarization|notion> [audio-file]",
		Short: "Re-run a single pipeline step against cached upstream output",
		Long: `step executes one pipeline step in isolation. The audio step needs an
audio file argument; every later step reads its input from the cached
output of the step before it and fails if that cache entry is missing.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return emit(opts, nil, apperror.ErrInvalidArgument(
					"step takes a step name and an optional audio file"))
			}
			step, err := parseStep(args[0])
			if err != nil {
				return emit(opts, nil, err)
			}
			audioPath := ""
			if len(args) == 2 {
				audioPath = args[1]
			}
			return runPipeline(cmd.Context(), opts, audioPath, string(step))
		},
	}
}
