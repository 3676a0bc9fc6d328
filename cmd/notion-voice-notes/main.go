package main

import (
	"fmt"
	"os"

	"github.com/keithce/notion-voice-notes/internal/apperror"
)

func main() {
	cmd, opts := newRootCmd()

	if err := cmd.Execute(); err != nil {
		// JSON mode already emitted its error envelope on stdout.
		if !opts.jsonOut {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(apperror.ExitCodeOf(err))
	}
}
