package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/keithce/notion-voice-notes/internal/apperror"
	"github.com/keithce/notion-voice-notes/internal/cache"
)

// captureStdout runs fn with os.Stdout redirected and returns what it
// wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	w.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestMissingPositionalIsInvalidArgument(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", []string{"--json"}},
		{"extra arguments", []string{"--json", "a.mp3", "b.mp3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := newRootCmd()
			cmd.SetArgs(tt.args)

			var execErr error
			out := captureStdout(t, func() {
				execErr = cmd.Execute()
			})

			if code := apperror.ExitCodeOf(execErr); code != apperror.CodeInvalidArgument {
				t.Errorf("exit code = %d, want %d", code, apperror.CodeInvalidArgument)
			}

			var envelope struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			if err := json.Unmarshal([]byte(out), &envelope); err != nil {
				t.Fatalf("stdout is not a single JSON object: %v\n%s", err, out)
			}
			if envelope.Success {
				t.Error("envelope reports success for an argument error")
			}
			if envelope.Error == "" {
				t.Error("envelope carries no error message")
			}
		})
	}
}

func TestUnknownFlagIsInvalidArgument(t *testing.T) {
	cmd, _ := newRootCmd()
	cmd.SetArgs([]string{"--json", "--frobnicate", "a.mp3"})

	var execErr error
	out := captureStdout(t, func() {
		execErr = cmd.Execute()
	})

	if code := apperror.ExitCodeOf(execErr); code != apperror.CodeInvalidArgument {
		t.Errorf("exit code = %d, want %d", code, apperror.CodeInvalidArgument)
	}
	if !json.Valid([]byte(out)) {
		t.Errorf("stdout is not a JSON object:\n%s", out)
	}
}

func TestStepArgumentCount(t *testing.T) {
	cmd, _ := newRootCmd()
	cmd.SetArgs([]string{"step"})

	var execErr error
	captureStdout(t, func() {
		execErr = cmd.Execute()
	})

	if code := apperror.ExitCodeOf(execErr); code != apperror.CodeInvalidArgument {
		t.Errorf("exit code = %d, want %d", code, apperror.CodeInvalidArgument)
	}
}

func TestParseStep(t *testing.T) {
	for _, name := range []string{"audio", "transcription", "summarization", "notion"} {
		step, err := parseStep(name)
		if err != nil {
			t.Errorf("parseStep(%q) failed: %v", name, err)
		}
		if string(step) != name {
			t.Errorf("parseStep(%q) = %q", name, step)
		}
	}

	_, err := parseStep("upload")
	var appErr apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error is not typed: %v", err)
	}
	if appErr.Code != apperror.CodeInvalidArgument {
		t.Errorf("code = %d, want %d", appErr.Code, apperror.CodeInvalidArgument)
	}
}

func TestStepNamesMatchCachePackage(t *testing.T) {
	for _, step := range cache.Steps {
		if _, err := parseStep(string(step)); err != nil {
			t.Errorf("cache step %q not accepted by parseStep", step)
		}
	}
}

func TestRootCommandWiring(t *testing.T) {
	cmd, opts := newRootCmd()

	for _, flag := range []string{"provider", "title", "database", "dry-run", "json", "no-cache", "docx", "verbose", "config"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("flag --%s not registered", flag)
		}
	}

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"step", "cache", "watch"} {
		if !names[want] {
			t.Errorf("subcommand %q not registered", want)
		}
	}

	if opts == nil {
		t.Fatal("options not returned")
	}
}
