package apperror

import (
	"errors"
	"fmt"
)

// Category groups failures into the exit-code ranges consumed by callers
// inspecting process status. Ranges are a stable contract; never renumber.
type Category string

const (
	CategoryInput         Category = "input"         // 1-9
	CategoryConfig        Category = "config"        // 10-19
	CategoryTranscription Category = "transcription" // 20-29
	CategorySummarization Category = "summarization" // 30-39
	CategoryNotion        Category = "notion"        // 40-49
	CategoryProcessing    Category = "processing"    // 50-59
)

// Exit codes within the category ranges.
const (
	CodeGeneric         = 1
	CodeFileNotFound    = 2
	CodeInvalidArgument = 3
	CodeNoUpstreamCache = 4

	CodeMissingEnv       = 11
	CodeMissingAPIKey    = 12
	CodeNoProvider       = 13
	CodeTranscriptionAPI = 21
	CodeFileTooLarge     = 22
	CodeSummarizationAPI = 31
	CodeInvalidSummary   = 32
	CodeNotionAPI        = 41
	CodeDatabaseNotFound = 42
	CodeToolNotInstalled = 51
	CodeToolInvocation   = 52
)

// AppError is the typed failure carried unchanged from the point of the
// fault up to the CLI, which is the only place that maps it to an exit
// code and an error payload.
type AppError struct {
	Raw      error
	Message  string
	Category Category
	Code     int
}

func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Category, e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Category, e.Message)
}

func (e AppError) Unwrap() error {
	return e.Raw
}

// ExitCodeOf maps an error to its process exit code. Untyped errors map
// to the generic code 1.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeGeneric
}

// CategoryOf returns the failure category, or CategoryInput for untyped
// errors (they share the generic exit code).
func CategoryOf(err error) Category {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Category
	}
	return CategoryInput
}

func ErrFileNotFound(path string) AppError {
	return AppError{
		Message:  fmt.Sprintf("audio file not found: %s", path),
		Category: CategoryInput,
		Code:     CodeFileNotFound,
	}
}

func ErrInvalidArgument(msg string) AppError {
	return AppError{
		Message:  msg,
		Category: CategoryInput,
		Code:     CodeInvalidArgument,
	}
}

func ErrNoUpstreamCache(step string) AppError {
	return AppError{
		Message:  fmt.Sprintf("no cached result for upstream step %q; run the full pipeline first", step),
		Category: CategoryInput,
		Code:     CodeNoUpstreamCache,
	}
}

func ErrMissingEnv(name string) AppError {
	return AppError{
		Message:  fmt.Sprintf("required environment variable %s is not set", name),
		Category: CategoryConfig,
		Code:     CodeMissingEnv,
	}
}

func ErrMissingAPIKey(provider string) AppError {
	return AppError{
		Message:  fmt.Sprintf("no API key configured for provider %q", provider),
		Category: CategoryConfig,
		Code:     CodeMissingAPIKey,
	}
}

func ErrNoProviderConfigured() AppError {
	return AppError{
		Message:  "no transcription provider configured: set OPENAI_API_KEY or GROQ_API_KEY",
		Category: CategoryConfig,
		Code:     CodeNoProvider,
	}
}

func ErrTranscriptionFailed(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		Message:  fmt.Sprintf("%s transcription failed", provider),
		Category: CategoryTranscription,
		Code:     CodeTranscriptionAPI,
	}
}

func ErrFileTooLarge(provider string, sizeBytes, ceilingBytes int64) AppError {
	return AppError{
		Message:  fmt.Sprintf("file size %d exceeds %s ceiling of %d bytes", sizeBytes, provider, ceilingBytes),
		Category: CategoryTranscription,
		Code:     CodeFileTooLarge,
	}
}

func ErrSummarizationFailed(err error) AppError {
	return AppError{
		Raw:      err,
		Message:  "summarization request failed",
		Category: CategorySummarization,
		Code:     CodeSummarizationAPI,
	}
}

func ErrInvalidSummaryResponse(reason string) AppError {
	return AppError{
		Message:  fmt.Sprintf("invalid summarization response: %s", reason),
		Category: CategorySummarization,
		Code:     CodeInvalidSummary,
	}
}

func ErrNotionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		Message:  "notion page creation failed",
		Category: CategoryNotion,
		Code:     CodeNotionAPI,
	}
}

func ErrDatabaseNotFound(databaseID string) AppError {
	return AppError{
		Message:  fmt.Sprintf("notion database %s not found or not shared with the integration", databaseID),
		Category: CategoryNotion,
		Code:     CodeDatabaseNotFound,
	}
}

func ErrToolNotInstalled(tool string) AppError {
	return AppError{
		Message:  fmt.Sprintf("%s is not installed or not on PATH", tool),
		Category: CategoryProcessing,
		Code:     CodeToolNotInstalled,
	}
}

func ErrToolFailed(tool string, err error) AppError {
	return AppError{
		Raw:      err,
		Message:  fmt.Sprintf("%s invocation failed", tool),
		Category: CategoryProcessing,
		Code:     CodeToolInvocation,
	}
}
