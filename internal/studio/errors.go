package studio

import "errors"

var (
	ErrEmptyPrompt        = errors.New("empty prompt")
	ErrGenerationInFlight = errors.New("a generation is already in progress")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrNoSpeech           = errors.New("speech preview is not configured")
)

const (
	// EmptyPromptMessage is shown when a generation is started without a prompt.
	EmptyPromptMessage = "Please describe your scene."
	// DefaultFailureMessage is shown when a failed generation carries no message.
	DefaultFailureMessage = "Production failed."
)
