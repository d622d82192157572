package gemini

import "errors"

var (
	ErrMissingAPIKey   = errors.New("API key is required")
	ErrEntityNotFound  = errors.New("requested entity was not found")
	ErrOperationFailed = errors.New("video operation failed")
	ErrNoVideo         = errors.New("no video data received from engine")
	ErrNoAudio         = errors.New("audio generation failed")
	ErrPollTimeout     = errors.New("video operation did not finish in time")
)
