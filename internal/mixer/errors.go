package mixer

import "errors"

var (
	ErrLayerNotFound     = errors.New("layer not found")
	ErrInvalidLayer      = errors.New("invalid layer")
	ErrUnknownValidation = errors.New("unknown validation policy")
)
