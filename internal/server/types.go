package server

import (
	"github.com/jaki95/video-factory/internal/domain"
)

// SessionUpdate is a partial update of the draft. Nil fields are left alone.
type SessionUpdate struct {
	Prompt      *string `json:"prompt"`
	AspectRatio *string `json:"aspectRatio"`
	Resolution  *string `json:"resolution"`
	Image       *string `json:"image"`
	Language    *string `json:"language"`
}

// NewSessionRequest optionally seeds the new session with a selection.
type NewSessionRequest struct {
	Selection *domain.SelectionPayload `json:"selection"`
}

// AddLayerRequest adds a catalog track by id or any music selection.
type AddLayerRequest struct {
	TrackID   string                   `json:"trackId"`
	Selection *domain.SelectionPayload `json:"selection"`
}

// ResolveRequest is a pasted music link.
type ResolveRequest struct {
	URL string `json:"url" binding:"required"`
}

// MessageResponse represents a generic message payload used for success responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents a generic error payload used for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
