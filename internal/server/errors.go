package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaki95/video-factory/internal/domain"
	"github.com/jaki95/video-factory/internal/history"
	"github.com/jaki95/video-factory/internal/job"
	"github.com/jaki95/video-factory/internal/library"
	"github.com/jaki95/video-factory/internal/mixer"
	"github.com/jaki95/video-factory/internal/studio"
)

var ErrInvalidRequest = errors.New("invalid request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, studio.ErrEmptyPrompt),
		errors.Is(err, studio.ErrInvalidFormat),
		errors.Is(err, domain.ErrUnknownSelection),
		errors.Is(err, mixer.ErrInvalidLayer),
		errors.Is(err, library.ErrInvalidLink),
		errors.Is(err, library.ErrNoAudio):
		return http.StatusBadRequest
	case errors.Is(err, job.ErrNotFound),
		errors.Is(err, history.ErrNotFound),
		errors.Is(err, library.ErrNotFound),
		errors.Is(err, mixer.ErrLayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, studio.ErrGenerationInFlight):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": ...} with the status its sentinel maps to.
func respondError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	msg := err.Error()
	if errors.Is(err, studio.ErrEmptyPrompt) {
		msg = studio.EmptyPromptMessage
	}
	c.JSON(code, ErrorResponse{Error: msg})
}
