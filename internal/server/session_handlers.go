package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaki95/video-factory/internal/domain"
	"github.com/jaki95/video-factory/internal/library"
)

func (s *Server) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.studio.Session().Snapshot())
}

// newSession discards the current draft, optionally seeding the next one
// with a library selection.
func (s *Server) newSession(c *gin.Context) {
	var req NewSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
			return
		}
	}

	var sel domain.Selection
	if req.Selection != nil {
		var err error
		if sel, err = decodeSelection(*req.Selection); err != nil {
			respondError(c, err)
			return
		}
	}

	session, err := s.studio.NewSession(sel)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session.Snapshot())
}

func (s *Server) updateSession(c *gin.Context) {
	var req SessionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	session := s.studio.Session()
	if req.AspectRatio != nil {
		if err := session.SetAspectRatio(*req.AspectRatio); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.Resolution != nil {
		if err := session.SetResolution(*req.Resolution); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.Language != nil {
		if err := session.SetLanguage(*req.Language); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.Image != nil {
		session.SetImage(*req.Image)
	}
	if req.Prompt != nil {
		session.SetPrompt(*req.Prompt)
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

func (s *Server) applySelection(c *gin.Context) {
	var req domain.SelectionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	sel, err := decodeSelection(req)
	if err != nil {
		respondError(c, err)
		return
	}

	session := s.studio.Session()
	if err := session.ApplySelection(sel); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// addLayer adds a catalog track by id, or the track carried by a music
// selection.
func (s *Server) addLayer(c *gin.Context) {
	var req AddLayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	var src domain.LayerSource
	switch {
	case req.TrackID != "":
		track, err := library.FindMusic(req.TrackID)
		if err != nil {
			respondError(c, err)
			return
		}
		src = track.LayerSource()
	case req.Selection != nil:
		sel, err := decodeSelection(*req.Selection)
		if err != nil {
			respondError(c, err)
			return
		}
		music, ok := sel.(domain.MusicSelected)
		if !ok {
			respondError(c, fmt.Errorf("%w: layers need a music selection", ErrInvalidRequest))
			return
		}
		src = music.Source
	default:
		respondError(c, fmt.Errorf("%w: trackId or selection is required", ErrInvalidRequest))
		return
	}

	layer := s.studio.Session().Mixer().Add(src)
	c.JSON(http.StatusCreated, layer)
}

func (s *Server) updateLayer(c *gin.Context) {
	var patch domain.LayerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	layer, err := s.studio.Session().Mixer().Update(c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, layer)
}

func (s *Server) removeLayer(c *gin.Context) {
	if err := s.studio.Session().Mixer().Remove(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Layer removed"})
}

// autoMix starts the auto-mix. It outlives the request; progress shows up in
// the session status.
func (s *Server) autoMix(c *gin.Context) {
	done := s.studio.Session().AutoMix(context.Background())
	go func() {
		if err := <-done; err != nil {
			slog.Warn("Auto-mix stopped", "error", err)
		}
	}()
	c.JSON(http.StatusAccepted, MessageResponse{Message: "Auto-mix started"})
}

// generate submits the current draft. The run continues in the background
// and is followed through /jobs/:id.
func (s *Server) generate(c *gin.Context) {
	status, err := s.studio.StartGeneration()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"jobId":   status.ID,
		"status":  status.Status,
		"message": "Generation started",
	})
}

// decodeSelection decodes a wire selection; every decoding failure is a bad
// request.
func decodeSelection(p domain.SelectionPayload) (domain.Selection, error) {
	sel, err := p.Selection()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return sel, nil
}
