package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jaki95/video-factory/internal/history"
	"github.com/jaki95/video-factory/internal/library"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listMusic(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": library.MusicCategories(),
		"tracks":     library.FilterMusic(c.Query("category")),
	})
}

func (s *Server) listImages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": library.ImageCategories(),
		"images":     library.FilterImages(c.Query("category")),
	})
}

func (s *Server) listTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": library.Templates()})
}

func (s *Server) listVoices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"voices": library.Voices()})
}

func (s *Server) listLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": library.Languages()})
}

// resolveMusic turns a pasted link into a track that can be layered.
func (s *Server) resolveMusic(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	track, err := s.resolver.Resolve(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, track)
}

// previewVoice speaks the language greeting with the voice and returns WAV.
func (s *Server) previewVoice(c *gin.Context) {
	data, err := s.studio.PreviewVoice(c.Request.Context(), c.Param("id"), c.Query("language"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "audio/wav", data)
}

// listHistory returns the gallery, newest first. ?recent=N limits it to the
// N latest productions.
func (s *Server) listHistory(c *gin.Context) {
	store := s.studio.History()
	if r := c.Query("recent"); r != "" {
		n, err := strconv.Atoi(r)
		if err != nil || n < 0 {
			respondError(c, fmt.Errorf("%w: recent must be a non-negative integer", ErrInvalidRequest))
			return
		}
		c.JSON(http.StatusOK, gin.H{"videos": store.Recent(n), "total": store.Len()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": store.List(), "total": store.Len()})
}

func (s *Server) getHistory(c *gin.Context) {
	video, err := s.studio.History().Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// dashboard is the landing view: the latest creations and the templates.
func (s *Server) dashboard(c *gin.Context) {
	store := s.studio.History()
	c.JSON(http.StatusOK, gin.H{
		"recent":    store.Recent(history.DashboardSize),
		"total":     store.Len(),
		"templates": library.Templates(),
	})
}
