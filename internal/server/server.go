package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jaki95/video-factory/internal/domain"
	"github.com/jaki95/video-factory/internal/studio"
)

// Resolver turns a pasted music link into a track.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (domain.MusicTrack, error)
}

// Server exposes the studio over HTTP for a local UI.
type Server struct {
	router   *gin.Engine
	studio   *studio.Studio
	resolver Resolver
	upgrader websocket.Upgrader
}

// New creates a new HTTP server instance
func New(st *studio.Studio, resolver Resolver) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	server := &Server{
		router:   router,
		studio:   st,
		resolver: resolver,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.router.GET("/health", s.health)

	api := s.router.Group("/api/v1")
	{
		library := api.Group("/library")
		library.GET("/music", s.listMusic)
		library.GET("/images", s.listImages)
		library.GET("/templates", s.listTemplates)
		library.GET("/voices", s.listVoices)
		library.GET("/languages", s.listLanguages)
		library.POST("/resolve", s.resolveMusic)

		api.POST("/voices/:id/preview", s.previewVoice)

		session := api.Group("/session")
		session.GET("", s.getSession)
		session.POST("", s.newSession)
		session.PATCH("", s.updateSession)
		session.POST("/selections", s.applySelection)
		session.POST("/layers", s.addLayer)
		session.PATCH("/layers/:id", s.updateLayer)
		session.DELETE("/layers/:id", s.removeLayer)
		session.POST("/automix", s.autoMix)
		session.POST("/generate", s.generate)

		api.GET("/jobs", s.listJobs)
		api.GET("/jobs/:id", s.getJobStatus)
		api.GET("/jobs/:id/ws", s.streamJob)

		api.GET("/dashboard", s.dashboard)
		api.GET("/history", s.listHistory)
		api.GET("/history/:id", s.getHistory)
	}
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on host:port until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, host, port string) error {
	srv := &http.Server{
		Addr:    net.JoinHostPort(host, port),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
