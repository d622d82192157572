package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jaki95/video-factory/internal/job"
	"github.com/jaki95/video-factory/internal/progress"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// JobMessage is one frame of a job stream: either a progress event or the
// job's current status.
type JobMessage struct {
	Type   string          `json:"type"`
	Event  *progress.Event `json:"event,omitempty"`
	Status *job.Status     `json:"status,omitempty"`
}

func (s *Server) getJobStatus(c *gin.Context) {
	status, err := s.studio.Jobs().GetJob(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) listJobs(c *gin.Context) {
	page := 1
	pageSize := job.DefaultPageSize

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	if ps := c.Query("pageSize"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= job.MaxPageSize {
			pageSize = parsed
		}
	}

	c.JSON(http.StatusOK, s.studio.Jobs().ListJobs(page, pageSize))
}

// streamJob upgrades to a websocket and pushes the job's status, then every
// progress event, then the final status once the job is done.
func (s *Server) streamJob(c *gin.Context) {
	jobs := s.studio.Jobs()
	jobID := c.Param("id")

	events, cancel, err := jobs.Subscribe(jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer cancel()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "jobId", jobID, "error", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if !s.writeStatus(conn, jobID) {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				s.writeStatus(conn, jobID)
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "job finished"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(JobMessage{Type: "event", Event: &event}); err != nil {
				slog.Debug("WebSocket write failed", "jobId", jobID, "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func (s *Server) writeStatus(conn *websocket.Conn, jobID string) bool {
	status, err := s.studio.Jobs().GetJob(jobID)
	if err != nil {
		return false
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(JobMessage{Type: "status", Status: status}); err != nil {
		slog.Debug("WebSocket write failed", "jobId", jobID, "error", err)
		return false
	}
	return true
}
