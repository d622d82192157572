package job

import (
	"time"

	"github.com/jaki95/video-factory/internal/domain"
	"github.com/jaki95/video-factory/internal/progress"
)

// Status represents the current state of a generation job
type Status struct {
	ID        string                 `json:"id"`
	Status    string                 `json:"status"`
	Progress  float64                `json:"progress"`
	Message   string                 `json:"message"`
	Error     string                 `json:"error,omitempty"`
	Prompt    string                 `json:"prompt"`
	Video     *domain.GeneratedVideo `json:"video,omitempty"`
	Events    []progress.Event       `json:"events"`
	StartTime time.Time              `json:"startTime"`
	EndTime   *time.Time             `json:"endTime,omitempty"`
}

// Done reports whether the job reached a terminal state.
func (s *Status) Done() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

// Response represents the response for job status
type Response struct {
	Jobs       []*Status `json:"jobs"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalJobs  int       `json:"totalJobs"`
	TotalPages int       `json:"totalPages"`
}

// Constants for job status
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ProgressComplete is the progress of a finished job.
const ProgressComplete = 100

// Constants for pagination
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
