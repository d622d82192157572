package job

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaki95/video-factory/internal/domain"
	"github.com/jaki95/video-factory/internal/progress"
)

// Manager handles job management
type Manager struct {
	mu          sync.RWMutex
	jobs        map[string]*Status
	order       []string // creation order
	subscribers map[string][]chan progress.Event
}

// NewManager creates a new job manager
func NewManager() *Manager {
	return &Manager{
		jobs:        make(map[string]*Status),
		subscribers: make(map[string][]chan progress.Event),
	}
}

// CreateJob registers a pending job for prompt
func (m *Manager) CreateJob(prompt string) *Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &Status{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		Progress:  0,
		Message:   "Job created",
		Prompt:    prompt,
		Events:    []progress.Event{},
		StartTime: time.Now(),
	}

	m.jobs[job.ID] = job
	m.order = append(m.order, job.ID)
	return job.clone()
}

// GetJob returns a snapshot of the job
func (m *Manager) GetJob(jobID string) (*Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return job.clone(), nil
}

// Record applies a progress event to a running job and forwards it to subscribers.
func (m *Manager) Record(jobID string, event progress.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, err := m.runningLocked(jobID)
	if err != nil {
		return err
	}

	job.Status = StatusProcessing
	job.Progress = event.Progress
	job.Message = event.Message
	job.Events = append(job.Events, event)
	m.publishLocked(jobID, event)
	return nil
}

// Complete marks the job done with its gallery record.
func (m *Manager) Complete(jobID string, video domain.GeneratedVideo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, err := m.runningLocked(jobID)
	if err != nil {
		return err
	}

	now := time.Now()
	job.Status = StatusCompleted
	job.Progress = ProgressComplete
	job.Message = "Video ready"
	job.Video = &video
	job.EndTime = &now

	event := progress.Event{Stage: progress.StageComplete, Progress: ProgressComplete, Message: job.Message, Timestamp: now}
	job.Events = append(job.Events, event)
	m.publishLocked(jobID, event)
	m.closeLocked(jobID)
	return nil
}

// Fail marks the job failed.
func (m *Manager) Fail(jobID string, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, err := m.runningLocked(jobID)
	if err != nil {
		return err
	}

	now := time.Now()
	job.Status = StatusFailed
	job.Error = cause.Error()
	job.Message = "Production failed."
	job.EndTime = &now

	event := progress.Event{Stage: progress.StageError, Progress: job.Progress, Message: job.Message, Error: job.Error, Timestamp: now}
	job.Events = append(job.Events, event)
	m.publishLocked(jobID, event)
	m.closeLocked(jobID)
	return nil
}

// Subscribe streams the job's future events. The channel is closed when the
// job finishes or cancel is called. Subscribing to a finished job returns a
// closed channel.
func (m *Manager) Subscribe(jobID string) (<-chan progress.Event, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}

	ch := make(chan progress.Event, 32)
	if job.Done() {
		close(ch)
		return ch, func() {}, nil
	}

	m.subscribers[jobID] = append(m.subscribers[jobID], ch)
	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		subs := m.subscribers[jobID]
		for i, c := range subs {
			if c == ch {
				m.subscribers[jobID] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
	}
	return ch, cancel, nil
}

// ListJobs lists jobs newest first with pagination
func (m *Manager) ListJobs(page, pageSize int) *Response {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	m.mu.RLock()
	jobs := make([]*Status, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		jobs = append(jobs, m.jobs[m.order[i]].clone())
	}
	m.mu.RUnlock()

	totalPages := (len(jobs) + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	end := start + pageSize

	if start >= len(jobs) {
		return &Response{
			Jobs:       []*Status{},
			Page:       page,
			PageSize:   pageSize,
			TotalJobs:  len(jobs),
			TotalPages: totalPages,
		}
	}

	if end > len(jobs) {
		end = len(jobs)
	}

	return &Response{
		Jobs:       jobs[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalJobs:  len(jobs),
		TotalPages: totalPages,
	}
}

func (m *Manager) runningLocked(jobID string) (*Status, error) {
	job, exists := m.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	if job.Done() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, job.Status)
	}
	return job, nil
}

// publishLocked drops events for subscribers that are not keeping up.
func (m *Manager) publishLocked(jobID string, event progress.Event) {
	for _, ch := range m.subscribers[jobID] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (m *Manager) closeLocked(jobID string) {
	for _, ch := range m.subscribers[jobID] {
		close(ch)
	}
	delete(m.subscribers, jobID)
}

func (s *Status) clone() *Status {
	c := *s
	c.Events = append([]progress.Event(nil), s.Events...)
	if s.Video != nil {
		v := *s.Video
		c.Video = &v
	}
	return &c
}
