package progress

import (
	"encoding/json"
	"reflect"
	"sync"
	"time"
)

// Stage represents the current stage of a generation
type Stage string

const (
	StageInitializing Stage = "initializing"
	StageSubmitting   Stage = "submitting"
	StageRendering    Stage = "rendering"
	StageDownloading  Stage = "downloading"
	StageComplete     Stage = "complete"
	StageError        Stage = "error"
)

// Event represents a progress event
type Event struct {
	Stage     Stage     `json:"stage"`
	Progress  float64   `json:"progress"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

// Tracker fans status updates out to listeners
type Tracker struct {
	mu        sync.RWMutex
	stage     Stage
	progress  float64
	message   string
	err       error
	listeners []func(Event)
}

// NewTracker creates a new Tracker instance
func NewTracker() *Tracker {
	return &Tracker{
		stage:     StageInitializing,
		listeners: make([]func(Event), 0),
	}
}

// AddListener adds a new progress event listener
func (t *Tracker) AddListener(listener func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, listener)
}

// RemoveListener removes a progress event listener
func (t *Tracker) RemoveListener(listener func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	listenerPtr := reflect.ValueOf(listener).Pointer()
	for i := range t.listeners {
		if reflect.ValueOf(t.listeners[i]).Pointer() == listenerPtr {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			break
		}
	}
}

// Update records the new state and notifies all listeners
func (t *Tracker) Update(stage Stage, progress float64, message string) {
	t.mu.Lock()
	t.stage = stage
	t.progress = progress
	t.message = message
	t.mu.Unlock()

	t.notify(Event{
		Stage:     stage,
		Progress:  progress,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// SetError sets an error state and notifies all listeners
func (t *Tracker) SetError(err error) {
	t.mu.Lock()
	t.stage = StageError
	t.err = err
	t.message = err.Error()
	progress := t.progress
	t.mu.Unlock()

	t.notify(Event{
		Stage:     StageError,
		Progress:  progress,
		Message:   err.Error(),
		Timestamp: time.Now(),
		Error:     err.Error(),
	})
}

func (t *Tracker) notify(event Event) {
	t.mu.RLock()
	listeners := make([]func(Event), len(t.listeners))
	copy(listeners, t.listeners)
	t.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Current returns the current progress state
func (t *Tracker) Current() Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	event := Event{
		Stage:     t.stage,
		Progress:  t.progress,
		Message:   t.message,
		Timestamp: time.Now(),
	}
	if t.err != nil {
		event.Error = t.err.Error()
	}
	return event
}

// MarshalJSON implements json.Marshaler for Event
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	return json.Marshal(&struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Alias:     (*Alias)(&e),
	})
}
