package progress

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestTracker(t *testing.T) {
	tracker := NewTracker()

	var receivedEvents []Event
	tracker.AddListener(func(event Event) {
		receivedEvents = append(receivedEvents, event)
	})

	tracker.Update(StageSubmitting, 5, "Initializing Production Engine...")
	tracker.Update(StageRendering, 50, "AI is rendering frames... This may take a moment.")

	if len(receivedEvents) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(receivedEvents))
	}
	if receivedEvents[1].Stage != StageRendering {
		t.Errorf("Expected rendering stage, got %s", receivedEvents[1].Stage)
	}

	tracker.SetError(context.Canceled)

	state := tracker.Current()
	if state.Stage != StageError {
		t.Errorf("Expected error stage, got %s", state.Stage)
	}
	if state.Error != context.Canceled.Error() {
		t.Errorf("Expected error %v, got %s", context.Canceled, state.Error)
	}
	if len(receivedEvents) != 3 {
		t.Errorf("Expected 3 events, got %d", len(receivedEvents))
	}
}

func TestCurrentWithoutError(t *testing.T) {
	tracker := NewTracker()
	state := tracker.Current()
	if state.Stage != StageInitializing {
		t.Errorf("Expected initializing stage, got %s", state.Stage)
	}
	if state.Error != "" {
		t.Errorf("Expected no error, got %s", state.Error)
	}
}

func TestEventJSON(t *testing.T) {
	event := Event{
		Stage:     StageRendering,
		Progress:  50.0,
		Message:   "Rendering...",
		Timestamp: time.Date(2026, 3, 1, 12, 30, 45, 123456789, time.UTC),
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Failed to marshal event: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}

	if fields["timestamp"] != "2026-03-01T12:30:45Z" {
		t.Errorf("Expected RFC3339 timestamp, got %v", fields["timestamp"])
	}
	if fields["stage"] != string(StageRendering) {
		t.Errorf("Expected stage %s, got %v", StageRendering, fields["stage"])
	}
	if fields["message"] != event.Message {
		t.Errorf("Expected message %s, got %v", event.Message, fields["message"])
	}
	if _, ok := fields["error"]; ok {
		t.Errorf("Expected error to be omitted, got %v", fields["error"])
	}
}

func TestListenerManagement(t *testing.T) {
	tracker := NewTracker()

	var receivedEvents []Event
	listener := func(event Event) {
		receivedEvents = append(receivedEvents, event)
	}
	tracker.AddListener(listener)

	tracker.Update(StageRendering, 50, "Test")
	if len(receivedEvents) != 1 {
		t.Errorf("Expected 1 event, got %d", len(receivedEvents))
	}

	tracker.RemoveListener(listener)

	tracker.Update(StageRendering, 75, "Test 2")
	if len(receivedEvents) != 1 {
		t.Errorf("Expected 1 event after removal, got %d", len(receivedEvents))
	}
}
