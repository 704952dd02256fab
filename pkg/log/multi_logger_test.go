package log

import (
	"sync"
	"testing"
	"time"
)

// recordingLogger records events for testing
type recordingLogger struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingLogger) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	rec1 := &recordingLogger{}
	rec2 := &recordingLogger{}
	rec3 := &recordingLogger{}

	multi := NewMultiLogger(rec1, rec2, rec3)

	multi.Log(Event{
		Timestamp: time.Now(),
		SessionID: "session-123",
		Layer:     LayerDecode,
		Category:  CategoryDecode,
	})

	for i, rec := range []*recordingLogger{rec1, rec2, rec3} {
		if len(rec.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(rec.events))
			continue
		}
		if rec.events[0].SessionID != "session-123" {
			t.Errorf("logger %d: SessionID = %q, want %q", i, rec.events[0].SessionID, "session-123")
		}
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	multi := NewMultiLogger()
	multi.Log(Event{Timestamp: time.Now()})
	if multi.Len() != 0 {
		t.Errorf("Len() = %d, want 0", multi.Len())
	}
}

func TestMultiLoggerSkipsNil(t *testing.T) {
	rec := &recordingLogger{}
	multi := NewMultiLogger(nil, rec, nil)

	if multi.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", multi.Len())
	}
	multi.Log(Event{SessionID: "s"})
	if len(rec.events) != 1 {
		t.Errorf("got %d events, want 1", len(rec.events))
	}
}
