package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	event := Event{
		Timestamp: time.Now(),
		SessionID: "test-session",
		Origin:    OriginManual,
		Layer:     LayerRaw,
		Category:  CategoryDecode,
	}

	// Test with nil payloads
	logger.Log(event)

	event.Raw = NewRawEvent([]byte{0x16, 0x4A})
	logger.Log(event)

	event.Raw = nil
	event.Decode = &ValueEvent{Fields: []FieldValue{{Name: "Heart Rate", Value: uint64(74)}}}
	logger.Log(event)

	event.Decode = nil
	event.Load = &LoadEvent{ID: "2A37", Fields: 6}
	logger.Log(event)

	event.Load = nil
	event.Error = &ErrorEventData{Message: "test error"}
	logger.Log(event)
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}
