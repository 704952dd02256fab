package log

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createTestTraceFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+Ext)

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

func readAll(t *testing.T, path string, filter Filter) []Event {
	t.Helper()
	r, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer r.Close()

	var out []Event
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, ev)
	}
}

func sampleEvents(base time.Time) []Event {
	return []Event{
		{
			Timestamp:      base,
			SessionID:      "s1",
			Origin:         OriginManual,
			Layer:          LayerMetadata,
			Category:       CategoryLoad,
			Characteristic: "Heart Rate Measurement",
			Load:           &LoadEvent{ID: "2A37", Fields: 6},
		},
		{
			Timestamp:      base.Add(time.Second),
			SessionID:      "s1",
			Origin:         OriginNotify,
			Layer:          LayerRaw,
			Category:       CategoryDecode,
			Characteristic: "Heart Rate Measurement",
			DeviceAddr:     "AA:BB:CC:DD:EE:FF",
			Raw:            NewRawEvent([]byte{0x00, 0x48}),
		},
		{
			Timestamp:      base.Add(2 * time.Second),
			SessionID:      "s1",
			Origin:         OriginNotify,
			Layer:          LayerDecode,
			Category:       CategoryDecode,
			Characteristic: "Heart Rate Measurement",
			DeviceAddr:     "AA:BB:CC:DD:EE:FF",
			Decode:         &ValueEvent{Fields: []FieldValue{{Name: "Heart Rate Measurement Value", Value: uint64(72)}}},
		},
		{
			Timestamp:      base.Add(3 * time.Second),
			SessionID:      "s2",
			Origin:         OriginRead,
			Layer:          LayerDecode,
			Category:       CategoryError,
			Characteristic: "Battery Level",
			UUID:           "2A19",
			Error:          &ErrorEventData{Layer: LayerDecode, Kind: "length_mismatch", Message: "expected 1 bytes, got 2"},
		},
	}
}

func TestReaderIteratesEvents(t *testing.T) {
	base := time.Now()
	path := createTestTraceFile(t, sampleEvents(base))

	events := readAll(t, path, Filter{})
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if events[0].Load == nil || events[0].Load.ID != "2A37" {
		t.Errorf("first event Load = %+v", events[0].Load)
	}
	if events[3].Error == nil || events[3].Error.Kind != "length_mismatch" {
		t.Errorf("last event Error = %+v", events[3].Error)
	}
	if !events[1].Timestamp.Equal(base.Add(time.Second)) {
		t.Errorf("Timestamp = %v, want %v", events[1].Timestamp, base.Add(time.Second))
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty"+Ext)
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() err = %v, want io.EOF", err)
	}
}

func TestReaderHandlesTruncatedFile(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents(time.Now())[:1])

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-3], 0644); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	if _, err := r.Next(); err == nil {
		t.Error("expected error for truncated file")
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Now()
	path := createTestTraceFile(t, sampleEvents(base))

	notify := OriginNotify
	decodeLayer := LayerDecode
	errCategory := CategoryError
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"session", Filter{SessionID: "s2"}, 1},
		{"characteristic case-insensitive", Filter{Characteristic: "heart rate measurement"}, 3},
		{"origin", Filter{Origin: &notify}, 2},
		{"layer", Filter{Layer: &decodeLayer}, 2},
		{"category", Filter{Category: &errCategory}, 1},
		{"time range", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"device", Filter{DeviceAddr: "aa:bb:cc:dd:ee:ff"}, 2},
		{"combined", Filter{SessionID: "s1", Layer: &decodeLayer}, 1},
		{"uuid", Filter{Characteristic: "0x2a19"}, 1},
		{"error kind", Filter{Kind: "length_mismatch"}, 1},
		{"unknown error kind", Filter{Kind: "not_found"}, 0},
		{"no match", Filter{SessionID: "s3"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readAll(t, path, tt.filter)
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestNewReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing"+Ext)); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStreamRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStreamLogger(&buf)
	events := sampleEvents(time.Now())
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if logger.Count() != len(events) {
		t.Errorf("Count() = %d, want %d", logger.Count(), len(events))
	}

	errCategory := CategoryError
	r := NewStreamReader(&buf, Filter{Category: &errCategory})
	defer r.Close()

	var got []Event
	for ev, err := range r.Events() {
		if err != nil {
			t.Fatalf("Events failed: %v", err)
		}
		got = append(got, ev)
	}
	if len(got) != 1 || got[0].Characteristic != "Battery Level" {
		t.Errorf("got %+v, want the Battery Level error", got)
	}
}

func TestEventsStopsAtError(t *testing.T) {
	r := NewStreamReader(bytes.NewReader([]byte{0xFF, 0x00}), Filter{})

	n := 0
	var last error
	for _, err := range r.Events() {
		n++
		last = err
	}
	if n != 1 || last == nil {
		t.Errorf("yielded %d items, last error %v; want one error", n, last)
	}
	if errors.Is(last, io.EOF) {
		t.Errorf("error = %v, want a decode error", last)
	}
}
