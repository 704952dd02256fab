package log

import (
	"strings"
	"time"
)

// Filter selects trace events. Zero fields match everything.
type Filter struct {
	SessionID string

	// Characteristic matches the characteristic name or its UUID, ignoring
	// case.
	Characteristic string

	// DeviceAddr matches the peripheral address, ignoring case.
	DeviceAddr string

	Origin   *Origin
	Layer    *Layer
	Category *Category

	// Kind matches the kind of error events. Other events never match a
	// non-empty Kind.
	Kind string

	// TimeStart is inclusive, TimeEnd exclusive.
	TimeStart *time.Time
	TimeEnd   *time.Time
}

// Matches reports whether event satisfies every set criterion.
func (f *Filter) Matches(event Event) bool {
	switch {
	case f.SessionID != "" && event.SessionID != f.SessionID:
		return false
	case f.Characteristic != "" && !matchCharacteristic(event, f.Characteristic):
		return false
	case f.DeviceAddr != "" && !strings.EqualFold(event.DeviceAddr, f.DeviceAddr):
		return false
	case f.Origin != nil && event.Origin != *f.Origin:
		return false
	case f.Layer != nil && event.Layer != *f.Layer:
		return false
	case f.Category != nil && event.Category != *f.Category:
		return false
	case f.Kind != "" && (event.Error == nil || event.Error.Kind != f.Kind):
		return false
	case f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart):
		return false
	case f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd):
		return false
	}
	return true
}

func matchCharacteristic(event Event, want string) bool {
	if strings.EqualFold(event.Characteristic, want) {
		return true
	}
	if event.UUID == "" {
		return false
	}
	want = strings.TrimPrefix(strings.ToLower(want), "0x")
	return strings.EqualFold(event.UUID, want)
}
