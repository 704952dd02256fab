package log

import (
	"time"
)

// MaxDataSize is the largest raw value stored in a RawEvent. Longer values
// are truncated.
const MaxDataSize = 512

// Event represents a decode trace event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the decoder session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Origin indicates how the raw value was obtained.
	Origin Origin `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Characteristic is the characteristic name.
	Characteristic string `cbor:"6,keyasint,omitempty"`

	// UUID is the characteristic UUID, if known.
	UUID string `cbor:"7,keyasint,omitempty"`

	// DeviceAddr is the peripheral address for live values.
	DeviceAddr string `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Raw    *RawEvent       `cbor:"10,keyasint,omitempty"` // Raw layer
	Decode *ValueEvent     `cbor:"11,keyasint,omitempty"` // Decode layer
	Load   *LoadEvent      `cbor:"12,keyasint,omitempty"` // Metadata layer
	Error  *ErrorEventData `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Origin indicates how a raw value reached the decoder.
type Origin uint8

const (
	// OriginManual indicates a value supplied by the user.
	OriginManual Origin = 0
	// OriginRead indicates a value read from a peripheral.
	OriginRead Origin = 1
	// OriginNotify indicates a value received in a notification.
	OriginNotify Origin = 2
)

// String returns the origin name.
func (o Origin) String() string {
	switch o {
	case OriginManual:
		return "MANUAL"
	case OriginRead:
		return "READ"
	case OriginNotify:
		return "NOTIFY"
	default:
		return "UNKNOWN"
	}
}

// ParseOrigin parses an origin name as returned by String.
func ParseOrigin(s string) (Origin, bool) {
	for _, o := range []Origin{OriginManual, OriginRead, OriginNotify} {
		if o.String() == s {
			return o, true
		}
	}
	return 0, false
}

// Layer indicates where the event was captured.
type Layer uint8

const (
	// LayerRaw is the raw value as received.
	LayerRaw Layer = 0
	// LayerDecode is the decoded value.
	LayerDecode Layer = 1
	// LayerMetadata is characteristic definition loading.
	LayerMetadata Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerRaw:
		return "RAW"
	case LayerDecode:
		return "DECODE"
	case LayerMetadata:
		return "METADATA"
	default:
		return "UNKNOWN"
	}
}

// ParseLayer parses a layer name as returned by String.
func ParseLayer(s string) (Layer, bool) {
	for _, l := range []Layer{LayerRaw, LayerDecode, LayerMetadata} {
		if l.String() == s {
			return l, true
		}
	}
	return 0, false
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryDecode indicates a decode call (raw input or result).
	CategoryDecode Category = 0
	// CategoryLoad indicates a characteristic definition load.
	CategoryLoad Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryDecode:
		return "DECODE"
	case CategoryLoad:
		return "LOAD"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name as returned by String.
func ParseCategory(s string) (Category, bool) {
	for _, c := range []Category{CategoryDecode, CategoryLoad, CategoryError} {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// RawEvent captures the raw characteristic value.
type RawEvent struct {
	// Size is the value size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw value (may be truncated for large values).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// NewRawEvent captures data, truncating it to MaxDataSize.
func NewRawEvent(data []byte) *RawEvent {
	ev := &RawEvent{Size: len(data)}
	if len(data) > MaxDataSize {
		data = data[:MaxDataSize]
		ev.Truncated = true
	}
	ev.Data = append([]byte(nil), data...)
	return ev
}

// ValueEvent captures a decoded value.
type ValueEvent struct {
	// Fields in inclusion order.
	Fields []FieldValue `cbor:"1,keyasint"`

	// Flags holds the decoded Flags bits, if the characteristic has them.
	Flags []FlagValue `cbor:"2,keyasint,omitempty"`

	// Digest identifies the definition used.
	Digest string `cbor:"3,keyasint,omitempty"`

	// Duration of the decode call. Stored as nanoseconds.
	Duration time.Duration `cbor:"4,keyasint,omitempty"`
}

// FieldValue is one decoded field.
type FieldValue struct {
	Name   string `cbor:"1,keyasint"`
	Value  any    `cbor:"2,keyasint"`
	Symbol string `cbor:"3,keyasint,omitempty"`
}

// FlagValue is one decoded Flags bit range.
type FlagValue struct {
	Name  string `cbor:"1,keyasint"`
	Key   uint64 `cbor:"2,keyasint"`
	Label string `cbor:"3,keyasint,omitempty"`
}

// LoadEvent captures a characteristic definition load.
type LoadEvent struct {
	// ID is the identifier the definition was requested by.
	ID string `cbor:"1,keyasint"`

	// Fields is the number of declared fields.
	Fields int `cbor:"2,keyasint"`

	// Digest identifies the definition.
	Digest string `cbor:"3,keyasint,omitempty"`

	// Duration of the load. Stored as nanoseconds.
	Duration time.Duration `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Kind classifies the error ("length_mismatch", "not_found", ...).
	Kind string `cbor:"2,keyasint,omitempty"`

	// Message is the error message.
	Message string `cbor:"3,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
