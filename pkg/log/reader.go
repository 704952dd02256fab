package log

import (
	"errors"
	"io"
	"iter"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Stdio is the path that selects standard input for readers and standard
// output for writers.
const Stdio = "-"

// Reader streams trace events. Only events matching its filter are
// returned.
type Reader struct {
	closer io.Closer
	dec    *cbor.Decoder
	filter Filter
}

// NewReader opens the trace file at path. Path "-" reads standard input.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens the trace file at path and applies filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	if path == Stdio {
		return NewStreamReader(os.Stdin, filter), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewStreamReader(f, filter)
	r.closer = f
	return r, nil
}

// NewStreamReader reads events from src. Close does not close src.
func NewStreamReader(src io.Reader, filter Filter) *Reader {
	return &Reader{
		dec:    NewDecoder(src),
		filter: filter,
	}
}

// Next returns the next matching event, or io.EOF at the end of the
// stream. A stream cut off inside an event reports io.ErrUnexpectedEOF.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		err := r.dec.Decode(&event)
		if errors.Is(err, io.EOF) {
			return Event{}, io.EOF
		}
		if err != nil {
			return Event{}, err
		}
		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Events iterates over the remaining matching events. Iteration stops
// after the first error, which is yielded with a zero Event.
func (r *Reader) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			event, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(event, err) || err != nil {
				return
			}
		}
	}
}

// Close closes the underlying file, if the Reader opened one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
