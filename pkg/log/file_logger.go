package log

import (
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Ext is the conventional extension of trace files.
const Ext = ".glog"

// FileLogger appends trace events as a CBOR stream. It is safe for
// concurrent use.
type FileLogger struct {
	mu     sync.Mutex
	enc    *cbor.Encoder
	closer io.Closer
	closed bool
	count  int
}

// NewFileLogger opens path for appending, creating it with mode 0644. Path
// "-" writes to standard output.
func NewFileLogger(path string) (*FileLogger, error) {
	if path == Stdio {
		return NewStreamLogger(os.Stdout), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	l := NewStreamLogger(f)
	l.closer = f
	return l, nil
}

// NewStreamLogger writes events to w. Close does not close w.
func NewStreamLogger(w io.Writer) *FileLogger {
	return &FileLogger{enc: NewEncoder(w)}
}

// Log writes event. Events that fail to encode are dropped so tracing
// never fails a decode. Log after Close is a no-op.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if l.enc.Encode(event) == nil {
		l.count++
	}
}

// Count returns the number of events written.
func (l *FileLogger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Close stops logging and closes the file. Repeated calls return nil.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

var _ Logger = (*FileLogger)(nil)
