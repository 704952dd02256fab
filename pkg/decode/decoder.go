package decode

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gattdecode/gattdecode-go/pkg/log"
	"github.com/gattdecode/gattdecode-go/pkg/model"
)

// DefaultMaxReferenceDepth bounds nested reference expansion.
const DefaultMaxReferenceDepth = 8

// Decoder decodes characteristic values. It holds no per-call state and is
// safe for concurrent use.
type Decoder struct {
	src       Source
	logger    log.Logger
	maxDepth  int
	sessionID string
	now       func() time.Time
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the trace logger. Every decode call emits one Raw event
// followed by one Decode or Error event.
func WithLogger(logger log.Logger) Option {
	return func(d *Decoder) { d.logger = logger }
}

// WithMaxReferenceDepth bounds how many references may nest.
func WithMaxReferenceDepth(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxDepth = n
		}
	}
}

// WithSessionID sets the session ID stamped on trace events. By default a
// random UUID is used.
func WithSessionID(id string) Option {
	return func(d *Decoder) { d.sessionID = id }
}

// WithClock replaces time.Now for trace timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(d *Decoder) { d.now = now }
}

// NewDecoder creates a Decoder that resolves characteristics and references
// through src.
func NewDecoder(src Source, opts ...Option) *Decoder {
	d := &Decoder{
		src:       src,
		maxDepth:  DefaultMaxReferenceDepth,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SessionID returns the session ID stamped on trace events.
func (d *Decoder) SessionID() string {
	return d.sessionID
}

// Meta describes where a value came from. It only affects tracing.
type Meta struct {
	Origin     log.Origin
	DeviceAddr string
}

// Decode looks up the characteristic id and decodes data against it.
func (d *Decoder) Decode(id string, data []byte) (*Result, error) {
	return d.DecodeWith(id, data, Meta{})
}

// DecodeWith is Decode with trace metadata.
func (d *Decoder) DecodeWith(id string, data []byte, meta Meta) (*Result, error) {
	if d.src == nil {
		err := fmt.Errorf("%w: %s: no source", ErrNotFound, id)
		d.trace(id, nil, data, meta, nil, err, 0)
		return nil, err
	}
	c, err := d.src.Lookup(id)
	if err == nil && c == nil {
		err = fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		d.trace(id, nil, data, meta, nil, err, 0)
		return nil, err
	}
	return d.DecodeCharacteristicWith(c, data, meta)
}

// DecodeCharacteristic decodes data against c. References are resolved
// through the decoder's Source.
func (d *Decoder) DecodeCharacteristic(c *model.Characteristic, data []byte) (*Result, error) {
	return d.DecodeCharacteristicWith(c, data, Meta{})
}

// DecodeCharacteristicWith is DecodeCharacteristic with trace metadata.
func (d *Decoder) DecodeCharacteristicWith(c *model.Characteristic, data []byte, meta Meta) (*Result, error) {
	start := d.now()
	res, err := d.decode(c, data, []string{Key(c.Name)})
	d.trace(c.Name, c, data, meta, res, err, d.now().Sub(start))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.Name, err)
	}
	return res, nil
}

func (d *Decoder) decode(c *model.Characteristic, data []byte, chain []string) (*Result, error) {
	if c.Len() == 0 {
		return nil, fmt.Errorf("%w: %s: no fields", ErrMalformedSpec, c.Name)
	}
	res := &Result{Characteristic: c.Name, UUID: c.UUID}
	var err error
	if c.Len() == 1 {
		err = d.decodeSingle(res, c.Fields[0], data, chain)
	} else {
		err = d.decodeMulti(res, c, data, chain)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
