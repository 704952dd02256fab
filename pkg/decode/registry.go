package decode

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gattdecode/gattdecode-go/pkg/log"
	"github.com/gattdecode/gattdecode-go/pkg/model"
)

// Registry is a caching Source. Each definition is built at most once per
// key, also under concurrent lookups, and then shared read-only.
// It is safe for concurrent use.
type Registry struct {
	src   Source
	cache sync.Map // key -> *model.Characteristic
	group singleflight.Group
	loads atomic.Int64

	mu        sync.RWMutex
	logger    log.Logger
	sessionID string
}

// NewRegistry creates a Registry that builds missing definitions with src.
// A nil src makes a registry that only serves what was added.
func NewRegistry(src Source) *Registry {
	return &Registry{src: src}
}

// SetLogger sets the trace logger that receives definition load events.
func (r *Registry) SetLogger(logger log.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Lookup returns the cached definition for id, building it on first use.
func (r *Registry) Lookup(id string) (*model.Characteristic, error) {
	key := Key(id)
	if key == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrNotFound)
	}
	if c, ok := r.cache.Load(key); ok {
		return c.(*model.Characteristic), nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		if c, ok := r.cache.Load(key); ok {
			return c, nil
		}
		return r.load(id, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Characteristic), nil
}

func (r *Registry) load(id, key string) (*model.Characteristic, error) {
	if r.src == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	start := time.Now()
	c, err := r.src.Lookup(id)
	r.loads.Add(1)
	if err == nil && c == nil {
		err = fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		r.emit(log.Event{
			Timestamp:      time.Now(),
			Layer:          log.LayerMetadata,
			Category:       log.CategoryError,
			Characteristic: id,
			Error: &log.ErrorEventData{
				Layer:   log.LayerMetadata,
				Kind:    ErrorKind(err),
				Message: err.Error(),
				Context: "load",
			},
		})
		return nil, err
	}

	r.cache.Store(key, c)
	r.emit(log.Event{
		Timestamp:      time.Now(),
		Layer:          log.LayerMetadata,
		Category:       log.CategoryLoad,
		Characteristic: c.Name,
		UUID:           c.UUID,
		Load: &log.LoadEvent{
			ID:       id,
			Fields:   c.Len(),
			Digest:   c.Digest(),
			Duration: time.Since(start),
		},
	})
	return c, nil
}

// Add stores c under its name and UUID, replacing earlier entries.
func (r *Registry) Add(c *model.Characteristic) {
	r.cache.Store(Key(c.Name), c)
	if c.UUID != "" {
		if k := Key(c.UUID); k != Key(c.Name) {
			r.cache.Store(k, c)
		}
	}
}

// Evict drops the cached definition for id. It reports whether there was one.
func (r *Registry) Evict(id string) bool {
	_, ok := r.cache.LoadAndDelete(Key(id))
	return ok
}

// Len returns the number of cached keys.
func (r *Registry) Len() int {
	n := 0
	r.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Loads returns how many times the underlying Source was consulted.
func (r *Registry) Loads() int {
	return int(r.loads.Load())
}

func (r *Registry) emit(event log.Event) {
	r.mu.RLock()
	logger, session := r.logger, r.sessionID
	r.mu.RUnlock()
	if logger != nil {
		event.SessionID = session
		logger.Log(event)
	}
}

// SetSessionID sets the session ID stamped on load events. Pass the
// SessionID of the Decoder reading through the registry so a trace
// filtered by session keeps its definition loads.
func (r *Registry) SetSessionID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionID = id
}

// Compile-time interface satisfaction check.
var _ Source = (*Registry)(nil)
