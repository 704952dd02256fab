package decode

import (
	"strings"

	"github.com/gattdecode/gattdecode-go/pkg/gattuuid"
	"github.com/gattdecode/gattdecode-go/pkg/model"
	"github.com/gattdecode/gattdecode-go/pkg/specparse"
)

// Source resolves a characteristic identifier (name, type identifier or
// UUID) to its definition. Unknown identifiers fail with an error wrapping
// ErrNotFound.
type Source interface {
	Lookup(id string) (*model.Characteristic, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(id string) (*model.Characteristic, error)

// Lookup calls f(id).
func (f SourceFunc) Lookup(id string) (*model.Characteristic, error) {
	return f(id)
}

// Key returns the cache key of a characteristic identifier. All identifier
// forms of one characteristic share a key ("heart_rate_measurement").
func Key(id string) string {
	return strings.TrimSuffix(specparse.FileName(Name(id)), specparse.Ext)
}

// Name returns the characteristic name for an identifier: the assigned name
// of a known UUID, name or type identifier, or the name spelled by an
// unknown type identifier.
func Name(id string) string {
	return gattuuid.Resolve(specparse.ReferenceName(id))
}
