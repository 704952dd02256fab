// Package definitions provides characteristic definitions loaded from YAML
// documents: a bundled set of standard characteristics and a Source over
// any fs.FS laid out the same way.
//
// Documents are named after the characteristic ("heart_rate_measurement.yaml")
// and resolved from names, type identifiers and UUIDs alike.
package definitions

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/gattdecode/gattdecode-go/pkg/decode"
	"github.com/gattdecode/gattdecode-go/pkg/model"
	"github.com/gattdecode/gattdecode-go/pkg/specparse"
)

//go:embed yaml/*.yaml
var builtinFS embed.FS

// BuiltinDir is the directory of the bundled documents within their FS.
const BuiltinDir = "yaml"

// FSSource builds characteristics from the documents in one directory of a
// file system. It does no caching; wrap it in a decode.Registry.
type FSSource struct {
	fsys fs.FS
	dir  string
}

// NewFSSource creates a Source over the documents in dir of fsys.
func NewFSSource(fsys fs.FS, dir string) *FSSource {
	if dir == "" {
		dir = "."
	}
	return &FSSource{fsys: fsys, dir: dir}
}

// Builtin returns a Source over the bundled documents.
func Builtin() *FSSource {
	return NewFSSource(builtinFS, BuiltinDir)
}

// NewDirSource creates a Source over the documents in a directory on disk.
func NewDirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir), ".")
}

// Lookup parses and builds the definition of id.
func (s *FSSource) Lookup(id string) (*model.Characteristic, error) {
	raw, err := s.Document(id)
	if err != nil {
		return nil, err
	}
	return model.Build(raw)
}

// Document returns the parsed document of id.
func (s *FSSource) Document(id string) (*specparse.RawCharacteristicDef, error) {
	name := decode.Name(id)
	if name == "" {
		return nil, fmt.Errorf("%w: empty identifier", decode.ErrNotFound)
	}
	file := path.Join(s.dir, specparse.FileName(name))

	data, err := fs.ReadFile(s.fsys, file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", decode.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	raw, err := specparse.ParseCharacteristicDef(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", decode.ErrMalformedSpec, file, err)
	}
	return raw, nil
}

// Names returns the names of all characteristics with a document, sorted.
// Documents that fail to parse are skipped.
func (s *FSSource) Names() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading definitions directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), specparse.Ext) {
			continue
		}
		data, err := fs.ReadFile(s.fsys, path.Join(s.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		raw, err := specparse.ParseCharacteristicDef(data)
		if err != nil {
			continue
		}
		names = append(names, raw.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Compile-time interface satisfaction check.
var _ decode.Source = (*FSSource)(nil)
