package wire

import (
	"fmt"
	"strings"
)

// Format is an ordered sequence of primitive types describing a packed
// composite value.
type Format []Type

// ParseFormat parses a comma- or space-separated list of format names.
func ParseFormat(s string) (Format, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	f := make(Format, 0, len(fields))
	for _, name := range fields {
		t, err := ParseType(name)
		if err != nil {
			return nil, err
		}
		if t == TypeNone {
			return nil, fmt.Errorf("%w: %q has no encoding", ErrUnknownType, name)
		}
		f = append(f, t)
	}
	return f, nil
}

// String returns the comma-separated format names.
func (f Format) String() string {
	names := make([]string, len(f))
	for i, t := range f {
		names[i] = t.String()
	}
	return strings.Join(names, ",")
}

// Size returns the total width of the fixed-width tokens and whether the
// format ends with a variable-length token.
func (f Format) Size() (fixed int, variable bool) {
	for _, t := range f {
		if t.IsVariable() {
			variable = true
			continue
		}
		fixed += t.Size()
	}
	return fixed, variable
}

// validate checks that every token is encodable and that variable-length
// tokens only appear last.
func (f Format) validate() error {
	for i, t := range f {
		if !t.Valid() {
			return fmt.Errorf("%w: token %d (%s)", ErrUnknownType, i, t)
		}
		if t.IsVariable() && i != len(f)-1 {
			return fmt.Errorf("%w: %s at position %d of %d", ErrVariablePosition, t, i, len(f))
		}
	}
	return nil
}
