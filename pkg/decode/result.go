package decode

import (
	"bytes"
	"encoding/json"

	"github.com/gattdecode/gattdecode-go/pkg/bits"
	"github.com/gattdecode/gattdecode-go/pkg/wire"
)

// Result is a decoded characteristic value.
type Result struct {
	// Characteristic is the characteristic name.
	Characteristic string

	// UUID is the characteristic UUID as written in its definition.
	UUID string

	// Fields holds the present fields in unpack order. Names are not
	// guaranteed unique; Get returns the first match.
	Fields []Reading

	// Flags holds the decoded Flags ranges, nil without a Flags field.
	Flags []bits.Value
}

// Reading is one decoded field.
type Reading struct {
	Name string

	// Value is the decoded value:
	//   - float64 for scaled numbers
	//   - uint64, int64 or float64 for unscaled numbers
	//   - ieee11073.Special for reserved FLOAT/SFLOAT patterns
	//   - bool, string, []byte or wire.UUID16
	//   - []bits.Value for bit fields
	//   - the enumeration label of a single-field characteristic
	Value any

	// Raw is the unpacked value before scaling and lookups.
	Raw any

	// Label is the enumeration label of Raw, "" on a miss.
	Label string

	// Bits holds every range of a bit field.
	Bits []bits.Value

	Quantity string
	Unit     string
	Symbol   string

	// Reference names the characteristic the field was spliced from.
	Reference string

	// OutOfRange is set when a numeric value lies outside the documented
	// minimum or maximum of the field.
	OutOfRange bool
}

// Get returns the first reading with the given name.
func (r *Result) Get(name string) (Reading, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Reading{}, false
}

// Names returns the field names in order.
func (r *Result) Names() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}

// Values returns field name to value. For repeated names the first wins.
func (r *Result) Values() map[string]any {
	m := make(map[string]any, len(r.Fields))
	for _, f := range r.Fields {
		if _, ok := m[f.Name]; !ok {
			m[f.Name] = f.Value
		}
	}
	return m
}

// ValuesJSON encodes Values as a JSON object that keeps field order.
func (r *Result) ValuesJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	seen := make(map[string]bool, len(r.Fields))
	for _, f := range r.Fields {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		if len(seen) > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(exportValue(f.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// exported is the serialised form of a Result.
type exported struct {
	Characteristic string          `json:"characteristic" cbor:"1,keyasint"`
	UUID           string          `json:"uuid,omitempty" cbor:"2,keyasint,omitempty"`
	Fields         []exportedField `json:"fields" cbor:"3,keyasint"`
	Flags          []bits.Value    `json:"flags,omitempty" cbor:"4,keyasint,omitempty"`
}

type exportedField struct {
	Name       string       `json:"name" cbor:"1,keyasint"`
	Value      any          `json:"value" cbor:"2,keyasint"`
	Label      string       `json:"label,omitempty" cbor:"3,keyasint,omitempty"`
	Bits       []bits.Value `json:"bits,omitempty" cbor:"4,keyasint,omitempty"`
	Quantity   string       `json:"quantity,omitempty" cbor:"5,keyasint,omitempty"`
	Unit       string       `json:"unit,omitempty" cbor:"6,keyasint,omitempty"`
	Symbol     string       `json:"symbol,omitempty" cbor:"7,keyasint,omitempty"`
	Reference  string       `json:"reference,omitempty" cbor:"8,keyasint,omitempty"`
	OutOfRange bool         `json:"out_of_range,omitempty" cbor:"9,keyasint,omitempty"`
}

func (r *Result) export() exported {
	e := exported{
		Characteristic: r.Characteristic,
		UUID:           r.UUID,
		Fields:         make([]exportedField, 0, len(r.Fields)),
		Flags:          r.Flags,
	}
	for _, f := range r.Fields {
		ef := exportedField{
			Name:       f.Name,
			Value:      exportValue(f.Value),
			Label:      f.Label,
			Quantity:   f.Quantity,
			Unit:       f.Unit,
			Symbol:     f.Symbol,
			Reference:  f.Reference,
			OutOfRange: f.OutOfRange,
		}
		// Bits already is the value of a multi-range bit field
		if _, ok := f.Value.([]bits.Value); !ok {
			ef.Bits = f.Bits
		}
		e.Fields = append(e.Fields, ef)
	}
	return e
}

// MarshalJSON encodes the result with its fields as an ordered array.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.export())
}

// MarshalCBOR encodes the result in canonical CBOR.
func (r *Result) MarshalCBOR() ([]byte, error) {
	return wire.Marshal(r.export())
}
