// Package inspect formats decoded characteristic values for display and
// parses the textual input of the command line tools.
package inspect

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gattdecode/gattdecode-go/pkg/bits"
	"github.com/gattdecode/gattdecode-go/pkg/decode"
	"github.com/gattdecode/gattdecode-go/pkg/ieee11073"
	"github.com/gattdecode/gattdecode-go/pkg/model"
	"github.com/gattdecode/gattdecode-go/pkg/wire"
)

// Formatter formats decode results.
type Formatter struct {
	// OneLine joins all readings on a single line.
	OneLine bool

	// OnlyValues omits the field names.
	OnlyValues bool

	// Symbols appends unit symbols to values.
	Symbols bool

	// Separator joins readings on one line. Defaults to ", ".
	Separator string

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		Symbols:     true,
		Separator:   ", ",
		IndentWidth: 2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

func (f *Formatter) separator() string {
	if f.Separator == "" {
		return ", "
	}
	return f.Separator
}

// FormatResult formats every reading of res under the characteristic name.
//
//	Heart Rate Measurement:
//	  Heart Rate Measurement Value (uint8): 72 bpm
//
// With OneLine set: "Heart Rate Measurement: Heart Rate Measurement Value (uint8): 72 bpm".
func (f *Formatter) FormatResult(res *decode.Result) string {
	parts := make([]string, 0, len(res.Fields))
	for _, r := range res.Fields {
		parts = append(parts, f.FormatReading(r))
	}

	if f.OneLine {
		line := strings.Join(parts, f.separator())
		if res.Characteristic == "" {
			return line
		}
		return res.Characteristic + ": " + line
	}

	var sb strings.Builder
	depth := 0
	if res.Characteristic != "" {
		sb.WriteString(res.Characteristic + ":\n")
		depth = 1
	}
	for _, p := range parts {
		sb.WriteString(f.Indent(depth, p))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatReading formats a single reading as "name: value symbol". Values
// outside the documented limits get an "(out of range)" suffix.
func (f *Formatter) FormatReading(r decode.Reading) string {
	symbol := ""
	if f.Symbols {
		symbol = r.Symbol
	}
	value := f.FormatValue(r.Value, symbol)
	if r.OutOfRange {
		value += " (out of range)"
	}
	if f.OnlyValues {
		return value
	}
	return r.Name + ": " + value
}

// FormatFlags formats decoded Flags ranges one per line.
func (f *Formatter) FormatFlags(flags []bits.Value) string {
	lines := make([]string, 0, len(flags))
	for _, v := range flags {
		lines = append(lines, fmt.Sprintf("%s: %v", v.Name, v.Display()))
	}
	if f.OneLine {
		return strings.Join(lines, f.separator())
	}
	return strings.Join(lines, "\n")
}

// FormatValue formats a decoded value for display with an optional unit
// symbol.
func (f *Formatter) FormatValue(value any, symbol string) string {
	s := formatBare(value)
	if symbol == "" {
		return s
	}
	if _, special := value.(ieee11073.Special); special {
		return s
	}
	return s + " " + symbol
}

func formatBare(value any) string {
	if value == nil {
		return "null"
	}

	switch v := value.(type) {
	case bool:
		if v {
			return "true"
		}
		return "false"

	case string:
		return v

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case ieee11073.Special:
		return v.String()

	case wire.UUID16:
		return v.String()

	case []byte:
		return fmt.Sprintf("0x%x", v)

	case []bits.Value:
		parts := make([]string, 0, len(v))
		for _, b := range v {
			parts = append(parts, fmt.Sprintf("%s: %v", b.Name, b.Display()))
		}
		return "{" + strings.Join(parts, "; ") + "}"

	default:
		return fmt.Sprintf("%v", v)
	}
}

// Strings returns field name to formatted value, with symbols if enabled.
// For repeated names the first reading wins.
func (f *Formatter) Strings(res *decode.Result) map[string]string {
	m := make(map[string]string, len(res.Fields))
	for _, r := range res.Fields {
		if _, ok := m[r.Name]; ok {
			continue
		}
		symbol := ""
		if f.Symbols {
			symbol = r.Symbol
		}
		m[r.Name] = f.FormatValue(r.Value, symbol)
	}
	return m
}

// FormatTemplate fills a fmt template with the formatted values of res in
// field order: "%s/%s mmHg".
func (f *Formatter) FormatTemplate(template string, res *decode.Result) string {
	args := make([]any, 0, len(res.Fields))
	for _, r := range res.Fields {
		symbol := ""
		if f.Symbols {
			symbol = r.Symbol
		}
		args = append(args, f.FormatValue(r.Value, symbol))
	}
	return fmt.Sprintf(template, args...)
}

// MapBits pairs keys with the ranges of the first bit field of res, in
// order. Extra keys or ranges are ignored.
func MapBits(res *decode.Result, keys []string) map[string]any {
	m := make(map[string]any, len(keys))
	for _, r := range res.Fields {
		if len(r.Bits) == 0 {
			continue
		}
		for i, k := range keys {
			if i >= len(r.Bits) {
				break
			}
			m[k] = r.Bits[i].Display()
		}
		return m
	}
	return m
}

// FieldRow describes one field of a characteristic definition for display.
type FieldRow struct {
	Name         string
	Format       string
	Requirements []string
	Unit         string
	Reference    string
}

// FieldRows describes the fields of c for FormatFieldTable.
func FieldRows(c *model.Characteristic) []FieldRow {
	rows := make([]FieldRow, 0, len(c.Fields))
	for _, f := range c.Fields {
		row := FieldRow{Name: f.Name, Requirements: f.Requirements}
		if ref, ok := f.Reference(); ok {
			row.Reference = ref
		} else {
			row.Format = f.Type().String()
		}
		if f.Unit != nil {
			row.Unit = f.Unit.Symbol
			if row.Unit == "" {
				row.Unit = f.Unit.Quantity
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatFieldTable formats a characteristic layout as a table.
func (f *Formatter) FormatFieldTable(rows []FieldRow) string {
	if len(rows) == 0 {
		return "  (no fields)"
	}

	var sb strings.Builder
	for _, row := range rows {
		format := row.Format
		if row.Reference != "" {
			format = "-> " + row.Reference
		}
		sb.WriteString(f.Indent(1, fmt.Sprintf("%s: %s", row.Name, format)))
		if len(row.Requirements) > 0 {
			reqs := append([]string(nil), row.Requirements...)
			sort.Strings(reqs)
			sb.WriteString(fmt.Sprintf(" [%s]", strings.Join(reqs, ",")))
		}
		if row.Unit != "" {
			sb.WriteString(" (" + row.Unit + ")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
