package inspect

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Input errors.
var (
	ErrEmptyInput    = errors.New("empty input")
	ErrInvalidHex    = errors.New("invalid hex value")
	ErrInvalidAssign = errors.New("invalid assignment")
	ErrInvalidNumber = errors.New("invalid numeric value")
)

// ParseHex parses a raw characteristic value written as hex digits.
//
// Supported formats:
//   - "0x164a" or "164a"
//   - "16 4a", "16:4a" and "16-4a" (any mix of separators)
func ParseHex(input string) ([]byte, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}
	if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
		input = input[2:]
	}
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ':', '-', '\t':
			return -1
		}
		return r
	}, input)

	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of digits in %q", ErrInvalidHex, input)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHex, input)
	}
	return b, nil
}

// FormatHex formats data as "0x" followed by lowercase hex digits.
func FormatHex(data []byte) string {
	return "0x" + hex.EncodeToString(data)
}

// ParseAssignments parses "name=value" arguments into field values.
// Names may contain spaces when quoted by the caller. Values are parsed
// with ParseValue.
func ParseAssignments(args []string) (map[string]any, error) {
	values := make(map[string]any, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAssign, arg)
		}
		values[name] = ParseValue(raw)
	}
	return values, nil
}

// ParseValue interprets a textual field value. Decimal and 0x-prefixed hex
// integers become uint64 (int64 when negative), other finite numbers
// float64 and "true"/"false" bool. Anything else, such as an enumeration or
// special value label, stays a string.
func ParseValue(s string) any {
	s = strings.TrimSpace(s)
	if u, err := parseUint(s); err == nil {
		return u
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// "NaN" and "+INFINITY" stay labels
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// ParseUint parses an unsigned integer from decimal or hex string.
func ParseUint(s string) (uint64, error) {
	v, err := parseUint(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, s)
	}
	return v, nil
}

func parseUint(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}
