package gattuuid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// BaseUUID is the Bluetooth base UUID 16-bit aliases are defined against.
const BaseUUID = "00000000-0000-1000-8000-00805f9b34fb"

// TypePrefix precedes the snake_case name in characteristic type identifiers.
const TypePrefix = "org.bluetooth.characteristic."

// ErrInvalid is returned for strings that are not a UUID in any supported form.
var ErrInvalid = errors.New("invalid UUID")

// Characteristic is one assigned characteristic UUID.
type Characteristic struct {
	UUID uint16
	Name string
}

// Short returns the 16-bit alias in upper-case hex ("2A37").
func (c Characteristic) Short() string {
	return fmt.Sprintf("%04X", c.UUID)
}

// String returns the canonical 128-bit form.
func (c Characteristic) String() string {
	return expand(c.UUID)
}

// Read-only after init.
var (
	byUUID = make(map[uint16]string, len(assigned))
	byKey  = make(map[string]uint16, len(assigned))
)

func init() {
	for _, c := range assigned {
		byUUID[c.UUID] = c.Name
		byKey[key(c.Name)] = c.UUID
	}
}

// All returns the assigned characteristics in ascending UUID order.
func All() []Characteristic {
	return append([]Characteristic(nil), assigned...)
}

// Normalize returns the canonical lower-case 128-bit form of s. 16-bit and
// 32-bit aliases, with or without a 0x prefix, are expanded on BaseUUID.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	h := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if (len(h) == 4 || len(h) == 8) && isHex(h) {
		return strings.Repeat("0", 8-len(h)) + strings.ToLower(h) + BaseUUID[8:], nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return u.String(), nil
}

// Short returns the 16-bit alias of s ("2A37") when s lies on the Bluetooth
// base UUID.
func Short(s string) (string, bool) {
	v, ok := alias(s)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%04X", v), true
}

// Name returns the assigned name of the characteristic UUID s.
func Name(s string) (string, bool) {
	v, ok := alias(s)
	if !ok {
		return "", false
	}
	name, ok := byUUID[v]
	return name, ok
}

// Lookup returns the 16-bit alias ("2A37") for a characteristic name or type
// identifier. Matching ignores case and treats underscores, hyphens and
// spaces alike.
func Lookup(name string) (string, bool) {
	v, ok := byKey[key(name)]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%04X", v), true
}

// Resolve returns the characteristic name for any supported identifier form.
// Unknown identifiers are returned trimmed but otherwise unchanged.
func Resolve(id string) string {
	id = strings.TrimSpace(id)
	if v, ok := alias(id); ok {
		if name, ok := byUUID[v]; ok {
			return name
		}
		return id
	}
	if v, ok := byKey[key(id)]; ok {
		return byUUID[v]
	}
	return id
}

func alias(s string) (uint16, bool) {
	n, err := Normalize(s)
	if err != nil || !strings.HasPrefix(n, "0000") || n[8:] != BaseUUID[8:] {
		return 0, false
	}
	v, err := strconv.ParseUint(n[4:8], 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

func expand(v uint16) string {
	return fmt.Sprintf("0000%04x", v) + BaseUUID[8:]
}

// key folds a name or type identifier for matching.
func key(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, TypePrefix)
	s = strings.NewReplacer("_", " ", "-", " ", "–", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
