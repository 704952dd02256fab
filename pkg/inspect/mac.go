package inspect

import (
	"fmt"
	"strconv"
	"strings"
)

// MACToUint64 converts a colon separated MAC address to an integer.
func MACToUint64(mac string) (uint64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(mac), ":", "")
	if len(s) != 12 {
		return 0, fmt.Errorf("%w: MAC address %q", ErrInvalidHex, mac)
	}
	v, err := strconv.ParseUint(s, 16, 48)
	if err != nil {
		return 0, fmt.Errorf("%w: MAC address %q", ErrInvalidHex, mac)
	}
	return v, nil
}

// Uint64ToMAC formats the low 48 bits of v as an upper-case colon separated
// MAC address.
func Uint64ToMAC(v uint64) string {
	s := fmt.Sprintf("%012X", v&0xFFFFFFFFFFFF)
	parts := make([]string, 0, 6)
	for i := 0; i < 12; i += 2 {
		parts = append(parts, s[i:i+2])
	}
	return strings.Join(parts, ":")
}
