package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RawAssigned is the characteristics.yaml document.
type RawAssigned struct {
	Characteristics []RawCharacteristic `yaml:"characteristics"`
}

// RawCharacteristic is one assigned number entry.
type RawCharacteristic struct {
	UUID string `yaml:"uuid"`
	Name string `yaml:"name"`
}

// Assigned is a validated entry.
type Assigned struct {
	UUID uint16
	Name string
}

// LoadAssigned reads and validates the assigned number list at path.
func LoadAssigned(path string) ([]Assigned, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseAssigned(data)
}

// ParseAssigned parses the assigned number list and returns it sorted by
// UUID. UUIDs and names must be unique; names compare case-insensitively.
func ParseAssigned(data []byte) ([]Assigned, error) {
	var raw RawAssigned
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	out := make([]Assigned, 0, len(raw.Characteristics))
	uuids := make(map[uint16]string)
	names := make(map[string]uint16)
	for i, rc := range raw.Characteristics {
		name := strings.TrimSpace(rc.Name)
		if name == "" {
			return nil, fmt.Errorf("entry %d: missing name", i)
		}
		h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(rc.UUID), "0x"), "0X")
		if len(h) != 4 {
			return nil, fmt.Errorf("%s: uuid %q is not a 16-bit alias", name, rc.UUID)
		}
		v, err := strconv.ParseUint(h, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid uuid %q", name, rc.UUID)
		}
		u := uint16(v)
		if prev, ok := uuids[u]; ok {
			return nil, fmt.Errorf("%s: uuid %04X already assigned to %s", name, u, prev)
		}
		key := strings.ToLower(name)
		if prev, ok := names[key]; ok {
			return nil, fmt.Errorf("%s: name already assigned to %04X", name, prev)
		}
		uuids[u] = name
		names[key] = u
		out = append(out, Assigned{UUID: u, Name: name})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out, nil
}
