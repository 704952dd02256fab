// Package specparse provides the YAML document types for Bluetooth GATT
// characteristic definitions. The documents mirror the published
// characteristic XML: an ordered list of fields, each with a format,
// optional scaling, unit, enumerations, bit field and requirement tags.
package specparse

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RawCharacteristicDef represents a characteristic definition loaded from YAML.
type RawCharacteristicDef struct {
	Name     string        `yaml:"name"`
	Type     string        `yaml:"type"` // "org.bluetooth.characteristic.heart_rate_measurement"
	UUID     string        `yaml:"uuid"` // "2A37"
	Abstract string        `yaml:"abstract"`
	Fields   []RawFieldDef `yaml:"fields"`
}

// RawFieldDef represents one field of a characteristic value.
type RawFieldDef struct {
	Name            string           `yaml:"name"`
	InformativeText string           `yaml:"informativeText"`
	Requirements    StringList       `yaml:"requirements"` // "Mandatory", "C1", ...
	Format          string           `yaml:"format"`       // "uint8", "SFLOAT", "16bit", ...
	Minimum         *float64         `yaml:"minimum"`
	Maximum         *float64         `yaml:"maximum"`
	Unit            string           `yaml:"unit"` // "org.bluetooth.unit.thermodynamic_temperature.degree_celsius"
	DecimalExponent *int             `yaml:"decimalExponent"`
	BinaryExponent  *int             `yaml:"binaryExponent"`
	Multiplier      *int             `yaml:"multiplier"`
	Reference       string           `yaml:"reference"` // "org.bluetooth.characteristic.date_time"
	Enumerations    []RawEnumeration `yaml:"enumerations"`
	BitField        []RawBitDef      `yaml:"bitfield"`
}

// RawBitDef represents one named bit range of a bit field.
type RawBitDef struct {
	Name         string           `yaml:"name"` // empty: "BitGroup <index>"
	Index        *int             `yaml:"index"`
	Size         *int             `yaml:"size"`
	Enumerations []RawEnumeration `yaml:"enumerations"`
}

// RawEnumeration represents a key/value enumeration entry. Requires is only
// meaningful on the bits of a Flags field.
type RawEnumeration struct {
	Key      *int    `yaml:"key"`
	Value    *string `yaml:"value"`
	Requires string  `yaml:"requires"`
}

// StringList accepts either a YAML sequence or a single scalar.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			*l = nil
			return nil
		}
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	return fmt.Errorf("line %d: requirements must be a string or a list", node.Line)
}

// BitName returns the bit's name, or "BitGroup <index>" for unnamed bits.
func (b RawBitDef) BitName() string {
	if b.Name != "" {
		return b.Name
	}
	if b.Index == nil {
		return "BitGroup"
	}
	return fmt.Sprintf("BitGroup %d", *b.Index)
}

// ParseCharacteristicDef parses a characteristic definition from YAML bytes.
func ParseCharacteristicDef(data []byte) (*RawCharacteristicDef, error) {
	var def RawCharacteristicDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing characteristic def: %w", err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("characteristic definition missing name")
	}
	if len(def.Fields) == 0 {
		return nil, fmt.Errorf("characteristic %q has no fields", def.Name)
	}
	for i, f := range def.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("characteristic %q: field %d missing name", def.Name, i)
		}
	}
	return &def, nil
}

// LoadCharacteristicDef loads and parses a characteristic definition from a file.
func LoadCharacteristicDef(path string) (*RawCharacteristicDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseCharacteristicDef(data)
}
