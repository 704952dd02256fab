package model

import (
	"errors"
	"math"
	"testing"

	"github.com/gattdecode/gattdecode-go/pkg/specparse"
	"github.com/gattdecode/gattdecode-go/pkg/wire"
)

const temperatureMeasurementYAML = `
name: Temperature Measurement
uuid: 2A1C
fields:
  - name: Flags
    requirements: Mandatory
    format: 8bit
    bitfield:
      - name: Temperature Units Flag
        index: 0
        size: 1
        enumerations:
          - {key: 0, value: Celsius, requires: C1}
          - {key: 1, value: Fahrenheit, requires: C2}
      - name: Time Stamp Flag
        index: 1
        size: 1
        enumerations:
          - {key: 0, value: "False"}
          - {key: 1, value: "True", requires: C3}
      - index: 2
        size: 6
  - name: Temperature Measurement Value (Celsius)
    requirements: C1
    format: FLOAT
    unit: org.bluetooth.unit.thermodynamic_temperature.degree_celsius
  - name: Temperature Measurement Value (Fahrenheit)
    requirements: C2
    format: FLOAT
    unit: org.bluetooth.unit.thermodynamic_temperature.degree_fahrenheit
  - name: Time Stamp
    requirements: C3
    reference: org.bluetooth.characteristic.date_time
`

func mustBuild(t *testing.T, doc string) *Characteristic {
	t.Helper()
	raw, err := specparse.ParseCharacteristicDef([]byte(doc))
	if err != nil {
		t.Fatalf("ParseCharacteristicDef failed: %v", err)
	}
	c, err := Build(raw)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return c
}

func TestBuild(t *testing.T) {
	c := mustBuild(t, temperatureMeasurementYAML)

	if c.Type != "org.bluetooth.characteristic.temperature_measurement" {
		t.Errorf("Type = %q", c.Type)
	}
	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}

	flags := c.FlagsField()
	if flags == nil {
		t.Fatal("FlagsField() = nil")
	}
	if !flags.IsMandatory() {
		t.Error("Flags should be mandatory")
	}
	bf, ok := flags.BitField()
	if !ok {
		t.Fatal("Flags has no bit field")
	}
	if bf.Format != wire.TypeUint8 {
		t.Errorf("container = %s, want uint8", bf.Format)
	}
	if bf.Width() != 8 {
		t.Errorf("Width() = %d, want 8", bf.Width())
	}
	if bf.Bits[2].Name != "BitGroup 2" {
		t.Errorf("unnamed bit = %q, want BitGroup 2", bf.Bits[2].Name)
	}
	if bf.Bits[0].Requires[1] != "C2" {
		t.Errorf("Requires[1] = %q, want C2", bf.Bits[0].Requires[1])
	}
	if _, ok := bf.Bits[1].Requires[0]; ok {
		t.Error("Time Stamp Flag key 0 should have no requirement")
	}

	celsius := c.Fields[1]
	if celsius.Type() != wire.TypeFLOAT {
		t.Errorf("Type() = %s, want FLOAT", celsius.Type())
	}
	if celsius.Unit == nil || celsius.Unit.Symbol != "°C" {
		t.Errorf("Unit = %+v, want symbol °C", celsius.Unit)
	}
	if celsius.IsMandatory() {
		t.Error("C1 field should not be mandatory")
	}

	stamp := c.Field("Time Stamp")
	name, ok := stamp.Reference()
	if !ok || name != "Date Time" {
		t.Errorf("Reference() = (%q, %v), want (Date Time, true)", name, ok)
	}
	if stamp.Type() != wire.TypeNone {
		t.Errorf("reference Type() = %s, want characteristic", stamp.Type())
	}
}

func TestFlagsFieldRequiresBitField(t *testing.T) {
	c := mustBuild(t, `
name: Odd
fields:
  - name: Flags
    format: uint8
  - name: Value
    format: uint8
`)
	if c.FlagsField() != nil {
		t.Error("plain Flags field should not count as a Flags bit field")
	}
}

func TestDigest(t *testing.T) {
	a := mustBuild(t, temperatureMeasurementYAML)
	b := mustBuild(t, temperatureMeasurementYAML)
	other := mustBuild(t, "name: Battery Level\nfields:\n  - name: Level\n    format: uint8\n")

	if len(a.Digest()) != 64 {
		t.Errorf("len(Digest()) = %d, want 64", len(a.Digest()))
	}
	if a.Digest() != b.Digest() {
		t.Error("equal definitions should have equal digests")
	}
	if a.Digest() == other.Digest() {
		t.Error("different definitions should have different digests")
	}
}

func TestBuildMalformed(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing format", "name: X\nfields:\n  - name: A\n"},
		{"unknown format", "name: X\nfields:\n  - name: A\n    format: uint7\n"},
		{"bit without size", "name: X\nfields:\n  - name: A\n    format: uint8\n    bitfield:\n      - index: 0\n"},
		{"bit past 64", "name: X\nfields:\n  - name: A\n    format: uint8\n    bitfield:\n      - {index: 60, size: 8}\n"},
		{"float container", "name: X\nfields:\n  - name: A\n    format: SFLOAT\n    bitfield:\n      - {index: 0, size: 1}\n"},
		{"enumeration without value", "name: X\nfields:\n  - name: A\n    format: uint8\n    enumerations:\n      - {key: 1}\n"},
		{"enumeration without key", "name: X\nfields:\n  - name: A\n    format: uint8\n    enumerations:\n      - {value: on}\n"},
		{"negative key", "name: X\nfields:\n  - name: A\n    format: uint8\n    enumerations:\n      - {key: -1, value: on}\n"},
		{"reference with format", "name: X\nfields:\n  - name: A\n    format: uint8\n    reference: org.bluetooth.characteristic.date_time\n"},
		{"bare characteristic format", "name: X\nfields:\n  - name: A\n    format: characteristic\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := specparse.ParseCharacteristicDef([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ParseCharacteristicDef failed: %v", err)
			}
			_, err = Build(raw)
			if !errors.Is(err, ErrMalformedSpec) {
				t.Errorf("err = %v, want ErrMalformedSpec", err)
			}
		})
	}

	if _, err := Build(nil); !errors.Is(err, ErrMalformedSpec) {
		t.Errorf("Build(nil) err = %v, want ErrMalformedSpec", err)
	}
}

func TestBuildDoesNotAliasDocument(t *testing.T) {
	raw, err := specparse.ParseCharacteristicDef([]byte("name: X\nfields:\n  - name: A\n    format: uint8\n    decimalExponent: -1\n"))
	if err != nil {
		t.Fatal(err)
	}
	c, err := Build(raw)
	if err != nil {
		t.Fatal(err)
	}
	*raw.Fields[0].DecimalExponent = 3
	if *c.Fields[0].Scale.DecimalExponent != -1 {
		t.Errorf("model changed with document: %d", *c.Fields[0].Scale.DecimalExponent)
	}
}

func TestScalingApply(t *testing.T) {
	intp := func(v int) *int { return &v }

	tests := []struct {
		name  string
		scale Scaling
		in    float64
		want  float64
	}{
		{"none", Scaling{}, 42, 42},
		{"multiplier", Scaling{Multiplier: intp(5)}, 3, 15},
		{"decimal", Scaling{DecimalExponent: intp(-1)}, 365, 36.5},
		{"binary", Scaling{BinaryExponent: intp(-10)}, 1024, 1},
		{"all", Scaling{Multiplier: intp(2), DecimalExponent: intp(-2), BinaryExponent: intp(1)}, 150, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.scale.Apply(tt.in)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if back := tt.scale.Invert(got); math.Abs(back-tt.in) > 1e-9 {
				t.Errorf("Invert(Apply(%v)) = %v", tt.in, back)
			}
		})
	}

	if !(Scaling{}).IsZero() {
		t.Error("empty Scaling should be zero")
	}
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		id                     string
		quantity, name, symbol string
	}{
		{"org.bluetooth.unit.thermodynamic_temperature.degree_celsius", "thermodynamic temperature", "degree celsius", "°C"},
		{"org.bluetooth.unit.period.beats_per_minute", "period", "beats per minute", "bpm"},
		{"org.bluetooth.unit.percentage", "percentage", "percentage", "%"},
		{"org.bluetooth.unit.pressure.millimetre_of_mercury", "pressure", "millimetre of mercury", "mmHg"},
		{"org.bluetooth.unit.unitless", "unitless", "", ""},
		{"org.bluetooth.unit.length.furlong", "length", "", ""},
	}

	for _, tt := range tests {
		u := ParseUnit(tt.id)
		if u.Quantity != tt.quantity || u.Name != tt.name || u.Symbol != tt.symbol {
			t.Errorf("ParseUnit(%q) = %+v, want %q/%q/%q", tt.id, u, tt.quantity, tt.name, tt.symbol)
		}
		if u.ID != tt.id {
			t.Errorf("ID = %q, want %q", u.ID, tt.id)
		}
	}
}

func TestInRange(t *testing.T) {
	lo, hi := 0.0, 100.0
	f := &Field{Minimum: &lo, Maximum: &hi}
	if !f.InRange(50) || f.InRange(-1) || f.InRange(101) {
		t.Error("InRange limits not honoured")
	}
	if !(&Field{}).InRange(-1e9) {
		t.Error("field without limits should accept everything")
	}
}
