package wire

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/gattdecode/gattdecode-go/pkg/ieee11073"
)

func mustFormat(t *testing.T, s string) Format {
	t.Helper()
	f, err := ParseFormat(s)
	if err != nil {
		t.Fatalf("ParseFormat(%q) failed: %v", s, err)
	}
	return f
}

func TestParseType(t *testing.T) {
	tests := []struct {
		name string
		want Type
	}{
		{"uint8", TypeUint8},
		{"sint16", TypeSint16},
		{"FLOAT", TypeFLOAT},
		{"SFLOAT", TypeSFLOAT},
		{"float32", TypeFloat32},
		{"8bit", TypeUint8},
		{"16bit", TypeUint16},
		{"nibble", TypeUint8},
		{"4bit", TypeUint8},
		{"boolean", TypeBool},
		{"utf8s", TypeUTF8S},
		{"characteristic", TypeNone},
		{" uint24 ", TypeUint24},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.name)
		if err != nil {
			t.Errorf("ParseType(%q) error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}

	if _, err := ParseType("float"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("ParseType(float) err = %v, want ErrUnknownType", err)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		format   string
		fixed    int
		variable bool
	}{
		{"uint8", 1, false},
		{"uint8,uint16,uint24", 6, false},
		{"uint8 SFLOAT FLOAT", 7, false},
		{"uint48,uint128", 22, false},
		{"uint8,utf8s", 1, true},
		{"", 0, false},
	}

	for _, tt := range tests {
		fixed, variable := mustFormat(t, tt.format).Size()
		if fixed != tt.fixed || variable != tt.variable {
			t.Errorf("Size(%q) = (%d, %v), want (%d, %v)", tt.format, fixed, variable, tt.fixed, tt.variable)
		}
	}
}

func TestFormatString(t *testing.T) {
	f := Format{TypeUint8, TypeSFLOAT, TypeUint16}
	if got := f.String(); got != "uint8,SFLOAT,uint16" {
		t.Errorf("String() = %q", got)
	}
	if _, err := ParseFormat("uint8,characteristic"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("ParseFormat with reference err = %v, want ErrUnknownType", err)
	}
}

func TestUnpackIntegers(t *testing.T) {
	data := []byte{
		0xFF,                         // uint8
		0xFF,                         // sint8
		0x34, 0x12,                   // uint16
		0xFE, 0xFF,                   // sint16
		0x01, 0x02, 0x03,             // uint24
		0xFF, 0xFF, 0xFF,             // sint24
		0x01, 0x00, 0x00, 0x00, 0x80, // uint40
	}
	f := mustFormat(t, "uint8,sint8,uint16,sint16,uint24,sint24,uint40")

	got, err := Unpack(f, data)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	want := []any{
		uint64(0xFF), int64(-1),
		uint64(0x1234), int64(-2),
		uint64(0x030201), int64(-1),
		uint64(0x8000000001),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unpack = %v, want %v", got, want)
	}
}

func TestUnpackMedicalFloatsAmongIntegers(t *testing.T) {
	// uint8, SFLOAT 36.5, uint16, FLOAT NaN, uint8
	data := []byte{0x06, 0x6D, 0xF1, 0x2C, 0x01, 0xFF, 0xFF, 0x7F, 0x00, 0x09}
	f := mustFormat(t, "uint8,SFLOAT,uint16,FLOAT,uint8")

	got, err := Unpack(f, data)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	if got[0] != uint64(6) {
		t.Errorf("got[0] = %v, want 6", got[0])
	}
	if got[1] != 36.5 {
		t.Errorf("got[1] = %v, want 36.5", got[1])
	}
	if got[2] != uint64(300) {
		t.Errorf("got[2] = %v, want 300", got[2])
	}
	if got[3] != ieee11073.NaN {
		t.Errorf("got[3] = %v, want NaN special", got[3])
	}
	if got[4] != uint64(9) {
		t.Errorf("got[4] = %v, want 9", got[4])
	}
}

func TestUnpackVariableTail(t *testing.T) {
	f := mustFormat(t, "uint8,utf8s")
	got, err := Unpack(f, []byte{0x01, 'a', 'b', 'c'})
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if got[1] != "abc" {
		t.Errorf("utf8s = %q, want abc", got[1])
	}

	got, err = Unpack(f, []byte{0x01})
	if err != nil {
		t.Fatalf("Unpack with empty tail failed: %v", err)
	}
	if got[1] != "" {
		t.Errorf("utf8s = %q, want empty", got[1])
	}
}

func TestUnpackVariableMustBeLast(t *testing.T) {
	f := Format{TypeUTF8S, TypeUint8}
	if _, err := Unpack(f, []byte{'a', 0x01}); !errors.Is(err, ErrVariablePosition) {
		t.Errorf("err = %v, want ErrVariablePosition", err)
	}
}

func TestUnpackLengthMismatch(t *testing.T) {
	f := mustFormat(t, "uint8,uint16")

	for _, data := range [][]byte{{0x01, 0x02}, {0x01, 0x02, 0x03, 0x04}} {
		_, err := Unpack(f, data)
		if !errors.Is(err, ErrLengthMismatch) {
			t.Errorf("Unpack(%d bytes) err = %v, want ErrLengthMismatch", len(data), err)
		}
		var le *LengthError
		if !errors.As(err, &le) {
			t.Fatalf("err is not *LengthError: %T", err)
		}
		if le.Want != 3 || le.Got != len(data) {
			t.Errorf("LengthError = %+v", le)
		}
	}

	_, err := Unpack(mustFormat(t, "uint16,utf8s"), []byte{0x01})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short variable buffer err = %v, want ErrLengthMismatch", err)
	}
}

func TestUnpackOtherKinds(t *testing.T) {
	data := []byte{0x01, 0x37, 0x2A}
	data = append(data, bytes.Repeat([]byte{0xAB}, 16)...)
	f := mustFormat(t, "boolean,gatt_uuid,uint128")

	got, err := Unpack(f, data)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if got[0] != true {
		t.Errorf("bool = %v", got[0])
	}
	if got[1] != UUID16(0x2A37) {
		t.Errorf("uuid = %v, want 0x2A37", got[1])
	}
	if b, ok := got[2].([]byte); !ok || len(b) != 16 {
		t.Errorf("uint128 = %v", got[2])
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	f := mustFormat(t, "uint8,sint16,uint24,SFLOAT,FLOAT,float32,boolean,utf8s")
	in := []any{uint8(0x16), -300, uint32(70000), Decimal{Value: 36.5, Precision: 1}, 98.25, float32(1.5), true, "dev"}

	data, err := Pack(f, in...)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	out, err := Unpack(f, data)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	want := []any{uint64(0x16), int64(-300), uint64(70000), 36.5, 98.25, 1.5, true, "dev"}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("round trip = %v, want %v", out, want)
	}
}

func TestPackErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		values []any
		want   error
	}{
		{"uint8 overflow", "uint8", []any{256}, ErrValueRange},
		{"negative unsigned", "uint16", []any{-1}, ErrValueType},
		{"sint8 underflow", "sint8", []any{-129}, ErrValueRange},
		{"wrong kind", "boolean", []any{"yes"}, ErrValueType},
		{"count", "uint8,uint8", []any{1}, ErrValueType},
		{"sfloat overflow", "SFLOAT", []any{Decimal{Value: 2048, Precision: 0}}, ieee11073.ErrMantissaOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pack(mustFormat(t, tt.format), tt.values...)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPackSpecial(t *testing.T) {
	data, err := Pack(Format{TypeSFLOAT}, ieee11073.PositiveInfinity)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0xFE, 0x07}) {
		t.Errorf("Pack(+INFINITY) = % X, want FE 07", data)
	}
}

func TestPackAutoPrecision(t *testing.T) {
	data, err := Pack(Format{TypeSFLOAT}, 36.5)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0x6D, 0xF1}) {
		t.Errorf("Pack(36.5) = % X, want 6D F1", data)
	}
}
