package bits

import "testing"

func TestMask(t *testing.T) {
	tests := []struct {
		index, size uint
		want        uint64
	}{
		{0, 1, 0b1},
		{0, 2, 0b11},
		{1, 1, 0b10},
		{3, 2, 0b11000},
		{4, 4, 0xF0},
		{0, 64, ^uint64(0)},
		{0, 0, 0},
		{64, 1, 0},
	}
	for _, tt := range tests {
		if got := Mask(tt.index, tt.size); got != tt.want {
			t.Errorf("Mask(%d, %d) = %#b, want %#b", tt.index, tt.size, got, tt.want)
		}
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name              string
		value             uint64
		index, size, want uint64
	}{
		{"low pair ignores high bits", 0b1011, 0, 2, 3},
		{"high pair", 0b1011, 2, 2, 2},
		{"single bit set", 0b0100, 2, 1, 1},
		{"single bit clear", 0b0100, 3, 1, 0},
		{"byte", 0xABCD, 8, 8, 0xAB},
		{"undeclared high bits kept out", 0x1F, 0, 4, 0xF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.value, uint(tt.index), uint(tt.size))
			if got != tt.want {
				t.Errorf("Extract = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExtractIgnoresOtherBits(t *testing.T) {
	for upper := uint64(0); upper < 4; upper++ {
		v := upper<<2 | 0b11
		if got := Extract(v, 0, 2); got != 3 {
			t.Errorf("Extract(%#b) = %d, want 3", v, got)
		}
	}
}

func TestLabel(t *testing.T) {
	enum := map[uint64]string{0: "False", 1: "True"}

	if label, ok := Label(1, enum); !ok || label != "True" {
		t.Errorf("Label(1) = (%q, %v), want (True, true)", label, ok)
	}
	if label, ok := Label(2, enum); ok || label != "" {
		t.Errorf("Label(2) = (%q, %v), want miss", label, ok)
	}
	if _, ok := Label(0, nil); ok {
		t.Error("Label on nil enumeration should miss")
	}
}

func TestRequires(t *testing.T) {
	requires := map[uint64]string{1: "C1", 0: ""}

	if tag, ok := Requires(1, requires); !ok || tag != "C1" {
		t.Errorf("Requires(1) = (%q, %v), want (C1, true)", tag, ok)
	}
	if _, ok := Requires(0, requires); ok {
		t.Error("empty tag should not be satisfied")
	}
	if _, ok := Requires(3, requires); ok {
		t.Error("missing key should not be satisfied")
	}
}

func TestValueDisplay(t *testing.T) {
	if got := (Value{Key: 1, Label: "on", Known: true}).Display(); got != "on" {
		t.Errorf("Display() = %v, want on", got)
	}
	if got := (Value{Key: 5}).Display(); got != uint64(5) {
		t.Errorf("Display() = %v, want 5", got)
	}
}
