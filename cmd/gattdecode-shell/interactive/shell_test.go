package interactive

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/gattdecode/gattdecode-go/internal/config"
	"github.com/gattdecode/gattdecode-go/internal/session"
)

func testShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	s, err := session.Open(config.Default(), nil)
	if err != nil {
		t.Fatalf("session.Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	var buf bytes.Buffer
	return newShell(s, nil, &buf), &buf
}

func exec(t *testing.T, sh *Shell, buf *bytes.Buffer, line string) string {
	t.Helper()
	buf.Reset()
	if !sh.Exec(line) {
		t.Fatalf("Exec(%q) asked to quit", line)
	}
	return buf.String()
}

func TestExecDecode(t *testing.T) {
	sh, buf := testShell(t)

	out := exec(t, sh, buf, `decode "Heart Rate Measurement" 06 4a`)
	want := "Heart Rate Measurement:\n  Heart Rate Measurement Value (uint8): 74 bpm\n"
	if out != want {
		t.Errorf("decode output = %q, want %q", out, want)
	}

	out = exec(t, sh, buf, "flags")
	if !strings.Contains(out, "Heart Rate Value Format bit:") {
		t.Errorf("flags output = %q", out)
	}

	out = exec(t, sh, buf, "json")
	if !strings.HasPrefix(out, `{"characteristic":"Heart Rate Measurement"`) {
		t.Errorf("json output = %q", out)
	}
}

func TestExecDecodeError(t *testing.T) {
	sh, buf := testShell(t)

	out := exec(t, sh, buf, "decode 2A19 5757")
	if !strings.HasPrefix(out, "Error (") {
		t.Errorf("output = %q, want an error", out)
	}
	if out := exec(t, sh, buf, "flags"); out != "Nothing decoded yet\n" {
		t.Errorf("flags after failed decode = %q", out)
	}
	if out := exec(t, sh, buf, "decode 2A19"); !strings.HasPrefix(out, "Usage:") {
		t.Errorf("output = %q, want usage", out)
	}
}

func TestExecShowAndList(t *testing.T) {
	sh, buf := testShell(t)

	out := exec(t, sh, buf, "show battery_level")
	if !strings.HasPrefix(out, "Battery Level (0x2A19)\n") || !strings.Contains(out, "Level: uint8") {
		t.Errorf("show output = %q", out)
	}

	out = exec(t, sh, buf, "list")
	if !strings.Contains(out, "  Battery Level\n") || !strings.HasSuffix(out, "19 characteristics\n") {
		t.Errorf("list output = %q", out)
	}
}

func TestExecEncode(t *testing.T) {
	sh, buf := testShell(t)

	if out := exec(t, sh, buf, "encode 2A19 Level=87"); out != "0x57\n" {
		t.Errorf("encode output = %q, want 0x57", out)
	}

	out := exec(t, sh, buf, `encode "Heart Rate Measurement" flags=0x06 "Heart Rate Measurement Value (uint8)=74"`)
	if out != "0x064a\n" {
		t.Errorf("encode output = %q, want 0x064a", out)
	}

	if out := exec(t, sh, buf, "encode 2A19 flags=x"); !strings.HasPrefix(out, "Error:") {
		t.Errorf("output = %q, want an error", out)
	}
}

func TestExecFloat(t *testing.T) {
	sh, buf := testShell(t)

	tests := []struct {
		line string
		want string
	}{
		{"sfloat 36.5 1", "0x6df1\n"},
		{"sfloat 0x6df1", "36.5\n"},
		{"float 36.5 1", "0x6d0100ff\n"},
		{"float 6d0100ff", "36.5\n"},
		{"sfloat NaN 0", "0xff07\n"},
		{"sfloat ff07", "NaN\n"},
		{"float 0102", "Error: FLOAT needs 4 bytes, got 2\n"},
	}
	for _, tt := range tests {
		if got := exec(t, sh, buf, tt.line); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestExecUnpack(t *testing.T) {
	sh, buf := testShell(t)

	out := exec(t, sh, buf, `unpack "uint8 sint16" 05 feff`)
	want := "  uint8: 5\n  sint16: -2\n"
	if out != want {
		t.Errorf("unpack output = %q, want %q", out, want)
	}
}

func TestExecUUID(t *testing.T) {
	sh, buf := testShell(t)

	if out := exec(t, sh, buf, "uuid 2a37"); out != "00002a37-0000-1000-8000-00805f9b34fb Heart Rate Measurement\n" {
		t.Errorf("uuid output = %q", out)
	}
	if out := exec(t, sh, buf, `uuid "battery level"`); out != "00002a19-0000-1000-8000-00805f9b34fb 0x2A19\n" {
		t.Errorf("uuid output = %q", out)
	}
	if out := exec(t, sh, buf, "uuid flux"); out != "Unknown characteristic: flux\n" {
		t.Errorf("uuid output = %q", out)
	}
}

func TestExecQuitAndUnknown(t *testing.T) {
	sh, buf := testShell(t)

	if out := exec(t, sh, buf, "frobnicate"); !strings.HasPrefix(out, "Unknown command: frobnicate") {
		t.Errorf("output = %q", out)
	}
	if out := exec(t, sh, buf, "   "); out != "" {
		t.Errorf("blank line output = %q", out)
	}
	for _, q := range []string{"quit", "exit", "q"} {
		if sh.Exec(q) {
			t.Errorf("Exec(%q) = true, want false", q)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"decode 2A19 57", []string{"decode", "2A19", "57"}, false},
		{`decode "Heart Rate Measurement"  06 4a`, []string{"decode", "Heart Rate Measurement", "06", "4a"}, false},
		{`encode x "Note=a b"`, []string{"encode", "x", "Note=a b"}, false},
		{`show ""`, []string{"show", ""}, false},
		{"", nil, false},
		{`decode "open`, nil, true},
	}
	for _, tt := range tests {
		got, err := splitArgs(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("splitArgs(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
