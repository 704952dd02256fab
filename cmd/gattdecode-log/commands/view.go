// Package commands implements the gattdecode-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/gattdecode/gattdecode-go/pkg/log"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session] ORIGIN LAYER Type Characteristic
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")

	var typeLabel string
	switch {
	case event.Raw != nil:
		typeLabel = "Raw"
	case event.Decode != nil:
		typeLabel = "Decoded"
	case event.Load != nil:
		typeLabel = "Load"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [%s] %-6s %-8s %s", ts, shortenID(event.SessionID), event.Origin, event.Layer, typeLabel)
	if event.Characteristic != "" {
		fmt.Fprintf(w, " %q", event.Characteristic)
	}
	fmt.Fprintln(w)
	if event.DeviceAddr != "" {
		fmt.Fprintf(w, "  Device: %s\n", event.DeviceAddr)
	}

	switch {
	case event.Raw != nil:
		formatRawDetails(w, event.Raw)
	case event.Decode != nil:
		formatDecodeDetails(w, event.Decode)
	case event.Load != nil:
		formatLoadDetails(w, event.Load)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatRawDetails(w io.Writer, raw *log.RawEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", raw.Size)
	if len(raw.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(raw.Data))
		if raw.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatDecodeDetails(w io.Writer, dec *log.ValueEvent) {
	for _, f := range dec.Fields {
		value := formatTraceValue(f.Value)
		if f.Symbol != "" && isNumber(f.Value) {
			value += " " + f.Symbol
		}
		fmt.Fprintf(w, "  %s: %s\n", f.Name, value)
	}
	for _, f := range dec.Flags {
		if f.Label != "" {
			fmt.Fprintf(w, "  [flag] %s: %s\n", f.Name, f.Label)
		} else {
			fmt.Fprintf(w, "  [flag] %s: %d\n", f.Name, f.Key)
		}
	}
	if dec.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(dec.Duration))
	}
}

func formatLoadDetails(w io.Writer, load *log.LoadEvent) {
	fmt.Fprintf(w, "  ID: %s\n", load.ID)
	fmt.Fprintf(w, "  Fields: %d\n", load.Fields)
	if load.Digest != "" {
		fmt.Fprintf(w, "  Digest: %s\n", shortenDigest(load.Digest))
	}
	if load.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(load.Duration))
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	if err.Kind != "" {
		fmt.Fprintf(w, "  Kind: %s\n", err.Kind)
	}
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

func shortenDigest(d string) string {
	if len(d) > 16 {
		return d[:16]
	}
	return d
}

func isNumber(v any) bool {
	switch v.(type) {
	case uint64, int64, float64:
		return true
	}
	return false
}

// formatTraceValue formats a field value as decoded from a trace file.
// Bit field ranges arrive as integer-keyed maps.
func formatTraceValue(v any) string {
	switch x := v.(type) {
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			parts = append(parts, formatTraceValue(e))
		}
		return "{" + strings.Join(parts, "; ") + "}"
	case map[any]any:
		if name, ok := x[uint64(1)]; ok {
			if label, ok := x[uint64(3)]; ok && label != "" {
				return fmt.Sprintf("%v: %v", name, label)
			}
			return fmt.Sprintf("%v: %v", name, x[uint64(2)])
		}
		return fmt.Sprintf("%v", jsonSafe(x))
	case float64:
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// jsonSafe converts integer-keyed maps into string-keyed ones, recursively.
func jsonSafe(v any) any {
	switch x := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[traceKey(k)] = jsonSafe(e)
		}
		return m
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonSafe(e)
		}
		return out
	default:
		return v
	}
}

// traceKey names the integer keys of bit field ranges.
func traceKey(k any) string {
	switch k {
	case uint64(1):
		return "name"
	case uint64(2):
		return "key"
	case uint64(3):
		return "label"
	}
	return fmt.Sprint(k)
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RunView executes the view command.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
