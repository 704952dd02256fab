package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/gattdecode/gattdecode-go/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents      int
	EventsByLayer    map[log.Layer]int
	EventsByCategory map[log.Category]int
	EventsByOrigin   map[log.Origin]int
	Characteristics  map[string]*CharacteristicStats
	ErrorsByKind     map[string]int
	Sessions         map[string]struct{}
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// CharacteristicStats holds statistics for a single characteristic.
type CharacteristicStats struct {
	Decoded       int
	Errors        int
	Bytes         int
	TotalDuration time.Duration
	LastSeen      time.Time
}

// AverageDuration returns the mean decode duration.
func (c *CharacteristicStats) AverageDuration() time.Duration {
	if c.Decoded == 0 {
		return 0
	}
	return c.TotalDuration / time.Duration(c.Decoded)
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := collectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func collectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:    make(map[log.Layer]int),
		EventsByCategory: make(map[log.Category]int),
		EventsByOrigin:   make(map[log.Origin]int),
		Characteristics:  make(map[string]*CharacteristicStats),
		ErrorsByKind:     make(map[string]int),
		Sessions:         make(map[string]struct{}),
	}

	for event, err := range reader.Events() {
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByLayer[event.Layer]++
		stats.EventsByCategory[event.Category]++
		if event.SessionID != "" {
			stats.Sessions[event.SessionID] = struct{}{}
		}

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		if event.Load != nil {
			continue
		}

		cs, ok := stats.Characteristics[event.Characteristic]
		if !ok {
			cs = &CharacteristicStats{}
			stats.Characteristics[event.Characteristic] = cs
		}
		if event.Timestamp.After(cs.LastSeen) {
			cs.LastSeen = event.Timestamp
		}

		switch {
		case event.Raw != nil:
			stats.EventsByOrigin[event.Origin]++
			cs.Bytes += event.Raw.Size
		case event.Decode != nil:
			cs.Decoded++
			cs.TotalDuration += event.Decode.Duration
		case event.Error != nil:
			cs.Errors++
			stats.Errors++
			stats.ErrorsByKind[event.Error.Kind]++
		}
	}

	return stats, nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Decode Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Sessions:     %d\n", len(stats.Sessions))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerRaw, log.LayerDecode, log.LayerMetadata} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryDecode, log.CategoryLoad, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Values by Origin:")
	for _, o := range []log.Origin{log.OriginManual, log.OriginRead, log.OriginNotify} {
		if count := stats.EventsByOrigin[o]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", o.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Characteristics: %d\n", len(stats.Characteristics))
	if len(stats.Characteristics) > 0 {
		names := sortedKeys(stats.Characteristics)
		sort.SliceStable(names, func(i, j int) bool {
			a, b := stats.Characteristics[names[i]], stats.Characteristics[names[j]]
			return a.Decoded+a.Errors > b.Decoded+b.Errors
		})
		fmt.Fprintln(w)
		for _, name := range names {
			cs := stats.Characteristics[name]
			fmt.Fprintf(w, "  %s: %d decoded, %d errors, %d bytes", name, cs.Decoded, cs.Errors, cs.Bytes)
			if avg := cs.AverageDuration(); avg > 0 {
				fmt.Fprintf(w, ", avg %s", formatDuration(avg))
			}
			fmt.Fprintln(w)
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
		for _, kind := range sortedKeys(stats.ErrorsByKind) {
			label := kind
			if label == "" {
				label = "other"
			}
			fmt.Fprintf(w, "  %-18s %d\n", label+":", stats.ErrorsByKind[kind])
		}
	}
}
