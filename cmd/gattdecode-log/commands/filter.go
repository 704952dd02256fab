package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/gattdecode/gattdecode-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the view and filter
// commands.
type FilterOptions struct {
	Output         string
	SessionID      string
	Characteristic string
	DeviceAddr     string
	TimeStart      string
	TimeEnd        string
	Layer          string
	Origin         string
	Category       string
	Kind           string
}

// BuildFilter converts command-line options into a trace filter.
func BuildFilter(opts FilterOptions) (log.Filter, error) {
	filter := log.Filter{
		SessionID:      opts.SessionID,
		Characteristic: opts.Characteristic,
		DeviceAddr:     opts.DeviceAddr,
		Kind:           opts.Kind,
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if opts.Layer != "" {
		l, err := parseLayer(opts.Layer)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Layer = &l
	}

	if opts.Origin != "" {
		o, err := parseOrigin(opts.Origin)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Origin = &o
	}

	if opts.Category != "" {
		c, err := parseCategory(opts.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}

	return filter, nil
}

// RunFilter writes the events of path matching opts to opts.Output and
// returns how many were written. Either path may be "-" for standard
// input or output.
func RunFilter(path string, opts FilterOptions) (int, error) {
	filter, err := BuildFilter(opts)
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	count := 0
	for event, err := range reader.Events() {
		if err != nil {
			return count, fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
		count++
	}
	return count, nil
}

// parseLayer parses a layer string (case-insensitive).
func parseLayer(s string) (log.Layer, error) {
	if l, ok := log.ParseLayer(strings.ToUpper(s)); ok {
		return l, nil
	}
	return 0, fmt.Errorf("invalid layer: %s (must be raw, decode, or metadata)", s)
}

// parseOrigin parses an origin string (case-insensitive).
func parseOrigin(s string) (log.Origin, error) {
	if o, ok := log.ParseOrigin(strings.ToUpper(s)); ok {
		return o, nil
	}
	return 0, fmt.Errorf("invalid origin: %s (must be manual, read, or notify)", s)
}

// parseCategory parses a category string (case-insensitive).
func parseCategory(s string) (log.Category, error) {
	if c, ok := log.ParseCategory(strings.ToUpper(s)); ok {
		return c, nil
	}
	return 0, fmt.Errorf("invalid category: %s (must be decode, load, or error)", s)
}
