package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to see decodes in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("origin", event.Origin.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Characteristic != "" {
		attrs = append(attrs, slog.String("characteristic", event.Characteristic))
	}
	if event.UUID != "" {
		attrs = append(attrs, slog.String("uuid", event.UUID))
	}
	if event.DeviceAddr != "" {
		attrs = append(attrs, slog.String("device", event.DeviceAddr))
	}

	switch {
	case event.Raw != nil:
		attrs = append(attrs,
			slog.Int("size", event.Raw.Size),
			slog.String("data", fmt.Sprintf("%X", event.Raw.Data)),
		)
		if event.Raw.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
	case event.Decode != nil:
		attrs = append(attrs, slog.Int("fields", len(event.Decode.Fields)))
		for _, f := range event.Decode.Fields {
			attrs = append(attrs, slog.Any(f.Name, f.Value))
		}
		if event.Decode.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", event.Decode.Duration))
		}
	case event.Load != nil:
		attrs = append(attrs,
			slog.String("id", event.Load.ID),
			slog.Int("fields", event.Load.Fields),
			slog.String("digest", event.Load.Digest),
		)
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_kind", event.Error.Kind),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "trace", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
