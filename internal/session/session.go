// Package session wires a decoder from the shared configuration: the
// definition source, the caching registry and the trace loggers.
package session

import (
	"fmt"
	"log/slog"

	"github.com/gattdecode/gattdecode-go/internal/config"
	"github.com/gattdecode/gattdecode-go/pkg/decode"
	"github.com/gattdecode/gattdecode-go/pkg/definitions"
	"github.com/gattdecode/gattdecode-go/pkg/inspect"
	"github.com/gattdecode/gattdecode-go/pkg/log"
)

// Session holds everything a tool needs to decode values.
type Session struct {
	Source   *definitions.FSSource
	Registry *decode.Registry
	Decoder  *decode.Decoder

	trace *log.FileLogger
}

// Open builds a Session for cfg. Trace events go to cfg.TracePath when set
// and to logger at debug level.
func Open(cfg *config.Config, logger *slog.Logger) (*Session, error) {
	s := &Session{Source: definitions.Builtin()}
	if cfg.DefinitionsDir != "" {
		s.Source = definitions.NewDirSource(cfg.DefinitionsDir)
	}

	var sinks []log.Logger
	if logger != nil {
		sinks = append(sinks, log.NewSlogAdapter(logger))
	}
	if cfg.TracePath != "" {
		trace, err := log.NewFileLogger(cfg.TracePath)
		if err != nil {
			return nil, fmt.Errorf("opening trace file: %w", err)
		}
		s.trace = trace
		sinks = append(sinks, trace)
	}

	var sink log.Logger = log.NoopLogger{}
	switch len(sinks) {
	case 0:
	case 1:
		sink = sinks[0]
	default:
		sink = log.NewMultiLogger(sinks...)
	}

	s.Registry = decode.NewRegistry(s.Source)
	s.Registry.SetLogger(sink)
	s.Decoder = decode.NewDecoder(s.Registry,
		decode.WithLogger(sink),
		decode.WithMaxReferenceDepth(cfg.MaxReferenceDepth),
	)
	s.Registry.SetSessionID(s.Decoder.SessionID())
	return s, nil
}

// Formatter returns a formatter for the output settings of cfg.
func Formatter(out config.OutputConfig) *inspect.Formatter {
	f := inspect.NewFormatter()
	f.OneLine = out.OneLine
	f.Symbols = out.Symbols
	return f
}

// Traced returns the number of trace events written to the trace file.
func (s *Session) Traced() int {
	if s.trace == nil {
		return 0
	}
	return s.trace.Count()
}

// Close flushes and closes the trace file.
func (s *Session) Close() error {
	if s.trace == nil {
		return nil
	}
	return s.trace.Close()
}
