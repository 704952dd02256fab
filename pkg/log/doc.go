// Package log provides decode trace capture.
//
// This package defines the Logger interface and Event types for recording
// what the decoder saw and produced: raw characteristic values, decoded
// results, definition loads and errors. It is separate from operational
// logging (slog); a trace is a machine-readable record for debugging
// definitions against real devices.
//
// # Basic Usage
//
// Applications configure tracing by passing a Logger to the decoder:
//
//	// For development: log to console via slog
//	dec := decode.NewDecoder(src, decode.WithLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For capture: write to a trace file
//	fl, _ := log.NewFileLogger("heart-rate.glog")
//	dec := decode.NewDecoder(src, decode.WithLogger(fl))
//
//	// Both: use MultiLogger
//	dec := decode.NewDecoder(src, decode.WithLogger(log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()), fl,
//	)))
//
// # Event Types
//
// Events are captured at three layers:
//   - Raw: the value bytes as received (RawEvent)
//   - Decode: the decoded fields and Flags (ValueEvent)
//   - Metadata: characteristic definition loads (LoadEvent)
//
// Errors at any layer have a dedicated event type.
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with the .glog
// extension. The gattdecode-log CLI tool provides viewing, filtering,
// statistics and export.
package log
