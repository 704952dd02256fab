// Command gattdecode-shell is an interactive shell for decoding and
// encoding Bluetooth GATT characteristic values.
//
// Usage:
//
//	gattdecode-shell [flags]
//
// Flags:
//
//	-defs string      Directory of characteristic definitions (default: bundled set)
//	-trace string     Append decode trace events to this file
//	-config string    Configuration file path
//	-log-level string Log level: debug, info, warn, error
//	-history string   Command history file (default ~/.config/gattdecode/history)
//
// Example session:
//
//	gatt> decode "Heart Rate Measurement" 064a
//	Heart Rate Measurement:
//	  Heart Rate Measurement Value (uint8): 74 bpm
//	gatt> sfloat 36.5 1
//	0x6df1
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gattdecode/gattdecode-go/cmd/gattdecode-shell/interactive"
	"github.com/gattdecode/gattdecode-go/internal/config"
	"github.com/gattdecode/gattdecode-go/internal/logging"
	"github.com/gattdecode/gattdecode-go/internal/session"
)

var (
	defsDir    = flag.String("defs", "", "Directory of characteristic definitions (default: bundled set)")
	tracePath  = flag.String("trace", "", "Append decode trace events to this file")
	configFile = flag.String("config", "", "Configuration file path")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
	history    = flag.String("history", filepath.Join(config.DefaultConfigDir(), "history"), "Command history file")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		fatal(err)
	}
	if *defsDir != "" {
		cfg.DefinitionsDir = *defsDir
	}
	if *tracePath != "" {
		cfg.TracePath = *tracePath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fatal(fmt.Errorf("invalid configuration: %w", err))
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fatal(err)
	}

	if *history != "" {
		// History is best effort.
		_ = os.MkdirAll(filepath.Dir(*history), 0o755)
	}

	// The shell is created before the logger so log output goes through
	// readline and does not interfere with the prompt.
	s, err := session.Open(cfg, nil)
	if err != nil {
		fatal(err)
	}
	defer s.Close()

	sh, err := interactive.New(s, session.Formatter(cfg.Output), *history)
	if err != nil {
		fatal(err)
	}
	logger := logging.New(sh.Stdout(), cfg.LogFormat, level, "gattdecode-shell")
	logger.Debug("definitions loaded", "dir", cfg.DefinitionsDir, "trace", cfg.TracePath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	sh.Run(ctx, cancel)

	if n := s.Traced(); n > 0 {
		logger.Info("trace written", "path", cfg.TracePath, "events", n)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
