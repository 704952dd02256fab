// Command gattdecode decodes raw Bluetooth GATT characteristic values.
//
// Usage:
//
//	gattdecode [flags] <hex>
//
// Flags:
//
//	-char string      Characteristic name, type identifier or UUID (required)
//	-defs string      Directory of characteristic definitions (default: bundled set)
//	-format string    Output format: text, json, cbor (default "text")
//	-flags            Also print the decoded Flags bits
//	-oneline          Print all fields on one line
//	-values           Print values without field names
//	-show             Print the field layout of the characteristic instead of decoding
//	-list             List the known characteristics
//	-trace string     Append decode trace events to this file
//	-config string    Configuration file path
//	-log-level string Log level: debug, info, warn, error
//
// Examples:
//
//	# Decode a heart rate notification
//	gattdecode -char "Heart Rate Measurement" 0x064a
//
//	# Decode by UUID and print JSON
//	gattdecode -char 2A1C -format json 00 6D 01 00 FF
//
//	# Print a blood pressure reading compactly
//	gattdecode -char "Blood Pressure Measurement" -template "%s/%s, mean %s, pulse %s" 04 78 00 50 00 5D 00 3C 00
//
//	# Show which fields a characteristic may carry
//	gattdecode -char "Blood Pressure Measurement" -show
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gattdecode/gattdecode-go/internal/config"
	"github.com/gattdecode/gattdecode-go/internal/logging"
	"github.com/gattdecode/gattdecode-go/internal/session"
	"github.com/gattdecode/gattdecode-go/pkg/decode"
	"github.com/gattdecode/gattdecode-go/pkg/inspect"
)

// Options holds the command line options.
type Options struct {
	Char       string
	DefsDir    string
	Format     string
	Flags      bool
	OneLine    bool
	Values     bool
	Show       bool
	List       bool
	TracePath  string
	ConfigFile string
	LogLevel   string

	// Template formats the values with a fmt template, one %s per field.
	Template string
	// Bits names the ranges of the first bit field, comma separated, and
	// prints them as a JSON object.
	Bits string
}

func main() {
	var opts Options
	flag.StringVar(&opts.Char, "char", "", "Characteristic name, type identifier or UUID")
	flag.StringVar(&opts.DefsDir, "defs", "", "Directory of characteristic definitions (default: bundled set)")
	flag.StringVar(&opts.Format, "format", "", "Output format: text, json, cbor")
	flag.BoolVar(&opts.Flags, "flags", false, "Also print the decoded Flags bits")
	flag.BoolVar(&opts.OneLine, "oneline", false, "Print all fields on one line")
	flag.BoolVar(&opts.Values, "values", false, "Print values without field names")
	flag.BoolVar(&opts.Show, "show", false, "Print the field layout of the characteristic")
	flag.BoolVar(&opts.List, "list", false, "List the known characteristics")
	flag.StringVar(&opts.TracePath, "trace", "", "Append decode trace events to this file")
	flag.StringVar(&opts.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&opts.Template, "template", "", `Format the values with a template, e.g. "%s/%s mmHg"`)
	flag.StringVar(&opts.Bits, "bits", "", "Print the first bit field as JSON under these comma separated names")
	flag.Parse()

	if err := run(opts, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one invocation. Flags override the config file.
func run(opts Options, args []string, out io.Writer) error {
	cfg, err := config.LoadOrDefault(opts.ConfigFile)
	if err != nil {
		return err
	}
	applyOptions(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogFormat, level, "gattdecode")

	s, err := session.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.List {
		return list(s, out)
	}
	if opts.Char == "" {
		return fmt.Errorf("-char is required")
	}
	if opts.Show {
		c, err := s.Registry.Lookup(opts.Char)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%s)\n", c.Name, c.UUID)
		fmt.Fprint(out, session.Formatter(cfg.Output).FormatFieldTable(inspect.FieldRows(c)))
		return nil
	}

	data, err := inspect.ParseHex(strings.Join(args, " "))
	if err != nil {
		return err
	}
	res, err := s.Decoder.Decode(opts.Char, data)
	if err != nil {
		logger.Debug("decode failed", "characteristic", opts.Char, "kind", decode.ErrorKind(err), "error", err)
		return err
	}
	switch {
	case opts.Bits != "":
		return writeBits(out, res, strings.Split(opts.Bits, ","))
	case opts.Template != "":
		_, err := fmt.Fprintln(out, session.Formatter(cfg.Output).FormatTemplate(opts.Template, res))
		return err
	}
	return write(out, res, cfg.Output, opts.Values)
}

// writeBits prints the ranges of the first bit field of res under names.
func writeBits(out io.Writer, res *decode.Result, names []string) error {
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	data, err := json.Marshal(inspect.MapBits(res, names))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}

func applyOptions(cfg *config.Config, opts Options) {
	if opts.DefsDir != "" {
		cfg.DefinitionsDir = opts.DefsDir
	}
	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}
	if opts.Flags {
		cfg.Output.Flags = true
	}
	if opts.OneLine {
		cfg.Output.OneLine = true
	}
	if opts.TracePath != "" {
		cfg.TracePath = opts.TracePath
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
}

func write(out io.Writer, res *decode.Result, oc config.OutputConfig, valuesOnly bool) error {
	switch oc.Format {
	case "json":
		data, err := res.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", data)
		return err
	case "cbor":
		data, err := res.MarshalCBOR()
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	f := session.Formatter(oc)
	f.OnlyValues = valuesOnly
	fmt.Fprint(out, f.FormatResult(res))
	if oc.OneLine {
		fmt.Fprintln(out)
	}
	if oc.Flags && len(res.Flags) > 0 {
		fmt.Fprintln(out, f.FormatFlags(res.Flags))
	}
	return nil
}

func list(s *session.Session, out io.Writer) error {
	names, err := s.Source.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
