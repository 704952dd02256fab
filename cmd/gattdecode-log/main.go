// Command gattdecode-log views and analyzes decode trace files.
//
// Trace files are written by gattdecode, gattdecode-shell and
// gattdecode-gateway when run with -trace. A file argument of "-" reads
// the trace from standard input, so commands can be chained:
//
//	gattdecode-log filter -kind length_mismatch -o - gateway.glog | gattdecode-log view -
//
// Commands:
//
//	view     print events in human-readable form
//	export   convert events to JSON lines or CSV
//	filter   copy matching events to a new trace file
//	stats    summarize a trace file
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/gattdecode/gattdecode-go/cmd/gattdecode-log/commands"
)

// command is one subcommand: its flags are registered on fs and run
// executes it against the single file argument.
type command struct {
	name    string
	summary string
	setup   func(fs *flag.FlagSet) func(path string, stdout io.Writer) error
}

var commandList = []command{
	{"view", "print events in human-readable form", setupView},
	{"export", "convert events to JSON lines or CSV", setupExport},
	{"filter", "copy matching events to a new trace file", setupFilter},
	{"stats", "summarize a trace file", setupStats},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}
	if slices.Contains([]string{"-h", "-help", "--help", "help"}, args[0]) {
		printUsage(stdout)
		return 0
	}

	i := slices.IndexFunc(commandList, func(c command) bool { return c.name == args[0] })
	if i < 0 {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 2
	}
	cmd := commandList[i]

	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: gattdecode-log %s [flags] <file.glog|->\n\n%s\n\nflags:\n", cmd.name, cmd.summary)
		fs.PrintDefaults()
	}
	exec := cmd.setup(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "error: exactly one trace file is required")
		fs.Usage()
		return 2
	}

	if err := exec(fs.Arg(0), stdout); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: gattdecode-log <command> [flags] <file.glog|->")
	fmt.Fprintln(w)
	for _, c := range commandList {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "\nRun \"gattdecode-log <command> -h\" for the flags of a command.")
}

// filterFlags registers the event selection flags shared by view and
// filter.
func filterFlags(fs *flag.FlagSet, opts *commands.FilterOptions) {
	fs.StringVar(&opts.SessionID, "session", "", "only events of this session ID")
	fs.StringVar(&opts.Characteristic, "char", "", "only this characteristic (name or UUID)")
	fs.StringVar(&opts.DeviceAddr, "device", "", "only this peripheral address")
	fs.StringVar(&opts.TimeStart, "time-start", "", "only events at or after this time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "only events before this time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "only this layer (raw, decode, metadata)")
	fs.StringVar(&opts.Origin, "origin", "", "only this origin (manual, read, notify)")
	fs.StringVar(&opts.Category, "category", "", "only this category (decode, load, error)")
	fs.StringVar(&opts.Kind, "kind", "", "only errors of this kind (length_mismatch, not_found, ...)")
}

func setupView(fs *flag.FlagSet) func(string, io.Writer) error {
	var opts commands.FilterOptions
	filterFlags(fs, &opts)
	return func(path string, stdout io.Writer) error {
		filter, err := commands.BuildFilter(opts)
		if err != nil {
			return err
		}
		return commands.RunView(path, filter, stdout)
	}
}

func setupExport(fs *flag.FlagSet) func(string, io.Writer) error {
	format := fs.String("format", "jsonl", "output format (jsonl, csv)")
	output := fs.String("o", "", "output file (default: stdout)")
	return func(path string, _ io.Writer) error {
		return commands.RunExport(path, *format, *output)
	}
}

func setupFilter(fs *flag.FlagSet) func(string, io.Writer) error {
	var opts commands.FilterOptions
	fs.StringVar(&opts.Output, "o", "", "output trace file, \"-\" for stdout (required)")
	filterFlags(fs, &opts)
	return func(path string, stdout io.Writer) error {
		if opts.Output == "" {
			return errors.New("output file (-o) is required")
		}
		n, err := commands.RunFilter(path, opts)
		if err != nil {
			return err
		}
		if opts.Output != "-" {
			fmt.Fprintf(stdout, "Filtered %d events to %s\n", n, opts.Output)
		}
		return nil
	}
}

func setupStats(_ *flag.FlagSet) func(string, io.Writer) error {
	return func(path string, stdout io.Writer) error {
		return commands.RunStats(path, stdout)
	}
}
