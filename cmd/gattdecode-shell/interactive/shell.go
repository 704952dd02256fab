// Package interactive provides the interactive command-line interface
// of gattdecode-shell.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/gattdecode/gattdecode-go/internal/session"
	"github.com/gattdecode/gattdecode-go/pkg/decode"
	"github.com/gattdecode/gattdecode-go/pkg/gattuuid"
	"github.com/gattdecode/gattdecode-go/pkg/ieee11073"
	"github.com/gattdecode/gattdecode-go/pkg/inspect"
	"github.com/gattdecode/gattdecode-go/pkg/wire"
)

// Shell handles interactive mode for gattdecode-shell.
type Shell struct {
	session   *session.Session
	formatter *inspect.Formatter
	rl        *readline.Instance
	out       io.Writer

	// last holds the most recent successful decode for "flags" and "json".
	last *decode.Result
}

// New creates a readline backed shell.
func New(s *session.Session, formatter *inspect.Formatter, historyFile string) (*Shell, error) {
	sh := newShell(s, formatter, nil)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gatt> ",
		HistoryFile:     historyFile,
		AutoComplete:    sh.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	sh.rl = rl
	sh.out = rl.Stdout()
	return sh, nil
}

func newShell(s *session.Session, formatter *inspect.Formatter, out io.Writer) *Shell {
	if formatter == nil {
		formatter = inspect.NewFormatter()
	}
	return &Shell{session: s, formatter: formatter, out: out}
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (sh *Shell) Stdout() io.Writer {
	return sh.rl.Stdout()
}

func (sh *Shell) completer() *readline.PrefixCompleter {
	names := readline.PcItemDynamic(func(string) []string {
		names, err := sh.session.Source.Names()
		if err != nil {
			return nil
		}
		quoted := make([]string, len(names))
		for i, n := range names {
			quoted[i] = strconv.Quote(n)
		}
		return quoted
	})
	return readline.NewPrefixCompleter(
		readline.PcItem("decode", names),
		readline.PcItem("show", names),
		readline.PcItem("encode", names),
		readline.PcItem("list"),
		readline.PcItem("uuid"),
		readline.PcItem("unpack"),
		readline.PcItem("float"),
		readline.PcItem("sfloat"),
		readline.PcItem("flags"),
		readline.PcItem("json"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Run starts the interactive command loop.
func (sh *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer sh.rl.Close()

	sh.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := sh.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(sh.out, "Exiting...")
			cancel()
			return
		}

		if !sh.Exec(line) {
			fmt.Fprintln(sh.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Exec runs one command line. It returns false when the shell should exit.
func (sh *Shell) Exec(line string) bool {
	parts, err := splitArgs(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return true
	}
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		sh.printHelp()
	case "decode", "d":
		sh.cmdDecode(args)
	case "show", "s":
		sh.cmdShow(args)
	case "list", "ls":
		sh.cmdList()
	case "encode", "e":
		sh.cmdEncode(args)
	case "unpack", "u":
		sh.cmdUnpack(args)
	case "float":
		sh.cmdFloat(args, false)
	case "sfloat":
		sh.cmdFloat(args, true)
	case "uuid":
		sh.cmdUUID(args)
	case "flags":
		sh.cmdFlags()
	case "json":
		sh.cmdJSON()
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(sh.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (sh *Shell) printHelp() {
	fmt.Fprintln(sh.out, `
gattdecode Shell Commands:
  Decoding:
    decode <char> <hex>          - Decode a raw value
    flags                        - Show the Flags bits of the last decode
    json                         - Show the last decode as JSON
    unpack <format> <hex>        - Unpack a composite format (e.g. "uint8 SFLOAT")

  Definitions:
    list                         - List known characteristics
    show <char>                  - Show the field layout of a characteristic
    uuid <char|uuid>             - Resolve a characteristic name or UUID

  Encoding:
    encode <char> [flags=<n>] <field>=<value>...
                                 - Build a raw value from field values
    float <value> <precision>    - Encode an IEEE-11073 32-bit FLOAT
    sfloat <value> <precision>   - Encode an IEEE-11073 16-bit SFLOAT
    float <hex> / sfloat <hex>   - Decode a FLOAT or SFLOAT

  Other:
    help                         - Show this help
    quit                         - Exit

Names containing spaces must be quoted: decode "Heart Rate Measurement" 064a`)
}

func (sh *Shell) cmdDecode(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(sh.out, "Usage: decode <char> <hex>")
		return
	}
	data, err := inspect.ParseHex(strings.Join(args[1:], " "))
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	res, err := sh.session.Decoder.Decode(args[0], data)
	if err != nil {
		fmt.Fprintf(sh.out, "Error (%s): %v\n", decode.ErrorKind(err), err)
		return
	}
	sh.last = res
	fmt.Fprint(sh.out, sh.formatter.FormatResult(res))
	if sh.formatter.OneLine {
		fmt.Fprintln(sh.out)
	}
}

func (sh *Shell) cmdFlags() {
	if sh.last == nil {
		fmt.Fprintln(sh.out, "Nothing decoded yet")
		return
	}
	if len(sh.last.Flags) == 0 {
		fmt.Fprintf(sh.out, "%s has no Flags field\n", sh.last.Characteristic)
		return
	}
	fmt.Fprintln(sh.out, sh.formatter.FormatFlags(sh.last.Flags))
}

func (sh *Shell) cmdJSON() {
	if sh.last == nil {
		fmt.Fprintln(sh.out, "Nothing decoded yet")
		return
	}
	data, err := sh.last.MarshalJSON()
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.out, "%s\n", data)
}

func (sh *Shell) cmdShow(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, "Usage: show <char>")
		return
	}
	c, err := sh.session.Registry.Lookup(args[0])
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.out, "%s", c.Name)
	if c.UUID != "" {
		fmt.Fprintf(sh.out, " (0x%s)", strings.ToUpper(c.UUID))
	}
	fmt.Fprintln(sh.out)
	if c.Abstract != "" {
		fmt.Fprintln(sh.out, sh.formatter.Indent(1, c.Abstract))
	}
	fmt.Fprint(sh.out, sh.formatter.FormatFieldTable(inspect.FieldRows(c)))
}

func (sh *Shell) cmdList() {
	names, err := sh.session.Source.Names()
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	for _, name := range names {
		fmt.Fprintln(sh.out, sh.formatter.Indent(1, name))
	}
	fmt.Fprintf(sh.out, "%d characteristics\n", len(names))
}

func (sh *Shell) cmdEncode(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(sh.out, "Usage: encode <char> [flags=<n>] <field>=<value>...")
		return
	}
	c, err := sh.session.Registry.Lookup(args[0])
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}

	var flags uint64
	assignments := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		if v, ok := strings.CutPrefix(a, "flags="); ok {
			if flags, err = inspect.ParseUint(v); err != nil {
				fmt.Fprintf(sh.out, "Error: %v\n", err)
				return
			}
			continue
		}
		assignments = append(assignments, a)
	}
	values, err := inspect.ParseAssignments(assignments)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}

	data, err := sh.session.Decoder.Encode(c, flags, values)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(sh.out, inspect.FormatHex(data))
}

func (sh *Shell) cmdUnpack(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(sh.out, "Usage: unpack <format> <hex>")
		return
	}
	format, err := wire.ParseFormat(args[0])
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	data, err := inspect.ParseHex(strings.Join(args[1:], " "))
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	values, err := wire.Unpack(format, data)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	for i, v := range values {
		fmt.Fprintln(sh.out, sh.formatter.Indent(1, fmt.Sprintf("%s: %s", format[i], sh.formatter.FormatValue(v, ""))))
	}
}

func (sh *Shell) cmdFloat(args []string, short bool) {
	name, size := "FLOAT", ieee11073.FloatSize
	if short {
		name, size = "SFLOAT", ieee11073.SFloatSize
	}

	switch len(args) {
	case 1:
		data, err := inspect.ParseHex(args[0])
		if err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
			return
		}
		if len(data) != size {
			fmt.Fprintf(sh.out, "Error: %s needs %d bytes, got %d\n", name, size, len(data))
			return
		}
		var v ieee11073.Value
		if short {
			v, err = ieee11073.DecodeSFloat(data)
		} else {
			v, err = ieee11073.DecodeFloat(data)
		}
		if err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintln(sh.out, v.String())

	case 2:
		data, err := encodeFloat(args[0], args[1], short)
		if err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintln(sh.out, inspect.FormatHex(data))

	default:
		fmt.Fprintf(sh.out, "Usage: %s <value> <precision> | %s <hex>\n", strings.ToLower(name), strings.ToLower(name))
	}
}

func encodeFloat(value, precision string, short bool) ([]byte, error) {
	if s, ok := ieee11073.ParseSpecial(value); ok {
		if short {
			return ieee11073.EncodeSFloatSpecial(s)
		}
		return ieee11073.EncodeFloatSpecial(s)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q", value)
	}
	p, err := strconv.Atoi(precision)
	if err != nil {
		return nil, fmt.Errorf("invalid precision %q", precision)
	}
	if short {
		return ieee11073.EncodeSFloat(v, p)
	}
	return ieee11073.EncodeFloat(v, p)
}

func (sh *Shell) cmdUUID(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, "Usage: uuid <char|uuid>")
		return
	}
	if u, err := gattuuid.Normalize(args[0]); err == nil {
		name, ok := gattuuid.Name(u)
		if !ok {
			name = "(unknown)"
		}
		fmt.Fprintf(sh.out, "%s %s\n", u, name)
		return
	}
	short, ok := gattuuid.Lookup(args[0])
	if !ok {
		fmt.Fprintf(sh.out, "Unknown characteristic: %s\n", args[0])
		return
	}
	u, _ := gattuuid.Normalize(short)
	fmt.Fprintf(sh.out, "%s 0x%s\n", u, short)
}

// splitArgs splits a command line at spaces, keeping double-quoted
// sections together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case (r == ' ' || r == '\t') && !quoted:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if started {
		args = append(args, current.String())
	}
	return args, nil
}
