package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gattdecode/gattdecode-go/internal/ble"
	"github.com/gattdecode/gattdecode-go/internal/config"
	"github.com/gattdecode/gattdecode-go/internal/mqtt"
	"github.com/gattdecode/gattdecode-go/pkg/decode"
	"github.com/gattdecode/gattdecode-go/pkg/gattuuid"
	"github.com/gattdecode/gattdecode-go/pkg/inspect"
)

// Publisher publishes decoded values.
type Publisher interface {
	Publish(msg mqtt.Message) error
}

// parseWatch parses "<characteristic>[:<mode>[:<interval>]]". Names may
// contain spaces; the mode defaults to notify.
func parseWatch(s string) (config.WatchConfig, error) {
	parts := strings.Split(s, ":")
	w := config.WatchConfig{Characteristic: strings.TrimSpace(parts[0]), Mode: "notify"}
	if w.Characteristic == "" {
		return w, fmt.Errorf("invalid watch %q: missing characteristic", s)
	}
	if len(parts) > 3 {
		return w, fmt.Errorf("invalid watch %q", s)
	}
	if len(parts) > 1 {
		w.Mode = strings.ToLower(strings.TrimSpace(parts[1]))
	}
	if len(parts) > 2 {
		d, err := time.ParseDuration(strings.TrimSpace(parts[2]))
		if err != nil {
			return w, fmt.Errorf("invalid watch %q: %w", s, err)
		}
		w.Interval = d
	}
	return w, nil
}

// normalizeAddress rewrites a MAC address written with any case or with
// "-" separators to the upper-case colon form BlueZ reports. Other
// addresses, such as CoreBluetooth UUIDs, are returned unchanged.
func normalizeAddress(addr string) string {
	v, err := inspect.MACToUint64(strings.ReplaceAll(addr, "-", ":"))
	if err != nil {
		return addr
	}
	return inspect.Uint64ToMAC(v)
}

func toWatches(cfg []config.WatchConfig) []ble.Watch {
	out := make([]ble.Watch, 0, len(cfg))
	for _, w := range cfg {
		out = append(out, ble.Watch{
			Service:        w.Service,
			Characteristic: w.Characteristic,
			Notify:         w.Mode == "notify",
			Interval:       w.Interval,
		})
	}
	return out
}

// newHandler returns the update handler of the monitor: every update is
// logged and, with a publisher, published under prefix.
func newHandler(logger *slog.Logger, f *inspect.Formatter, pub Publisher, prefix string) func(ble.Update) {
	return func(u ble.Update) {
		name := u.UUID
		if n, ok := gattuuid.Name(u.UUID); ok {
			name = n
		}
		if u.Err != nil {
			logger.Warn("value not decoded",
				"device", u.Address,
				"characteristic", name,
				"origin", u.Origin,
				"raw", inspect.FormatHex(u.Data),
				"kind", decode.ErrorKind(u.Err),
				"error", u.Err)
		} else {
			logger.Info("value",
				"device", u.Address,
				"characteristic", name,
				"origin", u.Origin,
				"fields", f.FormatResult(&decode.Result{Fields: u.Result.Fields}))
		}

		if pub == nil {
			return
		}
		msg, err := mqtt.NewMessage(u.Address, u.UUID, u.Origin, u.Data, u.Result, u.Err, u.At)
		if err != nil {
			logger.Error("building message", "characteristic", name, "error", err)
			return
		}
		if err := pub.Publish(msg); err != nil {
			logger.Warn("publish failed", "topic", mqtt.Topic(prefix, u.Address, u.UUID), "error", err)
		}
	}
}

func printDevices(w io.Writer, devices []ble.Device) {
	if len(devices) == 0 {
		fmt.Fprintln(w, "No peripherals found")
		return
	}
	for _, d := range devices {
		name := d.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(w, "%s  %4d dBm  %s\n", d.Address, d.RSSI, name)
	}
}

func printReports(w io.Writer, reports []ble.ServiceReport, f *inspect.Formatter) {
	for _, svc := range reports {
		fmt.Fprintf(w, "Service %s\n", svc.UUID)
		for _, c := range svc.Characteristics {
			label := c.UUID
			if short, ok := gattuuid.Short(c.UUID); ok {
				label = "0x" + short
			}
			if c.Name != "" {
				label += " " + c.Name
			}

			switch {
			case c.ReadErr != nil:
				fmt.Fprintln(w, f.Indent(1, fmt.Sprintf("%s: not readable (%v)", label, c.ReadErr)))
			case c.Result != nil:
				fmt.Fprintln(w, f.Indent(1, fmt.Sprintf("%s: %s", label, f.FormatResult(&decode.Result{Fields: c.Result.Fields}))))
			case c.DecodeErr != nil:
				fmt.Fprintln(w, f.Indent(1, fmt.Sprintf("%s: %s (%v)", label, inspect.FormatHex(c.Data), c.DecodeErr)))
			default:
				fmt.Fprintln(w, f.Indent(1, fmt.Sprintf("%s: %s", label, inspect.FormatHex(c.Data))))
			}
		}
	}
}
