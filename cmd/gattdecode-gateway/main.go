// Command gattdecode-gateway connects to a Bluetooth LE peripheral, follows
// the configured characteristics and decodes every value it reads or is
// notified of. Decoded values are logged and optionally published to MQTT.
//
// Usage:
//
//	gattdecode-gateway [flags]
//
// Flags:
//
//	-config string      Configuration file path
//	-device string      Peripheral address (overrides ble.device)
//	-adapter string     HCI adapter (overrides ble.adapter, Linux only)
//	-scan               Scan for peripherals and exit
//	-explore            Read and decode every characteristic once and exit
//	-watch string       Characteristic to follow, repeatable ("2A37", "Battery Level:read:30s")
//	-mqtt               Publish decoded values to the configured broker
//	-trace string       Append decode trace events to this file
//	-log-level string   Log level: debug, info, warn, error
//	-log-format string  Log format: text, json
//
// Examples:
//
//	# Find nearby heart rate sensors
//	gattdecode-gateway -scan
//
//	# Dump everything a peripheral exposes
//	gattdecode-gateway -device AA:BB:CC:DD:EE:FF -explore
//
//	# Follow heart rate notifications and poll the battery every minute
//	gattdecode-gateway -device AA:BB:CC:DD:EE:FF -watch 2A37 -watch "Battery Level:read:1m"
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gattdecode/gattdecode-go/internal/ble"
	"github.com/gattdecode/gattdecode-go/internal/config"
	"github.com/gattdecode/gattdecode-go/internal/logging"
	"github.com/gattdecode/gattdecode-go/internal/mqtt"
	"github.com/gattdecode/gattdecode-go/internal/session"
)

// watchFlags collects repeated -watch flags.
type watchFlags []string

func (w *watchFlags) String() string { return strings.Join(*w, ",") }

func (w *watchFlags) Set(v string) error {
	*w = append(*w, v)
	return nil
}

var (
	configFile = flag.String("config", "", "Configuration file path")
	device     = flag.String("device", "", "Peripheral address (overrides ble.device)")
	adapterID  = flag.String("adapter", "", "HCI adapter (overrides ble.adapter, Linux only)")
	scan       = flag.Bool("scan", false, "Scan for peripherals and exit")
	explore    = flag.Bool("explore", false, "Read and decode every characteristic once and exit")
	useMQTT    = flag.Bool("mqtt", false, "Publish decoded values to the configured broker")
	tracePath  = flag.String("trace", "", "Append decode trace events to this file")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFormat  = flag.String("log-format", "", "Log format: text, json")
	watches    watchFlags
)

func main() {
	flag.Var(&watches, "watch", `Characteristic to follow, repeatable ("2A37", "Battery Level:read:30s")`)
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		fatal(err)
	}
	if err := applyFlags(cfg); err != nil {
		fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		fatal(fmt.Errorf("invalid configuration: %w", err))
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fatal(err)
	}
	logger := logging.New(os.Stderr, cfg.LogFormat, level, "gattdecode-gateway")
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("gateway failed", "error", err)
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config) error {
	if *device != "" {
		cfg.BLE.Device = *device
	}
	if *adapterID != "" {
		cfg.BLE.Adapter = *adapterID
	}
	if *useMQTT {
		cfg.MQTT.Enabled = true
	}
	if *tracePath != "" {
		cfg.TracePath = *tracePath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if len(watches) > 0 {
		cfg.BLE.Watch = cfg.BLE.Watch[:0]
		for _, w := range watches {
			wc, err := parseWatch(w)
			if err != nil {
				return err
			}
			cfg.BLE.Watch = append(cfg.BLE.Watch, wc)
		}
	}
	cfg.BLE.Device = normalizeAddress(cfg.BLE.Device)
	return nil
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	adapter := ble.NewTinyGoAdapter(cfg.BLE.Adapter)

	if *scan {
		if err := adapter.Enable(); err != nil {
			return fmt.Errorf("enabling adapter: %w", err)
		}
		scanCtx, cancel := context.WithTimeout(ctx, cfg.BLE.ScanTimeout)
		defer cancel()
		logger.Info("scanning", "timeout", cfg.BLE.ScanTimeout)
		devices, err := adapter.Scan(scanCtx, "")
		if err != nil {
			return err
		}
		printDevices(os.Stdout, devices)
		return nil
	}

	if cfg.BLE.Device == "" {
		return fmt.Errorf("no peripheral address: set ble.device or -device")
	}

	s, err := session.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if n := s.Traced(); n > 0 {
			logger.Info("trace written", "path", cfg.TracePath, "events", n)
		}
		s.Close()
	}()
	formatter := session.Formatter(cfg.Output)
	formatter.OneLine = true

	if *explore {
		if err := adapter.Enable(); err != nil {
			return fmt.Errorf("enabling adapter: %w", err)
		}
		connectCtx, cancel := context.WithTimeout(ctx, cfg.BLE.ConnectTimeout)
		defer cancel()
		conn, err := adapter.Connect(connectCtx, cfg.BLE.Device)
		if err != nil {
			return err
		}
		defer conn.Disconnect()
		reports, err := ble.Explore(conn, s.Decoder, cfg.BLE.Device)
		if err != nil {
			return err
		}
		printReports(os.Stdout, reports, formatter)
		return nil
	}

	var pub Publisher
	if cfg.MQTT.Enabled {
		p := mqtt.NewPublisher(cfg.MQTT, logger)
		if err := p.Connect(ctx); err != nil {
			return err
		}
		defer p.Disconnect()
		pub = p
	}

	monitor := ble.NewMonitor(adapter, cfg.BLE.Device, s.Decoder, toWatches(cfg.BLE.Watch), ble.MonitorOptions{
		ConnectTimeout: cfg.BLE.ConnectTimeout,
	})
	monitor.SetLogger(logger)

	logger.Info("gateway started", "device", cfg.BLE.Device, "watches", len(cfg.BLE.Watch), "mqtt", cfg.MQTT.Enabled)
	return monitor.Run(ctx, newHandler(logger, formatter, pub, cfg.MQTT.TopicPrefix))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
