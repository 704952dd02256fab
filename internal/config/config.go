// Package config loads the YAML configuration shared by the gattdecode
// command line tools.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// DefinitionsDir is a directory of characteristic definitions. Empty
	// selects the bundled set.
	DefinitionsDir    string       `yaml:"definitions_dir"`
	MaxReferenceDepth int          `yaml:"max_reference_depth"`
	Output            OutputConfig `yaml:"output"`
	TracePath         string       `yaml:"trace_path"`
	LogLevel          string       `yaml:"log_level"`
	LogFormat         string       `yaml:"log_format"` // "text" or "json"
	BLE               BLEConfig    `yaml:"ble"`
	MQTT              MQTTConfig   `yaml:"mqtt"`
}

// OutputConfig holds result formatting settings.
type OutputConfig struct {
	Format  string `yaml:"format"` // "text", "json" or "cbor"
	OneLine bool   `yaml:"one_line"`
	Symbols bool   `yaml:"symbols"`
	Flags   bool   `yaml:"flags"`
}

// BLEConfig holds live peripheral settings.
type BLEConfig struct {
	Adapter        string        `yaml:"adapter"`
	Device         string        `yaml:"device"`
	ScanTimeout    time.Duration `yaml:"scan_timeout"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	Watch          []WatchConfig `yaml:"watch"`
}

// WatchConfig selects one characteristic to read or subscribe to.
type WatchConfig struct {
	Service        string        `yaml:"service"`
	Characteristic string        `yaml:"characteristic"`
	Mode           string        `yaml:"mode"` // "read" or "notify"
	Interval       time.Duration `yaml:"interval"`
}

// MQTTConfig holds reading publication settings.
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	Port        int    `yaml:"port"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
	Retain      bool   `yaml:"retain"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gattdecode")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		MaxReferenceDepth: 8,
		Output: OutputConfig{
			Format:  "text",
			Symbols: true,
		},
		LogLevel:  "info",
		LogFormat: "text",
		BLE: BLEConfig{
			Adapter:        "hci0",
			ScanTimeout:    10 * time.Second,
			ConnectTimeout: 15 * time.Second,
		},
		MQTT: MQTTConfig{
			Broker:      "localhost",
			Port:        1883,
			ClientID:    "gattdecode-gateway",
			TopicPrefix: "gattdecode",
			QoS:         1,
		},
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. Tilde (~) in paths is expanded to the user's home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML config data on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.DefinitionsDir = expandTilde(cfg.DefinitionsDir)
	cfg.TracePath = expandTilde(cfg.TracePath)
	for i := range cfg.BLE.Watch {
		if cfg.BLE.Watch[i].Mode == "" {
			cfg.BLE.Watch[i].Mode = "notify"
		}
	}

	return cfg, nil
}

// LoadOrDefault loads path when it exists. A missing file at the default
// location yields the defaults; a missing explicit file is an error.
func LoadOrDefault(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	cfg, err := Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.MaxReferenceDepth <= 0 {
		return fmt.Errorf("max_reference_depth must be > 0")
	}

	switch c.Output.Format {
	case "text", "json", "cbor":
	default:
		return fmt.Errorf("output.format must be text, json, or cbor, got %q", c.Output.Format)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be \"text\" or \"json\", got %q", c.LogFormat)
	}

	for i, w := range c.BLE.Watch {
		if w.Characteristic == "" {
			return fmt.Errorf("ble.watch[%d].characteristic must not be empty", i)
		}
		switch w.Mode {
		case "notify":
		case "read":
			if w.Interval <= 0 {
				return fmt.Errorf("ble.watch[%d].interval must be > 0 in read mode", i)
			}
		default:
			return fmt.Errorf("ble.watch[%d].mode must be \"read\" or \"notify\", got %q", i, w.Mode)
		}
	}

	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker must not be empty")
		}
		if c.MQTT.Port <= 0 || c.MQTT.Port > 65535 {
			return fmt.Errorf("mqtt.port must be between 1 and 65535, got %d", c.MQTT.Port)
		}
		if c.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos must be 0, 1, or 2, got %d", c.MQTT.QoS)
		}
	}

	return nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
