package config

import (
	"fmt"
	"os"

	"github.com/leandrodaf/gorzone/internal/zone"
	"github.com/leandrodaf/gorzone/sdk/contracts"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Output port name; empty selects the first port
	Port string `yaml:"port,omitempty"`

	// Backend: rtmidi, native, coremidi, winmm or fake
	Transport string `yaml:"transport"`

	// Control surface: cc or sysex
	Protocol string `yaml:"protocol"`

	// Instrument model: go-piano or go-keys
	Model string `yaml:"model"`

	// Capacity of the inbound message channel
	InboundBuffer int `yaml:"inbound_buffer"`

	Log LogConfig `yaml:"log"`

	// Split used by the split command
	Split SplitConfig `yaml:"split"`
}

// LogConfig represents logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// SplitConfig represents a two-zone split
type SplitConfig struct {
	Lower       contracts.Patch `yaml:"lower"`
	Upper       contracts.Patch `yaml:"upper"`
	SplitPoint  int             `yaml:"split_point"`
	LowerOctave *int            `yaml:"lower_octave,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Transport:     string(contracts.TransportRtMidi),
		Protocol:      string(contracts.ProtocolCC),
		Model:         "go-piano",
		InboundBuffer: 64,
		Log: LogConfig{
			Level: "info",
		},
		Split: SplitConfig{
			Lower:      contracts.Patch{BankMSB: 0, BankLSB: 68, Program: 0},
			Upper:      contracts.Patch{BankMSB: 16, BankLSB: 67, Program: 0},
			SplitPoint: 54,
		},
	}
}

// LoadConfig loads configuration from file. Keys missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Options converts the configuration into session options
func (c *Config) Options() ([]contracts.Option, error) {
	model, ok := contracts.ParseModel(c.Model)
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", c.Model)
	}

	opts := []contracts.Option{
		contracts.WithModel(model),
		contracts.WithLogLevel(contracts.ParseLogLevel(c.Log.Level)),
		contracts.WithInboundBuffer(c.InboundBuffer),
	}
	if c.Transport != "" {
		opts = append(opts, contracts.WithTransport(contracts.TransportKind(c.Transport)))
	}
	if c.Protocol != "" {
		opts = append(opts, contracts.WithProtocol(contracts.Protocol(c.Protocol)))
	}
	if c.Log.File != "" {
		opts = append(opts, contracts.WithLogFile(c.Log.File))
	}
	return opts, nil
}

// SplitSetup returns the split in the form the SysEx controller takes
func (c *Config) SplitSetup() zone.SplitConfig {
	return zone.SplitConfig{
		Lower:       c.Split.Lower,
		Upper:       c.Split.Upper,
		SplitPoint:  c.Split.SplitPoint,
		LowerOctave: c.Split.LowerOctave,
	}
}
