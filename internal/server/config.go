package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/mmai/thevalley/internal/game"
)

// Config represents the complete server configuration
type Config struct {
	Server   ServerSettings  `hcl:"server,block"`
	Variants []VariantConfig `hcl:"variant,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address       string `hcl:"address,optional"`
	Port          int    `hcl:"port,optional"`
	LogLevel      string `hcl:"log_level,optional"`
	RoomIdleMins  int    `hcl:"room_idle_minutes,optional"`
	ReapIntervalS int    `hcl:"reap_interval_seconds,optional"`
	TurnTimeoutS  int    `hcl:"turn_timeout_seconds,optional"`
}

// VariantConfig defines a named table variant players can create rooms with
type VariantConfig struct {
	Name      string `hcl:"name,label"`
	SeatCount int    `hcl:"seat_count"`
	HandSize  int    `hcl:"hand_size,optional"`
	Default   bool   `hcl:"default,optional"`
}

// Variant converts the block into an engine variant
func (vc VariantConfig) Variant() game.Variant {
	return game.Variant{SeatCount: vc.SeatCount, HandSize: vc.HandSize}
}

// DefaultConfig returns the default server configuration: the classic
// two-player valley on the usual port
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:       "localhost",
			Port:          8080,
			LogLevel:      "info",
			RoomIdleMins:  30,
			ReapIntervalS: 60,
			TurnTimeoutS:  120,
		},
		Variants: []VariantConfig{
			{Name: "classic", SeatCount: 2, HandSize: 10, Default: true},
		},
	}
}

// LoadConfig loads server configuration from an HCL file, falling back
// to defaults when the file does not exist
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.RoomIdleMins == 0 {
		config.Server.RoomIdleMins = 30
	}
	if config.Server.ReapIntervalS == 0 {
		config.Server.ReapIntervalS = 60
	}
	if config.Server.TurnTimeoutS == 0 {
		config.Server.TurnTimeoutS = 120
	}
	if len(config.Variants) == 0 {
		config.Variants = DefaultConfig().Variants
	}
	for i := range config.Variants {
		if config.Variants[i].HandSize == 0 {
			config.Variants[i].HandSize = 10
		}
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if len(c.Variants) == 0 {
		return fmt.Errorf("at least one variant must be configured")
	}

	defaults := 0
	for _, vc := range c.Variants {
		if err := vc.Variant().Validate(); err != nil {
			return fmt.Errorf("variant %s: %w", vc.Name, err)
		}
		if vc.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("only one variant may be marked default, found %d", defaults)
	}
	return nil
}

// DefaultVariant returns the variant rooms are created with when the
// client does not pick one
func (c *Config) DefaultVariant() game.Variant {
	for _, vc := range c.Variants {
		if vc.Default {
			return vc.Variant()
		}
	}
	return c.Variants[0].Variant()
}

// VariantByName returns a named variant block
func (c *Config) VariantByName(name string) (VariantConfig, bool) {
	for _, vc := range c.Variants {
		if vc.Name == name {
			return vc, true
		}
	}
	return VariantConfig{}, false
}

// ListenAddress returns the full listen address
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// RoomIdleTimeout returns how long a room may sit empty before reaping
func (c *Config) RoomIdleTimeout() time.Duration {
	return time.Duration(c.Server.RoomIdleMins) * time.Minute
}

// ReapInterval returns how often the room reaper runs
func (c *Config) ReapInterval() time.Duration {
	return time.Duration(c.Server.ReapIntervalS) * time.Second
}

// TurnTimeout returns how long the active seat may sit on a turn
// before a reminder is pushed. A negative setting disables reminders.
func (c *Config) TurnTimeout() time.Duration {
	if c.Server.TurnTimeoutS < 0 {
		return 0
	}
	return time.Duration(c.Server.TurnTimeoutS) * time.Second
}
