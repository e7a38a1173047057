package server

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/ttu-cr-stl/poker-bot-arena/internal/game"
)

// Config is the server configuration, loadable from an HCL file and
// overridable from the command line.
type Config struct {
	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`

	// ManualControl disables the turn timer; an operator advances stalled
	// turns with skip commands.
	ManualControl bool `hcl:"manual_control,optional"`

	// PresentationDelayMS paces event delivery to presentation-mode
	// spectators.
	PresentationDelayMS int `hcl:"presentation_delay_ms,optional"`

	Table *TableBlock `hcl:"table,block"`
}

// TableBlock overrides individual table parameters.
type TableBlock struct {
	Variant       *string `hcl:"variant,optional"`
	Seats         *int    `hcl:"seats,optional"`
	StartingStack *int    `hcl:"starting_stack,optional"`
	SmallBlind    *int    `hcl:"sb,optional"`
	BigBlind      *int    `hcl:"bb,optional"`
	MoveTimeMS    *int    `hcl:"move_time_ms,optional"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Host:                "0.0.0.0",
		Port:                8080,
		LogLevel:            "info",
		PresentationDelayMS: 600,
	}
}

// LoadConfig parses an HCL configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return cfg, fmt.Errorf("parsing %s: %s", path, diags.Error())
	}
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return cfg, fmt.Errorf("decoding %s: %s", path, diags.Error())
	}
	return cfg, nil
}

// TableConfig resolves the effective table parameters.
func (c Config) TableConfig() game.TableConfig {
	tc := game.DefaultConfig()
	if t := c.Table; t != nil {
		if t.Variant != nil {
			tc.Variant = *t.Variant
		}
		if t.Seats != nil {
			tc.Seats = *t.Seats
		}
		if t.StartingStack != nil {
			tc.StartingStack = *t.StartingStack
		}
		if t.SmallBlind != nil {
			tc.SmallBlind = *t.SmallBlind
		}
		if t.BigBlind != nil {
			tc.BigBlind = *t.BigBlind
		}
		if t.MoveTimeMS != nil {
			tc.MoveTimeMS = *t.MoveTimeMS
		}
	}
	return tc
}

// Validate checks the server and table parameters together.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.PresentationDelayMS < 0 {
		return fmt.Errorf("presentation delay must not be negative, got %d", c.PresentationDelayMS)
	}
	return c.TableConfig().Validate()
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
