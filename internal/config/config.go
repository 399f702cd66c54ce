package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Window     WindowConfig     `toml:"window"`
	Grid       GridConfig       `toml:"grid"`
	Units      UnitsConfig      `toml:"units"`
	Deconflict DeconflictConfig `toml:"deconflict"`
	Logging    LoggingConfig    `toml:"logging"`
	Scenario   ScenarioConfig   `toml:"scenario"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	TPS    int    `toml:"tps"`
}

type GridConfig struct {
	TileWidth  int `toml:"tile_width"`
	TileHeight int `toml:"tile_height"`
}

type UnitsConfig struct {
	Speed           float64 `toml:"speed"`            // pixels per second
	CollisionRadius float64 `toml:"collision_radius"` // pixels
	AvoidanceWeight float64 `toml:"avoidance_weight"`
	MaxPathAttempts int     `toml:"max_path_attempts"` // 0 = retry forever
}

type DeconflictConfig struct {
	MaxProbes int  `toml:"max_probes"` // 0 = unbounded
	PerAxis   bool `toml:"per_axis"`   // snap y from y instead of x
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ScenarioConfig struct {
	Path string `toml:"path"` // empty = built-in scenario
}

// Load reads a TOML config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1600,
			Height: 1200,
			Title:  "TDB RTS GAME",
			TPS:    120,
		},
		Grid: GridConfig{
			TileWidth:  40,
			TileHeight: 40,
		},
		Units: UnitsConfig{
			Speed:           120, // 1px per tick at 120 TPS
			CollisionRadius: 20,  // half a tile
			AvoidanceWeight: 0.5,
		},
		Deconflict: DeconflictConfig{
			MaxProbes: 64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Grid.TileWidth <= 0 || c.Grid.TileHeight <= 0:
		return fmt.Errorf("%w: tile size %dx%d must be positive", ErrInvalidConfig, c.Grid.TileWidth, c.Grid.TileHeight)
	case c.Window.Width < c.Grid.TileWidth || c.Window.Height < c.Grid.TileHeight:
		return fmt.Errorf("%w: window %dx%d is smaller than one tile", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Window.TPS <= 0:
		return fmt.Errorf("%w: tps %d must be positive", ErrInvalidConfig, c.Window.TPS)
	case c.Units.Speed <= 0:
		return fmt.Errorf("%w: unit speed %.2f must be positive", ErrInvalidConfig, c.Units.Speed)
	case c.Units.CollisionRadius < 0:
		return fmt.Errorf("%w: collision radius %.2f is negative", ErrInvalidConfig, c.Units.CollisionRadius)
	case c.Units.MaxPathAttempts < 0:
		return fmt.Errorf("%w: max_path_attempts %d is negative", ErrInvalidConfig, c.Units.MaxPathAttempts)
	case c.Deconflict.MaxProbes < 0:
		return fmt.Errorf("%w: max_probes %d is negative", ErrInvalidConfig, c.Deconflict.MaxProbes)
	}
	return nil
}

// Rows returns the number of grid rows covering the window.
func (c *Config) Rows() int { return c.Window.Height / c.Grid.TileHeight }

// Cols returns the number of grid columns covering the window.
func (c *Config) Cols() int { return c.Window.Width / c.Grid.TileWidth }
