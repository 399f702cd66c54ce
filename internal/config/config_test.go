package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestDefault_MatchesBattlefield(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Rows() != 30 || cfg.Cols() != 40 {
		t.Fatalf("expected a 30x40 grid, got %dx%d", cfg.Rows(), cfg.Cols())
	}
	if cfg.Units.CollisionRadius != float64(cfg.Grid.TileWidth)/2 {
		t.Fatalf("collision radius %.1f should be half a tile", cfg.Units.CollisionRadius)
	}
	if cfg.Deconflict.PerAxis {
		t.Fatal("per-axis rest snapping must be opt-in")
	}
}

func TestParse_OverridesOnlyGivenKeys(t *testing.T) {
	cfg, err := Parse([]byte(`
[units]
speed = 60
max_path_attempts = 5

[deconflict]
per_axis = true
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Units.Speed != 60 || cfg.Units.MaxPathAttempts != 5 || !cfg.Deconflict.PerAxis {
		t.Fatalf("overrides not applied: %+v %+v", cfg.Units, cfg.Deconflict)
	}
	if cfg.Grid.TileWidth != 40 || cfg.Window.Width != 1600 {
		t.Fatal("unspecified keys should keep their defaults")
	}
}

func TestParse_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"zero tile":       "[grid]\ntile_width = 0\n",
		"negative speed":  "[units]\nspeed = -1\n",
		"negative radius": "[units]\ncollision_radius = -3\n",
		"tiny window":     "[window]\nwidth = 10\n",
		"negative probes": "[deconflict]\nmax_probes = -1\n",
	}
	for name, data := range cases {
		_, err := Parse([]byte(data))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestParse_MalformedTOML(t *testing.T) {
	_, err := Parse([]byte("[units\nspeed = "))
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if errors.Is(err, ErrInvalidConfig) {
		t.Fatal("syntax errors should not be reported as validation errors")
	}
}

func TestLoad_MissingFileWrapsNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist in chain, got %v", err)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.toml")
	if err := os.WriteFile(path, []byte("[scenario]\npath = \"scenarios/wall.yaml\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scenario.Path != "scenarios/wall.yaml" {
		t.Fatalf("expected scenario path, got %q", cfg.Scenario.Path)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	log, err := NewLogger(LoggingConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("warn logger should not emit info")
	}

	log, err = NewLogger(LoggingConfig{Level: "bogus", Format: "console"})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	if !log.Core().Enabled(zapcore.InfoLevel) || log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("unknown level should fall back to info")
	}
}
