package scenario

import (
	"github.com/Garsondee/Grid-Command/internal/config"
	"github.com/Garsondee/Grid-Command/internal/game"
)

// Params converts the configured movement constants for the sim.
func Params(cfg *config.Config) game.Params {
	return game.Params{
		Tiles:           game.TileSize{W: cfg.Grid.TileWidth, H: cfg.Grid.TileHeight},
		Speed:           cfg.Units.Speed,
		CollisionRadius: cfg.Units.CollisionRadius,
		AvoidanceWeight: cfg.Units.AvoidanceWeight,
		MaxPathAttempts: cfg.Units.MaxPathAttempts,
		MaxProbes:       cfg.Deconflict.MaxProbes,
		PerAxisSnap:     cfg.Deconflict.PerAxis,
	}
}

// Build creates a sim for the scenario on the configured grid. Scripted
// orders are not applied; front ends issue their own commands.
func Build(cfg *config.Config, scn *Scenario, opts ...game.SimOption) *game.Sim {
	grid := game.NewNavGrid(cfg.Rows(), cfg.Cols(), scn.Blocked())
	sim := game.NewSim(grid, Params(cfg), opts...)
	for _, u := range scn.Units {
		sim.AddUnit(u.X, u.Y)
	}
	return sim
}

// HarnessOptions describes the scenario, scripted orders included, as
// options for game.NewTestSim.
func HarnessOptions(cfg *config.Config, scn *Scenario) []game.HarnessOption {
	p := Params(cfg)
	opts := []game.HarnessOption{
		game.WithMapSize(cfg.Window.Width, cfg.Window.Height),
		game.WithParams(func(dst *game.Params) { *dst = p }),
		game.WithDT(1 / float64(cfg.Window.TPS)),
		game.WithObstacles(scn.Blocked()),
	}
	for _, u := range scn.Units {
		opts = append(opts, game.WithUnit(u.X, u.Y))
	}
	for _, o := range scn.Orders {
		opts = append(opts, game.WithOrder(o.Tick, o.X, o.Y, o.Units...))
	}
	return opts
}
