package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/Garsondee/Grid-Command/internal/config"
	"github.com/Garsondee/Grid-Command/internal/game"
	"github.com/Garsondee/Grid-Command/internal/scenario"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfgPath, scnPath string
	var watch bool
	flag.StringVar(&cfgPath, "config", "config/grid.toml", "TOML config file (defaults are used if it does not exist)")
	flag.StringVar(&scnPath, "scenario", "", "YAML scenario file (overrides [scenario] path)")
	flag.BoolVar(&watch, "watch", false, "restart the run whenever the scenario file changes")
	flag.Parse()

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if scnPath == "" {
		scnPath = cfg.Scenario.Path
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	scn, err := loadScenario(scnPath)
	if err != nil {
		return err
	}
	sim := scenario.Build(cfg, scn, game.WithLogger(log))
	log.Info("scenario loaded",
		zap.String("name", scn.Name),
		zap.Int("units", sim.UnitCount()),
		zap.Int("blocked", sim.Grid().BlockedCount()),
		zap.Int("rows", sim.Grid().Rows()),
		zap.Int("cols", sim.Grid().Cols()))

	g := game.New(sim, cfg.Window.Width, cfg.Window.Height, log)

	if watch && scnPath != "" {
		w, err := scenario.NewWatcher(scnPath)
		if err != nil {
			return fmt.Errorf("watch scenario %s: %w", scnPath, err)
		}
		defer w.Close()
		go restartOnChange(w, cfg, g, log)
	}

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetTPS(cfg.Window.TPS)
	return ebiten.RunGame(g)
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		return scenario.Default(), nil
	}
	return scenario.Load(path)
}

// restartOnChange rebuilds the sim from the scenario file after every write.
// A file that fails to load leaves the current run in place.
func restartOnChange(w *scenario.Watcher, cfg *config.Config, g *game.Game, log *zap.Logger) {
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			scn, err := scenario.Load(name)
			if err != nil {
				log.Warn("scenario reload failed", zap.Error(err))
				continue
			}
			g.Restart(scenario.Build(cfg, scn, game.WithLogger(log)))
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn("scenario watcher", zap.Error(err))
		}
	}
}
