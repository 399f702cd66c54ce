package scenario

import (
	"errors"
	"fmt"
	"os"

	"github.com/Garsondee/Grid-Command/internal/game"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario is wrapped by every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is the starting layout of a run: obstacles, units, and the move
// orders the headless tools issue on a schedule.
type Scenario struct {
	Name          string     `yaml:"name"`
	Obstacles     [][2]int   `yaml:"obstacles"` // [row, col]
	ObstacleRects []RectSpec `yaml:"obstacle_rects"`
	Units         []UnitSpec `yaml:"units"`
	Orders        []Order    `yaml:"orders"`
}

// RectSpec is a filled block of obstacle cells.
type RectSpec struct {
	Row  int `yaml:"row"`
	Col  int `yaml:"col"`
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// UnitSpec places one unit in pixel space.
type UnitSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Order moves a set of units to a pixel-space point at a given tick.
type Order struct {
	Tick  int     `yaml:"tick"`
	Units []int   `yaml:"units"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

// Default returns the built-in layout: two units and an open field.
func Default() *Scenario {
	return &Scenario{
		Name: "default",
		Units: []UnitSpec{
			{X: 200, Y: 200},
			{X: 300, Y: 300},
		},
	}
}

// Load reads and validates a YAML scenario file.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	scn, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return scn, nil
}

// Parse decodes and validates YAML scenario data.
func Parse(raw []byte) (*Scenario, error) {
	var scn Scenario
	if err := yaml.Unmarshal(raw, &scn); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := scn.Validate(); err != nil {
		return nil, err
	}
	return &scn, nil
}

// Validate checks rectangles and order references.
func (s *Scenario) Validate() error {
	for i, r := range s.ObstacleRects {
		if r.Rows < 0 || r.Cols < 0 {
			return fmt.Errorf("%w: obstacle_rects[%d] has negative size %dx%d", ErrInvalidScenario, i, r.Rows, r.Cols)
		}
	}
	for i, o := range s.Orders {
		if o.Tick < 0 {
			return fmt.Errorf("%w: orders[%d] has negative tick %d", ErrInvalidScenario, i, o.Tick)
		}
		if len(o.Units) == 0 {
			return fmt.Errorf("%w: orders[%d] names no units", ErrInvalidScenario, i)
		}
		for _, id := range o.Units {
			if id < 0 || id >= len(s.Units) {
				return fmt.Errorf("%w: orders[%d] references unknown unit %d", ErrInvalidScenario, i, id)
			}
		}
	}
	return nil
}

// Blocked flattens single cells and rectangles into one cell list.
func (s *Scenario) Blocked() []game.Cell {
	var cells []game.Cell
	for _, c := range s.Obstacles {
		cells = append(cells, game.Cell{Row: c[0], Col: c[1]})
	}
	for _, r := range s.ObstacleRects {
		for row := r.Row; row < r.Row+r.Rows; row++ {
			for col := r.Col; col < r.Col+r.Cols; col++ {
				cells = append(cells, game.Cell{Row: row, Col: col})
			}
		}
	}
	return cells
}
