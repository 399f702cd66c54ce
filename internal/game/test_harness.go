package game

import "go.uber.org/zap"

// ScriptedOrder is a move command issued at a fixed tick.
type ScriptedOrder struct {
	Tick  int
	Units []int
	X, Y  float64
}

// TestSim is a headless simulation harness used by tests and the headless
// report. It drives a Sim at a fixed dt with no Ebiten dependency and issues
// scripted orders at their ticks.
type TestSim struct {
	Width  int
	Height int
	DT     float64
	Params Params
	Sim    *Sim
	SimLog *SimLog
	Tick   int

	obstacles []Cell
	orders    []ScriptedOrder
	logger    *zap.Logger
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // map size, tiles, obstacles, params, applied first
	simOptUnit                       // add units, applied after the sim is built
	simOptOrder                      // selections and scripted orders, applied last
)

// HarnessOption is a builder function applied to a TestSim during construction.
type HarnessOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithMapSize sets the playfield dimensions in pixels.
func WithMapSize(w, h int) HarnessOption {
	return HarnessOption{simOptInfra, func(ts *TestSim) {
		ts.Width = w
		ts.Height = h
	}}
}

// WithTileSize sets the tile dimensions in pixels.
func WithTileSize(w, h int) HarnessOption {
	return HarnessOption{simOptInfra, func(ts *TestSim) {
		ts.Params.Tiles = TileSize{W: w, H: h}
	}}
}

// WithObstacle blocks a single cell.
func WithObstacle(row, col int) HarnessOption {
	return HarnessOption{simOptInfra, func(ts *TestSim) {
		ts.obstacles = append(ts.obstacles, Cell{Row: row, Col: col})
	}}
}

// WithObstacles blocks every listed cell.
func WithObstacles(cells []Cell) HarnessOption {
	return HarnessOption{simOptInfra, func(ts *TestSim) {
		ts.obstacles = append(ts.obstacles, cells...)
	}}
}

// WithParams adjusts the movement constants.
func WithParams(fn func(*Params)) HarnessOption {
	return HarnessOption{simOptInfra, func(ts *TestSim) {
		fn(&ts.Params)
	}}
}

// WithDT sets the fixed tick length in seconds.
func WithDT(dt float64) HarnessOption {
	return HarnessOption{simOptInfra, func(ts *TestSim) {
		ts.DT = dt
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) HarnessOption {
	return HarnessOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithHarnessLogger routes sim diagnostics to l.
func WithHarnessLogger(l *zap.Logger) HarnessOption {
	return HarnessOption{simOptInfra, func(ts *TestSim) {
		ts.logger = l
	}}
}

// WithUnit adds an idle unit at (x, y). Units are numbered in the order added.
func WithUnit(x, y float64) HarnessOption {
	return HarnessOption{simOptUnit, func(ts *TestSim) {
		ts.Sim.AddUnit(x, y)
	}}
}

// WithSelection selects units by ID before the first tick.
func WithSelection(ids ...int) HarnessOption {
	return HarnessOption{simOptOrder, func(ts *TestSim) {
		ts.Sim.Select(ids...)
	}}
}

// WithOrder schedules a move command for the given units at tick.
func WithOrder(tick int, x, y float64, ids ...int) HarnessOption {
	return HarnessOption{simOptOrder, func(ts *TestSim) {
		ts.orders = append(ts.orders, ScriptedOrder{Tick: tick, Units: ids, X: x, Y: y})
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (map size, tiles, obstacles, params, dt, verbose)
//  2. Build NavGrid and Sim
//  3. Units
//  4. Selection and scripted orders
func NewTestSim(opts ...HarnessOption) *TestSim {
	ts := &TestSim{
		Width:  1600,
		Height: 1200,
		DT:     1.0 / 120,
		Params: DefaultParams(),
		SimLog: NewSimLog(false),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	grid := NewNavGridForMap(ts.Width, ts.Height, ts.Params.Tiles, ts.obstacles)
	ts.Sim = NewSim(grid, ts.Params, WithEventLog(ts.SimLog), WithLogger(ts.logger))
	for _, o := range opts {
		if o.kind == simOptUnit {
			o.fn(ts)
		}
	}
	for _, o := range opts {
		if o.kind == simOptOrder {
			o.fn(ts)
		}
	}
	return ts
}

// issueOrders applies every scripted order due at the current tick. Orders
// land between ticks, before the sim advances.
func (ts *TestSim) issueOrders() {
	for _, o := range ts.orders {
		if o.Tick != ts.Tick {
			continue
		}
		for _, id := range o.Units {
			ts.Sim.SetDestination(id, o.X, o.Y)
		}
	}
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.issueOrders()
		ts.Tick++
		ts.Sim.Tick(ts.DT)
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.RunTicks(1)
		if predicate(ts) {
			return ts.Tick
		}
	}
	return -1
}

// Unit returns the unit with the given ID, or nil.
func (ts *TestSim) Unit(id int) *Unit {
	return ts.Sim.unit(id)
}

// AllIdle reports whether no unit has an outstanding order.
func (ts *TestSim) AllIdle() bool {
	for _, u := range ts.Sim.units {
		if u.Active() {
			return false
		}
	}
	return true
}

// Summary returns the SimLog summary for the current state.
func (ts *TestSim) Summary() string {
	return ts.SimLog.Summary(ts.Tick, ts.Sim.Snapshot(), ts.Sim.Stats())
}
