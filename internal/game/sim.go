package game

import (
	"sort"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

// Params are the movement constants shared by every unit in a run.
type Params struct {
	Tiles           TileSize
	Speed           float64 // pixels per second
	CollisionRadius float64 // pixels; other units closer than this repel
	AvoidanceWeight float64 // scale applied to each repulsion vector
	MaxPathAttempts int     // failed searches before an order is dropped; 0 = never
	MaxProbes       int     // rest-slot probes before accepting overlap; 0 = unbounded
	PerAxisSnap     bool    // align rest slots on y using y instead of x
}

// DefaultParams returns the constants of a 40px-tile, 120 TPS battlefield.
func DefaultParams() Params {
	return Params{
		Tiles:           TileSize{W: 40, H: 40},
		Speed:           120,
		CollisionRadius: 20,
		AvoidanceWeight: 0.5,
		MaxProbes:       64,
	}
}

// SimStats are running counters, mainly for reports.
type SimStats struct {
	PathSearches int
	PathFailures int
	Arrivals     int
	Abandoned    int
	Commands     int
	Probes       int
	ProbeCapHits int
}

// Sim owns the unit registry, the selection and the obstacle map, and
// advances them one tick at a time. It is not safe for concurrent use:
// commands must be issued between calls to Tick.
type Sim struct {
	grid     *NavGrid
	params   Params
	units    []*Unit
	selected map[int]bool
	tick     int
	stats    SimStats

	log    *zap.Logger
	events *SimLog
}

// SimOption configures a Sim at construction.
type SimOption func(*Sim)

// WithLogger routes sim diagnostics to l.
func WithLogger(l *zap.Logger) SimOption {
	return func(s *Sim) {
		if l != nil {
			s.log = l
		}
	}
}

// WithEventLog records sim events into sl.
func WithEventLog(sl *SimLog) SimOption {
	return func(s *Sim) {
		if sl != nil {
			s.events = sl
		}
	}
}

// NewSim creates an empty simulation over grid.
func NewSim(grid *NavGrid, p Params, opts ...SimOption) *Sim {
	s := &Sim{
		grid:     grid,
		params:   p,
		selected: make(map[int]bool),
		log:      zap.NewNop(),
		events:   NewSimLog(false),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddUnit places a new idle unit at (x, y) and returns it.
func (s *Sim) AddUnit(x, y float64) *Unit {
	u := &Unit{ID: len(s.units), Pos: cp.Vector{X: x, Y: y}}
	s.units = append(s.units, u)
	return u
}

// Grid returns the obstacle map.
func (s *Sim) Grid() *NavGrid { return s.grid }

// Params returns the movement constants.
func (s *Sim) Params() Params { return s.params }

// TickCount returns how many ticks have run.
func (s *Sim) TickCount() int { return s.tick }

// Stats returns a copy of the running counters.
func (s *Sim) Stats() SimStats { return s.stats }

// Events returns the sim event log.
func (s *Sim) Events() *SimLog { return s.events }

// UnitCount returns the number of units.
func (s *Sim) UnitCount() int { return len(s.units) }

func (s *Sim) unit(id int) *Unit {
	if id < 0 || id >= len(s.units) {
		return nil
	}
	return s.units[id]
}

// Select replaces the selection with the given unit IDs. Unknown IDs are
// ignored.
func (s *Sim) Select(ids ...int) {
	s.selected = make(map[int]bool, len(ids))
	for _, id := range ids {
		if s.unit(id) != nil {
			s.selected[id] = true
		}
	}
}

// SelectInRect selects every unit whose position lies inside the rectangle
// spanned by the two corners and returns how many were selected.
func (s *Sim) SelectInRect(x0, y0, x1, y1 float64) int {
	minX, maxX := min(x0, x1), max(x0, x1)
	minY, maxY := min(y0, y1), max(y0, y1)
	var ids []int
	for _, u := range s.units {
		if u.Pos.X >= minX && u.Pos.X < maxX && u.Pos.Y >= minY && u.Pos.Y < maxY {
			ids = append(ids, u.ID)
		}
	}
	s.Select(ids...)
	return len(ids)
}

// ClearSelection deselects every unit.
func (s *Sim) ClearSelection() {
	s.selected = make(map[int]bool)
}

// Selected returns the selected unit IDs in ascending order.
func (s *Sim) Selected() []int {
	ids := make([]int, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// CommandMove sends every selected unit toward (x, y) and returns how many
// received the order.
func (s *Sim) CommandMove(x, y float64) int {
	n := 0
	for _, id := range s.Selected() {
		if s.SetDestination(id, x, y) {
			n++
		}
	}
	return n
}

// SetDestination gives one unit a new destination, discarding any path it
// was following. It returns false for an unknown ID.
func (s *Sim) SetDestination(id int, x, y float64) bool {
	u := s.unit(id)
	if u == nil {
		return false
	}
	u.setDestination(cp.Vector{X: x, Y: y})
	s.stats.Commands++
	s.events.Add(s.tick, u.label(), "order", "move", formatPoint(x, y), 0)
	s.log.Debug("move order",
		zap.Int("unit", id),
		zap.Float64("x", x),
		zap.Float64("y", y))
	return true
}

// Tick advances the simulation by dt seconds: active units follow their
// paths, then units that were idle when the tick began are settled into rest
// slots. A unit that arrives during the tick is settled from the next one.
func (s *Sim) Tick(dt float64) {
	s.tick++
	idle := make([]*Unit, 0, len(s.units))
	for _, u := range s.units {
		if !u.Active() {
			idle = append(idle, u)
		}
	}
	for _, u := range s.units {
		if u.Active() {
			s.followPath(u, dt)
		}
	}
	s.resolveRestSlots(idle)
}

// Snapshot returns a copy of every unit for rendering.
func (s *Sim) Snapshot() []UnitView {
	out := make([]UnitView, len(s.units))
	for i, u := range s.units {
		v := UnitView{
			ID:       u.ID,
			Pos:      u.Pos,
			Selected: s.selected[u.ID],
			Active:   u.Active(),
		}
		if o := u.order; o != nil {
			v.Dest = o.Dest
			v.Path = append([]Cell(nil), o.Path...)
		}
		out[i] = v
	}
	return out
}
