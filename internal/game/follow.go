package game

import (
	"fmt"

	"go.uber.org/zap"
)

// followPath advances one active unit by a single tick of length dt seconds.
func (s *Sim) followPath(u *Unit, dt float64) {
	o := u.order
	if len(o.Path) == 0 && !s.planPath(u) {
		return
	}

	wp := s.params.Tiles.Center(o.Path[0])
	delta := wp.Sub(u.Pos)
	dist := delta.Length()
	step := s.params.Speed * dt

	if dist < step {
		// Close enough to land on the waypoint this tick.
		u.Pos = wp
		reached := o.Path[0]
		o.Path = o.Path[1:]
		if len(o.Path) == 0 && reached == s.params.Tiles.CellAt(o.Dest) {
			u.clearOrder()
			s.events.Add(s.tick, u.label(), "order", "arrived",
				fmt.Sprintf("(%d,%d)", reached.Row, reached.Col), 0)
			s.stats.Arrivals++
			s.log.Debug("unit arrived",
				zap.Int("unit", u.ID),
				zap.Int("row", reached.Row),
				zap.Int("col", reached.Col))
		}
		return
	}

	dir := s.avoid(u, normalize(delta))
	u.Pos = u.Pos.Add(dir.Mult(step))
	s.events.AddVerbose(s.tick, u.label(), "move", "position",
		fmt.Sprintf("(%.2f,%.2f)", u.Pos.X, u.Pos.Y), dist)
}

// planPath fills the order's path from the unit's current cell to the
// destination cell. It returns false when no path exists; the unit then stays
// where it is and tries again next tick, unless MaxPathAttempts gives up on
// the order first.
func (s *Sim) planPath(u *Unit) bool {
	o := u.order
	start := s.params.Tiles.CellAt(u.Pos)
	goal := s.params.Tiles.CellAt(o.Dest)

	s.stats.PathSearches++
	if start == goal {
		o.Path = []Cell{goal}
	} else {
		o.Path = s.grid.FindPath(start, goal)
	}
	if len(o.Path) > 0 {
		o.Attempts = 0
		s.events.Add(s.tick, u.label(), "path", "computed",
			fmt.Sprintf("(%d,%d)->(%d,%d)", start.Row, start.Col, goal.Row, goal.Col), float64(len(o.Path)))
		s.log.Debug("path computed",
			zap.Int("unit", u.ID),
			zap.Int("cells", len(o.Path)))
		return true
	}

	o.Attempts++
	s.stats.PathFailures++
	s.events.Add(s.tick, u.label(), "path", "not_found",
		fmt.Sprintf("(%d,%d)->(%d,%d)", start.Row, start.Col, goal.Row, goal.Col), float64(o.Attempts))
	if o.Attempts == 1 {
		s.log.Debug("no path to destination",
			zap.Int("unit", u.ID),
			zap.Int("start_row", start.Row),
			zap.Int("start_col", start.Col),
			zap.Int("goal_row", goal.Row),
			zap.Int("goal_col", goal.Col))
	}

	if limit := s.params.MaxPathAttempts; limit > 0 && o.Attempts >= limit {
		u.clearOrder()
		s.stats.Abandoned++
		s.events.Add(s.tick, u.label(), "order", "abandoned",
			fmt.Sprintf("after %d attempts", limit), float64(limit))
		s.log.Info("move order abandoned",
			zap.Int("unit", u.ID),
			zap.Int("attempts", limit))
	}
	return false
}
