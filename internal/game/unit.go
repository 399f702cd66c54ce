package game

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// MoveOrder is an outstanding move command. Its path holds the remaining
// waypoint cells, head first; an empty path means it has to be (re)computed.
type MoveOrder struct {
	Dest     cp.Vector
	Path     []Cell
	Attempts int // consecutive searches that found no path
}

// Unit is one mobile agent. A nil order means the unit is idle and gets a
// rest slot each tick; a non-nil order means it is moving toward Dest.
type Unit struct {
	ID    int
	Pos   cp.Vector
	order *MoveOrder
}

// Active reports whether the unit has an outstanding destination.
func (u *Unit) Active() bool { return u.order != nil }

// Order returns the outstanding move order, or nil when idle.
func (u *Unit) Order() *MoveOrder { return u.order }

// setDestination replaces any previous order, discarding its path.
func (u *Unit) setDestination(dest cp.Vector) {
	u.order = &MoveOrder{Dest: dest}
}

// clearOrder drops the destination together with its path.
func (u *Unit) clearOrder() {
	u.order = nil
}

func (u *Unit) label() string {
	return fmt.Sprintf("U%d", u.ID)
}

// UnitView is a read-only copy of a unit for renderers and reports.
type UnitView struct {
	ID       int
	Pos      cp.Vector
	Selected bool
	Active   bool
	Dest     cp.Vector // zero when idle
	Path     []Cell    // copy of the remaining path
}
