package game

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Cell addresses one tile of the grid.
type Cell struct {
	Row int
	Col int
}

// TileSize is the pixel size of one grid tile. It is fixed for a run.
type TileSize struct {
	W int
	H int
}

// CellAt returns the cell containing the world point p.
func (ts TileSize) CellAt(p cp.Vector) Cell {
	return Cell{
		Row: floorDiv(p.Y, ts.H),
		Col: floorDiv(p.X, ts.W),
	}
}

// Center returns the world-space centre of cell c.
func (ts TileSize) Center(c Cell) cp.Vector {
	return cp.Vector{
		X: float64(c.Col*ts.W) + float64(ts.W)/2,
		Y: float64(c.Row*ts.H) + float64(ts.H)/2,
	}
}

// NavGrid is the immutable obstacle map: a rows×cols grid where true = blocked.
type NavGrid struct {
	rows    int
	cols    int
	blocked []bool
}

// NewNavGrid builds a grid of the given size with the listed cells blocked.
// Cells outside the grid are ignored.
func NewNavGrid(rows, cols int, blocked []Cell) *NavGrid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	ng := &NavGrid{
		rows:    rows,
		cols:    cols,
		blocked: make([]bool, rows*cols),
	}
	for _, c := range blocked {
		if !ng.InBounds(c) {
			continue
		}
		ng.blocked[c.Row*cols+c.Col] = true
	}
	return ng
}

// NewNavGridForMap sizes the grid to cover a mapW×mapH pixel playfield.
func NewNavGridForMap(mapW, mapH int, tiles TileSize, blocked []Cell) *NavGrid {
	return NewNavGrid(mapH/tiles.H, mapW/tiles.W, blocked)
}

// Rows returns the number of grid rows.
func (ng *NavGrid) Rows() int { return ng.rows }

// Cols returns the number of grid columns.
func (ng *NavGrid) Cols() int { return ng.cols }

// InBounds reports whether c lies inside the grid.
func (ng *NavGrid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < ng.rows && c.Col < ng.cols
}

// IsBlocked returns true if the cell is not walkable. Out-of-bounds cells
// count as blocked.
func (ng *NavGrid) IsBlocked(c Cell) bool {
	if !ng.InBounds(c) {
		return true
	}
	return ng.blocked[c.Row*ng.cols+c.Col]
}

// Passable is the inverse of IsBlocked.
func (ng *NavGrid) Passable(c Cell) bool {
	return !ng.IsBlocked(c)
}

// BlockedCount returns how many cells carry an obstacle.
func (ng *NavGrid) BlockedCount() int {
	n := 0
	for _, b := range ng.blocked {
		if b {
			n++
		}
	}
	return n
}

var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// Neighbors8 returns the passable orthogonal and diagonal neighbours of c.
// Diagonals are not checked for corner-cutting: a diagonal step is allowed
// even when both flanking orthogonal cells are blocked.
func (ng *NavGrid) Neighbors8(c Cell) []Cell {
	out := make([]Cell, 0, len(dirs))
	for _, d := range dirs {
		n := Cell{Row: c.Row + d[0], Col: c.Col + d[1]}
		if ng.IsBlocked(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func floorDiv(v float64, size int) int {
	return int(math.Floor(v / float64(size)))
}
