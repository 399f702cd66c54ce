package game

import "container/heap"

// --- A* pathfinding ---
//
// Every step, orthogonal or diagonal, costs 1 and the heuristic is Manhattan
// distance. On an 8-connected grid that heuristic can overestimate, so paths
// are not guaranteed optimal. There is no closed set: a cell is re-queued
// whenever its g improves and stale heap entries are left in place.

type openEntry struct {
	cell Cell
	f    int
	seq  int // insertion order, breaks f ties
}

type openList []*openEntry

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	if ol[i].f != ol[j].f {
		return ol[i].f < ol[j].f
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int)       { ol[i], ol[j] = ol[j], ol[i] }
func (ol *openList) Push(x interface{}) { *ol = append(*ol, x.(*openEntry)) }
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

func manhattan(a, b Cell) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

// FindPath returns the cells leading from start to goal, excluding start and
// including goal. It returns nil when start == goal, when either end is
// blocked or out of bounds, or when goal cannot be reached.
func (ng *NavGrid) FindPath(start, goal Cell) []Cell {
	if start == goal {
		return nil
	}
	if ng.IsBlocked(start) || ng.IsBlocked(goal) {
		return nil
	}

	g := map[Cell]int{start: 0}
	cameFrom := make(map[Cell]Cell)
	ol := &openList{}
	seq := 0
	push := func(c Cell, f int) {
		heap.Push(ol, &openEntry{cell: c, f: f, seq: seq})
		seq++
	}
	push(start, manhattan(start, goal))

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*openEntry)
		if cur.cell == goal {
			return buildPath(cameFrom, start, goal)
		}
		tentative := g[cur.cell] + 1
		for _, n := range ng.Neighbors8(cur.cell) {
			if prev, ok := g[n]; ok && tentative >= prev {
				continue
			}
			g[n] = tentative
			cameFrom[n] = cur.cell
			push(n, tentative+manhattan(n, goal))
		}
	}
	return nil
}

func buildPath(cameFrom map[Cell]Cell, start, goal Cell) []Cell {
	var cells []Cell
	for c := goal; c != start; c = cameFrom[c] {
		cells = append(cells, c)
	}
	// Reverse
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
