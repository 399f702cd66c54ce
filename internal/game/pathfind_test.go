package game

import (
	"math/rand"
	"testing"
)

func assertValidPath(t *testing.T, ng *NavGrid, start, goal Cell, path []Cell) {
	t.Helper()
	if len(path) == 0 {
		t.Fatalf("expected a path from %+v to %+v", start, goal)
	}
	if path[len(path)-1] != goal {
		t.Fatalf("path should end at goal %+v, ends at %+v", goal, path[len(path)-1])
	}
	prev := start
	for i, c := range path {
		if ng.IsBlocked(c) {
			t.Fatalf("step %d (%+v) is blocked", i, c)
		}
		if c == start {
			t.Fatalf("step %d revisits the start cell", i)
		}
		if chebyshev(prev, c) != 1 {
			t.Fatalf("step %d jumps from %+v to %+v", i, prev, c)
		}
		prev = c
	}
	if len(path) < chebyshev(start, goal) {
		t.Fatalf("path of %d steps is shorter than the %d-step lower bound", len(path), chebyshev(start, goal))
	}
}

func chebyshev(a, b Cell) int {
	return max(abs(a.Row-b.Row), abs(a.Col-b.Col))
}

// reachable is a plain BFS over Neighbors8.
func reachable(ng *NavGrid, start, goal Cell) bool {
	seen := map[Cell]bool{start: true}
	queue := []Cell{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == goal {
			return true
		}
		for _, n := range ng.Neighbors8(c) {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}

func TestFindPath_StraightLine(t *testing.T) {
	ng := NewNavGrid(10, 10, nil)
	path := ng.FindPath(Cell{Row: 0, Col: 0}, Cell{Row: 0, Col: 3})
	want := []Cell{{Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}}
	if len(path) != len(want) {
		t.Fatalf("expected %v, got %v", want, path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, path)
		}
	}
}

func TestFindPath_StartIsGoal(t *testing.T) {
	ng := NewNavGrid(5, 5, nil)
	if path := ng.FindPath(Cell{Row: 2, Col: 2}, Cell{Row: 2, Col: 2}); path != nil {
		t.Fatalf("expected nil for start == goal, got %v", path)
	}
}

func TestFindPath_BlockedEnds(t *testing.T) {
	ng := NewNavGrid(5, 5, []Cell{{Row: 0, Col: 0}, {Row: 4, Col: 4}})
	cases := []struct {
		name        string
		start, goal Cell
	}{
		{"blocked start", Cell{Row: 0, Col: 0}, Cell{Row: 2, Col: 2}},
		{"blocked goal", Cell{Row: 2, Col: 2}, Cell{Row: 4, Col: 4}},
		{"start off grid", Cell{Row: -1, Col: 2}, Cell{Row: 2, Col: 2}},
		{"goal off grid", Cell{Row: 2, Col: 2}, Cell{Row: 2, Col: 5}},
	}
	for _, c := range cases {
		if path := ng.FindPath(c.start, c.goal); path != nil {
			t.Errorf("%s: expected nil, got %v", c.name, path)
		}
	}
}

func TestFindPath_UnreachableTerminates(t *testing.T) {
	// Ring of obstacles around (5,5).
	var ring []Cell
	for r := 4; r <= 6; r++ {
		for c := 4; c <= 6; c++ {
			if r != 5 || c != 5 {
				ring = append(ring, Cell{Row: r, Col: c})
			}
		}
	}
	ng := NewNavGrid(10, 10, ring)
	if path := ng.FindPath(Cell{Row: 0, Col: 0}, Cell{Row: 5, Col: 5}); path != nil {
		t.Fatalf("goal inside a ring should be unreachable, got %v", path)
	}
	if path := ng.FindPath(Cell{Row: 5, Col: 5}, Cell{Row: 0, Col: 0}); path != nil {
		t.Fatalf("start inside a ring should not escape, got %v", path)
	}
}

func TestFindPath_AroundWall(t *testing.T) {
	ng := NewNavGrid(10, 10, []Cell{{Row: 5, Col: 5}, {Row: 6, Col: 5}, {Row: 7, Col: 5}})
	start, goal := Cell{Row: 4, Col: 5}, Cell{Row: 8, Col: 5}
	assertValidPath(t, ng, start, goal, ng.FindPath(start, goal))
}

func TestFindPath_ObstaclesNeverShortenPath(t *testing.T) {
	start, goal := Cell{Row: 4, Col: 1}, Cell{Row: 4, Col: 8}

	open := NewNavGrid(10, 10, nil).FindPath(start, goal)
	if len(open) != 7 {
		t.Fatalf("open field should give a 7-step path, got %v", open)
	}

	var wall []Cell
	for r := 0; r < 9; r++ {
		wall = append(wall, Cell{Row: r, Col: 5})
	}
	walledGrid := NewNavGrid(10, 10, wall)
	walled := walledGrid.FindPath(start, goal)
	assertValidPath(t, walledGrid, start, goal, walled)
	if len(walled) < len(open) {
		t.Fatalf("walled path (%d) shorter than open path (%d)", len(walled), len(open))
	}

	wall = append(wall, Cell{Row: 9, Col: 5})
	if path := NewNavGrid(10, 10, wall).FindPath(start, goal); path != nil {
		t.Fatalf("sealed wall should leave no path, got %v", path)
	}
}

func TestFindPath_RandomGridsMatchReachability(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const size = 12
	found, missing := 0, 0
	for trial := 0; trial < 300; trial++ {
		var blocked []Cell
		for r := 0; r < size; r++ {
			for c := 0; c < size; c++ {
				if rng.Float64() < 0.4 {
					blocked = append(blocked, Cell{Row: r, Col: c})
				}
			}
		}
		ng := NewNavGrid(size, size, blocked)
		start := Cell{Row: rng.Intn(size), Col: rng.Intn(size)}
		goal := Cell{Row: rng.Intn(size), Col: rng.Intn(size)}
		if start == goal || ng.IsBlocked(start) || ng.IsBlocked(goal) {
			continue
		}

		path := ng.FindPath(start, goal)
		if reachable(ng, start, goal) {
			assertValidPath(t, ng, start, goal, path)
			found++
		} else {
			if path != nil {
				t.Fatalf("trial %d: BFS finds no route but A* returned %v", trial, path)
			}
			missing++
		}
	}
	t.Logf("reachable=%d unreachable=%d", found, missing)
	if found == 0 || missing == 0 {
		t.Fatalf("expected both outcomes across trials, got reachable=%d unreachable=%d", found, missing)
	}
}

func TestFindPath_Deterministic(t *testing.T) {
	ng := NewNavGrid(20, 20, []Cell{{Row: 3, Col: 3}, {Row: 4, Col: 4}, {Row: 10, Col: 2}})
	first := ng.FindPath(Cell{Row: 0, Col: 0}, Cell{Row: 19, Col: 12})
	for i := 0; i < 5; i++ {
		again := ng.FindPath(Cell{Row: 0, Col: 0}, Cell{Row: 19, Col: 12})
		if len(again) != len(first) {
			t.Fatalf("run %d: path length %d, first run %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d differs at step %d: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}
