package game

import (
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap/zaptest"
)

func threeUnits() *Sim {
	sim := NewSim(NewNavGrid(30, 40, nil), DefaultParams())
	sim.AddUnit(100, 100)
	sim.AddUnit(200, 200)
	sim.AddUnit(300, 300)
	return sim
}

func TestSelectInRect_HalfOpen(t *testing.T) {
	sim := threeUnits()
	// Corners given in reverse order; the far edge is exclusive.
	if n := sim.SelectInRect(300, 300, 0, 0); n != 2 {
		t.Fatalf("expected 2 units selected, got %d", n)
	}
	got := sim.Selected()
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("expected [0 1], got %v", got)
	}

	// A new box replaces the selection.
	if n := sim.SelectInRect(250, 250, 350, 350); n != 1 || sim.Selected()[0] != 2 {
		t.Fatalf("expected only unit 2, got %v", sim.Selected())
	}
	if n := sim.SelectInRect(500, 500, 600, 600); n != 0 || len(sim.Selected()) != 0 {
		t.Fatalf("empty box should clear the selection, got %v", sim.Selected())
	}
}

func TestSelect_IgnoresUnknownIDs(t *testing.T) {
	sim := threeUnits()
	sim.Select(2, 9, -1, 0)
	got := sim.Selected()
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("expected [0 2], got %v", got)
	}
	sim.ClearSelection()
	if len(sim.Selected()) != 0 {
		t.Fatal("selection should be empty after ClearSelection")
	}
}

func TestCommandMove_OnlySelectedUnits(t *testing.T) {
	sim := threeUnits()
	sim.Select(0, 2)
	if n := sim.CommandMove(700, 500); n != 2 {
		t.Fatalf("expected 2 orders, got %d", n)
	}
	if !sim.units[0].Active() || sim.units[1].Active() || !sim.units[2].Active() {
		t.Fatal("only units 0 and 2 should have orders")
	}
	if sim.units[0].Order().Dest != (cp.Vector{X: 700, Y: 500}) {
		t.Fatalf("unexpected destination %v", sim.units[0].Order().Dest)
	}
	if sim.Stats().Commands != 2 || sim.Events().CountCategory("order", "move") != 2 {
		t.Fatalf("expected 2 recorded commands, stats=%+v", sim.Stats())
	}

	sim.ClearSelection()
	if n := sim.CommandMove(10, 10); n != 0 {
		t.Fatalf("no selection should issue no orders, got %d", n)
	}
}

func TestSetDestination_DiscardsOldPath(t *testing.T) {
	sim := threeUnits()
	if sim.SetDestination(5, 1, 1) {
		t.Fatal("unknown unit should be rejected")
	}
	sim.SetDestination(0, 700, 500)
	sim.Tick(1.0 / 120)
	if len(sim.units[0].Order().Path) == 0 {
		t.Fatal("expected a computed path after one tick")
	}

	sim.SetDestination(0, 100, 900)
	o := sim.units[0].Order()
	if len(o.Path) != 0 || o.Attempts != 0 || o.Dest != (cp.Vector{X: 100, Y: 900}) {
		t.Fatalf("new order should start with no path, got %+v", o)
	}
}

func TestSnapshot_CopiesPath(t *testing.T) {
	sim := threeUnits()
	sim.Select(1)
	sim.SetDestination(1, 700, 500)
	sim.Tick(1.0 / 120)

	views := sim.Snapshot()
	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}
	v := views[1]
	if !v.Selected || !v.Active || len(v.Path) == 0 {
		t.Fatalf("unexpected view %+v", v)
	}
	before := sim.units[1].Order().Path[0]
	v.Path[0] = Cell{Row: -9, Col: -9}
	if sim.units[1].Order().Path[0] != before {
		t.Fatal("mutating a snapshot path changed the unit")
	}
	if views[0].Active || views[0].Path != nil {
		t.Fatalf("idle view should carry no path, got %+v", views[0])
	}
}

func TestTick_CountsAndLogsThroughZap(t *testing.T) {
	ts := NewTestSim(
		WithHarnessLogger(zaptest.NewLogger(t)),
		WithVerbose(true),
		WithUnit(100, 100),
		WithUnit(140, 100),
		WithSelection(0, 1),
	)
	if n := ts.Sim.CommandMove(500, 100); n != 2 {
		t.Fatalf("expected 2 orders, got %d", n)
	}
	ts.RunTicks(10)
	if ts.Sim.TickCount() != 10 || ts.Tick != 10 {
		t.Fatalf("expected tick 10, got sim=%d harness=%d", ts.Sim.TickCount(), ts.Tick)
	}
	if ts.SimLog.CountCategory("move", "position") == 0 {
		t.Fatal("verbose log should record positions")
	}
	if ts.SimLog.CountCategory("path", "computed") != 2 {
		t.Fatalf("expected 2 path computations\n%s", ts.SimLog.Format())
	}
}

func TestSimLog_Queries(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "U0", "order", "move", "(10,10)", 0)
	sl.Add(2, "U1", "path", "computed", "(0,0)->(0,3)", 3)
	sl.AddVerbose(2, "U1", "move", "position", "(1,1)", 0)
	sl.Add(5, "U0", "order", "arrived", "(0,0)", 0)

	if len(sl.Entries()) != 3 {
		t.Fatalf("verbose entry should be dropped, got %d entries", len(sl.Entries()))
	}
	if len(sl.FilterUnit("U0")) != 2 || len(sl.Filter("order", "")) != 2 {
		t.Fatal("unit/category filters mismatch")
	}
	if len(sl.FilterTickRange(2, 5)) != 2 {
		t.Fatal("tick range should be inclusive")
	}
	last, ok := sl.LastOf("order", "")
	if !ok || last.Key != "arrived" {
		t.Fatalf("expected last order event to be arrived, got %+v", last)
	}
	if !sl.HasEntry("path", "computed", "->(0,3)") || sl.HasEntry("path", "not_found", "") {
		t.Fatal("HasEntry mismatch")
	}
	if !strings.Contains(sl.FormatRange(2, 2), "[T=002] U1") {
		t.Fatalf("unexpected format:\n%s", sl.FormatRange(2, 2))
	}
}

func TestSimLog_SummaryReportsStalledAndShared(t *testing.T) {
	units := []UnitView{
		{ID: 0, Pos: cp.Vector{X: 60, Y: 60}},
		{ID: 1, Pos: cp.Vector{X: 60, Y: 60}},
		{ID: 2, Active: true, Dest: cp.Vector{X: 220, Y: 220}},
	}
	out := NewSimLog(false).Summary(7, units, SimStats{Commands: 1, PathFailures: 4})
	for _, want := range []string{"T=007", "active=1  idle=2", "shared=1", "Stalled: U2", "failed=4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestDebugReport_DescribesUnitsAndEvents(t *testing.T) {
	sim := threeUnits()
	sim.Select(0)
	sim.SetDestination(0, 700, 500)
	sim.Tick(1.0 / 120)

	report := DebugReport(sim, 0)
	t.Log(report)
	for _, want := range []string{
		"tick=1 grid=30x40",
		"*U0",
		"dest=(700,500)",
		" U1",
		"idle",
		"== events T=0..1 ==",
		"path      computed",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q", want)
		}
	}
}
