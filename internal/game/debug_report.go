package game

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// reportWindowTicks is how many recent ticks of events the debug report
// includes.
const reportWindowTicks = 240

// DebugReport describes every unit, its order and path, plus the sim events
// of the last lastTicks ticks.
func DebugReport(sim *Sim, lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = reportWindowTicks
	}
	toTick := sim.TickCount()
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	p := sim.Params()
	grid := sim.Grid()
	fmt.Fprintf(&b, "--- Grid Command debug report ---\n")
	fmt.Fprintf(&b, "tick=%d grid=%dx%d tiles=%dx%d blocked=%d speed=%.0f radius=%.0f\n\n",
		toTick, grid.Rows(), grid.Cols(), p.Tiles.W, p.Tiles.H, grid.BlockedCount(), p.Speed, p.CollisionRadius)

	units := sim.Snapshot()
	b.WriteString("== units ==\n")
	for _, u := range units {
		sel := " "
		if u.Selected {
			sel = "*"
		}
		cell := p.Tiles.CellAt(u.Pos)
		fmt.Fprintf(&b, "%sU%-3d pos=(%.1f,%.1f) cell=(%d,%d)", sel, u.ID, u.Pos.X, u.Pos.Y, cell.Row, cell.Col)
		if u.Active {
			fmt.Fprintf(&b, " dest=%s path=%s", formatPoint(u.Dest.X, u.Dest.Y), formatCells(u.Path))
		} else {
			b.WriteString(" idle")
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString(sim.Events().Summary(toTick, units, sim.Stats()))
	fmt.Fprintf(&b, "\n== events T=%d..%d ==\n", fromTick, toTick)
	b.WriteString(sim.Events().FormatRange(fromTick, toTick))
	return b.String()
}

func formatCells(cells []Cell) string {
	if len(cells) == 0 {
		return "[]"
	}
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprintf("(%d,%d)", c.Row, c.Col)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (g *Game) copyDebugReport() {
	report := DebugReport(g.sim, reportWindowTicks)
	if err := clipboard.WriteAll(report); err != nil {
		g.log.Warn("copy debug report", zap.Error(err))
		g.setStatus("clipboard unavailable")
		return
	}
	g.setStatus(fmt.Sprintf("debug report copied (%d bytes)", len(report)))
}
