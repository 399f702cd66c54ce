package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)

	tiles := g.sim.Params().Tiles
	g.drawObstacles(screen, tiles)
	drawGrid(screen, g.width, g.height, tiles, colGridLine)
	if g.debug {
		g.drawPaths(screen, tiles)
	}
	g.drawUnits(screen, tiles)
	g.drawSelectionBox(screen)
	if g.debug {
		g.drawDebugHUD(screen)
	}
}

func (g *Game) drawObstacles(screen *ebiten.Image, tiles TileSize) {
	grid := g.sim.Grid()
	tw, th := float32(tiles.W), float32(tiles.H)
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			if !grid.IsBlocked(Cell{Row: row, Col: col}) {
				continue
			}
			vector.FillRect(screen, float32(col)*tw, float32(row)*th, tw, th, colObstacle, false)
		}
	}
}

// drawUnits renders each unit as a filled circle, green when selected.
func (g *Game) drawUnits(screen *ebiten.Image, tiles TileSize) {
	radius := float32(tiles.W / 3)
	for _, u := range g.sim.Snapshot() {
		c := colUnit
		if u.Selected {
			c = colSelected
		}
		vector.DrawFilledCircle(screen, float32(u.Pos.X), float32(u.Pos.Y), radius, c, true)
	}
}

// drawPaths draws a faint line from each active unit through its remaining
// waypoints, with a small marker on the destination.
func (g *Game) drawPaths(screen *ebiten.Image, tiles TileSize) {
	for _, u := range g.sim.Snapshot() {
		if !u.Active {
			continue
		}
		px, py := float32(u.Pos.X), float32(u.Pos.Y)
		for _, c := range u.Path {
			wp := tiles.Center(c)
			vector.StrokeLine(screen, px, py, float32(wp.X), float32(wp.Y), 1.0, colPath, true)
			px, py = float32(wp.X), float32(wp.Y)
		}
		vector.StrokeCircle(screen, float32(u.Dest.X), float32(u.Dest.Y), 4, 1.0, colPath, true)
	}
}

func (g *Game) drawSelectionBox(screen *ebiten.Image) {
	if !g.selecting {
		return
	}
	x := float32(min(g.selStartX, g.selEndX))
	y := float32(min(g.selStartY, g.selEndY))
	w := float32(abs(g.selEndX - g.selStartX))
	h := float32(abs(g.selEndY - g.selStartY))
	vector.FillRect(screen, x, y, w, h, colSelectFill, false)
	vector.StrokeRect(screen, x, y, w, h, 1.0, colSelectEdge, false)
}

// drawDebugHUD prints the frame rate in the top-right corner and any recent
// status message beneath it.
func (g *Game) drawDebugHUD(screen *ebiten.Image) {
	g.drawText(screen, fmt.Sprintf("FPS: %d", int(ebiten.ActualFPS())), g.width-150, 10, colHUDText)
	if g.status != "" && time.Since(g.statusAt) < statusTTL {
		g.drawText(screen, g.status, 10, 10, colHUDText)
	}
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, g.hudFace, op)
}

func drawGrid(screen *ebiten.Image, w, h int, tiles TileSize, c color.Color) {
	if tiles.W <= 0 || tiles.H <= 0 {
		return
	}
	for x := 0; x <= w; x += tiles.W {
		xf := float32(x)
		vector.StrokeLine(screen, xf, 0, xf, float32(h), 1.0, c, false)
	}
	for y := 0; y <= h; y += tiles.H {
		yf := float32(y)
		vector.StrokeLine(screen, 0, yf, float32(w), yf, 1.0, c, false)
	}
}
