package game

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

// statusTTL is how long a HUD status message stays on screen.
const statusTTL = 3 * time.Second

var (
	colBackground = color.RGBA{A: 255}
	colGridLine   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	colObstacle   = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	colUnit       = color.RGBA{B: 255, A: 255}
	colSelected   = color.RGBA{G: 255, A: 255}
	colSelectFill = color.RGBA{B: 255, A: 128}
	colSelectEdge = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colPath       = color.RGBA{R: 255, G: 220, B: 0, A: 160}
	colHUDText    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Game is the Ebiten front end: it turns mouse and keyboard input into
// selection and move commands, ticks the sim once per update with the
// wall-clock time since the previous update, and draws the result.
type Game struct {
	width  int
	height int
	sim    *Sim
	log    *zap.Logger

	lastUpdate time.Time
	restart    chan *Sim // fresh sims queued by the scenario watcher

	// Box selection.
	selecting bool
	selStartX int
	selStartY int
	selEndX   int
	selEndY   int

	prevKeys       map[ebiten.Key]bool
	prevMouseLeft  bool
	prevMouseRight bool

	debug    bool
	status   string
	statusAt time.Time
	hudFace  *text.GoXFace
}

// New creates a front end of the given size driving sim.
func New(sim *Sim, width, height int, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	return &Game{
		width:      width,
		height:     height,
		sim:        sim,
		log:        log,
		lastUpdate: time.Now(),
		restart:    make(chan *Sim, 1),
		prevKeys:   make(map[ebiten.Key]bool),
		hudFace:    text.NewGoXFace(basicfont.Face7x13),
	}
}

// Restart queues sim to replace the running one at the start of the next
// update. It is safe to call from another goroutine; if a restart is already
// pending it is replaced.
func (g *Game) Restart(sim *Sim) {
	for {
		select {
		case g.restart <- sim:
			return
		default:
		}
		select {
		case <-g.restart:
		default:
		}
	}
}

// Sim returns the simulation currently being driven.
func (g *Game) Sim() *Sim { return g.sim }

func (g *Game) Update() error {
	select {
	case s := <-g.restart:
		g.sim = s
		g.selecting = false
		g.setStatus("scenario reloaded")
		g.log.Info("scenario restarted", zap.Int("units", s.UnitCount()))
	default:
	}

	now := time.Now()
	dt := now.Sub(g.lastUpdate).Seconds()
	g.lastUpdate = now

	// Commands land between ticks.
	g.handleInput()
	g.sim.Tick(dt)
	return nil
}

// handleInput processes selection, move commands and key toggles
// (edge-triggered).
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	// Backquote: toggle debug overlay.
	currentKeys[ebiten.KeyBackquote] = ebiten.IsKeyPressed(ebiten.KeyBackquote)
	if currentKeys[ebiten.KeyBackquote] && !g.prevKeys[ebiten.KeyBackquote] {
		g.debug = !g.debug
	}

	// C (debug only): copy a debug report to the clipboard.
	currentKeys[ebiten.KeyC] = ebiten.IsKeyPressed(ebiten.KeyC)
	if g.debug && currentKeys[ebiten.KeyC] && !g.prevKeys[ebiten.KeyC] {
		g.copyDebugReport()
	}

	mx, my := ebiten.CursorPosition()

	// Left button: drag a selection box, select on release.
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case left && !g.prevMouseLeft:
		g.selecting = true
		g.selStartX, g.selStartY = mx, my
		g.selEndX, g.selEndY = mx, my
	case left && g.selecting:
		g.selEndX, g.selEndY = mx, my
	case !left && g.prevMouseLeft && g.selecting:
		g.selecting = false
		n := g.sim.SelectInRect(float64(g.selStartX), float64(g.selStartY), float64(g.selEndX), float64(g.selEndY))
		g.log.Debug("selection", zap.Int("units", n))
	}
	g.prevMouseLeft = left

	// Right button: move the selection to the cursor.
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if right && !g.prevMouseRight {
		g.sim.CommandMove(float64(mx), float64(my))
	}
	g.prevMouseRight = right

	g.prevKeys = currentKeys
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusAt = time.Now()
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
