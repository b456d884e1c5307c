//go:build ebiten

package app

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"casim/internal/command"
	"casim/internal/render"
	"casim/internal/sim"
	"casim/internal/ui"
)

const (
	// panSpeed is the screen-space pan in pixels per frame while an arrow
	// key is held.
	panSpeed = 8
	// wheelNotch is the zoom factor applied per mouse wheel notch.
	wheelNotch = 1.1
	// noticeTTL is how many frames a command reply stays on screen.
	noticeTTL = 300
)

// Game adapts a simulation session to the ebiten.Game interface. It owns the
// viewport, the command prompt, and the HUD; the session owns everything
// about the world itself.
type Game struct {
	logger  *slog.Logger
	session *sim.Session
	view    render.Viewport
	painter *render.CellPainter
	hud     *ui.HUD
	overlay *ui.Overlay

	cmdOpen   bool
	cmdText   []rune
	notice    string
	noticeAge int

	dragging bool
	dragX    int
	dragY    int

	quit bool
}

// New constructs the GUI front-end for an existing session.
func New(session *sim.Session, logger *slog.Logger, width, height int) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		logger:  logger.With("component", "app"),
		session: session,
		view:    render.NewViewport(width, height),
		painter: render.NewCellPainter(),
		hud:     ui.NewHUD(),
		overlay: ui.NewOverlay(),
	}
}

// Update handles input and advances the simulation clock.
func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	chars := ebiten.AppendInputChars(nil)
	if g.cmdOpen {
		g.updatePrompt(chars)
	} else {
		if err := g.updateKeys(chars); err != nil {
			return err
		}
		g.overlay.Update()
	}
	g.updateMouse()

	if g.noticeAge > 0 {
		g.noticeAge--
		if g.noticeAge == 0 {
			g.notice = ""
		}
	}

	g.session.Advance()
	return nil
}

// updatePrompt owns the keyboard while the command line is open.
func (g *Game) updatePrompt(chars []rune) {
	for _, r := range chars {
		if r >= ' ' {
			g.cmdText = append(g.cmdText, r)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(g.cmdText) > 0 {
		g.cmdText = g.cmdText[:len(g.cmdText)-1]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.closePrompt()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		line := string(g.cmdText)
		g.closePrompt()
		g.runCommand(line)
	}
}

func (g *Game) updateKeys(chars []rune) error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for _, r := range chars {
		if r == '/' {
			g.cmdOpen = true
			return nil
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.session.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.session.StepOnce()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.setNotice(fmt.Sprintf("brush state %d", g.session.CycleBrushState()))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.setNotice(fmt.Sprintf("brush size %d", g.session.AdjustBrushSize(1)))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.setNotice(fmt.Sprintf("brush size %d", g.session.AdjustBrushSize(-1)))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.Center()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.Fit()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.hud.Toggle()
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.view.Pan(-panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.view.Pan(panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.view.Pan(0, -panSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.view.Pan(0, panSpeed)
	}
	return nil
}

func (g *Game) updateMouse() {
	mx, my := ebiten.CursorPosition()

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.view.ZoomAt(float64(mx), float64(my), math.Pow(wheelNotch, wy))
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		g.dragging = true
		g.dragX, g.dragY = mx, my
	case g.dragging && ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		g.view.Pan(float64(g.dragX-mx), float64(g.dragY-my))
		g.dragX, g.dragY = mx, my
	default:
		g.dragging = false
	}

	if mx < 0 || my < 0 || mx >= g.view.W || my >= g.view.H {
		return
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.session.PaintAt(g.view.CellAt(float64(mx), float64(my)))
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		g.session.EraseAt(g.view.CellAt(float64(mx), float64(my)))
	}
}

func (g *Game) closePrompt() {
	g.cmdOpen = false
	g.cmdText = g.cmdText[:0]
}

func (g *Game) runCommand(line string) {
	msg, err := command.Execute(line, g)
	if err != nil {
		g.setNotice("error: " + err.Error())
		return
	}
	if msg != "" {
		g.setNotice(msg)
	}
}

func (g *Game) setNotice(msg string) {
	g.notice = msg
	g.noticeAge = noticeTTL
}

// Draw renders the visible world, the debug overlay, and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.view, g.session.Grid().Cells(), g.session.Colors(), g.session.Background())
	g.overlay.Draw(screen, g.view, g.session.Grid())
	g.hud.Draw(screen, g.status())
}

func (g *Game) status() ui.Status {
	return ui.Status{
		RuleName:    g.session.Name(),
		Generation:  g.session.Generation(),
		Population:  g.session.Population(),
		Rate:        g.session.Rate(),
		Paused:      g.session.Paused(),
		BrushState:  g.session.BrushState(),
		BrushSize:   g.session.BrushSize(),
		Zoom:        g.view.Zoom,
		Command:     string(g.cmdText),
		CommandOpen: g.cmdOpen,
		Notice:      g.notice,
	}
}

// Layout reports the logical screen size and tracks window resizes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.view.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Save implements command.Actions.
func (g *Game) Save(path string) error { return g.session.Save(path) }

// Load implements command.Actions.
func (g *Game) Load(path string) error { return g.session.Load(path) }

// Pause implements command.Actions.
func (g *Game) Pause() { g.session.Pause() }

// Resume implements command.Actions.
func (g *Game) Resume() { g.session.Resume() }

// SetSpeed implements command.Actions.
func (g *Game) SetSpeed(tps int) error { return g.session.SetRate(tps) }

// Clear implements command.Actions.
func (g *Game) Clear() { g.session.Clear() }

// SetBrushState implements command.Actions.
func (g *Game) SetBrushState(state int32) error { return g.session.SetBrushState(state) }

// SetBrushSize implements command.Actions.
func (g *Game) SetBrushSize(size int) error { return g.session.SetBrushSize(size) }

// Center returns the view to the origin.
func (g *Game) Center() { g.view.CenterOn(0, 0) }

// Fit frames the current population, or the origin when the world is empty.
func (g *Game) Fit() {
	min, max, ok := g.session.Grid().Bounds()
	if !ok {
		g.view.CenterOn(0, 0)
		return
	}
	g.view.Fit(min, max)
}

// Quit ends the run; the next Update returns ebiten.Termination.
func (g *Game) Quit() { g.quit = true }
