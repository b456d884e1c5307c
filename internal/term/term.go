// Package term is the terminal front-end. It drives the same session and
// slash commands as the GUI, drawn with one character per world cell.
package term

import (
	"bytes"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"casim/internal/command"
	"casim/internal/core"
	"casim/internal/sim"
)

const (
	statusWidth = 30
	panCells    = 2
	cellGlyph   = "█"
)

type keyBinding struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

// UI renders a session into a gocui terminal layout: a status panel, the
// world view, a command line, and a help bar.
type UI struct {
	logger  *slog.Logger
	session *sim.Session
	g       *gocui.Gui
	k       []keyBinding

	// originX/originY is the world cell drawn at the grid view's top-left
	// corner. The terminal has no zoom; panning moves the origin.
	originX int32
	originY int32

	glyphs map[int32]string
	notice string
	quit   bool
}

// New constructs the terminal front-end for an existing session.
func New(session *sim.Session, logger *slog.Logger) *UI {
	if logger == nil {
		logger = slog.Default()
	}
	ui := &UI{
		logger:  logger.With("component", "term"),
		session: session,
		glyphs:  make(map[int32]string, len(session.Colors())),
	}
	for state, col := range session.Colors() {
		ui.glyphs[state] = aurora.Colorize(cellGlyph, nearestANSI(col)).String()
	}
	ui.k = []keyBinding{
		{gocui.KeyCtrlC, "^C", "quit", ui.cmdQuit, ""},
		{'q', "Q", "quit", ui.cmdQuit, "grid"},
		{gocui.KeySpace, "SPACE", "pause/resume", ui.cmdTogglePause, "grid"},
		{'n', "N", "step once", ui.cmdStepOnce, "grid"},
		{gocui.KeyTab, "TAB", "cycle brush state", ui.cmdCycleBrush, "grid"},
		{'+', "+/-", "brush size", ui.cmdGrowBrush, "grid"},
		{'-', "", "", ui.cmdShrinkBrush, "grid"},
		{'w', "W", "random soup", ui.cmdSoup, "grid"},
		{'f', "F", "fit view", ui.cmdFit, "grid"},
		{'c', "C", "center view", ui.cmdCenter, "grid"},
		{'/', "/", "command", ui.cmdOpenPrompt, "grid"},
		{gocui.KeyArrowLeft, "ARROWS", "pan", ui.cmdPan(-panCells, 0), "grid"},
		{gocui.KeyArrowRight, "", "", ui.cmdPan(panCells, 0), "grid"},
		{gocui.KeyArrowUp, "", "", ui.cmdPan(0, -panCells), "grid"},
		{gocui.KeyArrowDown, "", "", ui.cmdPan(0, panCells), "grid"},
		{gocui.MouseLeft, "MOUSE", "paint (right erases)", ui.cmdPaint, "grid"},
		{gocui.MouseRight, "", "", ui.cmdErase, "grid"},
		{gocui.KeyEnter, "", "", ui.cmdRunCommand, "command"},
		{gocui.KeyEsc, "", "", ui.cmdClosePrompt, "command"},
	}
	return ui
}

// Run owns the terminal until the user quits.
func (ui *UI) Run() error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("init terminal ui: %w", err)
	}
	defer g.Close()
	ui.g = g

	g.Mouse = true
	g.InputEsc = true
	g.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(); err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)
	go ui.tick(stop)

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (ui *UI) bindKeys() error {
	for _, kb := range ui.k {
		h := kb.handler
		err := ui.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone,
			func(g *gocui.Gui, v *gocui.View) error { return h(v) })
		if err != nil {
			return fmt.Errorf("bind key %v: %w", kb.key, err)
		}
	}
	return nil
}

// tick advances the session and redraws at a steady cadence. Drawing must
// happen inside g.Update because this runs off the main loop goroutine.
func (ui *UI) tick(stop chan struct{}) {
	t := time.NewTicker(time.Second / 30)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			ui.g.Update(func(g *gocui.Gui) error {
				ui.session.Advance()
				ui.renderGrid(g)
				ui.renderStatus(g)
				return nil
			})
		}
	}
}

func (ui *UI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView("status", 0, 0, statusWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
		v.Frame = true
	}
	if v, err := g.SetView("grid", statusWidth+1, 0, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "World"
		v.Frame = true
		if _, err := g.SetCurrentView("grid"); err != nil {
			return err
		}
	}
	if v, err := g.SetView("command", 0, maxY-5, maxX-1, maxY-3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Command"
		v.Editable = true
		v.Wrap = false
	}
	if v, err := g.SetView("help", -1, maxY-3, maxX, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		fmt.Fprint(v, ui.helpLine())
	}

	ui.renderGrid(g)
	ui.renderStatus(g)
	return nil
}

func (ui *UI) helpLine() string {
	var b bytes.Buffer
	b.WriteString("KEYS: ")
	first := true
	for _, kb := range ui.k {
		if kb.name == "" {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(aurora.Green(kb.name).String())
		b.WriteString(": ")
		b.WriteString(kb.descr)
	}
	return b.String()
}

func (ui *UI) renderGrid(g *gocui.Gui) {
	v, err := g.View("grid")
	if err != nil {
		return
	}
	v.Clear()

	w, h := v.Size()
	cells := ui.session.Grid().Cells()
	var b bytes.Buffer
	for row := 0; row < h; row++ {
		if row != 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < w; col++ {
			state, ok := cells[core.Pt(ui.originX+int32(col), ui.originY+int32(row))]
			if !ok {
				b.WriteByte(' ')
				continue
			}
			if glyph, ok := ui.glyphs[state]; ok {
				b.WriteString(glyph)
			} else {
				b.WriteString(cellGlyph)
			}
		}
	}
	fmt.Fprint(v, b.String())
}

func (ui *UI) renderStatus(g *gocui.Gui) {
	v, err := g.View("status")
	if err != nil {
		return
	}
	v.Clear()

	s := ui.session
	mode := aurora.Colorize("running", aurora.CyanFg).String()
	if s.Paused() {
		mode = aurora.Colorize("paused", aurora.YellowFg).String()
	}
	fmt.Fprintln(v, prop("Rule", "%s", s.Name()))
	fmt.Fprintln(v, prop("Generation", "%d", s.Generation()))
	fmt.Fprintln(v, prop("Population", "%d", s.Population()))
	fmt.Fprintln(v, prop("Speed", "%d gen/s", s.Rate()))
	fmt.Fprintln(v, prop("Mode", "%s", mode))
	fmt.Fprintln(v, prop("Brush", "state %d, %dx%d", s.BrushState(), s.BrushSize(), s.BrushSize()))
	fmt.Fprintln(v, prop("Origin", "(%d, %d)", ui.originX, ui.originY))
	if ui.notice != "" {
		fmt.Fprintln(v)
		fmt.Fprintln(v, " "+ui.notice)
	}
}

func prop(name, format string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+format, values...)
}

func (ui *UI) setNotice(msg string) {
	ui.notice = msg
}

// centerOn moves the origin so the given world cell lands in the middle of
// the grid view.
func (ui *UI) centerOn(wx, wy int32) {
	v, err := ui.g.View("grid")
	if err != nil {
		return
	}
	w, h := v.Size()
	ui.originX = wx - int32(w/2)
	ui.originY = wy - int32(h/2)
}

func (ui *UI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (ui *UI) cmdTogglePause(_ *gocui.View) error {
	ui.session.TogglePause()
	return nil
}

func (ui *UI) cmdStepOnce(_ *gocui.View) error {
	ui.session.StepOnce()
	return nil
}

func (ui *UI) cmdCycleBrush(_ *gocui.View) error {
	ui.setNotice(fmt.Sprintf("brush state %d", ui.session.CycleBrushState()))
	return nil
}

func (ui *UI) cmdGrowBrush(_ *gocui.View) error {
	ui.setNotice(fmt.Sprintf("brush size %d", ui.session.AdjustBrushSize(1)))
	return nil
}

func (ui *UI) cmdShrinkBrush(_ *gocui.View) error {
	ui.setNotice(fmt.Sprintf("brush size %d", ui.session.AdjustBrushSize(-1)))
	return nil
}

func (ui *UI) cmdSoup(_ *gocui.View) error {
	ui.session.Soup(time.Now().UnixNano(), 24, 0.33)
	ui.setNotice("seeded random soup")
	return nil
}

func (ui *UI) cmdFit(_ *gocui.View) error {
	ui.Fit()
	return nil
}

func (ui *UI) cmdCenter(_ *gocui.View) error {
	ui.Center()
	return nil
}

func (ui *UI) cmdPan(dx, dy int32) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		ui.originX += dx
		ui.originY += dy
		return nil
	}
}

func (ui *UI) cmdPaint(v *gocui.View) error {
	cx, cy := v.Cursor()
	ui.session.PaintAt(core.Pt(ui.originX+int32(cx), ui.originY+int32(cy)))
	return nil
}

func (ui *UI) cmdErase(v *gocui.View) error {
	cx, cy := v.Cursor()
	ui.session.EraseAt(core.Pt(ui.originX+int32(cx), ui.originY+int32(cy)))
	return nil
}

func (ui *UI) cmdOpenPrompt(_ *gocui.View) error {
	ui.g.Cursor = true
	_, err := ui.g.SetCurrentView("command")
	return err
}

func (ui *UI) cmdClosePrompt(v *gocui.View) error {
	v.Clear()
	if err := v.SetCursor(0, 0); err != nil {
		return err
	}
	ui.g.Cursor = false
	_, err := ui.g.SetCurrentView("grid")
	return err
}

func (ui *UI) cmdRunCommand(v *gocui.View) error {
	line := strings.TrimSpace(v.Buffer())
	if err := ui.cmdClosePrompt(v); err != nil {
		return err
	}
	msg, err := command.Execute(line, ui)
	switch {
	case err != nil:
		ui.setNotice("error: " + err.Error())
	case msg != "":
		ui.setNotice(msg)
	}
	if ui.quit {
		return gocui.ErrQuit
	}
	return nil
}

// Save implements command.Actions.
func (ui *UI) Save(path string) error { return ui.session.Save(path) }

// Load implements command.Actions.
func (ui *UI) Load(path string) error { return ui.session.Load(path) }

// Pause implements command.Actions.
func (ui *UI) Pause() { ui.session.Pause() }

// Resume implements command.Actions.
func (ui *UI) Resume() { ui.session.Resume() }

// SetSpeed implements command.Actions.
func (ui *UI) SetSpeed(tps int) error { return ui.session.SetRate(tps) }

// Clear implements command.Actions.
func (ui *UI) Clear() { ui.session.Clear() }

// SetBrushState implements command.Actions.
func (ui *UI) SetBrushState(state int32) error { return ui.session.SetBrushState(state) }

// SetBrushSize implements command.Actions.
func (ui *UI) SetBrushSize(size int) error { return ui.session.SetBrushSize(size) }

// Center implements command.Actions by returning the view to the origin.
func (ui *UI) Center() { ui.centerOn(0, 0) }

// Fit implements command.Actions by centering on the population's bounding
// box; the terminal cannot zoom, so fitting only re-centers.
func (ui *UI) Fit() {
	min, max, ok := ui.session.Grid().Bounds()
	if !ok {
		ui.centerOn(0, 0)
		return
	}
	ui.centerOn(min.X+(max.X-min.X)/2, min.Y+(max.Y-min.Y)/2)
}

// Quit implements command.Actions; the command handler translates it into
// gocui.ErrQuit.
func (ui *UI) Quit() { ui.quit = true }

// ansiPalette approximates the 8 basic terminal colors for mapping rule
// colors onto aurora foregrounds.
var ansiPalette = []struct {
	c       aurora.Color
	r, g, b int
}{
	{aurora.BlackFg, 0, 0, 0},
	{aurora.RedFg, 205, 49, 49},
	{aurora.GreenFg, 13, 188, 121},
	{aurora.YellowFg, 229, 229, 16},
	{aurora.BlueFg, 36, 114, 200},
	{aurora.MagentaFg, 188, 63, 188},
	{aurora.CyanFg, 17, 168, 205},
	{aurora.WhiteFg, 229, 229, 229},
}

func nearestANSI(c color.RGBA) aurora.Color {
	best := ansiPalette[0].c
	bestDist := 1 << 30
	for _, p := range ansiPalette {
		dr := int(c.R) - p.r
		dg := int(c.G) - p.g
		db := int(c.B) - p.b
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = p.c
		}
	}
	return best
}
