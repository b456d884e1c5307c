//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"casim/internal/core"
	"casim/internal/render"
)

var (
	frontierColor = color.RGBA{R: 64, G: 164, B: 223, A: 90}
	boundsColor   = color.RGBA{R: 255, G: 120, B: 40, A: 255}
)

// gridView is the part of the world the overlay inspects.
type gridView interface {
	Frontier() []core.Point
	Bounds() (core.Point, core.Point, bool)
}

// Overlay draws optional debugging visuals on top of the world view: the
// evaluation frontier and the tracked bounding box.
type Overlay struct {
	showFrontier bool
	showBounds   bool
	pixel        *ebiten.Image
}

// NewOverlay constructs a new overlay instance with all layers off.
func NewOverlay() *Overlay {
	o := &Overlay{}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the overlay layers: 1 for the evaluation frontier, 2 for
// the bounding box.
func (o *Overlay) Update() {
	if o == nil {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showFrontier = !o.showFrontier
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showBounds = !o.showBounds
	}
}

// Draw renders the enabled layers onto the screen.
func (o *Overlay) Draw(screen *ebiten.Image, view render.Viewport, g gridView) {
	if o == nil {
		return
	}
	if o.showFrontier {
		for _, p := range g.Frontier() {
			sx, sy := view.WorldToScreen(float64(p.X), float64(p.Y))
			o.rect(screen, sx, sy, view.Zoom, view.Zoom, frontierColor)
		}
	}
	if o.showBounds {
		if min, max, ok := g.Bounds(); ok {
			o.drawBounds(screen, view, min, max)
		}
	}
}

// drawBounds outlines the inclusive cell rectangle [min, max].
func (o *Overlay) drawBounds(screen *ebiten.Image, view render.Viewport, min, max core.Point) {
	x0, y0 := view.WorldToScreen(float64(min.X), float64(min.Y))
	x1, y1 := view.WorldToScreen(float64(max.X)+1, float64(max.Y)+1)
	w := x1 - x0
	h := y1 - y0
	o.rect(screen, x0, y0, w, 1, boundsColor)
	o.rect(screen, x0, y1-1, w, 1, boundsColor)
	o.rect(screen, x0, y0, 1, h, boundsColor)
	o.rect(screen, x1-1, y0, 1, h, boundsColor)
}

func (o *Overlay) rect(dst *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	a := float64(col.A) / 255
	op.ColorM.Scale(
		float64(col.R)/255*a,
		float64(col.G)/255*a,
		float64(col.B)/255*a,
		a,
	)
	dst.DrawImage(o.pixel, op)
}
