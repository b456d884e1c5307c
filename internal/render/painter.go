//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"casim/internal/core"
)

// CellPainter draws the visible slice of a sparse grid. It rasterizes the
// cells into an offscreen texture at one texel per cell and lets the GPU
// scale that to the viewport zoom, so the per-frame cost tracks the screen
// area rather than the population.
type CellPainter struct {
	tex *ebiten.Image
	pix []byte
}

// NewCellPainter returns a painter with no texture allocated yet; the first
// Blit sizes it to the visible region.
func NewCellPainter() *CellPainter {
	return &CellPainter{}
}

// Blit fills dst with the background color and draws every populated cell
// visible through view using the given palette.
func (p *CellPainter) Blit(dst *ebiten.Image, view Viewport, cells map[core.Point]int32, palette map[int32]color.RGBA, background color.RGBA) {
	min, max := view.VisibleCells()
	w := int(max.X-min.X) + 1
	h := int(max.Y-min.Y) + 1
	if w <= 0 || h <= 0 {
		return
	}

	dst.Fill(background)
	p.ensure(w, h)
	rasterize(p.pix, min, max, cells, palette, background)
	p.tex.WritePixels(p.pix)

	sx, sy := view.WorldToScreen(float64(min.X), float64(min.Y))
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(view.Zoom, view.Zoom)
	op.GeoM.Translate(sx, sy)
	dst.DrawImage(p.tex, op)
}

// ensure keeps the texture exactly the requested size; WritePixels requires
// the buffer to cover the whole image.
func (p *CellPainter) ensure(w, h int) {
	if p.tex != nil {
		b := p.tex.Bounds()
		if b.Dx() == w && b.Dy() == h {
			return
		}
		p.tex.Dispose()
	}
	p.tex = ebiten.NewImage(w, h)
	p.pix = make([]byte, w*h*4)
}
