// Package render maps the infinite cell grid onto a finite screen. The
// viewport math is plain arithmetic so it can be tested without a display;
// the GUI blitter lives behind the ebiten build tag.
package render

import (
	"math"

	"casim/internal/core"
)

// Zoom limits in screen pixels per cell.
const (
	MinZoom = 0.5
	MaxZoom = 64.0
)

// fitMargin leaves a little air around the population when fitting.
const fitMargin = 0.9

// Viewport describes which part of the world is on screen. CenterX/CenterY
// are the world coordinates under the screen center; Zoom is the edge length
// of one cell in screen pixels.
type Viewport struct {
	CenterX float64
	CenterY float64
	Zoom    float64
	W, H    int
}

// NewViewport returns a viewport centered on the origin at a comfortable
// default zoom.
func NewViewport(w, h int) Viewport {
	return Viewport{Zoom: 8, W: w, H: h}
}

// WorldToScreen converts a world position to screen pixels.
func (v Viewport) WorldToScreen(wx, wy float64) (sx, sy float64) {
	sx = (wx-v.CenterX)*v.Zoom + float64(v.W)/2
	sy = (wy-v.CenterY)*v.Zoom + float64(v.H)/2
	return sx, sy
}

// ScreenToWorld converts screen pixels to a world position.
func (v Viewport) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	wx = (sx-float64(v.W)/2)/v.Zoom + v.CenterX
	wy = (sy-float64(v.H)/2)/v.Zoom + v.CenterY
	return wx, wy
}

// CellAt returns the cell under a screen position. Cells are unit squares
// whose corner sits at their integer coordinates, so this floors rather
// than truncates and stays correct for negative world positions.
func (v Viewport) CellAt(sx, sy float64) core.Point {
	wx, wy := v.ScreenToWorld(sx, sy)
	return core.Pt(int32(math.Floor(wx)), int32(math.Floor(wy)))
}

// Pan shifts the view by a screen-space delta, as from a drag.
func (v *Viewport) Pan(dx, dy float64) {
	v.CenterX += dx / v.Zoom
	v.CenterY += dy / v.Zoom
}

// ZoomAt scales the zoom by factor while keeping the world position under
// the given screen coordinates fixed, so wheel zoom tracks the cursor.
func (v *Viewport) ZoomAt(sx, sy, factor float64) {
	z := clampZoom(v.Zoom * factor)
	if z == v.Zoom {
		return
	}
	wx, wy := v.ScreenToWorld(sx, sy)
	v.Zoom = z
	v.CenterX = wx - (sx-float64(v.W)/2)/z
	v.CenterY = wy - (sy-float64(v.H)/2)/z
}

// CenterOn moves the view so the given world position is at the screen
// center.
func (v *Viewport) CenterOn(wx, wy float64) {
	v.CenterX = wx
	v.CenterY = wy
}

// Fit frames the inclusive cell rectangle [min, max], centering it and
// choosing the largest zoom that keeps it fully on screen.
func (v *Viewport) Fit(min, max core.Point) {
	spanX := float64(max.X-min.X) + 1
	spanY := float64(max.Y-min.Y) + 1
	v.CenterX = float64(min.X) + spanX/2
	v.CenterY = float64(min.Y) + spanY/2
	z := math.Min(float64(v.W)/spanX, float64(v.H)/spanY) * fitMargin
	v.Zoom = clampZoom(z)
}

// Resize updates the screen size, keeping the world center in place.
func (v *Viewport) Resize(w, h int) {
	v.W = w
	v.H = h
}

// VisibleCells returns the inclusive cell rectangle that covers the screen,
// including cells that are only partially visible at the edges.
func (v Viewport) VisibleCells() (min, max core.Point) {
	wx0, wy0 := v.ScreenToWorld(0, 0)
	wx1, wy1 := v.ScreenToWorld(float64(v.W), float64(v.H))
	min = core.Pt(int32(math.Floor(wx0)), int32(math.Floor(wy0)))
	max = core.Pt(int32(math.Floor(wx1)), int32(math.Floor(wy1)))
	return min, max
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
