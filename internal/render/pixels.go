package render

import (
	"image/color"

	"casim/internal/core"
)

// fallback is drawn for states the palette does not cover, such as values a
// rule plugin produced that the configuration never declared.
var fallback = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// rasterize renders the cells inside the inclusive rectangle [min, max] into
// buf at one RGBA pixel per cell, row-major. buf must hold at least
// width*height*4 bytes. Every pixel is first cleared to background, so only
// the populated cells cost a palette lookup.
func rasterize(buf []byte, min, max core.Point, cells map[core.Point]int32, palette map[int32]color.RGBA, background color.RGBA) {
	w := int(max.X-min.X) + 1
	h := int(max.Y-min.Y) + 1
	if w <= 0 || h <= 0 {
		return
	}

	fillRGBA(buf[:w*h*4], background)

	for p, state := range cells {
		if p.X < min.X || p.X > max.X || p.Y < min.Y || p.Y > max.Y {
			continue
		}
		col, ok := palette[state]
		if !ok {
			col = fallback
		}
		base := (int(p.Y-min.Y)*w + int(p.X-min.X)) * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

func fillRGBA(buf []byte, col color.RGBA) {
	for i := 0; i < len(buf); i += 4 {
		buf[i+0] = col.R
		buf[i+1] = col.G
		buf[i+2] = col.B
		buf[i+3] = col.A
	}
}
