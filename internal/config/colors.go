package config

import (
	"image/color"
	"math"
)

// Colors returns one display color per declared state. Entries come from
// state_color_map where present and well-formed (RGB or RGBA); anything
// missing or malformed falls back to a generated color so a bad color map
// degrades the display instead of failing the load. The default state falls
// back to near-black so an unconfigured world still reads as cells on a
// dark background.
func (r *Rule) Colors() map[int32]color.RGBA {
	out := make(map[int32]color.RGBA, len(r.States))
	for i, s := range r.States {
		if i < len(r.StateColors) {
			if c, ok := parseColor(r.StateColors[i]); ok {
				out[s] = c
				continue
			}
		}
		if s == r.DefaultState {
			out[s] = color.RGBA{R: 16, G: 16, B: 20, A: 255}
			continue
		}
		out[s] = generatedColor(i)
	}
	return out
}

func parseColor(raw []uint8) (color.RGBA, bool) {
	switch len(raw) {
	case 3:
		return color.RGBA{R: raw[0], G: raw[1], B: raw[2], A: 255}, true
	case 4:
		return color.RGBA{R: raw[0], G: raw[1], B: raw[2], A: raw[3]}, true
	}
	return color.RGBA{}, false
}

// generatedColor spaces hues by the golden angle so neighboring state
// indices stay visually distinct.
func generatedColor(i int) color.RGBA {
	hue := math.Mod(float64(i)*137.508, 360)
	return hsvToRGBA(hue, 0.65, 0.95)
}

func hsvToRGBA(h, s, v float64) color.RGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var rf, gf, bf float64
	switch {
	case h < 60:
		rf, gf, bf = c, x, 0
	case h < 120:
		rf, gf, bf = x, c, 0
	case h < 180:
		rf, gf, bf = 0, c, x
	case h < 240:
		rf, gf, bf = 0, x, c
	case h < 300:
		rf, gf, bf = x, 0, c
	default:
		rf, gf, bf = c, 0, x
	}
	return color.RGBA{
		R: uint8(math.Round((rf + m) * 255)),
		G: uint8(math.Round((gf + m) * 255)),
		B: uint8(math.Round((bf + m) * 255)),
		A: 255,
	}
}
