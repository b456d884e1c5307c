//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	hudPadding    = 8
	hudLineHeight = 22
	hudBaseline   = 15
)

var (
	stripColor  = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	textColor   = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	noticeColor = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	promptColor = color.RGBA{R: 220, G: 220, B: 230, A: 255}
)

// HUD renders the status line, command prompt, and notices over the
// simulation view.
type HUD struct {
	visible bool
	pixel   *ebiten.Image
}

// NewHUD constructs a visible HUD.
func NewHUD() *HUD {
	h := &HUD{visible: true, pixel: ebiten.NewImage(1, 1)}
	h.pixel.Fill(color.White)
	return h
}

// Toggle flips HUD visibility. The command prompt stays visible either way
// so typing never goes blind.
func (h *HUD) Toggle() {
	if h == nil {
		return
	}
	h.visible = !h.visible
}

// Visible reports whether the status line is drawn.
func (h *HUD) Visible() bool { return h != nil && h.visible }

// Draw paints the HUD onto the screen.
func (h *HUD) Draw(screen *ebiten.Image, st Status) {
	if h == nil {
		return
	}
	face := basicfont.Face7x13
	w := screen.Bounds().Dx()
	bottom := screen.Bounds().Dy()

	if h.visible {
		h.strip(screen, 0, 0, w)
		text.Draw(screen, st.Line(), face, hudPadding, hudBaseline, textColor)
		if st.Notice != "" {
			h.strip(screen, 0, hudLineHeight, w)
			text.Draw(screen, st.Notice, face, hudPadding, hudLineHeight+hudBaseline, noticeColor)
		}
	}

	if st.CommandOpen {
		y := bottom - hudLineHeight
		h.strip(screen, 0, y, w)
		text.Draw(screen, "/"+st.Command+"_", face, hudPadding, y+hudBaseline, promptColor)
	}
}

func (h *HUD) strip(dst *ebiten.Image, x, y, w int) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), float64(hudLineHeight))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorM.Scale(
		float64(stripColor.R)/255,
		float64(stripColor.G)/255,
		float64(stripColor.B)/255,
		float64(stripColor.A)/255,
	)
	dst.DrawImage(h.pixel, op)
}
