//go:build !ebiten

package ui

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD() *HUD { return nil }

// Toggle is a no-op in the headless build.
func (h *HUD) Toggle() {}

// Visible reports false in the headless build.
func (h *HUD) Visible() bool { return false }

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, Status) {}
