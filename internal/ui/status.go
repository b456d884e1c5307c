// Package ui draws the heads-up display over the simulation view.
package ui

import "fmt"

// Status is everything the HUD shows about the running session. The
// front-end assembles one per frame; the HUD only formats it.
type Status struct {
	RuleName   string
	Generation uint64
	Population int
	Rate       int
	Paused     bool
	BrushState int32
	BrushSize  int
	Zoom       float64

	// Command holds the in-progress command line. CommandOpen distinguishes
	// an open empty prompt from no prompt at all.
	Command     string
	CommandOpen bool

	// Notice is the last command reply or error.
	Notice string
}

// Line formats the one-line session summary shared by the GUI HUD and the
// terminal status bar.
func (s Status) Line() string {
	line := fmt.Sprintf("%s  gen %d  pop %d  %d gen/s  brush %d x%d  zoom %.1f",
		s.RuleName, s.Generation, s.Population, s.Rate, s.BrushState, s.BrushSize, s.Zoom)
	if s.Paused {
		line += "  PAUSED"
	}
	return line
}
