package ui

import (
	"strings"
	"testing"
)

func TestStatusLine(t *testing.T) {
	st := Status{
		RuleName:   "life",
		Generation: 42,
		Population: 7,
		Rate:       30,
		BrushState: 1,
		BrushSize:  3,
		Zoom:       8,
	}
	line := st.Line()
	for _, want := range []string{"life", "gen 42", "pop 7", "30 gen/s", "brush 1 x3", "zoom 8.0"} {
		if !strings.Contains(line, want) {
			t.Errorf("status line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "PAUSED") {
		t.Errorf("running status line %q should not say PAUSED", line)
	}

	st.Paused = true
	if !strings.HasSuffix(st.Line(), "PAUSED") {
		t.Errorf("paused status line %q should end with PAUSED", st.Line())
	}
}
