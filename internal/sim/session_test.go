package sim

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"casim/internal/config"
	"casim/internal/core"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// rule110 gives the sessions under test a real table rule with visible
// dynamics.
func rule110() *config.Rule {
	return &config.Rule{
		Name:         "rule110",
		States:       []int32{0, 1},
		DefaultState: 0,
		Neighborhood: [][2]int32{{-1, 0}, {0, 0}, {1, 0}},
		RuleMode:     config.ModeTable,
		Rules: [][]int32{
			{1, 1, 1, 0},
			{1, 1, 0, 1},
			{1, 0, 1, 1},
			{1, 0, 0, 0},
			{0, 1, 1, 1},
			{0, 1, 0, 1},
			{0, 0, 1, 1},
			{0, 0, 0, 0},
		},
	}
}

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(rule110(), quietLogger(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSessionRejectsBadConfig(t *testing.T) {
	bad := rule110()
	bad.RuleMode = "oracle"
	if _, err := New(bad, quietLogger(), nil); err == nil {
		t.Fatal("New accepted an invalid configuration")
	}
}

func TestPaintAndErase(t *testing.T) {
	s := newSession(t)

	if got := s.BrushState(); got != 1 {
		t.Fatalf("initial brush state = %d, want the first non-default state 1", got)
	}
	s.PaintAt(core.Pt(0, 0))
	if s.Population() != 1 {
		t.Fatalf("population = %d after one dab, want 1", s.Population())
	}
	if got := s.Grid().State(core.Pt(0, 0)); got != 1 {
		t.Fatalf("painted cell state = %d, want 1", got)
	}

	if got := s.AdjustBrushSize(2); got != 3 {
		t.Fatalf("AdjustBrushSize(2) = %d, want 3", got)
	}
	s.PaintAt(core.Pt(10, 10))
	if s.Population() != 10 {
		t.Fatalf("population = %d after a 3x3 stamp, want 10", s.Population())
	}

	s.EraseAt(core.Pt(10, 10))
	if s.Population() != 1 {
		t.Fatalf("population = %d after erasing the stamp, want 1", s.Population())
	}
}

func TestStepOnceAdvancesWhilePaused(t *testing.T) {
	s := newSession(t)
	s.Pause()

	s.Advance()
	if s.Generation() != 0 {
		t.Fatalf("paused session advanced to generation %d", s.Generation())
	}

	s.StepOnce()
	s.Advance()
	if s.Generation() != 1 {
		t.Fatalf("generation = %d after StepOnce, want 1", s.Generation())
	}

	s.Advance()
	if s.Generation() != 1 {
		t.Fatalf("generation = %d, a single-step request must not repeat", s.Generation())
	}
}

func TestStepMovesThePattern(t *testing.T) {
	s := newSession(t)
	s.PaintAt(core.Pt(0, 0))

	s.StepOnce()
	s.Advance()

	// Rule 110 turns a lone cell into a pair: (-1, 0) matches pattern 001.
	if got := s.Grid().State(core.Pt(-1, 0)); got != 1 {
		t.Fatalf("state at (-1, 0) = %d, want 1", got)
	}
	if got := s.Grid().State(core.Pt(0, 0)); got != 1 {
		t.Fatalf("state at (0, 0) = %d, want 1", got)
	}
	if s.Population() != 2 {
		t.Fatalf("population = %d, want 2", s.Population())
	}
}

func TestTogglePause(t *testing.T) {
	s := newSession(t)
	if s.Paused() {
		t.Fatal("sessions must start running")
	}
	s.TogglePause()
	if !s.Paused() {
		t.Fatal("TogglePause did not pause")
	}
	s.TogglePause()
	if s.Paused() {
		t.Fatal("TogglePause did not resume")
	}
}

func TestBrushValidation(t *testing.T) {
	s := newSession(t)

	if err := s.SetBrushState(7); err == nil {
		t.Fatal("SetBrushState accepted an undeclared state")
	}
	if err := s.SetBrushState(0); err != nil {
		t.Fatalf("SetBrushState(0): %v", err)
	}
	if got := s.CycleBrushState(); got != 1 {
		t.Fatalf("CycleBrushState = %d, want 1", got)
	}
	if got := s.CycleBrushState(); got != 0 {
		t.Fatalf("CycleBrushState = %d, want wrap to 0", got)
	}

	if err := s.SetBrushSize(0); err == nil {
		t.Fatal("SetBrushSize accepted 0")
	}
	if err := s.SetBrushSize(51); err == nil {
		t.Fatal("SetBrushSize accepted 51")
	}
	if got := s.AdjustBrushSize(-5); got != 1 {
		t.Fatalf("AdjustBrushSize floor = %d, want 1", got)
	}
	if got := s.AdjustBrushSize(100); got != 50 {
		t.Fatalf("AdjustBrushSize ceiling = %d, want 50", got)
	}
}

func TestSpeedBounds(t *testing.T) {
	s := newSession(t)
	if err := s.SetRate(0); err == nil {
		t.Fatal("SetRate accepted 0")
	}
	if err := s.SetRate(10000); err == nil {
		t.Fatal("SetRate accepted an absurd rate")
	}
	if err := s.SetRate(30); err != nil {
		t.Fatalf("SetRate(30): %v", err)
	}
	if s.Rate() != 30 {
		t.Fatalf("Rate = %d, want 30", s.Rate())
	}
}

func TestClearResetsWorld(t *testing.T) {
	s := newSession(t)
	s.PaintAt(core.Pt(3, 3))
	s.StepOnce()
	s.Advance()

	s.Clear()
	if s.Population() != 0 || s.Generation() != 0 {
		t.Fatalf("after Clear: population %d, generation %d", s.Population(), s.Generation())
	}
	if _, _, ok := s.Grid().Bounds(); ok {
		t.Fatal("cleared world still reports bounds")
	}
}

func TestSoupIsDeterministic(t *testing.T) {
	a := newSession(t)
	b := newSession(t)

	a.Soup(42, 5, 0.5)
	b.Soup(42, 5, 0.5)

	if a.Population() == 0 {
		t.Fatal("soup seeded nothing")
	}
	if a.Population() != b.Population() {
		t.Fatalf("same seed gave populations %d and %d", a.Population(), b.Population())
	}
	for p, st := range a.Grid().Cells() {
		if p.X < -5 || p.X > 5 || p.Y < -5 || p.Y > 5 {
			t.Fatalf("soup cell %v outside the requested radius", p)
		}
		if got := b.Grid().State(p); got != st {
			t.Fatalf("grids diverge at %v: %d vs %d", p, st, got)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newSession(t)
	s.PaintAt(core.Pt(1, 2))
	s.PaintAt(core.Pt(-3, 4))

	path := filepath.Join(t.TempDir(), "world")
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s.Clear()
	if err := s.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Population() != 2 {
		t.Fatalf("population = %d after load, want 2", s.Population())
	}
	if got := s.Grid().State(core.Pt(-3, 4)); got != 1 {
		t.Fatalf("restored state at (-3, 4) = %d, want 1", got)
	}

	if err := s.Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("Load succeeded on a missing snapshot")
	}
	if s.Population() != 2 {
		t.Fatal("failed load disturbed the world")
	}
}
