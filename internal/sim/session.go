// Package sim wires the grid, rule engine, snapshot codec, and metrics into
// one interactive session. Both the GUI and the terminal front-end drive the
// same Session; everything here is display-agnostic.
package sim

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"casim/internal/config"
	"casim/internal/core"
	"casim/internal/grid"
	"casim/internal/metrics"
	"casim/internal/rules"
	"casim/internal/snapshot"
	pcore "casim/pkg/core"
)

const (
	minBrush = 1
	maxBrush = 50

	minRate = 1
	maxRate = 600

	// maxCatchUp caps how many generations one Advance call may run, so a
	// slow step cannot snowball into an ever-growing backlog.
	maxCatchUp = 8
)

// Session is one interactive simulation: a world, the rule engine that
// advances it, and the editing state (brush, pause, speed) the front-ends
// manipulate.
type Session struct {
	logger *slog.Logger

	cfg    *config.Rule
	grid   *grid.Space
	engine *rules.Engine
	codec  *snapshot.Codec
	met    *metrics.Simulation
	timer  *core.FixedStep
	colors map[int32]color.RGBA

	generation uint64
	paused     bool
	stepOnce   bool
	stalled    bool

	brushState int32
	brushSize  int
}

// New builds a session for the given rule configuration. A nil registerer
// leaves the metrics unregistered, which is what tests want.
func New(cfg *config.Rule, logger *slog.Logger, reg prometheus.Registerer) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	engine, err := rules.NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Session{
		logger:     logger.With("component", "session"),
		cfg:        cfg,
		grid:       grid.New(cfg.DefaultState, cfg.Offsets()),
		engine:     engine,
		codec:      snapshot.NewCodec(logger),
		met:        metrics.New(reg),
		timer:      core.NewFixedStep(10),
		colors:     cfg.Colors(),
		brushState: firstPaintable(cfg),
		brushSize:  1,
	}, nil
}

// firstPaintable picks the initial brush state: the first declared state
// that actually stores a cell.
func firstPaintable(cfg *config.Rule) int32 {
	for _, st := range cfg.States {
		if st != cfg.DefaultState {
			return st
		}
	}
	return cfg.DefaultState
}

// Advance runs as many generations as the wall clock owes, honoring pause
// and single-step requests. Front-ends call it once per frame.
func (s *Session) Advance() {
	if s.stepOnce {
		s.stepOnce = false
		s.step()
		return
	}
	if s.paused {
		return
	}
	for i := 0; i < maxCatchUp && s.timer.ShouldStep(); i++ {
		s.step()
	}
}

func (s *Session) step() {
	stepTimer := prometheus.NewTimer(s.met.StepDuration)
	delta, err := s.engine.Step(s.grid)
	stepTimer.ObserveDuration()
	if err != nil {
		if !s.stalled {
			s.stalled = true
			s.logger.Error("simulation stalled", "err", err)
		}
		return
	}
	s.stalled = false

	evaluated := s.grid.FrontierLen()
	applyTimer := prometheus.NewTimer(s.met.ApplyDuration)
	s.grid.ApplyChanges(delta)
	applyTimer.ObserveDuration()

	s.generation++
	s.met.Generations.Inc()
	s.met.CellsEvaluated.Add(float64(evaluated))
	s.met.CellsChanged.Add(float64(len(delta)))
	s.met.Population.Set(float64(s.grid.Len()))
}

// PaintAt stamps the brush, centered on the given cell, with the current
// brush state.
func (s *Session) PaintAt(p core.Point) {
	s.stamp(p, s.brushState)
}

// EraseAt stamps the brush area back to the default state.
func (s *Session) EraseAt(p core.Point) {
	s.stamp(p, s.grid.DefaultState())
}

func (s *Session) stamp(center core.Point, state int32) {
	lo := -int32((s.brushSize - 1) / 2)
	hi := int32(s.brushSize / 2)
	for dy := lo; dy <= hi; dy++ {
		for dx := lo; dx <= hi; dx++ {
			s.grid.SetCellState(core.Pt(center.X+dx, center.Y+dy), state)
		}
	}
	s.met.Population.Set(float64(s.grid.Len()))
}

// TogglePause flips between running and paused.
func (s *Session) TogglePause() {
	s.setPaused(!s.paused)
}

// Pause stops the clock without losing any state.
func (s *Session) Pause() { s.setPaused(true) }

// Resume restarts the clock.
func (s *Session) Resume() { s.setPaused(false) }

func (s *Session) setPaused(p bool) {
	if p == s.paused {
		return
	}
	s.paused = p
	if !p {
		s.timer.Reset()
	}
}

// Paused reports whether the simulation clock is stopped.
func (s *Session) Paused() bool { return s.paused }

// StepOnce requests exactly one generation on the next Advance, even while
// paused.
func (s *Session) StepOnce() { s.stepOnce = true }

// SetRate sets the simulation speed in generations per second.
func (s *Session) SetRate(tps int) error {
	if tps < minRate || tps > maxRate {
		return fmt.Errorf("speed must be between %d and %d generations/s", minRate, maxRate)
	}
	s.timer.SetTPS(tps)
	return nil
}

// Rate reports the configured speed in generations per second.
func (s *Session) Rate() int { return s.timer.TPS() }

// SetBrushState selects which declared state the brush paints.
func (s *Session) SetBrushState(state int32) error {
	for _, st := range s.cfg.States {
		if st == state {
			s.brushState = state
			return nil
		}
	}
	return fmt.Errorf("state %d is not declared by rule %q", state, s.cfg.Name)
}

// CycleBrushState advances the brush to the next declared state, wrapping
// around, and returns the new state.
func (s *Session) CycleBrushState() int32 {
	states := s.cfg.States
	for i, st := range states {
		if st == s.brushState {
			s.brushState = states[(i+1)%len(states)]
			return s.brushState
		}
	}
	s.brushState = states[0]
	return s.brushState
}

// BrushState reports the state the brush currently paints.
func (s *Session) BrushState() int32 { return s.brushState }

// SetBrushSize sets the brush edge length in cells.
func (s *Session) SetBrushSize(n int) error {
	if n < minBrush || n > maxBrush {
		return fmt.Errorf("brush size must be between %d and %d", minBrush, maxBrush)
	}
	s.brushSize = n
	return nil
}

// AdjustBrushSize grows or shrinks the brush by delta, clamped to the legal
// range, and returns the new size.
func (s *Session) AdjustBrushSize(delta int) int {
	n := s.brushSize + delta
	if n < minBrush {
		n = minBrush
	}
	if n > maxBrush {
		n = maxBrush
	}
	s.brushSize = n
	return n
}

// BrushSize reports the brush edge length in cells.
func (s *Session) BrushSize() int { return s.brushSize }

// Clear empties the world and restarts the generation count.
func (s *Session) Clear() {
	s.grid.Clear()
	s.generation = 0
	s.met.Population.Set(0)
}

// Soup seeds a random square patch around the origin so a fresh world has
// something to evolve. Cells inside the patch take a uniformly random
// non-default state with the given density.
func (s *Session) Soup(seed int64, radius int, density float64) {
	if radius <= 0 {
		radius = 32
	}
	var states []int32
	for _, st := range s.cfg.States {
		if st != s.cfg.DefaultState {
			states = append(states, st)
		}
	}
	if len(states) == 0 {
		return
	}

	rng := pcore.NewRNG(seed)
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if !rng.Chance(density) {
				continue
			}
			s.grid.SetCellState(core.Pt(int32(x), int32(y)), states[rng.IntN(len(states))])
		}
	}
	s.met.Population.Set(float64(s.grid.Len()))
	s.logger.Info("seeded random soup",
		"seed", seed, "radius", radius, "density", density, "population", s.grid.Len())
}

// Save writes the world to the given snapshot path.
func (s *Session) Save(path string) error {
	t := prometheus.NewTimer(s.met.SnapshotDuration.WithLabelValues("save"))
	defer t.ObserveDuration()
	return s.codec.Save(path, s.grid)
}

// Load replaces the world with the snapshot at the given path. The current
// world is untouched when loading fails.
func (s *Session) Load(path string) error {
	t := prometheus.NewTimer(s.met.SnapshotDuration.WithLabelValues("load"))
	defer t.ObserveDuration()
	if err := s.codec.Restore(path, s.grid); err != nil {
		return err
	}
	s.generation = 0
	s.met.Population.Set(float64(s.grid.Len()))
	return nil
}

// Grid exposes the world for painting and rendering.
func (s *Session) Grid() *grid.Space { return s.grid }

// Generation reports how many generations have run since the world was
// created, cleared, or loaded.
func (s *Session) Generation() uint64 { return s.generation }

// Population reports the number of non-default cells.
func (s *Session) Population() int { return s.grid.Len() }

// Colors returns the state palette derived from the rule configuration.
func (s *Session) Colors() map[int32]color.RGBA { return s.colors }

// Background returns the color of the default state.
func (s *Session) Background() color.RGBA { return s.colors[s.cfg.DefaultState] }

// Name reports the rule name from the configuration.
func (s *Session) Name() string { return s.cfg.Name }

// Close releases the rule engine, unloading a plugin if one is bound.
func (s *Session) Close() error {
	return s.engine.Close()
}
