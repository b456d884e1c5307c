// Package rules resolves cell transitions for one simulation step at a
// time, either through an exact-match rule table or through a rule function
// loaded from a shared library.
package rules

import (
	"errors"
	"fmt"
	"log/slog"

	"casim/internal/config"
	"casim/internal/core"
)

// ErrNotInitialized reports a step attempted on an engine that was never
// successfully constructed. The simulation stalls; it does not crash.
var ErrNotInitialized = errors.New("rules: engine not initialized")

// Grid is the read-only view of the cell store the engine steps over.
type Grid interface {
	State(p core.Point) int32
	NeighborStates(p core.Point) []int32
	Frontier() []core.Point
}

// Engine computes generation deltas. The resolution strategy is fixed at
// construction; the zero value is unusable and reports ErrNotInitialized.
type Engine struct {
	resolver Resolver
	logger   *slog.Logger
}

// NewEngine validates cfg and builds an engine in the configured mode.
// Plugin libraries are loaded here, so a missing library or symbol fails
// construction outright; there is no fallback between modes.
func NewEngine(cfg *config.Rule, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "rules"))

	if cfg == nil {
		return nil, fmt.Errorf("rules: nil rule configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var resolver Resolver
	switch cfg.RuleMode {
	case config.ModeTable:
		resolver = NewTableResolver(cfg.Rules)
		logger.Info("rule table built",
			slog.Int("rows", len(cfg.Rules)),
			slog.Int("neighborhood", len(cfg.Neighborhood)))
	case config.ModePlugin:
		pr, err := NewPluginResolver(cfg.RuleLibrary, cfg.RuleSymbol)
		if err != nil {
			return nil, err
		}
		resolver = pr
		logger.Info("rule plugin bound",
			slog.String("library", cfg.RuleLibrary),
			slog.String("symbol", cfg.RuleSymbol))
	}

	return &Engine{resolver: resolver, logger: logger}, nil
}

// Step resolves one generation over the grid's evaluation frontier and
// returns only the cells whose state changes. The grid itself is not
// mutated; the caller commits the delta through ApplyChanges, so every
// resolution in a step observes the pre-step state.
func (e *Engine) Step(g Grid) (map[core.Point]int32, error) {
	if e == nil || e.resolver == nil {
		return map[core.Point]int32{}, ErrNotInitialized
	}

	delta := map[core.Point]int32{}
	for _, p := range g.Frontier() {
		current := g.State(p)
		next := e.resolver.Resolve(g.NeighborStates(p), current)
		if next != current {
			delta[p] = next
		}
	}
	return delta, nil
}

// Close releases the resolver, unloading a plugin library if one is bound.
func (e *Engine) Close() error {
	if e == nil || e.resolver == nil {
		return nil
	}
	err := e.resolver.Close()
	e.logger.Debug("rule engine closed")
	return err
}
