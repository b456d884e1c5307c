package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"casim/internal/config"
	"casim/internal/sim"
)

// soup_sweep runs a rule headless against a handful of soup candidates and
// reports how each population evolves. Handy when tuning a new rule file.

type sweepParams struct {
	density float64
	radius  int
	seed    int64
}

func main() {
	rulePath := "rules/rule110.json"
	if len(os.Args) > 1 {
		rulePath = os.Args[1]
	}

	rule, err := config.Load(rulePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	candidates := []sweepParams{
		{density: 0.15, radius: 32, seed: 1},
		{density: 0.33, radius: 32, seed: 1},
		{density: 0.50, radius: 32, seed: 1},
		{density: 0.33, radius: 64, seed: 1},
		{density: 0.33, radius: 32, seed: 7},
	}

	const generations = 200

	fmt.Printf("evaluating %d soup candidates against %q\n", len(candidates), rule.Name)
	for _, p := range candidates {
		start, peak, final := simulate(rule, p, generations)
		fmt.Printf("density=%.2f radius=%d seed=%d: start %d, peak %d, final %d after %d generations\n",
			p.density, p.radius, p.seed, start, peak, final, generations)
	}
}

func simulate(rule *config.Rule, p sweepParams, generations int) (start, peak, final int) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session, err := sim.New(rule, logger, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer session.Close()

	session.Soup(p.seed, p.radius, p.density)
	start = session.Population()
	peak = start
	for i := 0; i < generations; i++ {
		session.StepOnce()
		session.Advance()
		if pop := session.Population(); pop > peak {
			peak = pop
		}
	}
	return start, peak, session.Population()
}
