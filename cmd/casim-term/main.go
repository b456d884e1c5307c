package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/integrii/flaggy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"casim/internal/config"
	"casim/internal/sim"
	"casim/internal/term"
)

func main() {
	rules := "rules/replicator.json"
	snapshot := ""
	rate := 10
	seed := int64(42)
	soup := false
	density := 0.33
	metricsAddr := ""
	verbose := false

	flaggy.SetName("casim-term")
	flaggy.SetDescription("Terminal front-end for the casim cellular automaton simulator")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&rules, "r", "rules", "Rule configuration file")
	flaggy.String(&snapshot, "l", "snapshot", "Snapshot to restore on startup")
	flaggy.Int(&rate, "t", "rate", "Simulation speed in generations per second")
	flaggy.Int64(&seed, "s", "seed", "Seed for the random soup")
	flaggy.Bool(&soup, "w", "soup", "Seed a random soup on startup")
	flaggy.Float64(&density, "d", "density", "Cell density of the random soup")
	flaggy.String(&metricsAddr, "m", "metrics-addr", "Address to serve Prometheus metrics on (empty disables)")
	flaggy.Bool(&verbose, "v", "verbose", "Write debug logs to casim-term.log")
	flaggy.Parse()

	logger := newLogger(verbose)

	rule, err := config.Load(rules)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var reg prometheus.Registerer
	if metricsAddr != "" {
		registry := prometheus.NewRegistry()
		reg = registry
		go serveMetrics(logger, metricsAddr, registry)
	}

	session, err := sim.New(rule, logger, reg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer session.Close()

	if err := session.SetRate(rate); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	switch {
	case snapshot != "":
		if err := session.Load(snapshot); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case soup:
		session.Soup(seed, 24, density)
	}

	if err := term.New(session, logger).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger keeps log output away from the terminal, which gocui owns.
// Verbose runs append to a file; otherwise logs are dropped.
func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f, err := os.OpenFile("casim-term.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func serveMetrics(logger *slog.Logger, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server", "err", err)
	}
}
