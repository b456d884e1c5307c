//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"casim/internal/app"
	"casim/internal/config"
	"casim/internal/sim"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := newLogger(cfg.Verbose)

	rule, err := config.Load(cfg.Rules)
	if err != nil {
		logger.Error("load rule configuration", "err", err)
		os.Exit(1)
	}

	var reg prometheus.Registerer
	if cfg.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		reg = registry
		go serveMetrics(logger, cfg.MetricsAddr, registry)
	}

	session, err := sim.New(rule, logger, reg)
	if err != nil {
		logger.Error("start session", "err", err)
		os.Exit(1)
	}
	defer session.Close()

	if err := session.SetRate(cfg.Rate); err != nil {
		logger.Error("set rate", "err", err)
		os.Exit(1)
	}
	switch {
	case cfg.Snapshot != "":
		if err := session.Load(cfg.Snapshot); err != nil {
			logger.Error("restore snapshot", "err", err)
			os.Exit(1)
		}
	case cfg.Soup:
		session.Soup(cfg.Seed, 32, cfg.SoupDensity)
	}

	game := app.New(session, logger, cfg.Width, cfg.Height)

	title := "casim"
	if rule.Name != "" {
		title += " — " + rule.Name
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("run", "err", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
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
