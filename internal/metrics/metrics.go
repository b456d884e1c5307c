// Package metrics bundles the Prometheus instruments the simulation
// session updates. Instruments are built against an injected registerer
// rather than the global default registry; passing nil yields working but
// unregistered instruments, which keeps tests and metric-less runs quiet.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Simulation aggregates per-tick and codec instruments.
type Simulation struct {
	StepDuration     prometheus.Histogram
	ApplyDuration    prometheus.Histogram
	SnapshotDuration *prometheus.HistogramVec
	Generations      prometheus.Counter
	CellsEvaluated   prometheus.Counter
	CellsChanged     prometheus.Counter
	Population       prometheus.Gauge
}

// New constructs the instrument set on reg.
func New(reg prometheus.Registerer) *Simulation {
	factory := promauto.With(reg)
	return &Simulation{
		StepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "casim_step_duration_seconds",
			Help:    "Duration of one rule resolution pass over the evaluation frontier",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		ApplyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "casim_apply_duration_seconds",
			Help:    "Duration of committing a step delta to the grid",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		SnapshotDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "casim_snapshot_duration_seconds",
			Help:    "Duration of snapshot save and load operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"op"}),
		Generations: factory.NewCounter(prometheus.CounterOpts{
			Name: "casim_generations_total",
			Help: "Simulation generations advanced",
		}),
		CellsEvaluated: factory.NewCounter(prometheus.CounterOpts{
			Name: "casim_cells_evaluated_total",
			Help: "Frontier cells resolved across all steps",
		}),
		CellsChanged: factory.NewCounter(prometheus.CounterOpts{
			Name: "casim_cells_changed_total",
			Help: "Cells whose state changed across all steps",
		}),
		Population: factory.NewGauge(prometheus.GaugeOpts{
			Name: "casim_population_cells",
			Help: "Live cells currently stored in the grid",
		}),
	}
}
