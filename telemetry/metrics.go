package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Solver metrics
	TicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slosh_ticks_total",
			Help: "Total number of simulation ticks run",
		},
	)

	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "slosh_tick_duration_seconds",
			Help:    "Wall time of one simulation tick",
			Buckets: []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066},
		},
	)

	PhaseDuration = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slosh_phase_duration_seconds",
			Help: "Average wall time per tick phase over the last perf window",
		},
		[]string{"phase"},
	)

	// Population metrics
	ParticlesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slosh_particles",
			Help: "Number of live particles",
		},
	)

	SpringsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slosh_springs",
			Help: "Number of live springs",
		},
	)

	ParticleEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slosh_particle_events_total",
			Help: "Particles added or removed, by cause",
		},
		[]string{"event"}, // event: emitted, drained, rain, evicted
	)

	SpringEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slosh_spring_events_total",
			Help: "Springs created or broken",
		},
		[]string{"event"}, // event: created, broken
	)

	// Fluid state, sampled at window end
	SpeedMean = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slosh_speed_mean",
			Help: "Mean particle speed at the last window end",
		},
	)

	DensityMean = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slosh_density_mean",
			Help: "Mean particle density at the last window end",
		},
	)

	KineticEnergy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slosh_kinetic_energy",
			Help: "Total kinetic energy at the last window end",
		},
	)
)

// ObserveWindow publishes a flushed window to the prometheus collectors.
func ObserveWindow(stats WindowStats, perf PerfStats) {
	ParticlesGauge.Set(float64(stats.Particles))
	SpringsGauge.Set(float64(stats.Springs))

	ParticleEvents.WithLabelValues("emitted").Add(float64(stats.Emitted))
	ParticleEvents.WithLabelValues("drained").Add(float64(stats.Drained))
	ParticleEvents.WithLabelValues("rain").Add(float64(stats.RainDrops))
	ParticleEvents.WithLabelValues("evicted").Add(float64(stats.Evicted))
	SpringEvents.WithLabelValues("created").Add(float64(stats.SpringsCreated))
	SpringEvents.WithLabelValues("broken").Add(float64(stats.SpringsBroken))

	SpeedMean.Set(stats.SpeedMean)
	DensityMean.Set(stats.DensityMean)
	KineticEnergy.Set(stats.KineticEnergy)

	for ph, d := range perf.PhaseAvg {
		PhaseDuration.WithLabelValues(Phase(ph).String()).Set(d.Seconds())
	}
}
