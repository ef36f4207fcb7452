package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Particles int `csv:"particles"`
	Springs   int `csv:"springs"`
	Clouds    int `csv:"clouds"`

	// Events during window
	Emitted        int `csv:"emitted"`
	Drained        int `csv:"drained"`
	RainDrops      int `csv:"rain_drops"`
	Evicted        int `csv:"evicted"`
	SpringsCreated int `csv:"springs_created"`
	SpringsBroken  int `csv:"springs_broken"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Density from the last relaxation pass
	DensityMean float64 `csv:"density_mean"`
	DensityMax  float64 `csv:"density_max"`

	MomentumX     float64 `csv:"momentum_x"`
	MomentumY     float64 `csv:"momentum_y"`
	KineticEnergy float64 `csv:"kinetic_energy"`
	Escaped       int     `csv:"escaped"` // Particles outside the domain
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean, percentiles and max of speed values.
func ComputeSpeedStats(values []float64) (mean, p10, p50, p90, maxV float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	maxV = sorted[len(sorted)-1]

	return mean, p10, p50, p90, maxV
}

// ComputeDensityStats returns the mean and max density.
func ComputeDensityStats(values []float64) (mean, maxV float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.Mean(values, nil), floats.Max(values)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("particles", s.Particles),
		slog.Int("springs", s.Springs),
		slog.Int("clouds", s.Clouds),
		slog.Int("emitted", s.Emitted),
		slog.Int("drained", s.Drained),
		slog.Int("rain_drops", s.RainDrops),
		slog.Int("evicted", s.Evicted),
		slog.Int("springs_created", s.SpringsCreated),
		slog.Int("springs_broken", s.SpringsBroken),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_max", s.DensityMax),
		slog.Float64("momentum_x", s.MomentumX),
		slog.Float64("momentum_y", s.MomentumY),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Int("escaped", s.Escaped),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"particles", s.Particles,
		"springs", s.Springs,
		"emitted", s.Emitted,
		"drained", s.Drained,
		"rain_drops", s.RainDrops,
		"evicted", s.Evicted,
		"springs_created", s.SpringsCreated,
		"springs_broken", s.SpringsBroken,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"speed_max", s.SpeedMax,
		"density_mean", s.DensityMean,
		"density_max", s.DensityMax,
		"kinetic_energy", s.KineticEnergy,
		"escaped", s.Escaped,
	)
}
