package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/slosh/config"
	"github.com/pthm-cable/slosh/game"
	"github.com/pthm-cable/slosh/telemetry"
)

// Fitness component weights.
const (
	weightDensity = 1.0
	weightSpeed   = 0.5
	weightEscape  = 5.0

	calmSpeed      = 2.0 // p90 speed that costs one unit of speed penalty
	warmupWindows  = 2   // skip the first N windows while the fluid settles
	failedFitness  = 1e6 // fitness for runs that produce no usable window
	densityEpsilon = 1e-6
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []uint64
	baseConfig  *config.Config
	statsWindow int

	mu        sync.Mutex
	lastScore Score
}

// Score breaks a fitness value into its parts.
type Score struct {
	Fitness      float64
	DensityError float64 // Mean |density - rest| / rest
	SpeedP90     float64 // Mean p90 speed
	EscapedFrac  float64 // Mean share of particles outside the domain
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	window := int(maxTicks) / 10
	if window < 1 {
		window = 1
	}
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: window,
	}
}

// LastScore returns the score breakdown from the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() Score {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run in parallel; each run owns its own game.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return failedFitness
	}

	scores := make([]Score, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			scores[idx] = fe.scoreRun(fe.runSimulation(cfg, s), cfg.Material.RestDensity)
		}(i, seed)
	}
	wg.Wait()

	avg := averageScores(scores)

	fe.mu.Lock()
	fe.lastScore = avg
	fe.mu.Unlock()

	return avg.Fitness
}

// runSimulation executes a single headless run and returns its windows.
func (fe *FitnessEvaluator) runSimulation(base *config.Config, seed uint64) []telemetry.WindowStats {
	cfg := *base
	var windows []telemetry.WindowStats

	g, err := game.NewGame(&cfg, game.Options{
		Seed: seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		return nil
	}
	defer g.Close()

	g.Start()
	for g.Tick() < fe.maxTicks {
		g.Update()
	}
	return windows
}

// copyConfig returns a copy of the base config with the tuning stats window.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Telemetry.StatsWindow = fe.statsWindow
	return &cfg
}

// scoreRun reduces a run's windows to a score.
func (fe *FitnessEvaluator) scoreRun(windows []telemetry.WindowStats, restDensity float64) Score {
	if len(windows) <= warmupWindows {
		return Score{Fitness: failedFitness}
	}
	valid := windows[warmupWindows:]

	densityErr := make([]float64, 0, len(valid))
	speed := make([]float64, 0, len(valid))
	escaped := make([]float64, 0, len(valid))
	for _, w := range valid {
		if w.Particles == 0 {
			continue
		}
		densityErr = append(densityErr, math.Abs(w.DensityMean-restDensity)/math.Max(restDensity, densityEpsilon))
		speed = append(speed, w.SpeedP90)
		escaped = append(escaped, float64(w.Escaped)/float64(w.Particles))
	}
	if len(densityErr) == 0 {
		return Score{Fitness: failedFitness}
	}

	s := Score{
		DensityError: stat.Mean(densityErr, nil),
		SpeedP90:     stat.Mean(speed, nil),
		EscapedFrac:  stat.Mean(escaped, nil),
	}
	s.Fitness = weightDensity*s.DensityError +
		weightSpeed*s.SpeedP90/calmSpeed +
		weightEscape*s.EscapedFrac
	return s
}

// averageScores averages each component across seeds.
func averageScores(scores []Score) Score {
	var avg Score
	if len(scores) == 0 {
		avg.Fitness = failedFitness
		return avg
	}
	for _, s := range scores {
		avg.Fitness += s.Fitness
		avg.DensityError += s.DensityError
		avg.SpeedP90 += s.SpeedP90
		avg.EscapedFrac += s.EscapedFrac
	}
	n := float64(len(scores))
	avg.Fitness /= n
	avg.DensityError /= n
	avg.SpeedP90 /= n
	avg.EscapedFrac /= n
	return avg
}
