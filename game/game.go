// Package game drives the fluid: it owns the particle store and the scene
// world, applies host input between ticks and runs the per-tick pipeline.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slosh/components"
	"github.com/pthm-cable/slosh/config"
	"github.com/pthm-cable/slosh/systems"
	"github.com/pthm-cable/slosh/telemetry"
)

// State is the stepper's run state.
type State uint8

const (
	StateIdle State = iota
	StateRunning
)

// String returns the state name.
func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// Interaction is a pointer-driven effect the host can toggle.
type Interaction uint8

const (
	InteractAttract Interaction = iota
	InteractRepel
	InteractDrag
	InteractEmit
	InteractDrain
	numInteractions
)

var interactionNames = [numInteractions]string{"attract", "repel", "drag", "emit", "drain"}

// String returns the interaction name.
func (i Interaction) String() string {
	if i >= numInteractions {
		return "unknown"
	}
	return interactionNames[i]
}

// Game holds the complete simulation state. It is not safe for concurrent use.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed uint64

	// Fluid
	store  *systems.ParticleStore
	grid   *systems.HashGrid
	solver *systems.RelaxationSolver
	forces systems.Forces

	// Material edits land in pending and are copied into material at the
	// start of the next tick.
	material config.MaterialConfig
	pending  config.MaterialConfig

	// Host input
	interactions [numInteractions]bool
	pointer      r2.Vec
	prevPointer  r2.Vec
	shiftAccum   r2.Vec

	// Scene entities
	world          *ecs.World
	cloudMapper    *ecs.Map2[components.Position, components.Emitter]
	cloudFilter    *ecs.Filter2[components.Position, components.Emitter]
	obstacleMapper *ecs.Map3[components.Position, components.Extent, components.Obstacle]
	obstacleFilter *ecs.Filter3[components.Position, components.Extent, components.Obstacle]
	obstacle       ecs.Entity
	raining        bool
	rainCap        int
	clouds         []Cloud // scratch for cloud queries

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
	logStats         bool
	metrics          bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)

	// State
	state State
	tick  int32

	width, height float64
}

// NewGame creates a game from cfg and seeds it with the initial population.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	world := ecs.NewWorld()

	g := &Game{
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		seed:   opts.Seed,
		store:  systems.NewParticleStore(cfg.Population.Initial),
		grid:   systems.NewHashGrid(cfg.Grid.Buckets),
		solver: systems.NewRelaxationSolver(),

		material: cfg.Material,
		pending:  cfg.Material,

		world:          world,
		cloudMapper:    ecs.NewMap2[components.Position, components.Emitter](world),
		cloudFilter:    ecs.NewFilter2[components.Position, components.Emitter](world),
		obstacleMapper: ecs.NewMap3[components.Position, components.Extent, components.Obstacle](world),
		obstacleFilter: ecs.NewFilter3[components.Position, components.Extent, components.Obstacle](world),
		rainCap:        int(float64(cfg.Population.Initial) * cfg.Rain.MaxFactor),

		collector:        telemetry.NewCollector(int32(cfg.Telemetry.StatsWindow)),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		metrics:          opts.Metrics,
		snapshotDir:      opts.SnapshotDir,
		statsCallback:    opts.StatsCallback,

		width:  cfg.Derived.WorldW,
		height: cfg.Derived.WorldH,
	}

	g.pointer = r2.Vec{X: g.width / 2, Y: g.height / 2}
	g.prevPointer = g.pointer

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	g.spawnObstacle()
	systems.Scatter(g.store, g.rng, g.width, g.height, cfg.Population.Initial)

	slog.Info("game created",
		"particles", g.store.Len(),
		"world_w", g.width,
		"world_h", g.height,
		"material", g.material.Name,
		"seed", opts.Seed,
	)

	return g, nil
}

// Update advances one tick if running. Call once per host frame.
func (g *Game) Update() {
	if g.state != StateRunning {
		// Drag velocity is measured per tick; pointer motion and window moves
		// while idle are dropped.
		g.prevPointer = g.pointer
		g.shiftAccum = r2.Vec{}
		return
	}
	g.simulationStep()
}

// StepOnce advances exactly one tick while idle. It does nothing while running.
func (g *Game) StepOnce() {
	if g.state == StateRunning {
		return
	}
	g.simulationStep()
}

// Start switches to running.
func (g *Game) Start() {
	g.state = StateRunning
}

// Pause switches to idle.
func (g *Game) Pause() {
	g.state = StateIdle
}

// Running reports whether Update advances the simulation.
func (g *Game) Running() bool {
	return g.state == StateRunning
}

// State returns the run state.
func (g *Game) State() State {
	return g.state
}

// SetParameter updates one material parameter. The change applies from the
// next tick. Unknown names and values that would make the solver undefined
// are rejected and leave the material unchanged.
func (g *Game) SetParameter(name string, value float64) error {
	if err := g.pending.Set(name, value); err != nil {
		return err
	}
	return nil
}

// Parameter returns the pending value of a material parameter.
func (g *Game) Parameter(name string) (float64, bool) {
	return g.pending.Get(name)
}

// SetMaterial replaces the whole pending material.
func (g *Game) SetMaterial(m config.MaterialConfig) error {
	if err := m.Validate(); err != nil {
		return err
	}
	g.pending = m
	return nil
}

// SetInteraction turns a pointer interaction on or off.
func (g *Game) SetInteraction(kind Interaction, active bool) {
	if kind >= numInteractions {
		return
	}
	g.interactions[kind] = active
}

// Interacting reports whether a pointer interaction is on.
func (g *Game) Interacting(kind Interaction) bool {
	return kind < numInteractions && g.interactions[kind]
}

// SetPointer sets the pointer position in world coordinates.
func (g *Game) SetPointer(x, y float64) {
	g.pointer = r2.Vec{X: x, Y: y}
}

// ResetPointer moves the pointer without producing drag motion on the next tick.
func (g *Game) ResetPointer(x, y float64) {
	g.pointer = r2.Vec{X: x, Y: y}
	g.prevPointer = g.pointer
}

// ShiftContainer reports that the container moved by (dx, dy). The motion is
// accumulated and applied to the particles over the following ticks.
func (g *Game) ShiftContainer(dx, dy float64) {
	g.shiftAccum.X += dx
	g.shiftAccum.Y += dy
}

// Resize changes the domain size. Particles outside the new domain are pulled
// back by the boundary over the following ticks.
func (g *Game) Resize(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	g.width = w
	g.height = h
	if g.raining {
		g.removeClouds()
		g.addClouds()
	}
}

// Particles exposes the particle slice for rendering. Callers must not
// modify it or keep it across ticks.
func (g *Game) Particles() []components.Particle {
	return g.store.Particles
}

// ParticleCount returns the number of live particles.
func (g *Game) ParticleCount() int {
	return g.store.Len()
}

// SpringCount returns the number of live springs.
func (g *Game) SpringCount() int {
	return g.store.SpringCount()
}

// Material returns the active material.
func (g *Game) Material() config.MaterialConfig {
	return g.material
}

// Pointer returns the pointer position.
func (g *Game) Pointer() r2.Vec {
	return g.pointer
}

// Bounds returns the domain size.
func (g *Game) Bounds() (w, h float64) {
	return g.width, g.height
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Seed returns the RNG seed.
func (g *Game) Seed() uint64 {
	return g.seed
}

// Perf returns the perf collector for frame timing.
func (g *Game) Perf() *telemetry.PerfCollector {
	return g.perfCollector
}

// Close flushes and closes telemetry output.
func (g *Game) Close() error {
	return g.outputManager.Close()
}
