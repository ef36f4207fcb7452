package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slosh/config"
	"github.com/pthm-cable/slosh/systems"
	"github.com/pthm-cable/slosh/telemetry"
)

// simulationStep runs one tick of the fluid.
func (g *Game) simulationStep() {
	g.perfCollector.StartTick()

	// Parameter edits made since the last tick take effect here.
	g.material = g.pending.Clamped()
	mat := &g.material

	g.perfCollector.StartPhase(telemetry.PhasePopulation)
	g.updatePopulation()

	g.perfCollector.StartPhase(telemetry.PhaseForces)
	g.updateForces(mat)
	systems.ApplyForces(g.store.Particles, &g.forces)

	g.perfCollector.StartPhase(telemetry.PhaseSpatialGrid)
	g.grid.Rebuild(g.store.Particles, mat.KernelRadius)

	g.perfCollector.StartPhase(telemetry.PhaseViscosity)
	systems.ApplyViscosity(g.store, g.grid, mat)

	g.perfCollector.StartPhase(telemetry.PhaseIntegrate)
	systems.Integrate(g.store.Particles, mat.DT)

	g.perfCollector.StartPhase(telemetry.PhaseSprings)
	broken := systems.ApplySprings(g.store, mat)

	g.perfCollector.StartPhase(telemetry.PhaseRelaxation)
	created := g.solver.Relax(g.store, g.grid, mat)
	g.collector.RecordSprings(created, broken)

	g.perfCollector.StartPhase(telemetry.PhaseBoundary)
	systems.ResolveBoundaries(g.store.Particles, systems.Bounds{
		Width:  g.width,
		Height: g.height,
		Margin: g.cfg.World.BoundaryMargin,
	}, mat.DT)

	g.perfCollector.StartPhase(telemetry.PhaseVelocity)
	systems.ReconstructVelocity(g.store.Particles, mat.DT)

	g.prevPointer = g.pointer
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()

	if g.metrics {
		telemetry.TicksTotal.Inc()
		telemetry.TickDuration.Observe(g.perfCollector.LastTickDuration().Seconds())
	}
}

// updateForces fills the force set for this tick from the material and
// host input.
func (g *Game) updateForces(mat *config.MaterialConfig) {
	icfg := &g.cfg.Interaction
	f := &g.forces

	f.Gravity = systems.GravityStep(mat)
	f.Pointer = g.pointer

	strength := icfg.AttractStrength * mat.KernelRadius
	f.AttractRepel = 0
	if g.interactions[InteractAttract] {
		f.AttractRepel += strength
	}
	if g.interactions[InteractRepel] {
		f.AttractRepel -= strength
	}
	f.AttractRadiusSq = icfg.AttractRadius * icfg.AttractRadius

	f.Drag = g.interactions[InteractDrag]
	f.DragVelocity = r2.Sub(g.pointer, g.prevPointer)
	f.DragRadiusSq = icfg.DragRadius * icfg.DragRadius

	f.Shift = g.takeShift(icfg.MaxShift)
	f.Colliders = g.colliders(f.Colliders[:0])
}

// takeShift removes up to maxShift per axis from the pending container shift
// and returns it.
func (g *Game) takeShift(maxShift float64) r2.Vec {
	s := r2.Vec{
		X: clamp(g.shiftAccum.X, -maxShift, maxShift),
		Y: clamp(g.shiftAccum.Y, -maxShift, maxShift),
	}
	g.shiftAccum = r2.Sub(g.shiftAccum, s)
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
