package game

import (
	"github.com/pthm-cable/slosh/systems"
)

// AddParticles scatters n particles uniformly over the domain.
func (g *Game) AddParticles(n int) {
	if n <= 0 {
		return
	}
	systems.Scatter(g.store, g.rng, g.width, g.height, n)
	g.collector.RecordEmitted(n)
}

// EmitAt adds n particles in a small patch around (x, y).
func (g *Game) EmitAt(x, y float64, n int) {
	if n <= 0 {
		return
	}
	systems.EmitPatch(g.store, g.rng, x, y, g.cfg.Population.EmitJitter, n)
	g.collector.RecordEmitted(n)
}

// RemoveNear removes every particle strictly within radius of (x, y) along
// with all springs that reference it, and returns how many were removed.
func (g *Game) RemoveNear(x, y, radius float64) int {
	n := systems.Drain(g.store, x, y, radius)
	g.collector.RecordDrained(n)
	return n
}

// updatePopulation applies the pointer emit and drain interactions and the
// rain, before the grid is rebuilt for the tick.
func (g *Game) updatePopulation() {
	pcfg := &g.cfg.Population

	if g.interactions[InteractEmit] {
		g.EmitAt(g.pointer.X, g.pointer.Y, pcfg.EmitRate)
	}
	if g.interactions[InteractDrain] {
		g.RemoveNear(g.pointer.X, g.pointer.Y, pcfg.DrainRadius)
	}
	if g.raining {
		g.updateRain()
	}
}

// updateRain evicts edge particles while at the rain cap, then spawns one
// drop under a random cloud if there is room.
func (g *Game) updateRain() {
	rcfg := &g.cfg.Rain

	if g.store.Len() >= g.rainCap {
		n := systems.EvictEdgeParticles(g.store, g.width, g.height, rcfg.EdgeThreshold, rcfg.EvictPerTick)
		g.collector.RecordEvicted(n)
	}
	if g.store.Len() >= g.rainCap {
		return
	}

	g.clouds = g.appendClouds(g.clouds[:0])
	if len(g.clouds) == 0 {
		return
	}
	c := g.clouds[g.rng.IntN(len(g.clouds))]
	systems.SpawnDrop(g.store, g.rng, c.Position, c.Emitter)
	g.collector.RecordRainDrop()
}
