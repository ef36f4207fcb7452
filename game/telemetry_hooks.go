package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/slosh/components"
	"github.com/pthm-cable/slosh/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sampleFluid())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.metrics {
		telemetry.ObserveWindow(stats, perfStats)
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// sampleFluid measures the fluid at the end of a window.
func (g *Game) sampleFluid() telemetry.Sample {
	particles := g.store.Particles
	g.clouds = g.appendClouds(g.clouds[:0])
	s := telemetry.Sample{
		Particles: len(particles),
		Springs:   g.store.SpringCount(),
		Clouds:    len(g.clouds),
		Speeds:    make([]float64, len(particles)),
	}

	for i := range particles {
		p := &particles[i]
		s.Speeds[i] = p.Speed()
		s.MomentumX += p.Vel.X
		s.MomentumY += p.Vel.Y
		s.Kinetic += 0.5 * (p.Vel.X*p.Vel.X + p.Vel.Y*p.Vel.Y)
		if p.Pos.X < 0 || p.Pos.X > g.width || p.Pos.Y < 0 || p.Pos.Y > g.height {
			s.Escaped++
		}
	}

	// Densities are from the last relaxation and line up with the store
	// as long as nothing was added or removed since.
	if len(g.solver.Density) == len(particles) {
		s.Densities = g.solver.Density
	}

	return s
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(g.Snapshot(bookmark), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// Snapshot captures the fluid state. bookmark may be nil.
func (g *Game) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		RNGSeed:     g.seed,
		WorldWidth:  g.width,
		WorldHeight: g.height,
		Tick:        g.tick,
		Material:    g.pending,
		Bookmark:    bookmark,
		Particles:   make([]telemetry.ParticleState, len(g.store.Particles)),
	}

	for i := range g.store.Particles {
		p := &g.store.Particles[i]
		state := telemetry.ParticleState{
			X:    p.Pos.X,
			Y:    p.Pos.Y,
			VelX: p.Vel.X,
			VelY: p.Vel.Y,
		}
		for _, sp := range p.Springs.All() {
			state.Springs = append(state.Springs, telemetry.SpringState{
				Neighbor:   sp.Neighbor,
				RestLength: sp.RestLength,
			})
		}
		snapshot.Particles[i] = state
	}

	return snapshot
}

// Restore replaces the fluid with a snapshot. Scene entities, host input and
// the RNG stream are left as they are.
func (g *Game) Restore(snapshot *telemetry.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("restoring snapshot: %w", err)
	}
	if err := snapshot.Material.Validate(); err != nil {
		return fmt.Errorf("restoring snapshot material: %w", err)
	}

	g.store.Particles = g.store.Particles[:0]
	for _, ps := range snapshot.Particles {
		p := components.NewParticle(ps.X, ps.Y, ps.VelX, ps.VelY)
		for _, sp := range ps.Springs {
			p.Springs.Set(sp.Neighbor, sp.RestLength)
		}
		g.store.Add(p)
	}

	g.material = snapshot.Material
	g.pending = snapshot.Material
	g.tick = snapshot.Tick
	g.collector.Reset(g.tick)
	if snapshot.WorldWidth > 0 && snapshot.WorldHeight > 0 {
		g.Resize(snapshot.WorldWidth, snapshot.WorldHeight)
	}

	slog.Info("snapshot restored", "tick", g.tick, "particles", g.store.Len())
	return nil
}
