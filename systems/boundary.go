package systems

import "github.com/pthm-cable/slosh/components"

// Bounds represents the simulation domain and its soft wall inset.
type Bounds struct {
	Width, Height float64
	Margin        float64
}

// ResolveBoundaries pulls particles outside [margin, size-margin] back by
// half of dt² times their overshoot on each axis. This is a restoring term,
// not a clamp; particles can stay slightly outside for a while.
func ResolveBoundaries(particles []components.Particle, b Bounds, dt float64) {
	boundaryMul := 0.5 * dt * dt
	minX := b.Margin
	maxX := b.Width - b.Margin
	minY := b.Margin
	maxY := b.Height - b.Margin

	for i := range particles {
		p := &particles[i]

		if p.Pos.X < minX {
			p.Pos.X += boundaryMul * (minX - p.Pos.X)
		} else if p.Pos.X > maxX {
			p.Pos.X += boundaryMul * (maxX - p.Pos.X)
		}

		if p.Pos.Y < minY {
			p.Pos.Y += boundaryMul * (minY - p.Pos.Y)
		} else if p.Pos.Y > maxY {
			p.Pos.Y += boundaryMul * (maxY - p.Pos.Y)
		}
	}
}
