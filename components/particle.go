// Package components holds plain data types shared by the solver, the scene
// world and the renderers.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Particle is one fluid point. Its index in the store is its identity for the
// duration of a tick; removals relabel indices.
type Particle struct {
	Pos  r2.Vec
	Prev r2.Vec // Position before the predictive advance
	Vel  r2.Vec

	Springs SpringSet
}

// NewParticle creates a particle at rest position (x, y) moving at (vx, vy).
func NewParticle(x, y, vx, vy float64) Particle {
	return Particle{
		Pos:  r2.Vec{X: x, Y: y},
		Prev: r2.Vec{X: x, Y: y},
		Vel:  r2.Vec{X: vx, Y: vy},
	}
}

// Speed returns the velocity magnitude.
func (p *Particle) Speed() float64 {
	return r2.Norm(p.Vel)
}
