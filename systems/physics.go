package systems

import (
	"math"

	"github.com/pthm-cable/slosh/components"
	"github.com/pthm-cable/slosh/config"
	"gonum.org/v1/gonum/spatial/r2"
)

// Forces are the continuous external influences applied to velocities before
// the predictive advance.
type Forces struct {
	Gravity r2.Vec // Velocity change per tick

	Pointer         r2.Vec
	AttractRepel    float64 // >0 pulls toward the pointer, <0 pushes away
	AttractRadiusSq float64

	Drag         bool
	DragVelocity r2.Vec // Pointer motion since the last tick
	DragRadiusSq float64

	Shift r2.Vec // Container motion; particles move opposite to it

	Colliders []BoxCollider
}

// GravityStep returns the per-tick velocity change for the material's gravity.
func GravityStep(mat *config.MaterialConfig) r2.Vec {
	scale := 0.02 * mat.KernelRadius * mat.DT
	return r2.Vec{X: scale * mat.GravX, Y: scale * mat.GravY}
}

// ApplyForces applies gravity, obstacle contact, pointer forces and the
// container shift, in that order, to every particle.
func ApplyForces(particles []components.Particle, f *Forces) {
	arNonZero := f.AttractRepel != 0

	for i := range particles {
		p := &particles[i]

		p.Vel.X += f.Gravity.X
		p.Vel.Y += f.Gravity.Y

		for c := range f.Colliders {
			f.Colliders[c].Collide(p)
		}

		if arNonZero {
			dx := p.Pos.X - f.Pointer.X
			dy := p.Pos.Y - f.Pointer.Y
			distSq := dx*dx + dy*dy

			if distSq < f.AttractRadiusSq && distSq > 0.1 {
				invDist := 1 / math.Sqrt(distSq)
				dx *= invDist
				dy *= invDist
				p.Vel.X -= f.AttractRepel * dx
				p.Vel.Y -= f.AttractRepel * dy
			}
		}

		if f.Drag {
			dx := p.Pos.X - f.Pointer.X
			dy := p.Pos.Y - f.Pointer.Y
			distSq := dx*dx + dy*dy

			if distSq < f.DragRadiusSq && distSq > 0.1 {
				p.Vel = f.DragVelocity
			}
		}

		p.Pos.X -= f.Shift.X
		p.Pos.Y -= f.Shift.Y
	}
}

// Integrate saves each position and advances it by velocity.
func Integrate(particles []components.Particle, dt float64) {
	for i := range particles {
		p := &particles[i]
		p.Prev = p.Pos
		p.Pos.X += p.Vel.X * dt
		p.Pos.Y += p.Vel.Y * dt
	}
}

// ReconstructVelocity derives velocity from the net position change of the tick.
func ReconstructVelocity(particles []components.Particle, dt float64) {
	dtInv := 1 / dt
	for i := range particles {
		p := &particles[i]
		p.Vel.X = (p.Pos.X - p.Prev.X) * dtInv
		p.Vel.Y = (p.Pos.Y - p.Prev.Y) * dtInv
	}
}
