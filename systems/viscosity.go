package systems

import (
	"math"

	"github.com/pthm-cable/slosh/config"
)

// ApplyViscosity exchanges velocity impulses between approaching neighbors.
// Each impulse is subtracted from one particle and added to the other.
// Does nothing when both viscosity coefficients are zero.
func ApplyViscosity(store *ParticleStore, grid *HashGrid, mat *config.MaterialConfig) {
	if mat.LinViscosity == 0 && mat.QuadViscosity == 0 {
		return
	}

	particles := store.Particles
	dt := mat.DT
	kernelRadius := mat.KernelRadius
	kernelRadiusInv := 1.0 / kernelRadius
	linViscosity := mat.LinViscosity * dt
	quadViscosity := mat.QuadViscosity * dt

	grid.ForEachParticle(func(self int) {
		p0 := &particles[self]

		grid.ForEachNeighbor(particles, self, kernelRadius, func(j int, dx, dy, rSq float64) {
			if rSq < epsilonSq {
				return
			}
			p1 := &particles[j]

			r := math.Sqrt(rSq)
			closeness := 1 - r*kernelRadiusInv
			ux := dx / r
			uy := dy / r

			inward := (p0.Vel.X-p1.Vel.X)*ux + (p0.Vel.Y-p1.Vel.Y)*uy
			if inward > 1 {
				inward = 1
			}
			if inward <= 0 {
				return
			}

			impulse := closeness * (linViscosity*inward + quadViscosity*inward*inward) * .5
			ix := impulse * ux
			iy := impulse * uy
			p0.Vel.X -= ix
			p0.Vel.Y -= iy
			p1.Vel.X += ix
			p1.Vel.Y += iy
		})
	})
}
