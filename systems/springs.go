package systems

import (
	"math"

	"github.com/pthm-cable/slosh/components"
	"github.com/pthm-cable/slosh/config"
)

// ApplySprings adjusts every spring's rest length plastically, deletes springs
// stretched past the kernel radius and pulls the remaining endpoints toward
// their rest length. Returns the number of springs deleted.
// Does nothing when spring stiffness is zero.
func ApplySprings(store *ParticleStore, mat *config.MaterialConfig) int {
	if mat.SpringStiffness == 0 {
		return 0
	}

	dt := mat.DT
	kernelRadius := mat.KernelRadius
	kernelRadiusInv := 1.0 / kernelRadius
	springStiffness := mat.SpringStiffness * dt * dt
	plasticity := mat.Plasticity * dt
	yieldRatio := mat.YieldRatio
	minDist := mat.MinDist()

	particles := store.Particles
	broken := 0

	for i := range particles {
		p := &particles[i]
		if p.Springs.Len() == 0 {
			continue
		}

		broken += p.Springs.Retain(func(sp *components.Spring) bool {
			q := &particles[sp.Neighbor]

			dx := p.Pos.X - q.Pos.X
			dy := p.Pos.Y - q.Pos.Y
			dist := math.Sqrt(dx*dx + dy*dy)

			restLength := sp.RestLength
			tolerable := yieldRatio * restLength

			if dist > restLength+tolerable {
				restLength = restLength + plasticity*(dist-restLength-tolerable)
			} else if dist < restLength-tolerable && dist > minDist {
				restLength = restLength - plasticity*(restLength-tolerable-dist)
			}
			if restLength < minDist {
				restLength = minDist
			}
			sp.RestLength = restLength

			if restLength > kernelRadius {
				return false
			}
			if dist < Epsilon {
				return true
			}

			d := springStiffness * (1 - restLength*kernelRadiusInv) * (dist - restLength) / dist
			dx *= d
			dy *= d

			p.Pos.X -= dx
			p.Pos.Y -= dy
			q.Pos.X += dx
			q.Pos.Y += dy
			return true
		})
	}

	return broken
}
