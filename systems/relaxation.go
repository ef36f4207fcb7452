package systems

import (
	"math"

	"github.com/pthm-cable/slosh/config"
)

// RelaxationSolver runs double density relaxation: each particle pushes its
// neighbors apart by a pressure term and a steeper near-pressure term.
// It keeps neighbor scratch buffers between ticks.
type RelaxationSolver struct {
	neighbors []int32
	unitX     []float64
	unitY     []float64
	closeness []float64

	// Density and NearDensity hold each particle's values from the last Relax.
	Density     []float64
	NearDensity []float64
}

// NewRelaxationSolver creates a solver.
func NewRelaxationSolver() *RelaxationSolver {
	return &RelaxationSolver{
		neighbors: make([]int32, 0, 64),
		unitX:     make([]float64, 0, 64),
		unitY:     make([]float64, 0, 64),
		closeness: make([]float64, 0, 64),
	}
}

// Relax displaces particles toward rest density and returns the number of
// springs it created. The grid must have been rebuilt for the current store.
//
// A neighbor is displaced as soon as its pair term is known; the particle's
// own opposite displacement is summed and applied once after its neighbor
// loop. Later neighbors therefore see moved neighbors but not the moved self.
func (r *RelaxationSolver) Relax(store *ParticleStore, grid *HashGrid, mat *config.MaterialConfig) int {
	particles := store.Particles
	n := len(particles)
	r.Density = resizeFloats(r.Density, n)
	r.NearDensity = resizeFloats(r.NearDensity, n)

	dt := mat.DT
	kernelRadius := mat.KernelRadius
	kernelRadiusInv := 1.0 / kernelRadius
	restDensity := mat.RestDensity
	stiffness := mat.Stiffness * dt * dt
	nearStiffness := mat.NearStiffness * dt * dt
	maxPressure := mat.MaxPressure
	minDist := mat.MinDist()
	addSprings := mat.SpringStiffness > 0

	created := 0

	grid.ForEachParticle(func(self int) {
		p0 := &particles[self]

		var density, nearDensity float64
		r.neighbors = r.neighbors[:0]
		r.unitX = r.unitX[:0]
		r.unitY = r.unitY[:0]
		r.closeness = r.closeness[:0]

		grid.ForEachNeighbor(particles, self, kernelRadius, func(j int, dx, dy, rSq float64) {
			if rSq < epsilonSq {
				return
			}
			dist := math.Sqrt(rSq)
			closeness := 1 - dist*kernelRadiusInv
			closenessSq := closeness * closeness

			density += closenessSq
			nearDensity += closeness * closenessSq

			r.neighbors = append(r.neighbors, int32(j))
			r.unitX = append(r.unitX, dx/dist)
			r.unitY = append(r.unitY, dy/dist)
			r.closeness = append(r.closeness, closeness)

			// Only the lower index endpoint creates, and only once.
			if addSprings && self < j && dist > minDist && !p0.Springs.Has(int32(j)) {
				p0.Springs.Set(int32(j), dist)
				created++
			}
		})

		pressure := stiffness * (density - restDensity)
		nearPressure := nearStiffness * nearDensity
		if pressure > maxPressure {
			pressure = maxPressure
		}
		if nearPressure > maxPressure {
			nearPressure = maxPressure
		}

		var dispX, dispY float64
		for k, j := range r.neighbors {
			closeness := r.closeness[k]
			d := (pressure*closeness + nearPressure*closeness*closeness) / 2
			dx := d * r.unitX[k]
			dy := d * r.unitY[k]

			p1 := &particles[j]
			p1.Pos.X += dx
			p1.Pos.Y += dy

			dispX -= dx
			dispY -= dy
		}

		p0.Pos.X += dispX
		p0.Pos.Y += dispY

		r.Density[self] = density
		r.NearDensity[self] = nearDensity
	})

	return created
}

// resizeFloats returns buf with length n, zeroed.
func resizeFloats(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	buf = buf[:n]
	for i := range buf {
		buf[i] = 0
	}
	return buf
}
