package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/slosh/components"
	"github.com/pthm-cable/slosh/config"
)

// testMaterial returns a material with every force disabled except what a
// test turns on.
func testMaterial() config.MaterialConfig {
	return config.MaterialConfig{
		Name:          "test",
		KernelRadius:  40,
		DT:            1,
		MaxPressure:   1,
		Plasticity:    0.5,
		YieldRatio:    0.25,
		MinDistRatio:  0.25,
		QuadViscosity: 0,
	}
}

// storeAt builds a store with resting particles at the given positions.
func storeAt(points ...[2]float64) *ParticleStore {
	s := NewParticleStore(len(points))
	for _, pt := range points {
		s.Add(components.NewParticle(pt[0], pt[1], 0, 0))
	}
	return s
}

// sumPositions returns the sum of all particle positions.
func sumPositions(s *ParticleStore) (x, y float64) {
	for i := range s.Particles {
		x += s.Particles[i].Pos.X
		y += s.Particles[i].Pos.Y
	}
	return x, y
}

// sumVelocities returns the sum of all particle velocities.
func sumVelocities(s *ParticleStore) (x, y float64) {
	for i := range s.Particles {
		x += s.Particles[i].Vel.X
		y += s.Particles[i].Vel.Y
	}
	return x, y
}

func assertNear(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, tol)
	}
}
