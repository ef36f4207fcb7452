package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/slosh/config"
)

// benchStore scatters n particles over a typical window.
func benchStore(n int) *ParticleStore {
	s := NewParticleStore(n)
	Scatter(s, rand.New(rand.NewPCG(1, 2)), 800, 600, n)
	return s
}

// Benchmark grid rebuild for the default population
func BenchmarkGridRebuild(b *testing.B) {
	mat := config.Default().Material
	s := benchStore(1000)
	g := NewHashGrid(5000)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		g.Rebuild(s.Particles, mat.KernelRadius)
	}
}

// Benchmark one relaxation pass, springs included
func BenchmarkRelax(b *testing.B) {
	mat := config.Default().Material
	s := benchStore(1000)
	g := NewHashGrid(5000)
	r := NewRelaxationSolver()
	g.Rebuild(s.Particles, mat.KernelRadius)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		r.Relax(s, g, &mat)
	}
}

// Benchmark the viscosity impulse pass
func BenchmarkViscosity(b *testing.B) {
	mat := config.Default().Material
	s := benchStore(1000)
	g := NewHashGrid(5000)
	g.Rebuild(s.Particles, mat.KernelRadius)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		ApplyViscosity(s, g, &mat)
	}
}
