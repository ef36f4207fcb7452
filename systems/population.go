package systems

import (
	"math/rand/v2"
	"sort"

	"github.com/pthm-cable/slosh/components"
)

// Scatter adds count particles at uniform positions in a w×h domain with
// velocities in [-1, 1) on each axis.
func Scatter(store *ParticleStore, rng *rand.Rand, w, h float64, count int) {
	for i := 0; i < count; i++ {
		x := rng.Float64() * w
		y := rng.Float64() * h
		vx := rng.Float64()*2 - 1
		vy := rng.Float64()*2 - 1
		store.Add(components.NewParticle(x, y, vx, vy))
	}
}

// EmitPatch adds count particles in a square of half-width jitter around (x, y).
func EmitPatch(store *ParticleStore, rng *rand.Rand, x, y, jitter float64, count int) {
	for i := 0; i < count; i++ {
		px := x + rng.Float64()*2*jitter - jitter
		py := y + rng.Float64()*2*jitter - jitter
		vx := rng.Float64()*2 - 1
		vy := rng.Float64()*2 - 1
		store.Add(components.NewParticle(px, py, vx, vy))
	}
}

// Drain removes every particle strictly within radius of (x, y).
func Drain(store *ParticleStore, x, y, radius float64) int {
	radiusSq := radius * radius
	return store.RemoveWhere(func(_ int, p *components.Particle) bool {
		dx := p.Pos.X - x
		dy := p.Pos.Y - y
		return dx*dx+dy*dy < radiusSq
	})
}

// SpawnDrop adds one rain drop just below a cloud.
func SpawnDrop(store *ParticleStore, rng *rand.Rand, cloud components.Position, emitter components.Emitter) {
	x := cloud.X + rng.Float64()*emitter.Width
	y := cloud.Y + emitter.Height
	vx := rng.Float64()*0.5 - 0.25
	vy := rng.Float64()*2 + 1
	store.Add(components.NewParticle(x, y, vx, vy))
}

// EvictEdgeParticles removes up to n particles lying within threshold of an
// edge of the w×h domain, closest to the edge first. Ties go to the lower index.
func EvictEdgeParticles(store *ParticleStore, w, h, threshold float64, n int) int {
	if n <= 0 {
		return 0
	}

	type candidate struct {
		index int
		dist  float64
	}
	var candidates []candidate
	for i := range store.Particles {
		p := &store.Particles[i]
		if p.Pos.X < threshold || p.Pos.X > w-threshold || p.Pos.Y < threshold || p.Pos.Y > h-threshold {
			candidates = append(candidates, candidate{index: i, dist: distanceToEdge(p.Pos.X, p.Pos.Y, w, h)})
		}
	}
	if len(candidates) == 0 {
		return 0
	}

	sort.SliceStable(candidates, func(a, b int) bool { return candidates[a].dist < candidates[b].dist })
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	indices := make([]int, len(candidates))
	for i, c := range candidates {
		indices[i] = c.index
	}
	return store.Remove(indices...)
}
