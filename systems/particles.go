package systems

import (
	"github.com/pthm-cable/slosh/components"
)

// ParticleStore owns the dense particle slice. Removal swaps the last
// particle into the freed slot, so every removal is followed by a rewrite of
// the spring tables that reference moved or removed indices.
type ParticleStore struct {
	Particles []components.Particle

	// scratch for RemoveWhere
	origin   []int32
	newIndex []int32
	moves    []springMove
}

// springMove is a spring that must change owner after relabeling.
type springMove struct {
	owner    int32
	neighbor int32
	rest     float64
}

// NewParticleStore creates an empty store with room for capacity particles.
func NewParticleStore(capacity int) *ParticleStore {
	return &ParticleStore{
		Particles: make([]components.Particle, 0, capacity),
	}
}

// Len returns the number of particles.
func (s *ParticleStore) Len() int { return len(s.Particles) }

// Add appends a particle and returns its index.
func (s *ParticleStore) Add(p components.Particle) int {
	s.Particles = append(s.Particles, p)
	return len(s.Particles) - 1
}

// SpringCount returns the number of springs across all particles.
func (s *ParticleStore) SpringCount() int {
	n := 0
	for i := range s.Particles {
		n += s.Particles[i].Springs.Len()
	}
	return n
}

// RemoveWhere swap-removes every particle for which remove returns true and
// returns how many were removed. remove sees each particle exactly once,
// with its index before any removal took place. Springs owned by or pointing
// at removed particles are dropped; springs pointing at moved particles are
// relabeled and re-homed on the lower index endpoint.
func (s *ParticleStore) RemoveWhere(remove func(i int, p *components.Particle) bool) int {
	n := len(s.Particles)
	if n == 0 {
		return 0
	}

	s.origin = s.origin[:0]
	for i := 0; i < n; i++ {
		s.origin = append(s.origin, int32(i))
	}

	// Descending, so the particle swapped into slot i was already kept.
	removed := 0
	for i := n - 1; i >= 0; i-- {
		if !remove(i, &s.Particles[i]) {
			continue
		}
		last := len(s.Particles) - 1
		s.Particles[i] = s.Particles[last]
		s.origin[i] = s.origin[last]
		s.Particles[last] = components.Particle{}
		s.Particles = s.Particles[:last]
		s.origin = s.origin[:last]
		removed++
	}

	if removed == 0 {
		return 0
	}

	if cap(s.newIndex) < n {
		s.newIndex = make([]int32, n)
	}
	s.newIndex = s.newIndex[:n]
	for i := range s.newIndex {
		s.newIndex[i] = noParticle
	}
	for slot, orig := range s.origin {
		s.newIndex[orig] = int32(slot)
	}

	s.relabelSprings()
	return removed
}

// Remove removes the particles at the given indices.
func (s *ParticleStore) Remove(indices ...int) int {
	if len(indices) == 0 {
		return 0
	}
	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		drop[i] = struct{}{}
	}
	return s.RemoveWhere(func(i int, _ *components.Particle) bool {
		_, ok := drop[i]
		return ok
	})
}

// relabelSprings rewrites spring neighbors through newIndex.
func (s *ParticleStore) relabelSprings() {
	s.moves = s.moves[:0]

	for i := range s.Particles {
		owner := int32(i)
		s.Particles[i].Springs.Remap(func(sp components.Spring) (int32, bool) {
			neighbor := s.newIndex[sp.Neighbor]
			if neighbor == noParticle {
				return 0, false
			}
			if neighbor < owner {
				s.moves = append(s.moves, springMove{owner: neighbor, neighbor: owner, rest: sp.RestLength})
				return 0, false
			}
			return neighbor, true
		})
	}

	for _, m := range s.moves {
		s.Particles[m.owner].Springs.Set(m.neighbor, m.rest)
	}
}
