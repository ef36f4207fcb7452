package systems

import (
	"testing"

	"github.com/pthm-cable/slosh/components"
)

// taggedStore creates n particles far apart, each tagged by its original
// index in Vel.X so identities can be followed across swap-removal.
func taggedStore(n int) *ParticleStore {
	s := NewParticleStore(n)
	for i := 0; i < n; i++ {
		p := components.NewParticle(float64(i)*200+100, 100, float64(i), 0)
		s.Add(p)
	}
	return s
}

func tag(s *ParticleStore, i int) int {
	return int(s.Particles[i].Vel.X)
}

type pair struct{ a, b int }

func orderedPair(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// springPairs returns every spring as a pair of original tags, checking
// canonical storage along the way.
func springPairs(t *testing.T, s *ParticleStore) map[pair]float64 {
	t.Helper()
	out := make(map[pair]float64)
	for i := range s.Particles {
		for _, sp := range s.Particles[i].Springs.All() {
			j := int(sp.Neighbor)
			if j >= s.Len() {
				t.Fatalf("particle %d holds spring to %d, store has %d", i, j, s.Len())
			}
			if j <= i {
				t.Fatalf("spring %d->%d stored on the higher endpoint", i, j)
			}
			k := orderedPair(tag(s, i), tag(s, j))
			if _, dup := out[k]; dup {
				t.Fatalf("duplicate spring for %v", k)
			}
			out[k] = sp.RestLength
		}
	}
	return out
}

func TestDrainRemovesAndRelabels(t *testing.T) {
	const n = 10
	s := taggedStore(n)

	// Indices 3 and 7 sit together under the drain.
	s.Particles[3].Pos.X, s.Particles[3].Pos.Y = 5000, 5000
	s.Particles[7].Pos.X, s.Particles[7].Pos.Y = 5010, 5000

	springs := []struct {
		a, b int
		rest float64
	}{
		{0, 3, 11}, {3, 9, 12}, {7, 8, 13}, {1, 9, 14},
		{2, 5, 15}, {4, 9, 16}, {8, 9, 17}, {0, 8, 18}, {5, 6, 19},
	}
	for _, sp := range springs {
		s.Particles[sp.a].Springs.Set(int32(sp.b), sp.rest)
	}

	removed := Drain(s, 5005, 5000, 50)
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if s.Len() != n-2 {
		t.Fatalf("Len = %d, want %d", s.Len(), n-2)
	}

	for i := range s.Particles {
		if got := tag(s, i); got == 3 || got == 7 {
			t.Fatalf("removed particle %d still in store at %d", got, i)
		}
	}

	want := make(map[pair]float64)
	for _, sp := range springs {
		if sp.a == 3 || sp.a == 7 || sp.b == 3 || sp.b == 7 {
			continue
		}
		want[orderedPair(sp.a, sp.b)] = sp.rest
	}

	got := springPairs(t, s)
	if len(got) != len(want) {
		t.Fatalf("got %d springs, want %d: %v", len(got), len(want), got)
	}
	for k, rest := range want {
		if got[k] != rest {
			t.Errorf("spring %v rest = %v, want %v", k, got[k], rest)
		}
	}

	// The grid rebuilt next tick has no dangling links.
	grid := NewHashGrid(64)
	grid.Rebuild(s.Particles, 40)
	visits := make([]int, s.Len())
	grid.ForEachParticle(func(i int) { visits[i]++ })
	for i, v := range visits {
		if v != 1 {
			t.Fatalf("particle %d visited %d times after drain", i, v)
		}
	}
}

func TestRemoveLastAndFirst(t *testing.T) {
	s := taggedStore(5)
	s.Particles[0].Springs.Set(4, 10)
	s.Particles[1].Springs.Set(4, 20)
	s.Particles[0].Springs.Set(2, 30)

	// Removing 0 moves 4 into slot 0 before relabeling.
	if got := s.Remove(0); got != 1 {
		t.Fatalf("Remove(0) = %d, want 1", got)
	}

	got := springPairs(t, s)
	want := map[pair]float64{orderedPair(1, 4): 20}
	if len(got) != len(want) || got[orderedPair(1, 4)] != 20 {
		t.Fatalf("springs = %v, want %v", got, want)
	}

	if got := s.Remove(s.Len() - 1); got != 1 {
		t.Fatalf("Remove(last) = %d, want 1", got)
	}
	springPairs(t, s)
}

func TestRemoveWhereSeesOriginalIndices(t *testing.T) {
	s := taggedStore(6)
	var seen []int
	s.RemoveWhere(func(i int, p *components.Particle) bool {
		if int(p.Vel.X) != i {
			t.Errorf("predicate got index %d for particle tagged %d", i, int(p.Vel.X))
		}
		seen = append(seen, i)
		return i%2 == 0
	})

	if len(seen) != 6 {
		t.Errorf("predicate called %d times, want 6", len(seen))
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
	for i := range s.Particles {
		if tag(s, i)%2 == 0 {
			t.Errorf("even particle %d survived", tag(s, i))
		}
	}
}

func TestRemoveNothing(t *testing.T) {
	s := taggedStore(3)
	s.Particles[0].Springs.Set(2, 5)
	if got := Drain(s, -1000, -1000, 10); got != 0 {
		t.Fatalf("Drain = %d, want 0", got)
	}
	if s.SpringCount() != 1 {
		t.Errorf("SpringCount = %d, want 1", s.SpringCount())
	}
}
