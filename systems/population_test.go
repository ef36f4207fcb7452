package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/slosh/components"
)

func TestScatterWithinDomain(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	store := NewParticleStore(0)
	Scatter(store, rng, 640, 480, 250)

	if store.Len() != 250 {
		t.Fatalf("Len = %d, want 250", store.Len())
	}
	for i, p := range store.Particles {
		if p.Pos.X < 0 || p.Pos.X >= 640 || p.Pos.Y < 0 || p.Pos.Y >= 480 {
			t.Fatalf("particle %d at %v outside domain", i, p.Pos)
		}
		if p.Vel.X < -1 || p.Vel.X >= 1 || p.Vel.Y < -1 || p.Vel.Y >= 1 {
			t.Fatalf("particle %d velocity %v outside [-1, 1)", i, p.Vel)
		}
		if p.Prev != p.Pos {
			t.Fatalf("particle %d prev %v != pos %v", i, p.Prev, p.Pos)
		}
	}
}

func TestScatterDeterministic(t *testing.T) {
	a := NewParticleStore(0)
	b := NewParticleStore(0)
	Scatter(a, rand.New(rand.NewPCG(1, 1)), 100, 100, 20)
	Scatter(b, rand.New(rand.NewPCG(1, 1)), 100, 100, 20)

	for i := range a.Particles {
		if a.Particles[i].Pos != b.Particles[i].Pos || a.Particles[i].Vel != b.Particles[i].Vel {
			t.Fatalf("particle %d differs between equal seeds", i)
		}
	}
}

func TestEmitPatch(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 3))
	store := storeAt([2]float64{1, 1})
	EmitPatch(store, rng, 300, 200, 5, 10)

	if store.Len() != 11 {
		t.Fatalf("Len = %d, want 11", store.Len())
	}
	for _, p := range store.Particles[1:] {
		if p.Pos.X < 295 || p.Pos.X >= 305 || p.Pos.Y < 195 || p.Pos.Y >= 205 {
			t.Errorf("emitted particle at %v outside jitter square", p.Pos)
		}
	}
}

func TestDrainStrictRadius(t *testing.T) {
	store := storeAt([2]float64{100, 100}, [2]float64{110, 100}, [2]float64{99, 100})
	if got := Drain(store, 100, 100, 10); got != 2 {
		t.Fatalf("Drain = %d, want 2", got)
	}
	if store.Len() != 1 || store.Particles[0].Pos.X != 110 {
		t.Errorf("survivor = %v, want the particle on the radius", store.Particles)
	}
}

func TestSpawnDrop(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	store := NewParticleStore(0)
	cloud := components.Position{X: 300, Y: 20}
	emitter := components.Emitter{Width: 50, Height: 30}

	for i := 0; i < 100; i++ {
		SpawnDrop(store, rng, cloud, emitter)
	}

	for _, p := range store.Particles {
		if p.Pos.X < 300 || p.Pos.X >= 350 || p.Pos.Y != 50 {
			t.Fatalf("drop at %v, want x in [300, 350) and y 50", p.Pos)
		}
		if p.Vel.X < -0.25 || p.Vel.X >= 0.25 || p.Vel.Y < 1 || p.Vel.Y >= 3 {
			t.Fatalf("drop velocity %v out of range", p.Vel)
		}
	}
}

func TestEvictEdgeParticles(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		wantCount int
		survivors []float64 // X positions left, in any order
	}{
		{"closest first", 1, 1, []float64{400, 30, 780}},
		{"two", 2, 2, []float64{400, 30}},
		{"more than candidates", 10, 3, []float64{400}},
		{"none requested", 0, 0, []float64{400, 30, 780, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Edge distances: 30, 20, 2; the center particle is not a candidate.
			store := storeAt(
				[2]float64{400, 300},
				[2]float64{30, 300},
				[2]float64{780, 300},
				[2]float64{2, 300},
			)

			got := EvictEdgeParticles(store, 800, 600, 50, tt.n)
			if got != tt.wantCount {
				t.Fatalf("evicted %d, want %d", got, tt.wantCount)
			}

			left := make(map[float64]bool)
			for _, p := range store.Particles {
				left[p.Pos.X] = true
			}
			if len(left) != len(tt.survivors) {
				t.Fatalf("survivors = %v, want %v", left, tt.survivors)
			}
			for _, x := range tt.survivors {
				if !left[x] {
					t.Errorf("particle at x=%v evicted", x)
				}
			}
		})
	}
}
