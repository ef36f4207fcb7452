// Package systems contains the per-tick fluid passes and the data structures
// they share.
package systems

import (
	"github.com/pthm-cable/slosh/components"
)

// Multiplicative hash constants for bucket coordinates.
const (
	hashK1 int32 = 92837111
	hashK2 int32 = 689287499
)

// noParticle terminates bucket lists.
const noParticle int32 = -1

// HashGrid buckets particles by truncated position into a fixed-size hash
// table. Each bucket is an intrusive singly linked list threaded through next.
// Distinct cells may share a slot; queries dedup slots, never grow the table.
type HashGrid struct {
	heads  []int32 // per slot: first particle or noParticle
	next   []int32 // per particle: next particle in the same slot
	active []int32 // slots holding at least one particle, in fill order

	invCell float64
}

// NewHashGrid creates a grid with the given number of hash slots.
func NewHashGrid(buckets int) *HashGrid {
	if buckets < 1 {
		buckets = 1
	}
	heads := make([]int32, buckets)
	for i := range heads {
		heads[i] = noParticle
	}
	return &HashGrid{
		heads:  heads,
		active: make([]int32, 0, 64),
	}
}

// BucketIndex hashes integer cell coordinates to a slot in [0, buckets).
func BucketIndex(bx, by int32, buckets int) int32 {
	h := int64((bx * hashK1) ^ (by * hashK2))
	if h < 0 {
		h = -h
	}
	return int32(h % int64(buckets))
}

// ActiveBuckets returns the occupied slots in fill order.
func (g *HashGrid) ActiveBuckets() []int32 { return g.active }

// Rebuild clears the previously occupied slots and reinserts every particle.
func (g *HashGrid) Rebuild(particles []components.Particle, cellSize float64) {
	for _, b := range g.active {
		g.heads[b] = noParticle
	}
	g.active = g.active[:0]

	g.invCell = 1.0 / cellSize

	if cap(g.next) < len(particles) {
		g.next = make([]int32, len(particles), len(particles)*2)
	}
	g.next = g.next[:len(particles)]

	for i := range particles {
		p := &particles[i]
		b := g.slot(p.Pos.X, p.Pos.Y)

		head := g.heads[b]
		if head == noParticle {
			g.active = append(g.active, b)
		}
		g.next[i] = head
		g.heads[b] = int32(i)
	}
}

// slot returns the hash slot for a world position.
func (g *HashGrid) slot(x, y float64) int32 {
	return BucketIndex(bucketCoord(x, g.invCell), bucketCoord(y, g.invCell), len(g.heads))
}

// ForEachParticle visits every inserted particle, bucket by bucket in
// active-list order. This order fixes the pairwise processing order of the
// neighbor passes.
func (g *HashGrid) ForEachParticle(fn func(i int)) {
	for _, b := range g.active {
		for i := g.heads[b]; i != noParticle; i = g.next[i] {
			fn(int(i))
		}
	}
}

// ForEachNeighbor calls fn for every other particle within radius of
// particles[self], scanning the 3×3 block of cells around it. dx, dy is the
// separation from self to the neighbor and rSq its squared length.
// radius must not exceed the cell size passed to Rebuild.
func (g *HashGrid) ForEachNeighbor(particles []components.Particle, self int, radius float64, fn func(j int, dx, dy, rSq float64)) {
	p0 := &particles[self]
	radiusSq := radius * radius

	bx := bucketCoord(p0.Pos.X, g.invCell)
	by := bucketCoord(p0.Pos.Y, g.invCell)

	// At most 9 slots per query; a linear scan keeps visit order stable.
	var visited [9]int32
	numVisited := 0

	for dbx := int32(-1); dbx <= 1; dbx++ {
		for dby := int32(-1); dby <= 1; dby++ {
			b := BucketIndex(bx+dbx, by+dby, len(g.heads))

			seen := false
			for k := 0; k < numVisited; k++ {
				if visited[k] == b {
					seen = true
					break
				}
			}
			if seen {
				continue
			}
			visited[numVisited] = b
			numVisited++

			for j := g.heads[b]; j != noParticle; j = g.next[j] {
				if int(j) == self {
					continue
				}
				p1 := &particles[j]

				dx := p1.Pos.X - p0.Pos.X
				if dx > radius || dx < -radius {
					continue
				}
				dy := p1.Pos.Y - p0.Pos.Y
				if dy > radius || dy < -radius {
					continue
				}

				rSq := dx*dx + dy*dy
				if rSq < radiusSq {
					fn(int(j), dx, dy, rSq)
				}
			}
		}
	}
}
