package components

import "sort"

// Spring is one elastic link, stored on its lower-indexed endpoint.
type Spring struct {
	Neighbor   int32
	RestLength float64
}

// SpringSet holds a particle's springs sorted by neighbor index.
// Particles usually own a handful of springs, so a sorted slice beats a map
// and gives deterministic iteration.
type SpringSet struct {
	items []Spring
}

// Len returns the number of springs.
func (s *SpringSet) Len() int { return len(s.items) }

// All exposes the springs in ascending neighbor order. Callers may modify
// RestLength in place but must not reorder.
func (s *SpringSet) All() []Spring { return s.items }

func (s *SpringSet) search(neighbor int32) int {
	return sort.Search(len(s.items), func(i int) bool { return s.items[i].Neighbor >= neighbor })
}

// Get returns the rest length of the spring to neighbor.
func (s *SpringSet) Get(neighbor int32) (float64, bool) {
	i := s.search(neighbor)
	if i < len(s.items) && s.items[i].Neighbor == neighbor {
		return s.items[i].RestLength, true
	}
	return 0, false
}

// Has reports whether a spring to neighbor exists.
func (s *SpringSet) Has(neighbor int32) bool {
	_, ok := s.Get(neighbor)
	return ok
}

// Set inserts or updates the spring to neighbor.
func (s *SpringSet) Set(neighbor int32, restLength float64) {
	i := s.search(neighbor)
	if i < len(s.items) && s.items[i].Neighbor == neighbor {
		s.items[i].RestLength = restLength
		return
	}
	s.items = append(s.items, Spring{})
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = Spring{Neighbor: neighbor, RestLength: restLength}
}

// Delete removes the spring to neighbor, reporting whether it existed.
func (s *SpringSet) Delete(neighbor int32) bool {
	i := s.search(neighbor)
	if i < len(s.items) && s.items[i].Neighbor == neighbor {
		s.items = append(s.items[:i], s.items[i+1:]...)
		return true
	}
	return false
}

// Retain keeps only springs for which keep returns true, in order.
// keep may modify the spring it is given.
func (s *SpringSet) Retain(keep func(sp *Spring) bool) int {
	n := 0
	removed := 0
	for i := range s.items {
		if keep(&s.items[i]) {
			s.items[n] = s.items[i]
			n++
		} else {
			removed++
		}
	}
	s.items = s.items[:n]
	return removed
}

// Remap rewrites every neighbor index through fn, dropping springs for which
// fn reports false, then restores ascending order.
func (s *SpringSet) Remap(fn func(sp Spring) (int32, bool)) {
	n := 0
	for _, sp := range s.items {
		neighbor, keep := fn(sp)
		if !keep {
			continue
		}
		sp.Neighbor = neighbor
		s.items[n] = sp
		n++
	}
	s.items = s.items[:n]
	sort.Slice(s.items, func(i, j int) bool { return s.items[i].Neighbor < s.items[j].Neighbor })
}
