package components

// Position represents a scene entity's world position (its center).
type Position struct {
	X, Y float64
}

// Extent is the half size of an axis-aligned box centered on a Position.
type Extent struct {
	HalfW, HalfH float64
}

// Contains reports whether (x, y) lies strictly inside the box at pos.
func (e Extent) Contains(pos Position, x, y float64) bool {
	dx := x - pos.X
	dy := y - pos.Y
	return dx > -e.HalfW && dx < e.HalfW && dy > -e.HalfH && dy < e.HalfH
}
