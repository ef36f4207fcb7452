package systems

import (
	"math"

	"github.com/pthm-cable/slosh/components"
)

// BoxCollider pushes particles out of an axis-aligned box.
type BoxCollider struct {
	Center      components.Position
	Extent      components.Extent
	Restitution float64
}

// Collide moves p out of the box along the axis of least penetration and
// scales its velocity by the restitution.
func (b *BoxCollider) Collide(p *components.Particle) {
	if !b.Extent.Contains(b.Center, p.Pos.X, p.Pos.Y) {
		return
	}

	dx := p.Pos.X - b.Center.X
	dy := p.Pos.Y - b.Center.Y
	overlapX := (b.Extent.HalfW - math.Abs(dx)) * sign(dx)
	overlapY := (b.Extent.HalfH - math.Abs(dy)) * sign(dy)

	if math.Abs(overlapX) < math.Abs(overlapY) {
		p.Pos.X += overlapX
	} else {
		p.Pos.Y += overlapY
	}

	p.Vel.X *= b.Restitution
	p.Vel.Y *= b.Restitution
}

// sign returns -1, 0 or 1.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
