package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slosh/components"
)

// MaxDisplaySpeed is the speed drawn fully red. Faster particles saturate.
const MaxDisplaySpeed = 10

// ParticleRenderer renders fluid particles colored by speed.
type ParticleRenderer struct {
	slow rl.Color
	fast rl.Color
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{
		slow: rl.Color{R: 40, G: 110, B: 255, A: 255},
		fast: rl.Color{R: 255, G: 60, B: 40, A: 255},
	}
}

// Draw renders all particles as squares of side pointSize.
func (r *ParticleRenderer) Draw(particles []components.Particle, pointSize float64) {
	size := float32(pointSize)
	if size < 1 {
		size = 1
	}
	half := size / 2

	for i := range particles {
		p := &particles[i]

		t := float32(p.Speed() / MaxDisplaySpeed)
		if t > 1 {
			t = 1
		}
		color := lerpColor(r.slow, r.fast, t)

		rl.DrawRectangleV(
			rl.Vector2{X: float32(p.Pos.X) - half, Y: float32(p.Pos.Y) - half},
			rl.Vector2{X: size, Y: size},
			color,
		)
	}
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: uint8(float32(a.A) + (float32(b.A)-float32(a.A))*t),
	}
}
