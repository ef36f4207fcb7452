package components

// Emitter marks a rain cloud. Drops spawn along its width just below it.
type Emitter struct {
	Width  float64
	Height float64
}

// Obstacle is a solid box particles are pushed out of.
type Obstacle struct {
	Restitution float64 // Velocity multiplier applied on contact
	Visible     bool    // Hidden obstacles neither collide nor render
}
