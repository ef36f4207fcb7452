package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slosh/game"
)

// SceneRenderer draws the clouds, the obstacle and the pointer.
type SceneRenderer struct {
	Background rl.Color
	Cloud      rl.Color
	Obstacle   rl.Color
	Pointer    rl.Color
}

// NewSceneRenderer creates a scene renderer with the default palette.
func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{
		Background: rl.Color{R: 12, G: 14, B: 20, A: 255},
		Cloud:      rl.Color{R: 200, G: 205, B: 215, A: 200},
		Obstacle:   rl.Color{R: 120, G: 120, B: 130, A: 255},
		Pointer:    rl.Color{R: 255, G: 255, B: 255, A: 60},
	}
}

// DrawBackground clears the frame.
func (s *SceneRenderer) DrawBackground() {
	rl.ClearBackground(s.Background)
}

// DrawClouds draws each cloud as a row of overlapping puffs.
func (s *SceneRenderer) DrawClouds(clouds []game.Cloud) {
	for _, c := range clouds {
		r := float32(c.Height) / 2
		if r < 4 {
			r = 4
		}
		for x := float32(c.X) + r; x < float32(c.X+c.Width); x += r {
			rl.DrawCircleV(rl.Vector2{X: x, Y: float32(c.Y) + r/2}, r, s.Cloud)
		}
	}
}

// DrawObstacle draws the obstacle if it is visible.
func (s *SceneRenderer) DrawObstacle(obs game.ObstacleState) {
	if !obs.Visible {
		return
	}
	rl.DrawRectangleRec(rl.Rectangle{
		X:      float32(obs.Center.X - obs.Extent.HalfW),
		Y:      float32(obs.Center.Y - obs.Extent.HalfH),
		Width:  float32(2 * obs.Extent.HalfW),
		Height: float32(2 * obs.Extent.HalfH),
	}, s.Obstacle)
}

// DrawPointer outlines the radius an active pointer interaction reaches.
func (s *SceneRenderer) DrawPointer(x, y, radius float64) {
	rl.DrawCircleLines(int32(x), int32(y), float32(radius), s.Pointer)
}
