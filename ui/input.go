package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slosh/game"
)

// Stepper is the part of the game the viewer drives.
type Stepper interface {
	Start()
	Pause()
	StepOnce()
	Running() bool

	SetInteraction(kind game.Interaction, active bool)
	SetPointer(x, y float64)
	ResetPointer(x, y float64)

	SetRain(on bool)
	Raining() bool
	Obstacle() game.ObstacleState
	SetObstacle(x, y, w, h float64)
	ShowObstacle(visible bool)

	ShiftContainer(dx, dy float64)
	Resize(w, h float64)

	Parameter(name string) (float64, bool)
	SetParameter(name string, value float64) error
}

// Held keys and the interaction each one drives.
var actionKeys = []struct {
	key  int32
	kind game.Interaction
}{
	{rl.KeyE, game.InteractEmit},
	{rl.KeyD, game.InteractDrain},
	{rl.KeyA, game.InteractAttract},
	{rl.KeyR, game.InteractRepel},
}

// InputHandler maps keyboard, mouse and window events onto a Stepper.
type InputHandler struct {
	draggingObstacle bool
	windowPos        rl.Vector2
	havePos          bool
}

// NewInputHandler creates an input handler.
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update applies this frame's input. Clicks that land on a panel are ignored
// for the fluid.
func (h *InputHandler) Update(s Stepper, overPanel bool) {
	if !rl.IsWindowFocused() {
		h.release(s)
		return
	}

	mouse := rl.GetMousePosition()
	mx, my := float64(mouse.X), float64(mouse.Y)

	for _, ak := range actionKeys {
		s.SetInteraction(ak.kind, rl.IsKeyDown(ak.key))
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && !overPanel {
		s.ResetPointer(mx, my)
		obs := s.Obstacle()
		if obs.Visible && obs.Extent.Contains(obs.Center, mx, my) {
			h.draggingObstacle = true
		} else {
			s.SetInteraction(game.InteractDrag, true)
		}
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		h.draggingObstacle = false
		s.SetInteraction(game.InteractDrag, false)
	}

	if h.draggingObstacle {
		obs := s.Obstacle()
		s.SetObstacle(mx, my, 2*obs.Extent.HalfW, 2*obs.Extent.HalfH)
	} else {
		s.SetPointer(mx, my)
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		if s.Running() {
			s.Pause()
		} else {
			s.Start()
		}
	case rl.IsKeyPressed(rl.KeyN):
		s.StepOnce()
	case rl.IsKeyPressed(rl.KeyC):
		s.SetRain(!s.Raining())
	case rl.IsKeyPressed(rl.KeyO):
		s.ShowObstacle(!s.Obstacle().Visible)
	}

	h.trackWindow(s)
}

// trackWindow forwards window moves as container shifts and resizes as
// domain changes.
func (h *InputHandler) trackWindow(s Stepper) {
	pos := rl.GetWindowPosition()
	if h.havePos && (pos.X != h.windowPos.X || pos.Y != h.windowPos.Y) {
		s.ShiftContainer(float64(pos.X-h.windowPos.X), float64(pos.Y-h.windowPos.Y))
	}
	h.windowPos = pos
	h.havePos = true

	if rl.IsWindowResized() {
		s.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	}
}

// release drops every held interaction, as when focus is lost mid-press.
func (h *InputHandler) release(s Stepper) {
	for _, ak := range actionKeys {
		s.SetInteraction(ak.kind, false)
	}
	s.SetInteraction(game.InteractDrag, false)
	h.draggingObstacle = false
}
