package ui

import (
	"fmt"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// slider is one material parameter control.
type slider struct {
	param    string
	label    string
	min, max float32
}

// Material sliders in display order. Lower bounds keep kernel_radius and dt
// valid, so dragging can never produce a rejected value.
var materialSliders = []slider{
	{"rest_density", "Rest density", 0, 20},
	{"stiffness", "Stiffness", 0, 2},
	{"near_stiffness", "Near stiffness", 0, 2},
	{"spring_stiffness", "Spring stiffness", 0, 1},
	{"plasticity", "Plasticity", 0, 2},
	{"yield_ratio", "Yield ratio", 0, 1},
	{"min_dist_ratio", "Min dist ratio", 0, 1},
	{"lin_viscosity", "Lin viscosity", 0, 1},
	{"quad_viscosity", "Quad viscosity", 0, 1},
	{"kernel_radius", "Kernel radius", 5, 100},
	{"max_pressure", "Max pressure", 0, 2},
	{"point_size", "Point size", 1, 10},
	{"grav_x", "Gravity X", -1, 1},
	{"grav_y", "Gravity Y", -1, 1},
	{"dt", "dt", 0.05, 2},
}

// ControlsPanel renders the material sliders and run buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// height returns the panel height for the current layout.
func (c *ControlsPanel) height() int32 {
	r := c.renderer
	return r.Theme.Padding*3 + r.Theme.LineHeight + int32(len(materialSliders))*30 + 2*34
}

// Contains reports whether a screen point is over the panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x < float32(c.x+c.width) &&
		y >= float32(c.y) && y < float32(c.y+c.height())
}

// Draw renders the panel and applies edits to s.
func (c *ControlsPanel) Draw(s Stepper) {
	if !c.visible {
		return
	}

	r := c.renderer
	padding := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height())

	x := float32(c.x + padding)
	y := c.y + padding
	rl.DrawText("Material", int32(x), y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	sliderW := float32(c.width - r.Theme.LabelWidth - 60)
	for _, sl := range materialSliders {
		current, ok := s.Parameter(sl.param)
		if !ok {
			continue
		}
		rl.DrawText(sl.label, int32(x), y+4, r.Theme.FontSize, r.Theme.LabelColor)
		next := gui.SliderBar(
			rl.Rectangle{X: x + float32(r.Theme.LabelWidth), Y: float32(y), Width: sliderW, Height: 20},
			"", "",
			float32(current), sl.min, sl.max,
		)
		rl.DrawText(fmt.Sprintf("%.2f", current), int32(x)+r.Theme.LabelWidth+int32(sliderW)+6, y+4, r.Theme.FontSize, r.Theme.ValueColor)
		if next != float32(current) {
			if err := s.SetParameter(sl.param, float64(next)); err != nil {
				slog.Warn("parameter rejected", "param", sl.param, "value", next, "error", err)
			}
		}
		y += 30
	}

	y += 4
	bw := float32(c.width-padding*2-20) / 3
	run := "Start"
	if s.Running() {
		run = "Pause"
	}
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: bw, Height: 26}, run) {
		if s.Running() {
			s.Pause()
		} else {
			s.Start()
		}
	}
	if gui.Button(rl.Rectangle{X: x + bw + 10, Y: float32(y), Width: bw, Height: 26}, "Step") {
		s.StepOnce()
	}
	y += 34

	rain := "Enable Rain"
	if s.Raining() {
		rain = "Disable Rain"
	}
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: bw, Height: 26}, rain) {
		s.SetRain(!s.Raining())
	}
	obs := s.Obstacle()
	if gui.Button(rl.Rectangle{X: x + bw + 10, Y: float32(y), Width: bw, Height: 26}, toggleText(obs.Visible, "Hide Box", "Show Box")) {
		s.ShowObstacle(!obs.Visible)
	}
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
