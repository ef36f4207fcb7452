package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slosh/config"
	"github.com/pthm-cable/slosh/game"
	"github.com/pthm-cable/slosh/renderer"
	"github.com/pthm-cable/slosh/ui"
)

const controlsLegend = "[Space] run/pause  [N] step  [E] emit  [D] drain  [A] attract  [R] repel  [C] rain  [O] box  [Tab] panel  [P] perf"

// runViewer opens a window sized to the world and runs the game until the
// window closes.
func runViewer(cfg *config.Config, opts game.Options, restorePath string, rain bool, maxTicks int) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Derived.WorldW), int32(cfg.Derived.WorldH), "Slosh")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := newGame(cfg, opts, restorePath, rain)
	if err != nil {
		return err
	}
	defer g.Close()
	g.Start()

	particles := renderer.NewParticleRenderer()
	scene := renderer.NewSceneRenderer()
	input := ui.NewInputHandler()
	controls := ui.NewControlsPanel(10, 10, 340)
	hud := ui.NewHUD()
	perf := ui.NewPerfPanel(10, 10)
	showPerf := false

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyTab) {
			controls.Toggle()
		}
		if rl.IsKeyPressed(rl.KeyP) {
			showPerf = !showPerf
		}

		mouse := rl.GetMousePosition()
		input.Update(g, controls.Contains(mouse.X, mouse.Y))

		g.Update()
		g.Perf().RecordFrame()

		screenW := int32(rl.GetScreenWidth())
		screenH := int32(rl.GetScreenHeight())

		rl.BeginDrawing()
		scene.DrawBackground()
		scene.DrawObstacle(g.Obstacle())
		particles.Draw(g.Particles(), g.Material().PointSize)
		scene.DrawClouds(g.Clouds())
		drawPointer(scene, g, cfg)

		controls.Draw(g)
		hud.Draw(ui.HUDData{
			Title:     "Slosh",
			Particles: g.ParticleCount(),
			Springs:   g.SpringCount(),
			Clouds:    len(g.Clouds()),
			Tick:      g.Tick(),
			FPS:       rl.GetFPS(),
			Running:   g.Running(),
			Material:  g.Material().Name,
		}, screenW)
		if showPerf {
			perf.SetPosition(screenW-260, 100)
			perf.Draw(g.Perf().Stats())
		}
		hud.DrawControls(screenH, controlsLegend)
		rl.EndDrawing()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
	return nil
}

// drawPointer outlines the reach of whichever pointer interaction is active.
func drawPointer(scene *renderer.SceneRenderer, g *game.Game, cfg *config.Config) {
	p := g.Pointer()
	switch {
	case g.Interacting(game.InteractDrain):
		scene.DrawPointer(p.X, p.Y, cfg.Population.DrainRadius)
	case g.Interacting(game.InteractAttract), g.Interacting(game.InteractRepel):
		scene.DrawPointer(p.X, p.Y, cfg.Interaction.AttractRadius)
	case g.Interacting(game.InteractDrag):
		scene.DrawPointer(p.X, p.Y, cfg.Interaction.DragRadius)
	}
}
