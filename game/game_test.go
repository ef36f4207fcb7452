package game

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/slosh/config"
	"github.com/pthm-cable/slosh/telemetry"
)

// newTestGame creates an 800×600 game with initial scattered particles.
func newTestGame(t *testing.T, initial int) *Game {
	t.Helper()
	cfg := config.Default()
	cfg.Population.Initial = initial
	cfg.Derived.WorldW = 800
	cfg.Derived.WorldH = 600
	cfg.Telemetry.StatsWindow = 1 << 20

	g, err := NewGame(cfg, DefaultOptions())
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

type placed struct {
	x, y    float64
	springs []telemetry.SpringState
}

// restoreAt replaces the fluid with resting particles at the given positions.
func restoreAt(t *testing.T, g *Game, ps ...placed) {
	t.Helper()
	snap := g.Snapshot(nil)
	snap.Particles = snap.Particles[:0]
	for _, p := range ps {
		snap.Particles = append(snap.Particles, telemetry.ParticleState{X: p.x, Y: p.y, Springs: p.springs})
	}
	if err := g.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
}

func checkSprings(t *testing.T, g *Game) {
	t.Helper()
	n := int32(g.ParticleCount())
	for i, p := range g.Particles() {
		for _, sp := range p.Springs.All() {
			if sp.Neighbor <= int32(i) || sp.Neighbor >= n {
				t.Errorf("particle %d holds spring to %d (n=%d)", i, sp.Neighbor, n)
			}
		}
	}
}

func TestNewGame(t *testing.T) {
	g := newTestGame(t, 120)

	if g.ParticleCount() != 120 {
		t.Errorf("particles = %d, want 120", g.ParticleCount())
	}
	if g.State() != StateIdle {
		t.Errorf("state = %v, want idle", g.State())
	}
	for i, p := range g.Particles() {
		if p.Pos.X < 0 || p.Pos.X > 800 || p.Pos.Y < 0 || p.Pos.Y > 600 {
			t.Errorf("particle %d at %v outside domain", i, p.Pos)
		}
	}
}

func TestNewGameRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Material.KernelRadius = 0

	if _, err := NewGame(cfg, DefaultOptions()); !errors.Is(err, config.ErrInvalidParameter) {
		t.Errorf("err = %v, want ErrInvalidParameter", err)
	}
}

func TestStateMachine(t *testing.T) {
	g := newTestGame(t, 10)

	g.Update()
	if g.Tick() != 0 {
		t.Fatalf("idle Update advanced to tick %d", g.Tick())
	}

	g.StepOnce()
	if g.Tick() != 1 || g.State() != StateIdle {
		t.Fatalf("after StepOnce tick=%d state=%v, want 1 idle", g.Tick(), g.State())
	}

	g.Start()
	if !g.Running() {
		t.Fatal("Start did not switch to running")
	}
	g.Update()
	g.Update()
	if g.Tick() != 3 {
		t.Errorf("tick = %d after two running updates, want 3", g.Tick())
	}

	g.StepOnce()
	if g.Tick() != 3 {
		t.Errorf("StepOnce while running advanced to tick %d", g.Tick())
	}

	g.Pause()
	g.Update()
	if g.Running() || g.Tick() != 3 {
		t.Errorf("after Pause running=%v tick=%d", g.Running(), g.Tick())
	}
}

func TestSetParameter(t *testing.T) {
	g := newTestGame(t, 10)
	before := g.Material().Stiffness

	if err := g.SetParameter("stiffness", before+1); err != nil {
		t.Fatalf("SetParameter: %v", err)
	}
	if g.Material().Stiffness != before {
		t.Errorf("active stiffness changed before the next tick")
	}
	if v, _ := g.Parameter("stiffness"); v != before+1 {
		t.Errorf("pending stiffness = %v, want %v", v, before+1)
	}

	g.StepOnce()
	if g.Material().Stiffness != before+1 {
		t.Errorf("active stiffness = %v after tick, want %v", g.Material().Stiffness, before+1)
	}

	tests := []struct {
		name  string
		param string
		value float64
		want  error
	}{
		{"unknown name", "viscosity", 1, config.ErrUnknownParameter},
		{"zero kernel radius", "kernel_radius", 0, config.ErrInvalidParameter},
		{"negative dt", "dt", -1, config.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.SetParameter(tt.param, tt.value); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if v, _ := g.Parameter("kernel_radius"); v != g.Material().KernelRadius {
		t.Errorf("rejected kernel_radius leaked into pending material: %v", v)
	}
}

func TestRemoveNearPurgesSprings(t *testing.T) {
	g := newTestGame(t, 0)
	restoreAt(t, g,
		placed{x: 100, y: 100, springs: []telemetry.SpringState{{Neighbor: 1, RestLength: 10}}},
		placed{x: 110, y: 100, springs: []telemetry.SpringState{{Neighbor: 3, RestLength: 300}}},
		placed{x: 400, y: 400, springs: []telemetry.SpringState{{Neighbor: 3, RestLength: 10}}},
		placed{x: 410, y: 400},
	)

	if got := g.RemoveNear(100, 100, 5); got != 1 {
		t.Fatalf("removed %d, want 1", got)
	}
	if g.ParticleCount() != 3 {
		t.Errorf("particles = %d, want 3", g.ParticleCount())
	}
	if g.SpringCount() != 2 {
		t.Errorf("springs = %d, want 2", g.SpringCount())
	}
	checkSprings(t, g)

	// The grid is rebuilt from the relabeled store on the next tick.
	g.StepOnce()
	checkSprings(t, g)
}

func TestAddAndEmit(t *testing.T) {
	g := newTestGame(t, 0)

	g.AddParticles(25)
	g.EmitAt(200, 200, 10)
	g.AddParticles(-3)

	if g.ParticleCount() != 35 {
		t.Fatalf("particles = %d, want 35", g.ParticleCount())
	}
	jitter := g.cfg.Population.EmitJitter
	for _, p := range g.Particles()[25:] {
		if math.Abs(p.Pos.X-200) > jitter || math.Abs(p.Pos.Y-200) > jitter {
			t.Errorf("emitted particle at %v outside patch", p.Pos)
		}
	}
}

func TestDrainInteraction(t *testing.T) {
	g := newTestGame(t, 400)
	g.SetPointer(400, 300)
	g.SetInteraction(InteractDrain, true)

	radius := g.cfg.Population.DrainRadius
	inside := 0
	for _, p := range g.Particles() {
		dx, dy := p.Pos.X-400, p.Pos.Y-300
		if dx*dx+dy*dy < radius*radius {
			inside++
		}
	}
	if inside == 0 {
		t.Fatal("no particles under the pointer; pick another seed")
	}

	g.StepOnce()
	if got := g.ParticleCount(); got != 400-inside {
		t.Errorf("particles = %d, want %d", got, 400-inside)
	}
	checkSprings(t, g)
}

func TestRain(t *testing.T) {
	g := newTestGame(t, 10)
	g.SetRain(true)

	clouds := g.Clouds()
	if len(clouds) != 5 {
		t.Fatalf("clouds = %d, want floor(800/150) = 5", len(clouds))
	}
	for i, c := range clouds {
		if c.Y != 20 || c.Width != 150 {
			t.Errorf("cloud %d = %+v", i, c)
		}
	}

	for i := 0; i < 10; i++ {
		g.StepOnce()
	}
	if g.ParticleCount() != 20 {
		t.Fatalf("particles = %d after 10 rain ticks, want cap 20", g.ParticleCount())
	}

	for i := 0; i < 50; i++ {
		g.StepOnce()
		if g.ParticleCount() > 20 {
			t.Fatalf("tick %d: particles = %d above cap", g.Tick(), g.ParticleCount())
		}
	}
	checkSprings(t, g)

	g.SetRain(false)
	if n := len(g.Clouds()); n != 0 {
		t.Errorf("clouds = %d after rain off, want 0", n)
	}
}

func TestObstacle(t *testing.T) {
	tests := []struct {
		name    string
		visible bool
		wantY   float64
	}{
		{"visible pushes out", true, 350},
		{"hidden ignored", false, 310},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 0)
			if err := g.SetParameter("grav_y", 0); err != nil {
				t.Fatal(err)
			}
			g.SetObstacle(400, 300, 100, 100)
			g.ShowObstacle(tt.visible)
			restoreAt(t, g, placed{x: 405, y: 310})

			g.StepOnce()

			p := g.Particles()[0]
			if math.Abs(p.Pos.X-405) > 1e-9 || math.Abs(p.Pos.Y-tt.wantY) > 1e-9 {
				t.Errorf("pos = %v, want (405, %v)", p.Pos, tt.wantY)
			}
			if obs := g.Obstacle(); obs.Visible != tt.visible || obs.Extent.HalfW != 50 {
				t.Errorf("obstacle = %+v", obs)
			}
		})
	}
}

func TestShiftContainer(t *testing.T) {
	g := newTestGame(t, 0)
	if err := g.SetParameter("grav_y", 0); err != nil {
		t.Fatal(err)
	}
	restoreAt(t, g, placed{x: 400, y: 300})
	g.ShiftContainer(120, 0)

	for _, want := range []float64{350, 300, 280, 280} {
		g.StepOnce()
		if got := g.Particles()[0].Pos.X; math.Abs(got-want) > 1e-9 {
			t.Errorf("tick %d: x = %v, want %v", g.Tick(), got, want)
		}
	}
}

func TestIdleDropsContainerShift(t *testing.T) {
	g := newTestGame(t, 0)
	if err := g.SetParameter("grav_y", 0); err != nil {
		t.Fatal(err)
	}
	restoreAt(t, g, placed{x: 400, y: 300})

	g.ShiftContainer(120, 0)
	g.Update() // idle frame

	g.Start()
	for i := 0; i < 3; i++ {
		g.Update()
	}
	if got := g.Particles()[0].Pos.X; math.Abs(got-400) > 1e-9 {
		t.Errorf("x = %v, want 400 (shift while idle is dropped)", got)
	}
}

func TestRestoreResetsStatsWindow(t *testing.T) {
	tests := []struct {
		name      string
		restoreAt int // ticks run on the source before taking the snapshot
		runBefore int // ticks run on the target before restoring
	}{
		{"back to an earlier tick", 0, 10},
		{"forward to a later tick", 12, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestGame(t, 30)
			for i := 0; i < tt.restoreAt; i++ {
				src.StepOnce()
			}
			snap := src.Snapshot(nil)

			cfg := config.Default()
			cfg.Population.Initial = 30
			cfg.Derived.WorldW = 800
			cfg.Derived.WorldH = 600
			cfg.Telemetry.StatsWindow = 5

			var windows []telemetry.WindowStats
			opts := DefaultOptions()
			opts.StatsCallback = func(s telemetry.WindowStats) { windows = append(windows, s) }
			g, err := NewGame(cfg, opts)
			if err != nil {
				t.Fatal(err)
			}
			defer g.Close()

			for i := 0; i < tt.runBefore; i++ {
				g.StepOnce()
			}
			before := len(windows)

			if err := g.Restore(snap); err != nil {
				t.Fatalf("Restore: %v", err)
			}
			for i := 0; i < 5; i++ {
				g.StepOnce()
			}

			if len(windows) != before+1 {
				t.Fatalf("windows after restore = %d, want 1", len(windows)-before)
			}
			w := windows[len(windows)-1]
			start := int32(tt.restoreAt)
			if w.WindowStartTick != start || w.WindowEndTick != start+5 {
				t.Errorf("window = [%d, %d], want [%d, %d]", w.WindowStartTick, w.WindowEndTick, start, start+5)
			}
		})
	}
}

func TestSnapshotRestore(t *testing.T) {
	src := newTestGame(t, 150)
	if err := src.SetParameter("spring_stiffness", 0.3); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		src.StepOnce()
	}

	dst := newTestGame(t, 0)
	if err := dst.Restore(src.Snapshot(nil)); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if dst.Tick() != src.Tick() || dst.SpringCount() != src.SpringCount() {
		t.Fatalf("restored tick=%d springs=%d, want %d %d",
			dst.Tick(), dst.SpringCount(), src.Tick(), src.SpringCount())
	}

	src.StepOnce()
	dst.StepOnce()
	for i := range src.Particles() {
		if src.Particles()[i].Pos != dst.Particles()[i].Pos {
			t.Fatalf("particle %d diverged: %v vs %v", i, src.Particles()[i].Pos, dst.Particles()[i].Pos)
		}
	}
}

func TestRestoreRejectsDanglingSpring(t *testing.T) {
	g := newTestGame(t, 0)
	snap := g.Snapshot(nil)
	snap.Particles = []telemetry.ParticleState{
		{X: 1, Y: 1, Springs: []telemetry.SpringState{{Neighbor: 4, RestLength: 10}}},
	}
	if err := g.Restore(snap); err == nil {
		t.Error("Restore accepted a spring to a missing particle")
	}
}

func TestDeterminism(t *testing.T) {
	run := func() *Game {
		g := newTestGame(t, 200)
		g.SetRain(true)
		g.SetPointer(300, 300)
		g.SetInteraction(InteractAttract, true)
		for i := 0; i < 30; i++ {
			g.StepOnce()
		}
		return g
	}

	a, b := run(), run()
	if a.ParticleCount() != b.ParticleCount() {
		t.Fatalf("particle counts differ: %d vs %d", a.ParticleCount(), b.ParticleCount())
	}
	for i := range a.Particles() {
		if a.Particles()[i].Pos != b.Particles()[i].Pos {
			t.Fatalf("particle %d differs: %v vs %v", i, a.Particles()[i].Pos, b.Particles()[i].Pos)
		}
	}
}

func TestStatsCallback(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Initial = 50
	cfg.Derived.WorldW = 800
	cfg.Derived.WorldH = 600
	cfg.Telemetry.StatsWindow = 5

	var windows []telemetry.WindowStats
	opts := DefaultOptions()
	opts.StatsCallback = func(s telemetry.WindowStats) { windows = append(windows, s) }

	g, err := NewGame(cfg, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	for i := 0; i < 10; i++ {
		g.StepOnce()
	}

	if len(windows) != 2 {
		t.Fatalf("windows = %d, want 2", len(windows))
	}
	if windows[1].WindowEndTick != 10 || windows[1].Particles != 50 {
		t.Errorf("second window = %+v", windows[1])
	}
}

func TestInteractionString(t *testing.T) {
	if InteractDrain.String() != "drain" || Interaction(99).String() != "unknown" {
		t.Errorf("unexpected names %q %q", InteractDrain.String(), Interaction(99).String())
	}
}
