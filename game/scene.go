package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/slosh/components"
	"github.com/pthm-cable/slosh/systems"
)

// Cloud is a rain emitter. Position is its top-left corner.
type Cloud struct {
	components.Position
	components.Emitter
}

// ObstacleState describes the box obstacle.
type ObstacleState struct {
	Center  components.Position
	Extent  components.Extent
	Visible bool
}

// SetRain turns the clouds on or off. Clouds are laid out across the
// current width when rain starts.
func (g *Game) SetRain(on bool) {
	if on == g.raining {
		return
	}
	g.raining = on
	if on {
		g.addClouds()
	} else {
		g.removeClouds()
	}
}

// Raining reports whether clouds are emitting.
func (g *Game) Raining() bool {
	return g.raining
}

// Clouds returns the live clouds.
func (g *Game) Clouds() []Cloud {
	return g.appendClouds(nil)
}

func (g *Game) appendClouds(dst []Cloud) []Cloud {
	query := g.cloudFilter.Query()
	for query.Next() {
		pos, em := query.Get()
		dst = append(dst, Cloud{Position: *pos, Emitter: *em})
	}
	return dst
}

// addClouds creates one cloud per cloud width of domain, with a random
// horizontal offset.
func (g *Game) addClouds() {
	rcfg := &g.cfg.Rain
	count := int(math.Floor(g.width / rcfg.CloudWidth))

	for i := 0; i < count; i++ {
		pos := components.Position{
			X: float64(i)*rcfg.CloudWidth + g.rng.Float64()*rcfg.CloudJitter,
			Y: rcfg.CloudY,
		}
		em := components.Emitter{Width: rcfg.CloudWidth, Height: rcfg.CloudHeight}
		g.cloudMapper.NewEntity(&pos, &em)
	}
}

func (g *Game) removeClouds() {
	var dead []ecs.Entity
	query := g.cloudFilter.Query()
	for query.Next() {
		dead = append(dead, query.Entity())
	}
	for _, e := range dead {
		g.world.RemoveEntity(e)
	}
}

// spawnObstacle creates the obstacle entity at the domain center.
func (g *Game) spawnObstacle() {
	ocfg := &g.cfg.Obstacle
	pos := components.Position{X: g.width / 2, Y: g.height / 2}
	ext := components.Extent{HalfW: ocfg.Width / 2, HalfH: ocfg.Height / 2}
	obs := components.Obstacle{Restitution: ocfg.Restitution, Visible: ocfg.Visible}
	g.obstacle = g.obstacleMapper.NewEntity(&pos, &ext, &obs)
}

// SetObstacle moves the obstacle so it is centered on (x, y) with size w×h.
func (g *Game) SetObstacle(x, y, w, h float64) {
	pos, ext, _ := g.obstacleMapper.Get(g.obstacle)
	pos.X, pos.Y = x, y
	ext.HalfW, ext.HalfH = math.Abs(w)/2, math.Abs(h)/2
}

// ShowObstacle turns obstacle collision and rendering on or off.
func (g *Game) ShowObstacle(visible bool) {
	_, _, obs := g.obstacleMapper.Get(g.obstacle)
	obs.Visible = visible
}

// Obstacle returns the obstacle.
func (g *Game) Obstacle() ObstacleState {
	pos, ext, obs := g.obstacleMapper.Get(g.obstacle)
	return ObstacleState{Center: *pos, Extent: *ext, Visible: obs.Visible}
}

// colliders appends a box collider for every visible obstacle.
func (g *Game) colliders(dst []systems.BoxCollider) []systems.BoxCollider {
	query := g.obstacleFilter.Query()
	for query.Next() {
		pos, ext, obs := query.Get()
		if !obs.Visible {
			continue
		}
		dst = append(dst, systems.BoxCollider{
			Center:      *pos,
			Extent:      *ext,
			Restitution: obs.Restitution,
		})
	}
	return dst
}
