// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Lower bounds the solver clamps to when a material slips past validation.
const (
	MinKernelRadius = 1e-3
	MinDT           = 1e-6
)

var (
	// ErrUnknownParameter is returned when a parameter name has no material field.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrInvalidParameter is returned when a value would make the solver undefined.
	ErrInvalidParameter = errors.New("invalid parameter value")
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	World       WorldConfig       `yaml:"world"`
	Material    MaterialConfig    `yaml:"material"`
	Grid        GridConfig        `yaml:"grid"`
	Population  PopulationConfig  `yaml:"population"`
	Interaction InteractionConfig `yaml:"interaction"`
	Rain        RainConfig        `yaml:"rain"`
	Obstacle    ObstacleConfig    `yaml:"obstacle"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the simulation domain.
type WorldConfig struct {
	Width          int     `yaml:"width"`           // 0 = use screen width
	Height         int     `yaml:"height"`          // 0 = use screen height
	BoundaryMargin float64 `yaml:"boundary_margin"` // Soft wall inset from each edge
}

// GridConfig holds spatial hash parameters.
type GridConfig struct {
	Buckets int `yaml:"buckets"` // Hash table size; collisions are chained, never grown
}

// PopulationConfig holds particle population parameters.
type PopulationConfig struct {
	Initial     int     `yaml:"initial"`
	EmitRate    int     `yaml:"emit_rate"`    // Particles per tick while emitting
	EmitJitter  float64 `yaml:"emit_jitter"`  // Half-width of the square emission patch
	DrainRadius float64 `yaml:"drain_radius"` // Removal radius around the pointer
}

// InteractionConfig holds pointer force parameters.
type InteractionConfig struct {
	AttractRadius   float64 `yaml:"attract_radius"`
	AttractStrength float64 `yaml:"attract_strength"` // Multiplied by kernel radius
	DragRadius      float64 `yaml:"drag_radius"`
	MaxShift        float64 `yaml:"max_shift"` // Max container shift applied per tick and axis
}

// RainConfig holds cloud emitter parameters.
type RainConfig struct {
	CloudWidth    float64 `yaml:"cloud_width"`
	CloudHeight   float64 `yaml:"cloud_height"`
	CloudY        float64 `yaml:"cloud_y"`
	CloudJitter   float64 `yaml:"cloud_jitter"`
	MaxFactor     float64 `yaml:"max_factor"`     // Drop cap = initial population * this
	EdgeThreshold float64 `yaml:"edge_threshold"` // Eviction candidates lie this close to an edge
	EvictPerTick  int     `yaml:"evict_per_tick"`
}

// ObstacleConfig holds the box obstacle parameters.
type ObstacleConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Restitution float64 `yaml:"restitution"` // Velocity multiplier on contact
	Visible     bool    `yaml:"visible"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW float64 // Effective world width
	WorldH float64 // Effective world height
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the solver cannot run with.
func (c *Config) Validate() error {
	if err := c.Material.Validate(); err != nil {
		return fmt.Errorf("material: %w", err)
	}
	if c.Grid.Buckets <= 0 {
		return fmt.Errorf("grid.buckets must be positive, got %d: %w", c.Grid.Buckets, ErrInvalidParameter)
	}
	if c.Population.Initial < 0 {
		return fmt.Errorf("population.initial must not be negative, got %d: %w", c.Population.Initial, ErrInvalidParameter)
	}
	if !(c.Rain.CloudWidth > 0) {
		return fmt.Errorf("rain.cloud_width must be positive, got %v: %w", c.Rain.CloudWidth, ErrInvalidParameter)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW = float64(worldW)
	c.Derived.WorldH = float64(worldH)

	if c.Telemetry.StatsWindow <= 0 {
		c.Telemetry.StatsWindow = 600
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
