package config

import (
	"fmt"
	"sort"
)

// MaterialConfig holds the fluid material. Every field may change between ticks.
type MaterialConfig struct {
	Name            string  `yaml:"name" json:"name"`
	RestDensity     float64 `yaml:"rest_density" json:"rest_density"`
	Stiffness       float64 `yaml:"stiffness" json:"stiffness"`
	NearStiffness   float64 `yaml:"near_stiffness" json:"near_stiffness"`
	KernelRadius    float64 `yaml:"kernel_radius" json:"kernel_radius"`       // Also the hash bucket edge length
	SpringStiffness float64 `yaml:"spring_stiffness" json:"spring_stiffness"`
	Plasticity      float64 `yaml:"plasticity" json:"plasticity"`
	YieldRatio      float64 `yaml:"yield_ratio" json:"yield_ratio"`
	MinDistRatio    float64 `yaml:"min_dist_ratio" json:"min_dist_ratio"`     // Keeps springs from collapsing
	LinViscosity    float64 `yaml:"lin_viscosity" json:"lin_viscosity"`
	QuadViscosity   float64 `yaml:"quad_viscosity" json:"quad_viscosity"`
	MaxPressure     float64 `yaml:"max_pressure" json:"max_pressure"`
	GravX           float64 `yaml:"grav_x" json:"grav_x"`
	GravY           float64 `yaml:"grav_y" json:"grav_y"`
	PointSize       float64 `yaml:"point_size" json:"point_size"`             // Rendering only
	DT              float64 `yaml:"dt" json:"dt"`
}

// Validate rejects values that make kernel math or velocity reconstruction undefined.
func (m *MaterialConfig) Validate() error {
	if !(m.KernelRadius > 0) {
		return fmt.Errorf("kernel_radius must be positive, got %v: %w", m.KernelRadius, ErrInvalidParameter)
	}
	if !(m.DT > 0) {
		return fmt.Errorf("dt must be positive, got %v: %w", m.DT, ErrInvalidParameter)
	}
	return nil
}

// Clamped returns a copy that is always safe to simulate with.
func (m MaterialConfig) Clamped() MaterialConfig {
	if !(m.KernelRadius >= MinKernelRadius) {
		m.KernelRadius = MinKernelRadius
	}
	if !(m.DT >= MinDT) {
		m.DT = MinDT
	}
	return m
}

// MinDist is the shortest distance a spring may be created at or shrink to.
func (m *MaterialConfig) MinDist() float64 {
	return m.MinDistRatio * m.KernelRadius
}

func (m *MaterialConfig) fields() map[string]*float64 {
	return map[string]*float64{
		"rest_density":     &m.RestDensity,
		"stiffness":        &m.Stiffness,
		"near_stiffness":   &m.NearStiffness,
		"kernel_radius":    &m.KernelRadius,
		"spring_stiffness": &m.SpringStiffness,
		"plasticity":       &m.Plasticity,
		"yield_ratio":      &m.YieldRatio,
		"min_dist_ratio":   &m.MinDistRatio,
		"lin_viscosity":    &m.LinViscosity,
		"quad_viscosity":   &m.QuadViscosity,
		"max_pressure":     &m.MaxPressure,
		"grav_x":           &m.GravX,
		"grav_y":           &m.GravY,
		"point_size":       &m.PointSize,
		"dt":               &m.DT,
	}
}

// ParameterNames lists the names accepted by Set, sorted.
func (m *MaterialConfig) ParameterNames() []string {
	f := m.fields()
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named parameter.
func (m *MaterialConfig) Get(name string) (float64, bool) {
	p, ok := m.fields()[name]
	if !ok {
		return 0, false
	}
	return *p, true
}

// Set updates one parameter by its yaml name. The material is left unchanged
// when the name is unknown or the new value fails validation.
func (m *MaterialConfig) Set(name string, value float64) error {
	p, ok := m.fields()[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownParameter)
	}
	old := *p
	*p = value
	if err := m.Validate(); err != nil {
		*p = old
		return err
	}
	return nil
}
