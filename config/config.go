// Package config loads a YAML renderer profile (thread count, default AA
// threshold, output gamma/saturation, pathtracing toggle) the way the
// example corpus loads its YAML-configured subsystems, via
// gopkg.in/yaml.v3. A profile only overrides a setting the command line
// left at its flag default; flags always win.
package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Profile is a renderer-wide override layer, optional at every field so a
// profile only needs to mention what it wants to change.
type Profile struct {
	NumThreads         *int     `yaml:"numThreads,omitempty"`
	MaxRayDepth        *int     `yaml:"maxRayDepth,omitempty"`
	AAThreshold        *float64 `yaml:"aaThreshold,omitempty"`
	Pathtracing        *bool    `yaml:"pathtracing,omitempty"`
	PathtracingSamples *int     `yaml:"pathtracingSamples,omitempty"`
	Gamma              *float64 `yaml:"gamma,omitempty"`
	Saturation         *float64 `yaml:"saturation,omitempty"`
}

// Load decodes a YAML profile document.
func Load(r io.Reader) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("config: decoding profile: %w", err)
	}
	return &p, nil
}

// ApplyTo overwrites every non-nil Profile field onto the matching named
// setting, via the supplied setter closures; the caller decides how that
// maps onto its own settings struct (scene.Settings uses plain value
// fields, not pointers, so the indirection lives here rather than there).
type Setters struct {
	NumThreads         func(int)
	MaxRayDepth        func(int)
	AAThreshold        func(float64)
	Pathtracing        func(bool)
	PathtracingSamples func(int)
	Gamma              func(float64)
	Saturation         func(float64)
}

func (p *Profile) ApplyTo(s Setters) {
	if p.NumThreads != nil && s.NumThreads != nil {
		s.NumThreads(*p.NumThreads)
	}
	if p.MaxRayDepth != nil && s.MaxRayDepth != nil {
		s.MaxRayDepth(*p.MaxRayDepth)
	}
	if p.AAThreshold != nil && s.AAThreshold != nil {
		s.AAThreshold(*p.AAThreshold)
	}
	if p.Pathtracing != nil && s.Pathtracing != nil {
		s.Pathtracing(*p.Pathtracing)
	}
	if p.PathtracingSamples != nil && s.PathtracingSamples != nil {
		s.PathtracingSamples(*p.PathtracingSamples)
	}
	if p.Gamma != nil && s.Gamma != nil {
		s.Gamma(*p.Gamma)
	}
	if p.Saturation != nil && s.Saturation != nil {
		s.Saturation(*p.Saturation)
	}
}
