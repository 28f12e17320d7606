package config

import (
	"strings"
	"testing"
)

func TestLoadParsesPartialProfile(t *testing.T) {
	src := `
numThreads: 8
gamma: 2.4
pathtracing: true
`
	p, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.NumThreads == nil || *p.NumThreads != 8 {
		t.Errorf("expected numThreads=8, got %v", p.NumThreads)
	}
	if p.Gamma == nil || *p.Gamma != 2.4 {
		t.Errorf("expected gamma=2.4, got %v", p.Gamma)
	}
	if p.MaxRayDepth != nil {
		t.Errorf("expected maxRayDepth to be left unset, got %v", p.MaxRayDepth)
	}
}

func TestApplyToOnlyCallsSettersForPresentFields(t *testing.T) {
	p := &Profile{}
	threads := 4
	p.NumThreads = &threads

	var gotThreads int
	calledGamma := false
	p.ApplyTo(Setters{
		NumThreads: func(v int) { gotThreads = v },
		Gamma:      func(float64) { calledGamma = true },
	})
	if gotThreads != 4 {
		t.Errorf("expected NumThreads setter called with 4, got %d", gotThreads)
	}
	if calledGamma {
		t.Errorf("expected Gamma setter not called since Profile.Gamma is nil")
	}
}
