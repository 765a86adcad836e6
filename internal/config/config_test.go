package config

import (
	"path/filepath"
	"testing"

	"github.com/fusionsim/gcorbit/internal/integrators"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gcorbit.yaml")

	cfg := DefaultConfig()
	cfg.Particle.Energy = 42.0
	cfg.Equilibrium.MajorRadius = 2.1
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Particle.Energy != 42.0 {
		t.Errorf("energy %g, want 42", loaded.Particle.Energy)
	}
	if loaded.Equilibrium.MajorRadius != 2.1 {
		t.Errorf("major radius %g, want 2.1", loaded.Equilibrium.MajorRadius)
	}
	// Untouched sections keep their defaults.
	if loaded.Tracer.Steps != DefaultConfig().Tracer.Steps {
		t.Errorf("steps %d, want default", loaded.Tracer.Steps)
	}
}

func TestBuildEquilibrium(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Equilibrium.Sigma = -1

	eq := cfg.BuildEquilibrium()
	if eq.R0 != cfg.Equilibrium.MajorRadius {
		t.Errorf("R0 %g, want %g", eq.R0, cfg.Equilibrium.MajorRadius)
	}
	if eq.Sigma() != -1.0 {
		t.Errorf("sigma %g, want -1", eq.Sigma())
	}
}

func TestBuildTraceOptionsKeepsDefaultsForZero(t *testing.T) {
	cfg := &Config{}
	opts := cfg.BuildTraceOptions()
	if opts.Steps != 3000 {
		t.Errorf("steps %d, want 3000", opts.Steps)
	}

	cfg.Tracer.Steps = 500
	cfg.Tracer.RTol = 0.02
	opts = cfg.BuildTraceOptions()
	if opts.Steps != 500 || opts.RTol != 0.02 {
		t.Errorf("overrides not applied: %+v", opts)
	}
}

func TestBuildTraceOptionsIntegrator(t *testing.T) {
	cfg := DefaultConfig()
	if opts := cfg.BuildTraceOptions(); opts.Integrator != nil {
		t.Error("default config must leave the integrator to the tracer default")
	}

	cfg.Tracer.Integrator = "rk4"
	opts := cfg.BuildTraceOptions()
	if _, ok := opts.Integrator.(*integrators.RK4); !ok {
		t.Errorf("integrator %T, want *integrators.RK4", opts.Integrator)
	}
}

func TestPresets(t *testing.T) {
	cfg := GetPreset("trapped")
	if cfg == nil {
		t.Fatal("trapped preset missing")
	}
	if cfg.Particle.Pitch != 0.15 {
		t.Errorf("trapped pitch %g, want 0.15", cfg.Particle.Pitch)
	}
	if cfg.StoreDir == "" {
		t.Error("preset must carry the default store dir")
	}

	if GetPreset("no-such") != nil {
		t.Error("unknown preset must return nil")
	}
	if len(ListPresets()) != len(Presets) {
		t.Error("ListPresets must cover all presets")
	}
}
