package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fusionsim/gcorbit/internal/equilibrium"
	"github.com/fusionsim/gcorbit/internal/integrators"
	"github.com/fusionsim/gcorbit/internal/orbit"
)

const (
	DefaultEnergy = 80.0
	DefaultPitch  = 0.7
	DefaultAmu    = 2.0
	DefaultCharge = 1
)

type Config struct {
	Equilibrium EquilibriumConfig `yaml:"equilibrium"`
	Particle    ParticleConfig    `yaml:"particle"`
	Tracer      TracerConfig      `yaml:"tracer"`
	Contour     ContourConfig     `yaml:"contour"`
	StoreDir    string            `yaml:"store_dir"`
}

type EquilibriumConfig struct {
	MajorRadius float64 `yaml:"major_radius"`
	FieldOnAxis float64 `yaml:"field_on_axis"`
	MinorRadius float64 `yaml:"minor_radius"`
	Elongation  float64 `yaml:"elongation"`
	SafetyQ     float64 `yaml:"safety_q"`
	Sigma       int     `yaml:"sigma"`
}

type ParticleConfig struct {
	Energy float64 `yaml:"energy_kev"`
	Pitch  float64 `yaml:"pitch"`
	R      float64 `yaml:"r"`
	Z      float64 `yaml:"z"`
	Amu    float64 `yaml:"amu"`
	Charge int     `yaml:"charge"`
}

type TracerConfig struct {
	Steps      int     `yaml:"steps"`
	TMax       float64 `yaml:"t_max"`
	RelTol     float64 `yaml:"rel_tol"`
	AbsTol     float64 `yaml:"abs_tol"`
	RTol       float64 `yaml:"r_tol"`
	MaxR       float64 `yaml:"max_r"`
	Integrator string  `yaml:"integrator"`
}

type ContourConfig struct {
	EnergyTol float64 `yaml:"energy_tol"`
	StagTol   float64 `yaml:"stag_tol"`
	StepMax   float64 `yaml:"step_max"`
}

func DefaultConfig() *Config {
	topts := orbit.DefaultTraceOptions()
	copts := orbit.DefaultContourOptions()
	return &Config{
		Equilibrium: EquilibriumConfig{
			MajorRadius: 1.7,
			FieldOnAxis: 2.0,
			MinorRadius: 0.6,
			Elongation:  1.4,
			SafetyQ:     2.0,
			Sigma:       1,
		},
		Particle: ParticleConfig{
			Energy: DefaultEnergy,
			Pitch:  DefaultPitch,
			R:      1.8,
			Amu:    DefaultAmu,
			Charge: DefaultCharge,
		},
		Tracer: TracerConfig{
			Steps:      topts.Steps,
			TMax:       topts.TMax,
			RelTol:     topts.RelTol,
			AbsTol:     topts.AbsTol,
			RTol:       topts.RTol,
			Integrator: "rk45",
		},
		Contour: ContourConfig{
			EnergyTol: copts.EnergyTol,
			StagTol:   copts.StagTol,
			StepMax:   copts.StepMax,
		},
		StoreDir: "runs",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildEquilibrium constructs the configured analytic equilibrium.
func (c *Config) BuildEquilibrium() *equilibrium.Solovev {
	eq := equilibrium.NewSolovev()
	eq.R0 = c.Equilibrium.MajorRadius
	eq.B0 = c.Equilibrium.FieldOnAxis
	eq.A = c.Equilibrium.MinorRadius
	eq.Kappa = c.Equilibrium.Elongation
	eq.Q0 = c.Equilibrium.SafetyQ
	if c.Equilibrium.Sigma < 0 {
		eq.Sig = -1.0
	}
	return eq
}

// BuildTraceOptions maps the tracer section onto trace options, keeping
// defaults for anything left zero.
func (c *Config) BuildTraceOptions() orbit.TraceOptions {
	opts := orbit.DefaultTraceOptions()
	if c.Tracer.Steps > 0 {
		opts.Steps = c.Tracer.Steps
	}
	if c.Tracer.TMax > 0 {
		opts.TMax = c.Tracer.TMax
	}
	if c.Tracer.RelTol > 0 {
		opts.RelTol = c.Tracer.RelTol
	}
	if c.Tracer.AbsTol > 0 {
		opts.AbsTol = c.Tracer.AbsTol
	}
	if c.Tracer.RTol > 0 {
		opts.RTol = c.Tracer.RTol
	}
	if c.Tracer.MaxR > 0 {
		opts.MaxR = c.Tracer.MaxR
	}
	// Anything other than "rk4" keeps the adaptive default.
	if c.Tracer.Integrator == "rk4" {
		opts.Integrator = integrators.NewRK4()
	}
	return opts
}

func (c *Config) BuildContourOptions() orbit.ContourOptions {
	opts := orbit.DefaultContourOptions()
	if c.Contour.EnergyTol > 0 {
		opts.EnergyTol = c.Contour.EnergyTol
	}
	if c.Contour.StagTol > 0 {
		opts.StagTol = c.Contour.StagTol
	}
	if c.Contour.StepMax > 0 {
		opts.StepMax = c.Contour.StepMax
	}
	if c.Tracer.MaxR > 0 {
		opts.MaxR = c.Tracer.MaxR
	}
	return opts
}
