package config

// Presets are ready-made particle scenarios on the default equilibrium.
var Presets = map[string]*Config{
	"passing": {
		Particle: ParticleConfig{Energy: 80.0, Pitch: 0.9, R: 1.8, Amu: 2.0, Charge: 1},
	},
	"counter-passing": {
		Particle: ParticleConfig{Energy: 80.0, Pitch: -0.9, R: 1.8, Amu: 2.0, Charge: 1},
	},
	"trapped": {
		Particle: ParticleConfig{Energy: 10.0, Pitch: 0.15, R: 1.9, Amu: 2.0, Charge: 1},
	},
	"barely-trapped": {
		Particle: ParticleConfig{Energy: 10.0, Pitch: 0.3, R: 1.9, Amu: 2.0, Charge: 1},
	},
	"alpha": {
		Particle: ParticleConfig{Energy: 3500.0, Pitch: 0.7, R: 1.8, Amu: 4.0, Charge: 2},
	},
	"proton": {
		Particle: ParticleConfig{Energy: 80.0, Pitch: 0.7, R: 1.8, Amu: 1.0, Charge: 1},
	},
}

// GetPreset returns a full config for the named scenario, or nil when the
// name is unknown. Only the particle section differs from the defaults.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Particle = p.Particle
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
