package config

import "sort"

func preset(apply func(*Config)) *Config {
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

var Presets = map[string]map[string]*Config{
	"musikhin": {
		"soot-argon": preset(func(c *Config) {}),
		"soot-flame": preset(func(c *Config) {
			c.Mixture = "nitrogen"
			c.Process = ProcessConfig{Pressure: 1e5, GasTemperature: 1700}
			c.InitState = InitStateConfig{Temperature: 4000, Diameter: 30e-9}
		}),
		"low-fluence": preset(func(c *Config) {
			c.Flags.Evaporation = false
			c.InitState.Temperature = 2500
		}),
	},
	"liu": {
		"soot-argon": preset(func(c *Config) {
			c.Model = "liu"
		}),
		"high-pressure": preset(func(c *Config) {
			c.Model = "liu"
			c.Process.Pressure = 2e6
			c.Duration = 5e-7
		}),
		"size-distribution": preset(func(c *Config) {
			c.Model = "liu"
			c.InitState.Diameters = []float64{10e-9, 15e-9, 20e-9, 30e-9, 40e-9}
		}),
		"mass-state": preset(func(c *Config) {
			c.Model = "liu"
			c.State = "mass"
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Models lists the models that have presets.
func Models() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
