package config

// Presets holds ready-to-run configurations for the standard
// test-problem scenarios spec.md §8 names, grouped by scenario family
// the same way the teacher groups presets by model then by variant.
var Presets = map[string]map[string]*Config{
	"sod_shocktube": {
		"standard": presetBase("sod_shocktube", func(c *Config) {
			c.Ndim = 1
			c.SPH.EOS = "adiabatic"
			c.SPH.Gamma = 1.4
			c.Boundary.XLo, c.Boundary.XHi = "wall", "wall"
			c.Time.Tmax = 0.2
		}),
	},
	"jeans_instability": {
		"standard": presetBase("jeans_instability", func(c *Config) {
			c.Ndim = 3
			c.SPH.EOS = "isothermal"
			c.Boundary.XLo, c.Boundary.XHi = "periodic", "periodic"
			c.Boundary.YLo, c.Boundary.YHi = "periodic", "periodic"
			c.Boundary.ZLo, c.Boundary.ZHi = "periodic", "periodic"
			c.Time.Tmax = 5.0
		}),
	},
	"plummer_cluster": {
		"standard": presetBase("plummer_cluster", func(c *Config) {
			c.Ndim = 3
			c.Nbody.Integrator = "hermite4"
			c.Time.Tmax = 20.0
		}),
	},
	"binary_orbit": {
		"standard": presetBase("binary_orbit", func(c *Config) {
			c.Ndim = 3
			c.Nbody.Integrator = "hermite4"
			c.Nbody.Eta = 0.01
			c.Time.Tmax = 10.0
		}),
	},
	"sink_accretion": {
		"standard": presetBase("sink_accretion", func(c *Config) {
			c.Ndim = 3
			c.Sink.Enabled = true
			c.Sink.RhoCrit = 1e3
			c.Sink.SmoothAccretion = true
			c.Sink.SmoothAccreteDt = 0.1
			c.Time.Tmax = 5.0
		}),
	},
	"nn_system_tree_example": {
		"standard": presetBase("nn_system_tree_example", func(c *Config) {
			c.Ndim = 3
			c.Nbody.GpeFrac = 0.5
			c.Nbody.NcompMax = 4
			c.Time.Tmax = 15.0
		}),
	},
}

func presetBase(ic string, customize func(*Config)) *Config {
	c := DefaultConfig()
	c.ICType = ic
	customize(c)
	return c
}

func GetPreset(scenario, variant string) *Config {
	variants, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := variants[variant]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scenario string) []string {
	variants, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	return names
}

// ListScenarios returns every scenario family with at least one preset.
func ListScenarios() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
