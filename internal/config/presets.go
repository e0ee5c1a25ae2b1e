package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"dense": {
		Integrator: "euler", Dt: 0.005, Duration: 10.0, RecordEvery: 2,
		Spheres: SpheresConfig{Count: 40, Radius: 0.5, Speed: 4.0},
		Box:     cube(4),
		Field:   FieldConfig{Name: "none"},
		RK4:     RK4Config{IterCount: 1, MaxIterCount: DefaultMaxIterCount, AccelScale: DefaultAccelScale},
	},
	"gravity": {
		Integrator: "rk4", Dt: 0.01, Duration: 15.0, RecordEvery: 1,
		Spheres: SpheresConfig{Count: 10, Radius: 0.6, Speed: 2.0},
		Box:     cube(5),
		Field:   FieldConfig{Name: "gravity+drag", Params: map[string]float64{"gravity": 9.81, "drag": 0.05}},
		RK4:     RK4Config{IterCount: 1, MaxIterCount: DefaultMaxIterCount, Adaptive: true, AccelScale: 0.5},
	},
	"spring": {
		Integrator: "verlet", Dt: 0.01, Duration: 20.0, RecordEvery: 1,
		Spheres: SpheresConfig{Count: 6, Radius: 0.8, Speed: 5.0},
		Box:     cube(6),
		Field:   FieldConfig{Name: "spring", Params: map[string]float64{"stiffness": 1.5}},
		RK4:     RK4Config{IterCount: 1, MaxIterCount: DefaultMaxIterCount, AccelScale: DefaultAccelScale},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
