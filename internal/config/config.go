package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spherebox/internal/integrators"
	"github.com/san-kum/spherebox/internal/physics"
	"github.com/san-kum/spherebox/internal/sphere"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

const (
	DefaultDt           = 0.01
	DefaultDuration     = 10.0
	DefaultSpheres      = 8
	DefaultRadius       = 1.0
	DefaultSpeed        = 3.0
	DefaultHalfExtent   = 5.0
	DefaultMaxIterCount = integrators.DefaultMaxIterCount
	DefaultAccelScale   = 0.5
)

type Config struct {
	Integrator  string        `yaml:"integrator"`
	Dt          float64       `yaml:"dt"`
	Duration    float64       `yaml:"duration"`
	Seed        int64         `yaml:"seed"`
	RecordEvery int           `yaml:"record_every"`
	Spheres     SpheresConfig `yaml:"spheres"`
	Box         BoxConfig     `yaml:"box"`
	Field       FieldConfig   `yaml:"field"`
	RK4         RK4Config     `yaml:"rk4"`
}

type SpheresConfig struct {
	Count  int     `yaml:"count"`
	Radius float64 `yaml:"radius"`
	Speed  float64 `yaml:"speed"`
}

type BoxConfig struct {
	Min [3]float64 `yaml:"min,flow"`
	Max [3]float64 `yaml:"max,flow"`
}

type FieldConfig struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

type RK4Config struct {
	IterCount    int     `yaml:"iter_count"`
	MaxIterCount int     `yaml:"max_iter_count"`
	Adaptive     bool    `yaml:"adaptive"`
	AccelScale   float64 `yaml:"accel_scale"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:  "euler",
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		RecordEvery: 1,
		Spheres: SpheresConfig{
			Count:  DefaultSpheres,
			Radius: DefaultRadius,
			Speed:  DefaultSpeed,
		},
		Box:   cube(DefaultHalfExtent),
		Field: FieldConfig{Name: "none"},
		RK4: RK4Config{
			IterCount:    1,
			MaxIterCount: DefaultMaxIterCount,
			AccelScale:   DefaultAccelScale,
		},
	}
}

func cube(half float64) BoxConfig {
	return BoxConfig{
		Min: [3]float64{-half, -half, -half},
		Max: [3]float64{half, half, half},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Field.Params != nil {
		out.Field.Params = make(map[string]float64, len(c.Field.Params))
		for k, v := range c.Field.Params {
			out.Field.Params[k] = v
		}
	}
	return &out
}

func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch {
	case c.Spheres.Count < 1:
		return invalid("spheres.count must be at least 1, got %d", c.Spheres.Count)
	case c.Spheres.Radius <= 0:
		return invalid("spheres.radius must be positive, got %g", c.Spheres.Radius)
	case c.Spheres.Speed < 0:
		return invalid("spheres.speed must not be negative, got %g", c.Spheres.Speed)
	case c.Dt <= 0:
		return invalid("dt must be positive, got %g", c.Dt)
	case c.Duration <= 0:
		return invalid("duration must be positive, got %g", c.Duration)
	case c.RecordEvery < 1:
		return invalid("record_every must be at least 1, got %d", c.RecordEvery)
	case c.RK4.IterCount < 1:
		return invalid("rk4.iter_count must be at least 1, got %d", c.RK4.IterCount)
	case c.RK4.MaxIterCount < c.RK4.IterCount:
		return invalid("rk4.max_iter_count %d below iter_count %d", c.RK4.MaxIterCount, c.RK4.IterCount)
	case c.RK4.Adaptive && c.RK4.AccelScale <= 0:
		return invalid("rk4.accel_scale must be positive when adaptive, got %g", c.RK4.AccelScale)
	}
	for axis := 0; axis < 3; axis++ {
		if !(c.Box.Min[axis] < c.Box.Max[axis]) {
			return invalid("box.min %v not below box.max %v", c.Box.Min, c.Box.Max)
		}
	}
	if !slices.Contains(integrators.Names(), c.Integrator) {
		return invalid("unknown integrator %q (available: %v)", c.Integrator, integrators.Names())
	}
	return nil
}

func (c *Config) Bounds() sphere.Box {
	var b sphere.Box
	for axis := 0; axis < 3; axis++ {
		b.Min[axis] = float32(c.Box.Min[axis])
		b.Max[axis] = float32(c.Box.Max[axis])
	}
	return b
}

// Options validates c and translates it into sphere construction options.
func (c *Config) Options() (sphere.Options, error) {
	if err := c.Validate(); err != nil {
		return sphere.Options{}, err
	}

	field, err := physics.New(c.Field.Name, c.Field.Params)
	if err != nil {
		return sphere.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, none := field.(physics.None); none {
		field = nil
	}

	opts := sphere.Options{
		N:            c.Spheres.Count,
		Bounds:       c.Bounds(),
		Radius:       float32(c.Spheres.Radius),
		Speed:        float32(c.Spheres.Speed),
		Seed:         c.Seed,
		Integrator:   c.Integrator,
		Field:        field,
		IterCount:    c.RK4.IterCount,
		MaxIterCount: c.RK4.MaxIterCount,
	}
	if c.RK4.Adaptive {
		opts.IterThreshold = physics.AccelThreshold(float32(c.RK4.AccelScale))
	}
	return opts, nil
}

// Steps is the number of ticks in a run.
func (c *Config) Steps() int {
	return int(c.Duration/c.Dt + 0.5)
}

// Extent is the largest box dimension, used to frame views.
func (c *Config) Extent() float32 {
	size := c.Bounds().Size()
	return max(size.X(), size.Y(), size.Z())
}

// Set assigns a numeric setting by name. Names other than the run and
// sphere settings are taken as field parameters.
func (c *Config) Set(name string, v float64) error {
	switch name {
	case "dt":
		c.Dt = v
	case "duration":
		c.Duration = v
	case "spheres":
		c.Spheres.Count = int(v)
	case "radius":
		c.Spheres.Radius = v
	case "speed":
		c.Spheres.Speed = v
	case "iter_count":
		c.RK4.IterCount = int(v)
	case "max_iter_count":
		c.RK4.MaxIterCount = int(v)
	case "accel_scale":
		c.RK4.AccelScale = v
	default:
		if name == "" {
			return fmt.Errorf("%w: empty setting name", ErrInvalidConfig)
		}
		if c.Field.Params == nil {
			c.Field.Params = make(map[string]float64)
		}
		c.Field.Params[name] = v
	}
	return nil
}
