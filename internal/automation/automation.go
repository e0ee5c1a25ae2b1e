package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/spherebox/internal/config"
	"github.com/san-kum/spherebox/internal/sim"
)

var ErrInvalidSweep = errors.New("automation: invalid sweep")

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and overrides it.
type ScenarioStep struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Field      string             `yaml:"field"`
	Seed       int64              `yaml:"seed"`
	Set        map[string]float64 `yaml:"set"`
	Save       bool               `yaml:"save"`
}

// StepResult pairs a step with the configuration it ran and its outcome.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// Config resolves the step into a validated configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Field != "" {
		cfg.Field.Name = s.Field
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	for name, v := range s.Set {
		if err := cfg.Set(name, v); err != nil {
			return nil, err
		}
	}
	if _, err := cfg.Options(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes every step in order. On failure the results of the
// completed steps are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, metrics func() []sim.Metric, logger *slog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "name", step.Name)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		var ms []sim.Metric
		if metrics != nil {
			ms = metrics()
		}
		result, err := sim.RunConfig(ctx, cfg, ms)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}
	return results, nil
}

// Sweep varies one setting over evenly spaced values.
type Sweep struct {
	Param    string
	Min, Max float64
	NumSteps int
}

type SweepPoint struct {
	Value   float64
	Metrics map[string]float64
}

// Values returns the swept settings, Min and Max included.
func (s Sweep) Values() ([]float64, error) {
	if s.NumSteps < 2 {
		return nil, fmt.Errorf("%w: need at least 2 steps, got %d", ErrInvalidSweep, s.NumSteps)
	}
	if s.Param == "" {
		return nil, fmt.Errorf("%w: no parameter", ErrInvalidSweep)
	}
	return floats.Span(make([]float64, s.NumSteps), s.Min, s.Max), nil
}

// RunSweep runs base once per swept value with a fresh set of metrics.
func RunSweep(ctx context.Context, base *config.Config, sweep Sweep, metrics func() []sim.Metric, logger *slog.Logger) ([]SweepPoint, error) {
	values, err := sweep.Values()
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, 0, len(values))
	for i, v := range values {
		cfg := base.Clone()
		if err := cfg.Set(sweep.Param, v); err != nil {
			return nil, err
		}

		var ms []sim.Metric
		if metrics != nil {
			ms = metrics()
		}
		result, err := sim.RunConfig(ctx, cfg, ms)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}

		points = append(points, SweepPoint{Value: v, Metrics: result.Metrics})
		logger.Debug("sweep point", "step", i+1, "of", len(values), sweep.Param, v)
	}
	return points, nil
}
