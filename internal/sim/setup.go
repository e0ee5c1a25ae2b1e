package sim

import (
	"context"

	"github.com/san-kum/spherebox/internal/config"
	"github.com/san-kum/spherebox/internal/sphere"
)

// FromConfig builds the motion and run settings described by cfg.
func FromConfig(cfg *config.Config) (*sphere.Motion, Config, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, Config{}, err
	}
	motion, err := sphere.New(opts)
	if err != nil {
		return nil, Config{}, err
	}
	return motion, Config{
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		RecordEvery: cfg.RecordEvery,
	}, nil
}

// RunConfig builds cfg and runs it to completion with the given metrics.
func RunConfig(ctx context.Context, cfg *config.Config, metrics []Metric) (*Result, error) {
	motion, runCfg, err := FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	s := New(motion)
	for _, m := range metrics {
		s.AddMetric(m)
	}
	return s.Run(ctx, runCfg)
}
