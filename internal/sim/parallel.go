package sim

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/spherebox/internal/config"
)

// Ensemble runs one configuration over consecutive seeds. Every run owns
// its own motion and metrics.
type Ensemble struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
	metrics   func() []Metric
	logger    *slog.Logger
}

func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64, metrics func() []Metric) *Ensemble {
	return &Ensemble{
		cfg:       cfg,
		numRuns:   numRuns,
		seedStart: seedStart,
		metrics:   metrics,
		logger:    slog.New(slog.DiscardHandler),
	}
}

func (e *Ensemble) SetLogger(l *slog.Logger) {
	if l != nil {
		e.logger = l
	}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := e.cfg.Clone()
			cfg.Seed = e.seedStart + int64(i)

			var metrics []Metric
			if e.metrics != nil {
				metrics = e.metrics()
			}
			res, err := RunConfig(ctx, cfg, metrics)
			if err != nil {
				return err
			}
			results[i] = res
			e.logger.Debug("ensemble member done", "seed", cfg.Seed, "collisions", res.Collisions)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type Summary struct {
	Mean, Std, Min, Max float64
}

// Summarize aggregates each metric across results.
func Summarize(results []*Result) map[string]Summary {
	values := make(map[string][]float64)
	for _, r := range results {
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
	}

	out := make(map[string]Summary, len(values))
	for name, vs := range values {
		mean, std := stat.MeanStdDev(vs, nil)
		if len(vs) < 2 {
			std = 0
		}
		out[name] = Summary{Mean: mean, Std: std, Min: floats.Min(vs), Max: floats.Max(vs)}
	}
	return out
}
