package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/spherebox/internal/config"
	"github.com/san-kum/spherebox/internal/sim"
)

var ErrNoCandidates = errors.New("optim: no grid point ran successfully")

// GridSearch tries every combination of the given setting values and keeps
// the one with the smallest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// ParseGrid reads specs of the form name=v1,v2,... into a search.
func ParseGrid(specs []string) (*GridSearch, error) {
	g := &GridSearch{}
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" || list == "" {
			return nil, fmt.Errorf("bad grid spec %q, want name=v1,v2", spec)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("grid %s: %w", name, err)
			}
			vals = append(vals, v)
		}
		g.paramNames = append(g.paramNames, strings.TrimSpace(name))
		g.ranges = append(g.ranges, vals)
	}
	return g, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs base at every grid point and returns the settings with the
// smallest value of metricName. Points that fail to build or run are
// skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	metrics func() []sim.Metric,
	metricName string,
) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), base, metrics, metricName, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidates
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	metrics func() []sim.Metric,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		cfg := base.Clone()
		names := make([]string, 0, len(current))
		for k := range current {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			if err := cfg.Set(k, current[k]); err != nil {
				return
			}
		}

		result, err := sim.RunConfig(ctx, cfg, metrics())
		if err != nil {
			return
		}

		val, ok := result.Metrics[metricName]
		if ok && val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, base, metrics, metricName, best, bestParams)
	}
}
