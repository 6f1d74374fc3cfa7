package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/experiment"
)

// ParameterSweep runs the base configuration across evenly spaced values
// of one parameter.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min, Max float64
	Steps    int
	Parallel int
}

// SweepResult summarizes one point of a sweep.
type SweepResult struct {
	Value         float64
	Steps         int
	PeakSpeed     float64
	KineticEnergy float64
	Result        *experiment.Result
}

// Values returns the sampled parameter values, Min and Max included.
func (s *ParameterSweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.Steps-1)
	out := make([]float64, s.Steps)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	out[len(out)-1] = s.Max
	return out
}

// Variants builds one configuration per sampled value.
func (s *ParameterSweep) Variants() ([]experiment.Variant, error) {
	if _, err := s.Base.Param(s.Param); err != nil {
		return nil, err
	}
	var out []experiment.Variant
	for _, v := range s.Values() {
		cfg := s.Base.Clone()
		if err := cfg.SetParam(s.Param, v); err != nil {
			return nil, err
		}
		out = append(out, experiment.Variant{
			Name:   fmt.Sprintf("%s=%g", s.Param, v),
			Config: cfg,
		})
	}
	return out, nil
}

// RunSweep executes the sweep.
func RunSweep(ctx context.Context, s *ParameterSweep, logger *slog.Logger) ([]SweepResult, error) {
	variants, err := s.Variants()
	if err != nil {
		return nil, err
	}
	results, err := experiment.Sweep(ctx, variants, s.Parallel, logger)
	if err != nil {
		return nil, err
	}

	values := s.Values()
	out := make([]SweepResult, len(results))
	for i, r := range results {
		out[i] = SweepResult{
			Value:         values[i],
			Steps:         r.Steps,
			PeakSpeed:     r.Metrics["peak_speed"],
			KineticEnergy: r.Metrics["final_kinetic_energy"],
			Result:        r,
		}
	}
	return out, nil
}

// GridSearch looks for the combination of parameter values that minimizes
// one summary metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Combinations enumerates every point of the grid, last parameter fastest.
func (g *GridSearch) Combinations() []map[string]float64 {
	var out []map[string]float64
	var walk func(depth int, current map[string]float64)
	walk = func(depth int, current map[string]float64) {
		if depth == len(g.paramNames) {
			out = append(out, current)
			return
		}
		for _, v := range g.ranges[depth] {
			next := make(map[string]float64, len(current)+1)
			for k, cv := range current {
				next[k] = cv
			}
			next[g.paramNames[depth]] = v
			walk(depth+1, next)
		}
	}
	walk(0, map[string]float64{})
	return out
}

// Search runs every combination on top of base. Runs that fail to build or
// step are skipped; an error is returned only when none succeed.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metric string, parallel int, logger *slog.Logger) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid search: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	combos := g.Combinations()
	results := make([]*experiment.Result, len(combos))
	var eg errgroup.Group
	eg.SetLimit(max(parallel, 1))
	for i, params := range combos {
		eg.Go(func() error {
			cfg := base.Clone()
			for k, v := range params {
				if err := cfg.SetParam(k, v); err != nil {
					logger.Warn("grid point skipped", "params", params, "err", err)
					return nil
				}
			}
			exp, err := experiment.New(fmt.Sprint(params), cfg, logger)
			if err != nil {
				logger.Warn("grid point skipped", "params", params, "err", err)
				return nil
			}
			res, err := exp.Run(ctx)
			if err != nil || res.Canceled {
				logger.Warn("grid point failed", "params", params, "err", err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = eg.Wait()

	best := math.Inf(1)
	var bestParams map[string]float64
	for i, res := range results {
		if res == nil {
			continue
		}
		val, ok := res.Metrics[metric]
		if !ok {
			return nil, 0, fmt.Errorf("grid search: unknown metric %q", metric)
		}
		if val < best {
			best = val
			bestParams = combos[i]
		}
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("grid search: no successful runs")
	}
	return bestParams, best, nil
}
