package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/sphfluid/internal/config"
)

// Variant is one configuration in a sweep.
type Variant struct {
	Name   string
	Config *config.Config
}

// Sweep runs every variant concurrently, at most limit at a time, and
// returns results in variant order. The first failure cancels the rest.
func Sweep(ctx context.Context, variants []Variant, limit int, logger *slog.Logger) ([]*Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	results := make([]*Result, len(variants))
	for i, v := range variants {
		g.Go(func() error {
			exp, err := New(v.Name, v.Config, logger)
			if err != nil {
				return err
			}
			res, err := exp.Run(ctx)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// WorkerVariants copies base once per worker count and grid setting.
func WorkerVariants(base *config.Config, workers []int, grid []bool) []Variant {
	var out []Variant
	for _, w := range workers {
		for _, useGrid := range grid {
			cfg := base.Clone()
			cfg.Simulation.Workers = w
			cfg.Simulation.UseGrid = useGrid
			name := "brute"
			if useGrid {
				name = "grid"
			}
			out = append(out, Variant{Name: fmt.Sprintf("%s-w%d", name, w), Config: cfg})
		}
	}
	return out
}
