package fluid

import (
	"context"
	"math"
)

// AdvanceBy steps the simulation until simulated time has grown by elapsed.
// Every step is bounded by min(MaxStep, remaining) and may be shortened
// further by the CFL bound. ctx is checked between steps only; a step that
// has started always completes. It returns the number of steps taken.
func (s *Simulation) AdvanceBy(ctx context.Context, elapsed float64) (int, error) {
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) || elapsed < 0 {
		return 0, invalidf("elapsed %g", elapsed)
	}

	goal := s.t + elapsed
	steps := 0
	for s.t < goal {
		select {
		case <-ctx.Done():
			return steps, ctx.Err()
		default:
		}

		dt, err := s.Step(math.Min(s.opts.MaxStep, goal-s.t))
		if dt > 0 {
			steps++
		}
		if err != nil {
			return steps, err
		}
	}

	s.log.Debug("advanced",
		"elapsed", elapsed,
		"steps", steps,
		"time", s.t,
		"particles", len(s.particles),
	)
	return steps, nil
}
