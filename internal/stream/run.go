package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/sphfluid/internal/fluid"
)

// Run advances sim by frameTime of simulated time on every wall-clock
// frame and broadcasts the result. It returns when ctx is done or a step
// fails. The hub is the only goroutine-safe party; sim is owned by Run.
func Run(ctx context.Context, sim *fluid.Simulation, hub *Hub, frameTime float64, withColor bool) error {
	interval := time.Duration(frameTime * float64(time.Second))
	if !(frameTime > 0) || interval <= 0 {
		return fmt.Errorf("stream: frame time %g", frameTime)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := hub.Broadcast(NewMessage(sim, withColor)); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := sim.AdvanceBy(ctx, frameTime); err != nil {
				return err
			}
			if err := hub.Broadcast(NewMessage(sim, withColor)); err != nil {
				return err
			}
		}
	}
}
