package scene

import (
	"fmt"
	"strings"

	"github.com/san-kum/sphfluid/internal/fluid"
)

// Construct creates a simulation with smoothing radius h and, when text is
// not blank, loads it as the initial scene.
func Construct(h float64, text string, opts fluid.Options) (*fluid.Simulation, error) {
	sim, err := fluid.New(h, opts)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return sim, nil
	}
	if err := Load(sim, text); err != nil {
		return nil, err
	}
	return sim, nil
}

// Load replaces the state of sim with the scene in text. Time restarts at
// zero unless the scene sets it. On any error sim is unchanged.
func Load(sim *fluid.Simulation, text string) error {
	sc, err := Parse(text, sim.SmoothingRadius())
	if err != nil {
		return err
	}
	if err := sim.Apply(sc); err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	return nil
}
