package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/experiment"
)

// Scenario is a scripted batch of runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Parallel bounds how many steps run at once; 0 means all of them.
	Parallel int            `yaml:"parallel"`
	Steps    []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. It starts from a preset, a config file or the
// defaults, in that order of preference, and then applies its overrides.
type ScenarioStep struct {
	Name     string             `yaml:"name"`
	Preset   string             `yaml:"preset"`
	Config   string             `yaml:"config"`
	Scene    string             `yaml:"scene"`
	Duration float64            `yaml:"duration"`
	Workers  int                `yaml:"workers"`
	UseGrid  bool               `yaml:"use_grid"`
	Params   map[string]float64 `yaml:"params"`
	Save     bool               `yaml:"save"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// Resolve builds the configuration of a step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", s.Preset)
		}
	case s.Config != "":
		c, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		cfg = config.DefaultConfig()
	}

	if s.Scene != "" {
		cfg.Scene = s.Scene
	}
	if s.Duration > 0 {
		cfg.Run.Duration = s.Duration
	}
	if s.Workers > 0 {
		cfg.Simulation.Workers = s.Workers
	}
	if s.UseGrid {
		cfg.Simulation.UseGrid = true
	}
	for name, v := range s.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Variants resolves every step of the scenario.
func (sc *Scenario) Variants() ([]experiment.Variant, error) {
	out := make([]experiment.Variant, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", sc.Name, i+1)
		}
		out = append(out, experiment.Variant{Name: name, Config: cfg})
	}
	return out, nil
}

// RunScenario executes all steps and returns their results in step order.
func RunScenario(ctx context.Context, sc *Scenario, logger *slog.Logger) ([]*experiment.Result, error) {
	variants, err := sc.Variants()
	if err != nil {
		return nil, err
	}
	return experiment.Sweep(ctx, variants, sc.Parallel, logger)
}
