package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sphfluid/internal/fluid"
)

const (
	DefaultSmoothingRadius = 1.0
	DefaultRenderSize      = 256
	DefaultFPS             = 30
	DefaultDuration        = 5.0
	DefaultDataDir         = ".sphfluid"
)

type Config struct {
	Description string           `yaml:"description,omitempty"`
	Simulation  SimulationConfig `yaml:"simulation"`
	Render      RenderConfig     `yaml:"render"`
	Run         RunConfig        `yaml:"run"`
	Scene       string           `yaml:"scene"`
}

type SimulationConfig struct {
	SmoothingRadius float64 `yaml:"smoothing_radius"`
	Gravity         float64 `yaml:"gravity"`
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	Stiffness       float64 `yaml:"stiffness"`
	Viscosity       float64 `yaml:"viscosity"`
	RestDensity     float64 `yaml:"rest_density"`
	MaxStep         float64 `yaml:"max_step"`
	Workers         int     `yaml:"workers"`
	UseGrid         bool    `yaml:"use_grid"`
	ValidateState   bool    `yaml:"validate_state"`
}

type RenderConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

// RunConfig controls batch runs. FrameTime is the simulated time between
// recorded frames; zero means 1/FPS.
type RunConfig struct {
	Duration  float64 `yaml:"duration"`
	FrameTime float64 `yaml:"frame_time"`
	DataDir   string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			SmoothingRadius: DefaultSmoothingRadius,
			Width:           fluid.DefaultWidth,
			Height:          fluid.DefaultHeight,
			Stiffness:       fluid.DefaultStiffness,
			Viscosity:       fluid.DefaultViscosity,
			RestDensity:     fluid.DefaultRestDensity,
			MaxStep:         fluid.DefaultMaxStep,
			Workers:         1,
			ValidateState:   true,
		},
		Render: RenderConfig{
			Width:  DefaultRenderSize,
			Height: DefaultRenderSize,
			FPS:    DefaultFPS,
		},
		Run: RunConfig{
			Duration: DefaultDuration,
			DataDir:  DefaultDataDir,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the host-side settings. Physical parameters are checked
// by fluid.New.
func (c *Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("config: render size %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.FPS <= 0 {
		return fmt.Errorf("config: fps %d", c.Render.FPS)
	}
	if c.Run.Duration < 0 {
		return fmt.Errorf("config: duration %g", c.Run.Duration)
	}
	if c.Run.FrameTime < 0 {
		return fmt.Errorf("config: frame time %g", c.Run.FrameTime)
	}
	return nil
}

// FrameTime returns the simulated time per frame.
func (c *Config) FrameTime() float64 {
	if c.Run.FrameTime > 0 {
		return c.Run.FrameTime
	}
	return 1 / float64(c.Render.FPS)
}

// Options converts the simulation section for fluid.New.
func (c *Config) Options() fluid.Options {
	s := c.Simulation
	return fluid.Options{
		Width:         s.Width,
		Height:        s.Height,
		Gravity:       s.Gravity,
		Stiffness:     s.Stiffness,
		Viscosity:     s.Viscosity,
		RestDensity:   s.RestDensity,
		MaxStep:       s.MaxStep,
		Workers:       s.Workers,
		UseGrid:       s.UseGrid,
		ValidateState: s.ValidateState,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
