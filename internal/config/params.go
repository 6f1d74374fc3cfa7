package config

import (
	"fmt"
	"sort"
)

var paramFields = map[string]func(c *Config) *float64{
	"smoothing_radius": func(c *Config) *float64 { return &c.Simulation.SmoothingRadius },
	"gravity":          func(c *Config) *float64 { return &c.Simulation.Gravity },
	"stiffness":        func(c *Config) *float64 { return &c.Simulation.Stiffness },
	"viscosity":        func(c *Config) *float64 { return &c.Simulation.Viscosity },
	"rest_density":     func(c *Config) *float64 { return &c.Simulation.RestDensity },
	"max_step":         func(c *Config) *float64 { return &c.Simulation.MaxStep },
	"width":            func(c *Config) *float64 { return &c.Simulation.Width },
	"height":           func(c *Config) *float64 { return &c.Simulation.Height },
	"duration":         func(c *Config) *float64 { return &c.Run.Duration },
	"frame_time":       func(c *Config) *float64 { return &c.Run.FrameTime },
}

// Param reads a numeric setting by its yaml name.
func (c *Config) Param(name string) (float64, error) {
	field, ok := paramFields[name]
	if !ok {
		return 0, fmt.Errorf("config: unknown parameter %q", name)
	}
	return *field(c), nil
}

// SetParam writes a numeric setting by its yaml name.
func (c *Config) SetParam(name string, v float64) error {
	field, ok := paramFields[name]
	if !ok {
		return fmt.Errorf("config: unknown parameter %q", name)
	}
	*field(c) = v
	return nil
}

// ParamNames lists the names accepted by Param and SetParam.
func ParamNames() []string {
	names := make([]string, 0, len(paramFields))
	for name := range paramFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
