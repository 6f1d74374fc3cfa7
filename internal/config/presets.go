package config

import "sort"

func preset(desc string, h, g float64, scene string) *Config {
	cfg := DefaultConfig()
	cfg.Description = desc
	cfg.Simulation.SmoothingRadius = h
	cfg.Simulation.Gravity = g
	cfg.Scene = scene
	return cfg
}

var Presets = map[string]*Config{
	"dambreak": preset("water column released against the left wall", 16, 0.02,
		"SCENARIO DAMBREAK 0 0 160 256 1"),
	"column": preset("tall narrow column settling in the middle", 16, 0.02,
		"SCENARIO RECT_FILL 224 0 64 384 2"),
	"drop": preset("block of fluid falling onto a shallow pool", 16, 0.02,
		"SCENARIO RECT_FILL 0 0 512 48 3 RECT_FILL 200 300 112 96 4"),
	"single": preset("one particle under gravity", 1, 10,
		"NEW_P POS 256 256 V 20 0 M 1 RGB 0.2 0.6 1 END_P"),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
