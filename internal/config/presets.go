package config

import (
	"fmt"
	"sort"
)

var Presets = map[string]DefaultsConfig{
	"cube": {
		Length: 10, Width: 10, Height: 10, Volume: 1000,
	},
	"slab": {
		Length: 50, Width: 40, Height: 2, Volume: 4000,
		Locks: []string{"height"},
	},
	"column": {
		Length: 5, Width: 5, Height: 80, Volume: 2000,
	},
	"crate": {
		Length: 60, Width: 40, Height: 40, Volume: 96000,
		Locks: []string{"volume"},
	},
}

func GetPreset(name string) *DefaultsConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	p.Locks = append([]string(nil), p.Locks...)
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces the defaults with the named preset.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, name)
	}
	c.Defaults = *p
	c.Preset = name
	return c.Validate()
}
