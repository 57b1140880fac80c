package config

// Presets are named starting points for the CLI; each builder returns a
// fresh Config so callers can mutate the result freely.
var Presets = map[string]func() *Config{
	// The classic scene: fixed star, two rings, a debris belt.
	"solar": Default,

	// Small population where direct summation is still comfortable; handy
	// for verifying the approximate solver against the exact one.
	"sparse": func() *Config {
		cfg := Default()
		cfg.Solver = "direct"
		cfg.Scene.InnerCount = 30
		cfg.Scene.OuterCount = 20
		cfg.Scene.DebrisCount = 0
		return cfg
	},

	// Dense belt that leans on the tree; coarser theta trades accuracy for
	// frame rate.
	"swarm": func() *Config {
		cfg := Default()
		cfg.Theta = 0.7
		cfg.Scene.InnerCount = 150
		cfg.Scene.OuterCount = 150
		cfg.Scene.DebrisCount = 1200
		return cfg
	},

	// Everything packed close to the star so the minimum-bounds floor and
	// the softening clamp actually matter.
	"compact": func() *Config {
		cfg := Default()
		cfg.Scene.InnerCount = 80
		cfg.Scene.InnerBase = 6.0
		cfg.Scene.InnerSpacing = 0.2
		cfg.Scene.OuterCount = 0
		cfg.Scene.DebrisCount = 200
		return cfg
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
