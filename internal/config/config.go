package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultG                  = 0.1
	DefaultTheta              = 0.5
	DefaultMaxDepth           = 10
	DefaultMinNodeSize        = 0.1
	DefaultSoftening          = 0.1
	DefaultMinBoundsSize      = 100.0
	DefaultBoundsPadding      = 0.2
	DefaultTrajectoryCap      = 500
	DefaultTrajectoryInterval = 3
	DefaultTimeScale          = 1.0
	DefaultDt                 = 1.0 / 60.0
	DefaultDuration           = 60.0
)

// Config carries every tunable the simulation core depends on. Nothing in
// the core reads package-level state; the driver threads these values into
// the tree and body constructors.
type Config struct {
	// Gravitational constant of the model (not SI).
	G float64 `yaml:"g"`
	// Barnes-Hut opening angle; the single accuracy/performance knob.
	Theta float64 `yaml:"theta"`
	// Octree limits.
	MaxDepth    int     `yaml:"max_depth"`
	MinNodeSize float64 `yaml:"min_node_size"`
	// Distance floor substituted into the inverse-square law.
	Softening float64 `yaml:"softening"`
	// Bounding-volume floor and relative padding used when rooting the tree.
	MinBoundsSize float64 `yaml:"min_bounds_size"`
	BoundsPadding float64 `yaml:"bounds_padding"`
	// Trail history bound and sampling throttle (in ticks).
	TrajectoryCap      int `yaml:"trajectory_cap"`
	TrajectoryInterval int `yaml:"trajectory_interval"`

	TimeScale float64 `yaml:"time_scale"`
	Solver    string  `yaml:"solver"`
	Dt        float64 `yaml:"dt"`
	Duration  float64 `yaml:"duration"`
	Seed      int64   `yaml:"seed"`

	Scene SceneConfig `yaml:"scene"`
}

// SceneConfig parameterizes the orbital seeding procedure.
type SceneConfig struct {
	StarMass   float64 `yaml:"star_mass"`
	StarRadius float64 `yaml:"star_radius"`

	InnerCount   int     `yaml:"inner_count"`
	InnerBase    float64 `yaml:"inner_base"`
	InnerSpacing float64 `yaml:"inner_spacing"`

	OuterCount   int     `yaml:"outer_count"`
	OuterBase    float64 `yaml:"outer_base"`
	OuterSpacing float64 `yaml:"outer_spacing"`

	DebrisCount int `yaml:"debris_count"`
}

func Default() *Config {
	return &Config{
		G:                  DefaultG,
		Theta:              DefaultTheta,
		MaxDepth:           DefaultMaxDepth,
		MinNodeSize:        DefaultMinNodeSize,
		Softening:          DefaultSoftening,
		MinBoundsSize:      DefaultMinBoundsSize,
		BoundsPadding:      DefaultBoundsPadding,
		TrajectoryCap:      DefaultTrajectoryCap,
		TrajectoryInterval: DefaultTrajectoryInterval,
		TimeScale:          DefaultTimeScale,
		Solver:             "barneshut",
		Dt:                 DefaultDt,
		Duration:           DefaultDuration,
		Scene: SceneConfig{
			StarMass:     1000.0,
			StarRadius:   5.0,
			InnerCount:   100,
			InnerBase:    8.0,
			InnerSpacing: 4.0,
			OuterCount:   100,
			OuterBase:    25.0,
			OuterSpacing: 8.0,
			DebrisCount:  500,
		},
	}
}

// Load reads a yaml config, layering it over the defaults so partial files
// work.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the core cannot clamp its way around.
func (c *Config) Validate() error {
	if c.G <= 0 {
		return fmt.Errorf("g must be positive, got %f", c.G)
	}
	if c.Theta <= 0 {
		return fmt.Errorf("theta must be positive, got %f", c.Theta)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative, got %d", c.MaxDepth)
	}
	if c.Softening <= 0 {
		return fmt.Errorf("softening must be positive, got %f", c.Softening)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.TrajectoryInterval < 1 {
		return fmt.Errorf("trajectory_interval must be at least 1, got %d", c.TrajectoryInterval)
	}
	return nil
}
