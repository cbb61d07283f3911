package config

import (
	"fmt"
	"os"

	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 0.01
	DefaultDuration    = 10.0
	DefaultSampleEvery = 1
)

// Config is the on-disk form of a scene plus the parameters of a headless run.
type Config struct {
	Scene physics.Scene `yaml:"scene"`
	Run   RunConfig     `yaml:"run"`
}

type RunConfig struct {
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	Seed        int64   `yaml:"seed"`
	SampleEvery int     `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene: *physics.DefaultScene(),
		Run: RunConfig{
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			SampleEvery: DefaultSampleEvery,
		},
	}
}

// Load reads a YAML file on top of the defaults, so omitted keys keep their
// default values. The scene is clamped after decoding.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrInvalidConfig, path, err)
	}
	cfg.Scene.Clamp()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToScene returns a clamped copy of the scene, safe to hand to a world.
func (c *Config) ToScene() *physics.Scene {
	sc := c.Scene
	sc.Clamp()
	return &sc
}

// SimConfig converts the run block into the simulator's config.
func (c *Config) SimConfig() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.Dt = c.Run.Dt
	cfg.Duration = c.Run.Duration
	cfg.Seed = c.Run.Seed
	if c.Run.SampleEvery > 0 {
		cfg.SampleEvery = c.Run.SampleEvery
	}
	return cfg
}
