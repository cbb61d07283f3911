package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/physics"
)

type Preset struct {
	Description string
	Config      Config
}

func scene(mod func(s *physics.Scene)) physics.Scene {
	s := physics.DefaultScene()
	mod(s)
	return *s
}

var defaultRun = RunConfig{Dt: DefaultDt, Duration: DefaultDuration, SampleEvery: DefaultSampleEvery}

var Presets = map[string]Preset{
	"default": {
		Description: "earth gravity, light friction, bouncy balls",
		Config:      Config{Scene: *physics.DefaultScene(), Run: defaultRun},
	},
	"calm": {
		Description: "low gravity and heavy damping",
		Config: Config{
			Scene: scene(func(s *physics.Scene) {
				s.Gravity = -3
				s.Friction = 0.5
				s.Restitution = 0.6
				s.InitialBalls = 10
			}),
			Run: defaultRun,
		},
	},
	"chaos": {
		Description: "high entropy, perfectly elastic, crowded box",
		Config: Config{
			Scene: scene(func(s *physics.Scene) {
				s.Friction = 0
				s.Restitution = 1
				s.Entropy = 0.1
				s.InitialBalls = 60
			}),
			Run: RunConfig{Dt: 0.005, Duration: 20, SampleEvery: 2},
		},
	},
	"black_hole": {
		Description: "a singularity at the origin swallows the balls",
		Config: Config{
			Scene: scene(func(s *physics.Scene) {
				s.Gravity = 0
				s.BlackHole = true
				s.Friction = 0.05
			}),
			Run: RunConfig{Dt: DefaultDt, Duration: 30, SampleEvery: DefaultSampleEvery},
		},
	},
	"magnetic": {
		Description: "walls repel balls toward the center",
		Config: Config{
			Scene: scene(func(s *physics.Scene) {
				s.MagneticWalls = true
				s.Gravity = -2
			}),
			Run: defaultRun,
		},
	},
	"zero_g": {
		Description: "no gravity, no friction",
		Config: Config{
			Scene: scene(func(s *physics.Scene) {
				s.Gravity = 0
				s.Friction = 0
				s.Restitution = 1
			}),
			Run: defaultRun,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := p.Config
	return &cfg
}

// LoadPreset is GetPreset with a wrapped ErrUnknownPreset for callers that
// propagate errors.
func LoadPreset(name string) (*Config, error) {
	cfg := GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownPreset, name)
	}
	return cfg, nil
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
