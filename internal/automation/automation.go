package automation

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/gravballs/internal/config"
	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted run: a starting preset and a list of timed actions
// applied to the scene between steps.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Preset      string   `yaml:"preset"`
	Duration    float64  `yaml:"duration"`
	Dt          float64  `yaml:"dt"`
	Seed        int64    `yaml:"seed"`
	Actions     []Action `yaml:"actions"`
}

// Action fires once, at the first step whose run time reaches At.
type Action struct {
	At    float64 `yaml:"at" json:"at,omitempty"`
	Op    string  `yaml:"op" json:"op"`
	Value float64 `yaml:"value" json:"value,omitempty"`
	X     float64 `yaml:"x" json:"x,omitempty"`
	Y     float64 `yaml:"y" json:"y,omitempty"`
	Z     float64 `yaml:"z" json:"z,omitempty"`
}

// LoadScenario loads a scenario from a YAML file and validates its actions.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrInvalidConfig, path, err)
	}

	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	for i, a := range s.Actions {
		if _, ok := ops[a.Op]; !ok {
			return fmt.Errorf("action %d: %w: %q", i+1, dynamo.ErrUnknownOp, a.Op)
		}
		if a.At < 0 {
			return fmt.Errorf("action %d: %w: negative time %f", i+1, dynamo.ErrInvalidConfig, a.At)
		}
	}
	if s.Preset != "" && config.GetPreset(s.Preset) == nil {
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownPreset, s.Preset)
	}
	return nil
}

// Config resolves the starting configuration: the named preset (or the
// defaults) with the scenario's run overrides applied.
func (s *Scenario) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		var err error
		if cfg, err = config.LoadPreset(s.Preset); err != nil {
			return nil, err
		}
	}
	if s.Duration > 0 {
		cfg.Run.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Run.Dt = s.Dt
	}
	if s.Seed != 0 {
		cfg.Run.Seed = s.Seed
	}
	return cfg, nil
}

// Player replays a scenario's actions into a running simulator.
type Player struct {
	actions []Action
	next    int
	fired   int
}

func NewPlayer(s *Scenario) *Player {
	actions := make([]Action, len(s.Actions))
	copy(actions, s.Actions)
	sort.SliceStable(actions, func(i, j int) bool { return actions[i].At < actions[j].At })
	return &Player{actions: actions}
}

// Drive applies every pending action scheduled at or before t.
func (p *Player) Drive(s *sim.Simulator, t float64) {
	for p.next < len(p.actions) && p.actions[p.next].At <= t+timeEpsilon {
		// Unknown ops are skipped; LoadScenario rejects them up front.
		_ = Apply(s, p.actions[p.next])
		p.next++
		p.fired++
	}
}

// Fired is the number of actions applied so far.
func (p *Player) Fired() int { return p.fired }

// Done reports whether every action has been applied.
func (p *Player) Done() bool { return p.next >= len(p.actions) }

const timeEpsilon = 1e-9
