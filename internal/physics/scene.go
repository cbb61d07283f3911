package physics

import "math"

const (
	MinTimeScale = 0.1
	MaxTimeScale = 5.0
	MinBoxSize   = 1.0

	gravityStep     = 1.0
	frictionStep    = 0.01
	restitutionStep = 0.05
	entropyStep     = 0.01
	timeScaleStep   = 0.1
)

// Scene holds every tunable parameter of a world. The control surface owns
// it; the core only reads it.
type Scene struct {
	Gravity     float64 `yaml:"gravity" json:"gravity"`
	Friction    float64 `yaml:"friction" json:"friction"`
	Restitution float64 `yaml:"restitution" json:"restitution"`
	Entropy     float64 `yaml:"entropy" json:"entropy"`
	TimeScale   float64 `yaml:"time_scale" json:"time_scale"`
	BoxSize     float64 `yaml:"box_size" json:"box_size"`

	MagneticWalls bool `yaml:"magnetic_walls" json:"magnetic_walls"`
	BlackHole     bool `yaml:"black_hole" json:"black_hole"`
	CursorGravity bool `yaml:"cursor_gravity" json:"cursor_gravity"`
	Paused        bool `yaml:"paused" json:"paused"`

	// MaxBalls caps Spawn. Zero leaves the population unbounded.
	MaxBalls     int `yaml:"max_balls" json:"max_balls"`
	InitialBalls int `yaml:"initial_balls" json:"initial_balls"`
}

func DefaultScene() *Scene {
	return &Scene{
		Gravity:      -9.8,
		Friction:     0.1,
		Restitution:  0.9,
		Entropy:      0,
		TimeScale:    1.0,
		BoxSize:      10.0,
		InitialBalls: 20,
	}
}

// Clamp forces every field into its documented range. Loaders call it after
// decoding user input.
func (s *Scene) Clamp() {
	s.SetFriction(s.Friction)
	s.SetRestitution(s.Restitution)
	s.SetEntropy(s.Entropy)
	s.SetTimeScale(s.TimeScale)
	s.SetBoxSize(s.BoxSize)
	if s.MaxBalls < 0 {
		s.MaxBalls = 0
	}
	if s.InitialBalls < 0 {
		s.InitialBalls = 0
	}
}

// ScaleDt converts a wall-clock delta into simulation time.
func (s *Scene) ScaleDt(wall float64) float64 { return wall * s.TimeScale }

func (s *Scene) SetGravity(g float64)     { s.Gravity = g }
func (s *Scene) SetFriction(f float64)    { s.Friction = math.Max(0, f) }
func (s *Scene) SetRestitution(r float64) { s.Restitution = clamp(r, 0, 1) }
func (s *Scene) SetEntropy(e float64)     { s.Entropy = math.Max(0, e) }
func (s *Scene) SetTimeScale(ts float64)  { s.TimeScale = clamp(ts, MinTimeScale, MaxTimeScale) }
func (s *Scene) SetBoxSize(b float64)     { s.BoxSize = math.Max(MinBoxSize, b) }

// Adjusters move a parameter by one notch in direction dir (+1 or -1).
func (s *Scene) AdjustGravity(dir int)     { s.SetGravity(s.Gravity + float64(dir)*gravityStep) }
func (s *Scene) AdjustFriction(dir int)    { s.SetFriction(s.Friction + float64(dir)*frictionStep) }
func (s *Scene) AdjustRestitution(dir int) { s.SetRestitution(s.Restitution + float64(dir)*restitutionStep) }
func (s *Scene) AdjustEntropy(dir int)     { s.SetEntropy(s.Entropy + float64(dir)*entropyStep) }
func (s *Scene) AdjustTimeScale(dir int)   { s.SetTimeScale(s.TimeScale + float64(dir)*timeScaleStep) }

func (s *Scene) ToggleMagneticWalls() { s.MagneticWalls = !s.MagneticWalls }
func (s *Scene) ToggleBlackHole()     { s.BlackHole = !s.BlackHole }
func (s *Scene) ToggleCursorGravity() { s.CursorGravity = !s.CursorGravity }
func (s *Scene) TogglePaused()        { s.Paused = !s.Paused }

// Mode names the dominant field mode, used by renderers to pick colors.
func (s *Scene) Mode() string {
	switch {
	case s.BlackHole:
		return "black_hole"
	case s.MagneticWalls:
		return "magnetic"
	case s.CursorGravity:
		return "cursor"
	default:
		return "default"
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
