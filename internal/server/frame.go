package server

import (
	"github.com/san-kum/gravballs/internal/physics"
	"github.com/san-kum/gravballs/internal/sim"
)

// Frame is the JSON message broadcast to viewers after every tick.
type Frame struct {
	Seq        uint64        `json:"seq"`
	Time       float64       `json:"time"`
	Scene      physics.Scene `json:"scene"`
	Balls      []BallState   `json:"balls"`
	Sparks     []SparkState  `json:"sparks"`
	Collisions int           `json:"collisions"`
	Consumed   int           `json:"consumed"`
}

type BallState struct {
	Pos    [3]float64 `json:"pos"`
	Vel    [3]float64 `json:"vel"`
	Radius float64    `json:"radius"`
	Color  [3]float64 `json:"color"`
}

type SparkState struct {
	Pos  [3]float64 `json:"pos"`
	Life float64    `json:"life"`
}

func buildFrame(seq uint64, s *sim.Simulator, collisions, consumed int) Frame {
	w := s.World()
	f := Frame{
		Seq:        seq,
		Time:       w.Time(),
		Scene:      *w.Scene(),
		Balls:      make([]BallState, 0, w.BodyCount()),
		Sparks:     make([]SparkState, 0, w.SparkCount()),
		Collisions: collisions,
		Consumed:   consumed,
	}
	for _, b := range w.Balls() {
		f.Balls = append(f.Balls, BallState{
			Pos:    [3]float64{b.Pos.X, b.Pos.Y, b.Pos.Z},
			Vel:    [3]float64{b.Vel.X, b.Vel.Y, b.Vel.Z},
			Radius: b.Radius,
			Color:  [3]float64{b.Color.R, b.Color.G, b.Color.B},
		})
	}
	for _, sp := range w.Sparks() {
		f.Sparks = append(f.Sparks, SparkState{
			Pos:  [3]float64{sp.Pos.X, sp.Pos.Y, sp.Pos.Z},
			Life: sp.Life,
		})
	}
	return f
}
