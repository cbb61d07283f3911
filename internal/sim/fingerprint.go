package sim

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/san-kum/gravballs/internal/physics"
)

// Fingerprint hashes the exact bit patterns of every ball's position,
// velocity and radius, followed by the spark count. Two worlds built from
// the same seed and scene and stepped identically hash equal.
func Fingerprint(w *physics.World) uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(bits uint64) {
		binary.LittleEndian.PutUint64(buf[:], bits)
		_, _ = d.Write(buf[:])
	}
	for _, b := range w.Balls() {
		put(math.Float64bits(b.Pos.X))
		put(math.Float64bits(b.Pos.Y))
		put(math.Float64bits(b.Pos.Z))
		put(math.Float64bits(b.Vel.X))
		put(math.Float64bits(b.Vel.Y))
		put(math.Float64bits(b.Vel.Z))
		put(math.Float64bits(b.Radius))
	}
	put(uint64(w.SparkCount()))
	return d.Sum64()
}
