package viz

import (
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func litCount(c *Canvas) int {
	n := 0
	for y := 0; y < c.PixelHeight(); y++ {
		for x := 0; x < c.PixelWidth(); x++ {
			if c.Lit(x, y) {
				n++
			}
		}
	}
	return n
}

func TestDrawWorldBall(t *testing.T) {
	w := physics.NewWorld(physics.DefaultScene(), rand.New(rand.NewSource(1)))
	cam := NewCamera(60)

	empty := NewCanvas(80, 24)
	DrawWorld(empty, w, cam, dynamo.Vec3{})

	w.Spawn(dynamo.Vec3{}, dynamo.Vec3{}, 2)
	withBall := NewCanvas(80, 24)
	DrawWorld(withBall, w, cam, dynamo.Vec3{})

	assert.Greater(t, litCount(withBall), litCount(empty))

	x, y, depth, ok := cam.Project(dynamo.Vec3{}, withBall.PixelWidth(), withBall.PixelHeight())
	require.True(t, ok)
	r := int(cam.ProjectRadius(2, depth, withBall.PixelWidth(), withBall.PixelHeight()) + 0.5)
	assert.True(t, withBall.Lit(x+r, y))
}

func TestDrawWorldBlackHoleRing(t *testing.T) {
	sc := physics.DefaultScene()
	w := physics.NewWorld(sc, rand.New(rand.NewSource(1)))
	cam := NewCamera(60)

	off := NewCanvas(80, 24)
	DrawWorld(off, w, cam, dynamo.Vec3{})

	sc.BlackHole = true
	on := NewCanvas(80, 24)
	DrawWorld(on, w, cam, dynamo.Vec3{})

	assert.Greater(t, litCount(on), litCount(off))
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	c := NewCanvas(4, 2)
	c.Set(1, 1)

	r.Capture(c, color.White)
	assert.Equal(t, 0, r.Frames(), "stopped recorder ignores frames")

	r.Start()
	r.Capture(c, hexColor("#00ffff"))
	r.Capture(c, hexColor("bogus"))
	assert.Equal(t, 2, r.Frames())

	path := filepath.Join(t.TempDir(), "out.gif")
	require.NoError(t, r.Stop(path, 2))
	assert.False(t, r.Active())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
