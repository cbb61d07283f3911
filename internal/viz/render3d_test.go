package viz

import (
	"math"
	"testing"

	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/stretchr/testify/assert"
)

func TestProjectOriginIsCentered(t *testing.T) {
	cam := NewCamera(60)
	x, y, depth, ok := cam.Project(dynamo.Vec3{}, 160, 96)

	assert.True(t, ok)
	assert.Equal(t, 80, x)
	assert.Equal(t, 48, y)
	assert.InDelta(t, cam.Distance, depth, 1e-9)
}

func TestProjectBehindCamera(t *testing.T) {
	cam := NewCamera(60)
	cam.Yaw, cam.Pitch = 0, 0

	_, _, _, ok := cam.Project(dynamo.Vec3{Z: cam.Distance + 1}, 160, 96)
	assert.False(t, ok)
}

func TestProjectUpIsUp(t *testing.T) {
	cam := NewCamera(60)
	cam.Yaw, cam.Pitch = 0, 0

	_, y, _, _ := cam.Project(dynamo.Vec3{Y: 5}, 160, 96)
	assert.Less(t, y, 48)
}

func TestUnprojectRoundTrip(t *testing.T) {
	cam := NewCamera(60)
	sw, sh := 160, 96

	for _, p := range [][2]int{{80, 48}, {10, 20}, {150, 90}, {100, 5}} {
		w := cam.Unproject(p[0], p[1], sw, sh)
		x, y, _, _ := cam.Project(w, sw, sh)
		assert.InDelta(t, p[0], x, 1)
		assert.InDelta(t, p[1], y, 1)
	}
}

func TestOrbitClampsPitch(t *testing.T) {
	cam := NewCamera(60)
	cam.Orbit(0, 500)
	assert.Equal(t, MaxPitch, cam.Pitch)
	cam.Orbit(0, -1000)
	assert.Equal(t, -MaxPitch, cam.Pitch)
}

func TestZoomSpringConverges(t *testing.T) {
	cam := NewCamera(60)
	start := cam.Distance
	for i := 0; i < 10; i++ {
		cam.Zoom(1)
	}
	assert.Equal(t, start-10, cam.TargetDistance())
	assert.Equal(t, start, cam.Distance, "zoom only moves the target")

	for i := 0; i < 300; i++ {
		cam.Update()
	}
	assert.InDelta(t, start-10, cam.Distance, 0.01)

	for i := 0; i < 200; i++ {
		cam.Zoom(1)
	}
	cam.Settle()
	assert.Equal(t, MinDistance, cam.Distance)
}

func TestProjectRadiusShrinksWithDepth(t *testing.T) {
	cam := NewCamera(60)
	near := cam.ProjectRadius(1, 10, 160, 96)
	far := cam.ProjectRadius(1, 40, 160, 96)
	assert.Greater(t, near, far)
	assert.InDelta(t, 4*far, near, 1e-9)
	assert.Equal(t, 0.0, cam.ProjectRadius(1, 0, 160, 96))
}

func TestRingWireframe(t *testing.T) {
	w := RingWireframe(2, 0.5, 12)
	assert.Len(t, w.Edges, 12)
	for _, e := range w.Edges {
		assert.InDelta(t, 2, math.Hypot(e.End.X, e.End.Z), 1e-9)
		assert.Equal(t, 0.5, e.End.Y)
	}
}

func TestRender3DBox(t *testing.T) {
	c := NewCanvas(40, 20)
	Render3D(c, BoxWireframe(10), NewCamera(60))

	lit := 0
	for y := 0; y < c.PixelHeight(); y++ {
		for x := 0; x < c.PixelWidth(); x++ {
			if c.Lit(x, y) {
				lit++
			}
		}
	}
	assert.Greater(t, lit, 50)
}
