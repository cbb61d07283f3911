package viz

import (
	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/physics"
)

const (
	accretionRadius = 1.5
	ringSegments    = 48
	cursorMarker    = 2
)

// DrawWorld renders the box, trails, balls and sparks of w into c as seen
// from cam. The cursor marker is drawn only while cursor gravity is on.
func DrawWorld(c *Canvas, w *physics.World, cam *Camera, cursor dynamo.Vec3) {
	sc := w.Scene()
	sw, sh := c.PixelWidth(), c.PixelHeight()

	Render3D(c, BoxWireframe(sc.BoxSize), cam)

	if sc.BlackHole {
		Render3D(c, RingWireframe(physics.ConsumeDistance, 0, ringSegments/2), cam)
		Render3D(c, RingWireframe(accretionRadius, 0.1, ringSegments), cam)
	}

	balls := w.Balls()
	for i := range balls {
		drawTrail(c, balls[i].Trail.Points(), cam)
	}

	for i := range balls {
		b := &balls[i]
		x, y, depth, _ := cam.Project(b.Pos, sw, sh)
		if depth <= 0 {
			continue
		}
		c.DrawCircle(x, y, cam.ProjectRadius(b.Radius, depth, sw, sh))
	}

	for _, s := range w.Sparks() {
		if x, y, _, ok := cam.Project(s.Pos, sw, sh); ok {
			c.Set(x, y)
		}
	}

	if sc.CursorGravity {
		if x, y, _, ok := cam.Project(cursor, sw, sh); ok {
			c.DrawLine(x-cursorMarker, y, x+cursorMarker, y)
			c.DrawLine(x, y-cursorMarker, x, y+cursorMarker)
		}
	}
}

func drawTrail(c *Canvas, points []dynamo.Vec3, cam *Camera) {
	sw, sh := c.PixelWidth(), c.PixelHeight()
	px, py, havePrev := 0, 0, false
	for _, p := range points {
		x, y, depth, _ := cam.Project(p, sw, sh)
		if depth <= 0 {
			havePrev = false
			continue
		}
		if havePrev {
			c.DrawLine(px, py, x, y)
		}
		px, py, havePrev = x, y, true
	}
}
