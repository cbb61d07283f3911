package viz

import (
	"math"
	"sort"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/gravballs/internal/dynamo"
)

const (
	MinDistance = 5.0
	MaxDistance = 100.0
	MaxPitch    = 89.0

	zoomStep      = 1.0
	springFreq    = 6.0
	springDamping = 1.0
	defaultYaw    = 45.0
	defaultPitch  = 30.0
	defaultDist   = 40.0
	defaultFOV    = math.Pi / 4
	defaultNear   = 1.0
	defaultFPS    = 60
)

// Camera orbits the origin. Yaw and Pitch are in degrees; the view looks at
// the origin from Distance along the rotated +Z axis. Zoom changes only the
// target distance; Update eases Distance toward it with a critically damped
// spring.
type Camera struct {
	Yaw, Pitch float64
	Distance   float64
	FOV, Near  float64

	target   float64
	velocity float64
	spring   harmonica.Spring
}

func NewCamera(fps int) *Camera {
	if fps <= 0 {
		fps = defaultFPS
	}
	return &Camera{
		Yaw:      defaultYaw,
		Pitch:    defaultPitch,
		Distance: defaultDist,
		FOV:      defaultFOV,
		Near:     defaultNear,
		target:   defaultDist,
		spring:   harmonica.NewSpring(harmonica.FPS(fps), springFreq, springDamping),
	}
}

// Orbit rotates the view. Pitch is clamped short of the poles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 360)
	c.Pitch = math.Max(-MaxPitch, math.Min(MaxPitch, c.Pitch+dPitch))
}

// Zoom moves the target distance one step; positive dir zooms in.
func (c *Camera) Zoom(dir int) {
	c.target = math.Max(MinDistance, math.Min(MaxDistance, c.target-float64(dir)*zoomStep))
}

func (c *Camera) TargetDistance() float64 { return c.target }

// Update advances the zoom spring by one frame.
func (c *Camera) Update() {
	c.Distance, c.velocity = c.spring.Update(c.Distance, c.velocity, c.target)
}

// Settle jumps straight to the target distance.
func (c *Camera) Settle() {
	c.Distance = c.target
	c.velocity = 0
}

func (c *Camera) rotate(p dynamo.Vec3) dynamo.Vec3 {
	cy, sy := math.Cos(c.Yaw*math.Pi/180), math.Sin(c.Yaw*math.Pi/180)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(c.Pitch*math.Pi/180), math.Sin(c.Pitch*math.Pi/180)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

func (c *Camera) unrotate(p dynamo.Vec3) dynamo.Vec3 {
	cx, sx := math.Cos(c.Pitch*math.Pi/180), math.Sin(c.Pitch*math.Pi/180)
	p.Y, p.Z = p.Y*cx+p.Z*sx, -p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.Yaw*math.Pi/180), math.Sin(c.Yaw*math.Pi/180)
	p.X, p.Z = p.X*cy-p.Z*sy, p.X*sy+p.Z*cy
	return p
}

func (c *Camera) focal(sw, sh int) float64 {
	half := float64(min(sw, sh)) / 2
	return half / math.Tan(c.FOV/2)
}

// Project converts world coordinates to screen coordinates.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.rotate(p)
	depth := c.Distance - rot.Z
	if depth < c.Near {
		return 0, 0, 0, false
	}
	f := c.focal(sw, sh) / depth
	sx := int(math.Round(rot.X*f)) + sw/2
	sy := int(math.Round(-rot.Y*f)) + sh/2
	return sx, sy, depth, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// ProjectRadius is the on-screen radius of a sphere at the given depth.
func (c *Camera) ProjectRadius(radius, depth float64, sw, sh int) float64 {
	if depth <= 0 {
		return 0
	}
	return radius * c.focal(sw, sh) / depth
}

// Unproject maps a screen point back to the plane through the origin that
// faces the camera.
func (c *Camera) Unproject(sx, sy, sw, sh int) dynamo.Vec3 {
	f := c.focal(sw, sh) / c.Distance
	rot := dynamo.Vec3{
		X: float64(sx-sw/2) / f,
		Y: -float64(sy-sh/2) / f,
	}
	return c.unrotate(rot)
}

type Edge struct {
	Start, End dynamo.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e dynamo.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p dynamo.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                   { w.Edges = w.Edges[:0] }

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
}

// Render3D draws the wireframe far-to-near. Edges with an endpoint behind
// the near plane are dropped.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.PixelWidth(), c.PixelHeight()
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if d1 <= 0 || d2 <= 0 {
			continue
		}
		if v1 || v2 {
			proj = append(proj, ProjectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].Depth > proj[j].Depth })
	for _, e := range proj {
		if e.X1 == e.X2 && e.Y1 == e.Y2 {
			c.Set(e.X1, e.Y1)
		} else {
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	}
}

// BoxWireframe is the cube [-half, half]^3.
func BoxWireframe(half float64) *Wireframe {
	w, s := NewWireframe(), half
	v := []dynamo.Vec3{{X: -s, Y: -s, Z: -s}, {X: s, Y: -s, Z: -s}, {X: s, Y: s, Z: -s}, {X: -s, Y: s, Z: -s}, {X: -s, Y: -s, Z: s}, {X: s, Y: -s, Z: s}, {X: s, Y: s, Z: s}, {X: -s, Y: s, Z: s}}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	for _, e := range ei {
		w.AddEdge(v[e[0]], v[e[1]])
	}
	return w
}

// RingWireframe is a horizontal circle at height y.
func RingWireframe(radius, y float64, segments int) *Wireframe {
	w := NewWireframe()
	prev := dynamo.Vec3{X: radius, Y: y}
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		next := dynamo.Vec3{X: math.Cos(a) * radius, Y: y, Z: math.Sin(a) * radius}
		w.AddEdge(prev, next)
		prev = next
	}
	return w
}

func AxesWireframe(l float64) *Wireframe {
	w, o := NewWireframe(), dynamo.Vec3{}
	w.AddEdge(o, dynamo.Vec3{X: l})
	w.AddEdge(o, dynamo.Vec3{Y: l})
	w.AddEdge(o, dynamo.Vec3{Z: l})
	return w
}
