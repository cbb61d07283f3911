package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/physics"
	"github.com/san-kum/gravballs/internal/viz"
)

// WorldToSVG renders the world as vector shapes seen from cam: the box edges,
// ball trails, balls filled with their own colors (far to near) and sparks
// faded by their remaining life.
func WorldToSVG(w *physics.World, cam *viz.Camera, width, height int) string {
	theme := viz.ThemeForMode(w.Scene().Mode())

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, theme.Background))

	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="1.5" fill="none">
`, theme.Primary))
	for _, e := range viz.BoxWireframe(w.Scene().BoxSize).Edges {
		x1, y1, d1, _ := cam.Project(e.Start, width, height)
		x2, y2, d2, _ := cam.Project(e.End, width, height)
		if d1 <= 0 || d2 <= 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d"/>
`, x1, y1, x2, y2))
	}
	sb.WriteString("</g>\n")

	balls := w.Balls()
	for i := range balls {
		writeTrail(&sb, &balls[i], cam, width, height)
	}

	type disc struct {
		x, y  int
		r, d  float64
		color physics.Color
	}
	discs := make([]disc, 0, len(balls))
	for i := range balls {
		b := &balls[i]
		x, y, depth, _ := cam.Project(b.Pos, width, height)
		if depth <= 0 {
			continue
		}
		discs = append(discs, disc{x, y, cam.ProjectRadius(b.Radius, depth, width, height), depth, b.Color})
	}
	sort.Slice(discs, func(i, j int) bool { return discs[i].d > discs[j].d })
	for _, d := range discs {
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%.1f" fill="%s"/>
`, d.x, d.y, d.r, rgb(d.color)))
	}

	sb.WriteString(`<g>
`)
	for _, s := range w.Sparks() {
		x, y, _, ok := cam.Project(s.Pos, width, height)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="1" fill="%s" fill-opacity="%.2f"/>
`, x, y, rgb(s.Color), math.Max(0, math.Min(1, s.Life))))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func writeTrail(sb *strings.Builder, b *physics.Ball, cam *viz.Camera, width, height int) {
	points := b.Trail.Points()
	if len(points) < 2 {
		return
	}
	coords := make([]string, 0, len(points))
	for _, p := range points {
		x, y, depth, _ := cam.Project(p, width, height)
		if depth <= 0 {
			continue
		}
		coords = append(coords, fmt.Sprintf("%d,%d", x, y))
	}
	if len(coords) < 2 {
		return
	}
	sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-opacity="0.4" points="%s"/>
`, rgb(b.Color), strings.Join(coords, " ")))
}

func rgb(c physics.Color) string {
	to8 := func(v float64) int { return int(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64, fill string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.PixelWidth()) * scale
	height := float64(canvas.PixelHeight()) * scale

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, fill))

	dotRadius := scale * 0.4

	for y := 0; y < canvas.PixelHeight(); y++ {
		for x := 0; x < canvas.PixelWidth(); x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots one sample column against time as a polyline.
func SeriesToSVG(samples []dynamo.Sample, value func(dynamo.Sample) float64, width, height int, strokeColor string) string {
	if len(samples) < 2 {
		return ""
	}

	minX, maxX := samples[0].Time, samples[0].Time
	minY, maxY := value(samples[0]), value(samples[0])
	for _, s := range samples {
		v := value(s)
		minX, maxX = math.Min(minX, s.Time), math.Max(maxX, s.Time)
		minY, maxY = math.Min(minY, v), math.Max(maxY, v)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, s := range samples {
		x := (s.Time - minX) / rangeX * float64(width)
		y := float64(height) - (value(s)-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
