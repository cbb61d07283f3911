package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
)

// Recorder collects canvas frames and writes them as an animated GIF.
type Recorder struct {
	frames       []*image.Paletted
	charW, charH int
	active       bool
}

func NewRecorder() *Recorder {
	return &Recorder{charW: 8, charH: 16}
}

func (r *Recorder) Active() bool { return r.active }
func (r *Recorder) Frames() int  { return len(r.frames) }

func (r *Recorder) Start() {
	r.active = true
	r.frames = r.frames[:0]
}

// Capture rasterizes the canvas into one frame. It is a no-op while the
// recorder is stopped.
func (r *Recorder) Capture(c *Canvas, fg color.Color) {
	if !r.active {
		return
	}
	imgW, imgH := c.Width*r.charW, c.Height*r.charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, fg})
	dotW, dotH := r.charW/2, r.charH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - brailleBlank)
			if pattern <= 0 {
				continue
			}
			baseX, baseY := col*r.charW, row*r.charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, 1)
						}
					}
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Stop ends the recording and writes it to path. Nothing is written when no
// frame was captured.
func (r *Recorder) Stop(path string, delay int) error {
	r.active = false
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	r.frames = nil

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// hexColor parses "#rrggbb", falling back to white.
func hexColor(hex string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.White
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
