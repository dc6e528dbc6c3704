package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
)

var errNoFrames = errors.New("viz: no frames captured")

// gifCapture collects canvas frames for an animated GIF, drawing each
// braille dot as a square block.
type gifCapture struct {
	frames []*image.Paletted
}

const dotSize = 4

func (g *gifCapture) add(c *Canvas) {
	w, h := c.Dots()
	if w == 0 || h == 0 {
		return
	}
	bounds := image.Rect(0, 0, w*dotSize, h*dotSize)
	if len(g.frames) > 0 && g.frames[0].Bounds() != bounds {
		// All frames of one GIF share the first frame's size.
		return
	}
	img := image.NewPaletted(bounds, color.Palette{color.Black, color.White})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.Lit(x, y) {
				continue
			}
			for py := 0; py < dotSize; py++ {
				for px := 0; px < dotSize; px++ {
					img.SetColorIndex(x*dotSize+px, y*dotSize+py, 1)
				}
			}
		}
	}
	g.frames = append(g.frames, img)
}

func (g *gifCapture) save(path string, delay int) error {
	if len(g.frames) == 0 {
		return errNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range g.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
