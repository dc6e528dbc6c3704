package viz

import (
	"strings"

	"github.com/san-kum/studio/internal/camera"
	"github.com/san-kum/studio/internal/march"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// 4x4 ordered dither thresholds, scaled to (0, 1) when used.
var bayer = [4][4]float64{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

const blank = 0x2800

// Canvas is a grid of braille cells. Each cell holds 2x4 dots, so a canvas
// of w x h cells has (2w) x (4h) dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (w, h int) {
	return c.Width * 2, c.Height * 4
}

// Set lights the dot at (x, y).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Lit reports whether the dot at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawFrame dithers a traced frame onto the canvas, one dot per pixel.
func (c *Canvas) DrawFrame(f *march.Frame) {
	w, h := c.Dots()
	for y := 0; y < h && y < f.Height; y++ {
		for x := 0; x < w && x < f.Width; x++ {
			if f.At(x, y) > (bayer[y%4][x%4]+0.5)/16 {
				c.Set(x, y)
			}
		}
	}
}

// DrawPaneBorders outlines every pane that does not touch the canvas
// origin on that side, which separates quad view panes with single lines.
func (c *Canvas) DrawPaneBorders(panes []camera.Pane) {
	for _, p := range panes {
		r := p.Rect
		if r.X > 0 {
			c.DrawLine(r.X, r.Y, r.X, r.Y+r.H-1)
		}
		if r.Y > 0 {
			c.DrawLine(r.X, r.Y, r.X+r.W-1, r.Y)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		b.WriteString(string(row))
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
