package viz

import (
	"strings"

	"github.com/fusionsim/gcorbit/internal/geom"
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

// Canvas is a braille raster with a world-coordinate viewport over the
// poloidal plane. World (r, z) maps to sub-pixels so paths can be plotted
// directly in meters.
type Canvas struct {
	Width, Height          int
	Grid                   [][]rune
	RMin, RMax, ZMin, ZMax float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// SetView fixes the world rectangle shown by the canvas, padded slightly
// so paths touching the edge stay visible.
func (c *Canvas) SetView(rMin, rMax, zMin, zMax float64) {
	padR := (rMax - rMin) * 0.05
	padZ := (zMax - zMin) * 0.05
	if padR == 0 {
		padR = 0.05
	}
	if padZ == 0 {
		padZ = 0.05
	}
	c.RMin, c.RMax = rMin-padR, rMax+padR
	c.ZMin, c.ZMax = zMin-padZ, zMax+padZ
}

// project maps world (r, z) to sub-pixel coordinates. Z grows upward on
// screen.
func (c *Canvas) project(r, z float64) (int, int) {
	cw, ch := float64(c.Width*2), float64(c.Height*4)
	x := (r - c.RMin) / (c.RMax - c.RMin) * cw
	y := (1 - (z-c.ZMin)/(c.ZMax-c.ZMin)) * ch
	return int(x), int(y)
}

// Set lights a sub-pixel. The canvas size in sub-pixels is
// (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
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

// PlotPath draws a connected world-coordinate path.
func (c *Canvas) PlotPath(rs, zs []float64) {
	if len(rs) < 2 {
		return
	}
	px, py := c.project(rs[0], zs[0])
	for i := 1; i < len(rs); i++ {
		x, y := c.project(rs[i], zs[i])
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}

// PlotPolygon draws a closed world-coordinate outline.
func (c *Canvas) PlotPolygon(p *geom.Polygon) {
	if p == nil {
		return
	}
	n := len(p.Vertices)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		v0 := p.Vertices[i]
		v1 := p.Vertices[(i+1)%n]
		x0, y0 := c.project(v0.R, v0.Z)
		x1, y1 := c.project(v1.R, v1.Z)
		c.DrawLine(x0, y0, x1, y1)
	}
}

// Mark draws a 3x3 blot at a world point.
func (c *Canvas) Mark(r, z float64) {
	x, y := c.project(r, z)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
