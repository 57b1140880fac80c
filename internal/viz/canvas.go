// Package viz renders the body population into the terminal: a rune canvas
// with a rotatable camera for the live view, plus series charts for stored
// runs.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-gl/mathgl/mgl64"
)

type cell struct {
	ch rune
	fg string
}

// Canvas is a fixed-size rune grid with per-cell foreground colors.
type Canvas struct {
	width  int
	height int
	cells  [][]cell

	styles map[string]lipgloss.Style
}

func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		width:  width,
		height: height,
		styles: make(map[string]lipgloss.Style),
	}
	c.cells = make([][]cell, height)
	for i := range c.cells {
		c.cells[i] = make([]cell, width)
	}
	c.Clear()
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = cell{ch: ' '}
		}
	}
}

func (c *Canvas) Set(x, y int, ch rune, fg string) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = cell{ch: ch, fg: fg}
}

func (c *Canvas) Line(x1, y1, x2, y2 int, ch rune, fg string) {
	dx := intAbs(x2 - x1)
	dy := intAbs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		c.Set(x1, y1, ch, fg)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Render flattens the grid into lines, styling runs of same-colored cells
// together to keep the escape-sequence volume down.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		x := 0
		for x < c.width {
			fg := c.cells[y][x].fg
			start := x
			for x < c.width && c.cells[y][x].fg == fg {
				x++
			}
			var run strings.Builder
			for i := start; i < x; i++ {
				run.WriteRune(c.cells[y][i].ch)
			}
			if fg == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(c.style(fg).Render(run.String()))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Canvas) style(fg string) lipgloss.Style {
	if s, ok := c.styles[fg]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
	c.styles[fg] = s
	return s
}

// ColorCode maps an RGB color with components in [0,1] onto the xterm-256
// 6x6x6 cube.
func ColorCode(rgb mgl64.Vec3) string {
	r := clampChannel(rgb.X())
	g := clampChannel(rgb.Y())
	b := clampChannel(rgb.Z())
	return fmt.Sprintf("%d", 16+36*r+6*g+b)
}

func clampChannel(v float64) int {
	n := int(v * 5)
	if n < 0 {
		return 0
	}
	if n > 5 {
		return 5
	}
	return n
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
