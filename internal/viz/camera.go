package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera projects world coordinates onto canvas cells. It orbits the target
// at a fixed distance; yaw and pitch rotate the view, zoom scales it.
type Camera struct {
	Target mgl64.Vec3
	Yaw    float64
	Pitch  float64
	Zoom   float64

	// Span is the world width mapped across the full canvas at zoom 1.
	Span float64
}

func NewCamera(span float64) *Camera {
	return &Camera{
		Pitch: 0.45,
		Zoom:  1.0,
		Span:  span,
	}
}

func (c *Camera) Rotate(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch += dpitch
	limit := math.Pi/2 - 0.05
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(c.Zoom*1.2, 50) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(c.Zoom/1.2, 0.02) }

// Project maps a world point onto the canvas. The returned depth orders
// glyphs so nearer bodies overwrite farther ones; ok is false when the point
// lands outside the grid. Terminal cells are roughly twice as tall as wide,
// so the vertical scale is halved.
func (c *Camera) Project(p mgl64.Vec3, width, height int) (x, y int, depth float64, ok bool) {
	rel := p.Sub(c.Target)

	sy, cy := math.Sincos(c.Yaw)
	rx := rel.X()*cy - rel.Z()*sy
	rz := rel.X()*sy + rel.Z()*cy

	sp, cp := math.Sincos(c.Pitch)
	ry := rel.Y()*cp - rz*sp
	depth = rel.Y()*sp + rz*cp

	scale := float64(width) / c.Span * c.Zoom
	x = width/2 + int(rx*scale)
	y = height/2 - int(ry*scale*0.5)

	ok = x >= 0 && x < width && y >= 0 && y < height
	return x, y, depth, ok
}
