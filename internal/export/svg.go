// Package export renders body trajectories to SVG for inspection outside
// the terminal.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/body"
)

// TrajectoriesToSVG draws every body's recorded trail as a path on the
// orbital (xz) plane, with a dot at the current position. Bounds are fitted
// to the data with 10% padding. Bodies with fewer than two trail points get
// only their dot.
func TrajectoriesToSVG(bodies []*body.Body, width, height int) string {
	if len(bodies) == 0 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, b := range bodies {
		for _, p := range b.Trajectory() {
			minX = math.Min(minX, p.X())
			maxX = math.Max(maxX, p.X())
			minZ = math.Min(minZ, p.Z())
			maxZ = math.Max(maxZ, p.Z())
		}
		minX = math.Min(minX, b.Position.X())
		maxX = math.Max(maxX, b.Position.X())
		minZ = math.Min(minZ, b.Position.Z())
		maxZ = math.Max(maxZ, b.Position.Z())
	}

	rangeX := maxX - minX
	rangeZ := maxZ - minZ
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeZ == 0 {
		rangeZ = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minZ -= rangeZ * 0.1
	maxZ += rangeZ * 0.1
	rangeX = maxX - minX
	rangeZ = maxZ - minZ

	toCanvas := func(p mgl64.Vec3) (float64, float64) {
		x := (p.X() - minX) / rangeX * float64(width)
		y := float64(height) - (p.Z()-minZ)/rangeZ*float64(height)
		return x, y
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, b := range bodies {
		color := hexColor(b.Color)
		trail := b.Trajectory()

		if len(trail) >= 2 {
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="0.8" stroke-opacity="0.5" d="M`, color))
			for i, p := range trail {
				x, y := toCanvas(p)
				if i == 0 {
					sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
				}
			}
			sb.WriteString("\"/>\n")
		}

		x, y := toCanvas(b.Position)
		r := math.Max(b.Radius*0.6, 1.0)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func hexColor(rgb mgl64.Vec3) string {
	return fmt.Sprintf("#%02x%02x%02x",
		channelByte(rgb.X()), channelByte(rgb.Y()), channelByte(rgb.Z()))
}

func channelByte(v float64) int {
	n := int(v * 255)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}
