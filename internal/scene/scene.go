// Package scene builds the initial body population: a fixed central star,
// two rings of orbiting bodies, and a belt of light debris. Orbital speeds
// come from the circular-orbit relation v = sqrt(G*M/r), deliberately
// under-scaled so orbits are slightly elliptical and the scene stays lively.
package scene

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/config"
)

// Seed creates the body population for the given scene parameters. The rng
// is injected so a run is reproducible from its seed; global rand is never
// touched. Every body starts with a one-point trajectory.
func Seed(rng *rand.Rand, g float64, cfg config.SceneConfig, trajectoryCap int) []*body.Body {
	bodies := make([]*body.Body, 0, 1+cfg.InnerCount+cfg.OuterCount+cfg.DebrisCount)

	star := body.New(
		mgl64.Vec3{}, mgl64.Vec3{},
		cfg.StarMass, cfg.StarRadius,
		mgl64.Vec3{1, 1, 0},
		true,
	)
	bodies = append(bodies, star)

	// Inner ring: closer, faster, heavier toward the outside.
	for i := 0; i < cfg.InnerCount; i++ {
		distance := cfg.InnerBase + float64(i)*cfg.InnerSpacing
		speed := circularSpeed(g, cfg.StarMass, distance) * 0.8
		pos, vel := onOrbit(rng, distance, speed)

		bodies = append(bodies, body.New(
			pos, vel,
			1.0+float64(i)*0.5,
			0.3+float64(i)*0.1,
			mgl64.Vec3{0.3 + float64(i)*0.2, 0.5, 1.0 - float64(i)*0.2},
			false,
		))
	}

	// Outer ring: wider, slower orbits.
	for i := 0; i < cfg.OuterCount; i++ {
		distance := cfg.OuterBase + float64(i)*cfg.OuterSpacing
		speed := circularSpeed(g, cfg.StarMass, distance) * 0.7
		pos, vel := onOrbit(rng, distance, speed)

		bodies = append(bodies, body.New(
			pos, vel,
			0.5+float64(i)*0.3,
			0.2+float64(i)*0.1,
			mgl64.Vec3{1.0 - float64(i)*0.2, 0.3 + float64(i)*0.2, 0.5},
			false,
		))
	}

	// Debris belt between the rings: light, with a little speed jitter and
	// vertical scatter so the belt has thickness.
	for i := 0; i < cfg.DebrisCount; i++ {
		distance := 15.0 + float64(i%3)*5.0
		speed := circularSpeed(g, cfg.StarMass, distance) * (0.6 + 0.2*rng.Float64())
		pos, vel := onOrbit(rng, distance, speed)
		pos[1] = (rng.Float64() - 0.5) * 2.0

		bodies = append(bodies, body.New(
			pos, vel,
			0.1, 0.05,
			mgl64.Vec3{0.6, 0.6, 0.6},
			false,
		))
	}

	for _, b := range bodies {
		b.SetTrajectoryCap(trajectoryCap)
		b.ResetTrajectory()
	}

	return bodies
}

func circularSpeed(g, centralMass, distance float64) float64 {
	return math.Sqrt(g * centralMass / distance)
}

// onOrbit places a body at a random angle on a circle of the given radius
// in the xz-plane, moving tangentially.
func onOrbit(rng *rand.Rand, distance, speed float64) (pos, vel mgl64.Vec3) {
	angle := rng.Float64() * 2 * math.Pi
	pos = mgl64.Vec3{distance * math.Cos(angle), 0, distance * math.Sin(angle)}
	vel = mgl64.Vec3{-speed * math.Sin(angle), 0, speed * math.Cos(angle)}
	return pos, vel
}
