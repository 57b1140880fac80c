package body

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MinMass is the floor applied to non-positive or vanishing masses.
	// The force law divides by mass, so zero is rejected at construction
	// rather than propagated as NaN.
	MinMass = 1e-6

	// DefaultTrajectoryCap bounds the number of retained trail positions
	// per body. Oldest samples are dropped first.
	DefaultTrajectoryCap = 500
)

// Body is a point mass participating in gravity. Position, velocity and
// mass drive the dynamics; radius and color exist for renderers and play
// no part in the force law. A fixed body never moves and never keeps
// accumulated acceleration (used as an anchor, e.g. a central star).
type Body struct {
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Acceleration mgl64.Vec3
	Color        mgl64.Vec3
	Mass         float64
	Radius       float64
	Fixed        bool

	trajectory    []mgl64.Vec3
	trajectoryCap int
}

// New constructs a body. A non-positive mass is clamped to MinMass.
func New(pos, vel mgl64.Vec3, mass, radius float64, color mgl64.Vec3, fixed bool) *Body {
	if mass < MinMass {
		mass = MinMass
	}
	return &Body{
		Position:      pos,
		Velocity:      vel,
		Color:         color,
		Mass:          mass,
		Radius:        radius,
		Fixed:         fixed,
		trajectory:    make([]mgl64.Vec3, 0, 64),
		trajectoryCap: DefaultTrajectoryCap,
	}
}

// SetTrajectoryCap changes the trail bound, trimming oldest samples if the
// current history already exceeds it. Non-positive caps are ignored.
func (b *Body) SetTrajectoryCap(n int) {
	if n <= 0 {
		return
	}
	b.trajectoryCap = n
	if excess := len(b.trajectory) - n; excess > 0 {
		b.trajectory = b.trajectory[excess:]
	}
}

// ApplyGravity accumulates the pull of other onto this body's acceleration:
// F = g * m1 * m2 / r^2 along the separation direction. Distances below the
// softening floor are clamped before squaring; this bounds the force when
// bodies nearly coincide and is an approximation, not exact physics.
// Identity with other is a no-op. The caller zeroes acceleration once per
// tick before any calls.
func (b *Body) ApplyGravity(other *Body, g, softening float64) {
	if b == other {
		return
	}

	delta := other.Position.Sub(b.Position)
	norm := delta.Len()
	if norm == 0 {
		// Exactly coincident positions have no defined pull direction.
		return
	}

	dist := norm
	if dist < softening {
		dist = softening
	}

	// a = g * m_other / r^2, applied along the unit separation vector.
	b.Acceleration = b.Acceleration.Add(delta.Mul(g * other.Mass / (dist * dist * norm)))
}

// Integrate advances the body by dt. Velocity is updated with the current
// acceleration first, then position uses that same acceleration term:
//
//	v(t+dt) = v(t) + a(t)*dt
//	x(t+dt) = x(t) + v(t+dt)*dt + 0.5*a(t)*dt^2
//
// This is not true velocity-Verlet (there is no half-step re-evaluation);
// the ordering is load-bearing and must not be rearranged. Acceleration is
// consumed: it is reset to zero afterwards. Fixed bodies only drop whatever
// acceleration leaked in.
func (b *Body) Integrate(dt float64) {
	if b.Fixed {
		b.Acceleration = mgl64.Vec3{}
		return
	}

	b.Velocity = b.Velocity.Add(b.Acceleration.Mul(dt))
	b.Position = b.Position.
		Add(b.Velocity.Mul(dt)).
		Add(b.Acceleration.Mul(0.5 * dt * dt))
	b.Acceleration = mgl64.Vec3{}
}

// RecordTrajectory appends the current position to the trail, dropping the
// oldest sample once the cap is exceeded.
func (b *Body) RecordTrajectory() {
	b.trajectory = append(b.trajectory, b.Position)
	if len(b.trajectory) > b.trajectoryCap {
		b.trajectory = b.trajectory[1:]
	}
}

// ResetTrajectory clears the trail and reseeds it with the current position
// so a freshly reset body renders a one-point trail rather than none.
func (b *Body) ResetTrajectory() {
	b.trajectory = b.trajectory[:0]
	b.trajectory = append(b.trajectory, b.Position)
}

// Trajectory returns the recorded trail, oldest first. The slice is owned
// by the body; callers must not mutate or retain it across ticks.
func (b *Body) Trajectory() []mgl64.Vec3 {
	return b.trajectory
}
