package body

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestApplyGravityMagnitude(t *testing.T) {
	// m=1000 at distance 10 with g=0.1 pulls with a = 0.1*1000/100 = 1.
	a := New(mgl64.Vec3{}, mgl64.Vec3{}, 1.0, 1.0, mgl64.Vec3{}, false)
	b := New(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{}, 1000.0, 1.0, mgl64.Vec3{}, false)

	a.ApplyGravity(b, 0.1, 0.1)

	if math.Abs(a.Acceleration.X()-1.0) > 1e-12 {
		t.Errorf("expected acceleration 1.0 along x, got %f", a.Acceleration.X())
	}
	if a.Acceleration.Y() != 0 || a.Acceleration.Z() != 0 {
		t.Errorf("expected pull along x only, got %v", a.Acceleration)
	}
}

func TestApplyGravityOppositePulls(t *testing.T) {
	a := New(mgl64.Vec3{}, mgl64.Vec3{}, 5.0, 1.0, mgl64.Vec3{}, false)
	b := New(mgl64.Vec3{4, 0, 0}, mgl64.Vec3{}, 5.0, 1.0, mgl64.Vec3{}, false)

	a.ApplyGravity(b, 0.1, 0.1)
	b.ApplyGravity(a, 0.1, 0.1)

	sum := a.Acceleration.Add(b.Acceleration)
	if sum.Len() > 1e-12 {
		t.Errorf("equal masses should pull symmetrically, net %v", sum)
	}
}

func TestApplyGravitySofteningClamp(t *testing.T) {
	// Separation below the floor: force computed as if at the floor distance.
	a := New(mgl64.Vec3{}, mgl64.Vec3{}, 1.0, 1.0, mgl64.Vec3{}, false)
	b := New(mgl64.Vec3{0.01, 0, 0}, mgl64.Vec3{}, 1.0, 1.0, mgl64.Vec3{}, false)

	a.ApplyGravity(b, 0.1, 0.1)

	want := 0.1 * 1.0 / (0.1 * 0.1)
	got := a.Acceleration.Len()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected clamped acceleration %f, got %f", want, got)
	}
}

func TestApplyGravityCoincident(t *testing.T) {
	a := New(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{}, 1.0, 1.0, mgl64.Vec3{}, false)
	b := New(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{}, 1.0, 1.0, mgl64.Vec3{}, false)

	a.ApplyGravity(b, 0.1, 0.1)

	for axis := 0; axis < 3; axis++ {
		if math.IsNaN(a.Acceleration[axis]) {
			t.Fatalf("coincident bodies produced NaN acceleration")
		}
	}
	if a.Acceleration.Len() != 0 {
		t.Errorf("coincident bodies should not accelerate, got %v", a.Acceleration)
	}
}

func TestApplyGravitySelf(t *testing.T) {
	a := New(mgl64.Vec3{}, mgl64.Vec3{}, 1.0, 1.0, mgl64.Vec3{}, false)
	a.ApplyGravity(a, 0.1, 0.1)
	if a.Acceleration.Len() != 0 {
		t.Errorf("self-gravity should be a no-op, got %v", a.Acceleration)
	}
}

func TestIntegrateOrder(t *testing.T) {
	// v' = v + a*dt first, then x' = x + v'*dt + 0.5*a*dt^2.
	// With a=1, v=0, dt=1: v'=1, x' = 0 + 1 + 0.5 = 1.5.
	b := New(mgl64.Vec3{}, mgl64.Vec3{}, 1.0, 1.0, mgl64.Vec3{}, false)
	b.Acceleration = mgl64.Vec3{1, 0, 0}

	b.Integrate(1.0)

	if math.Abs(b.Velocity.X()-1.0) > 1e-12 {
		t.Errorf("expected velocity 1.0, got %f", b.Velocity.X())
	}
	if math.Abs(b.Position.X()-1.5) > 1e-12 {
		t.Errorf("expected position 1.5, got %f", b.Position.X())
	}
	if b.Acceleration.Len() != 0 {
		t.Errorf("acceleration should be consumed, got %v", b.Acceleration)
	}
}

func TestIntegrateFixed(t *testing.T) {
	b := New(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, 1000.0, 5.0, mgl64.Vec3{}, true)
	b.Acceleration = mgl64.Vec3{3, 3, 3}

	b.Integrate(1.0)

	if b.Position != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("fixed body moved to %v", b.Position)
	}
	if b.Velocity.Len() != 0 {
		t.Errorf("fixed body gained velocity %v", b.Velocity)
	}
	if b.Acceleration.Len() != 0 {
		t.Errorf("fixed body kept acceleration %v", b.Acceleration)
	}
}

func TestNewClampsMass(t *testing.T) {
	tests := []struct {
		name string
		mass float64
	}{
		{"zero", 0},
		{"negative", -5},
		{"tiny", 1e-12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(mgl64.Vec3{}, mgl64.Vec3{}, tt.mass, 1.0, mgl64.Vec3{}, false)
			if b.Mass != MinMass {
				t.Errorf("expected mass clamped to %g, got %g", MinMass, b.Mass)
			}
		})
	}
}

func TestTrajectoryCap(t *testing.T) {
	b := New(mgl64.Vec3{}, mgl64.Vec3{}, 1.0, 1.0, mgl64.Vec3{}, false)
	b.SetTrajectoryCap(500)

	for i := 0; i < 600; i++ {
		b.Position = mgl64.Vec3{float64(i), 0, 0}
		b.RecordTrajectory()
	}

	trail := b.Trajectory()
	if len(trail) != 500 {
		t.Fatalf("expected trail capped at 500, got %d", len(trail))
	}
	// Oldest samples drop first: the head should be sample 100.
	if trail[0].X() != 100 {
		t.Errorf("expected oldest retained sample x=100, got %f", trail[0].X())
	}
	if trail[len(trail)-1].X() != 599 {
		t.Errorf("expected newest sample x=599, got %f", trail[len(trail)-1].X())
	}
}

func TestSetTrajectoryCapTrims(t *testing.T) {
	b := New(mgl64.Vec3{}, mgl64.Vec3{}, 1.0, 1.0, mgl64.Vec3{}, false)
	for i := 0; i < 100; i++ {
		b.RecordTrajectory()
	}

	b.SetTrajectoryCap(10)
	if len(b.Trajectory()) != 10 {
		t.Errorf("expected trail trimmed to 10, got %d", len(b.Trajectory()))
	}
}

func TestResetTrajectory(t *testing.T) {
	b := New(mgl64.Vec3{}, mgl64.Vec3{}, 1.0, 1.0, mgl64.Vec3{}, false)
	for i := 0; i < 20; i++ {
		b.RecordTrajectory()
	}

	b.Position = mgl64.Vec3{7, 8, 9}
	b.ResetTrajectory()

	trail := b.Trajectory()
	if len(trail) != 1 {
		t.Fatalf("expected one-point trail after reset, got %d", len(trail))
	}
	if trail[0] != b.Position {
		t.Errorf("expected reset trail to hold current position, got %v", trail[0])
	}
}
