// Package metrics observes conserved quantities over a running body
// population and reports how far they drift. The integrator is an
// approximation; these numbers are how you see its cost.
package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/body"
)

// Metric samples the population once per step and reduces to one number.
type Metric interface {
	Name() string
	Observe(bodies []*body.Body, t float64)
	Value() float64
	Reset()
}

// EnergyDrift tracks the maximum relative deviation of total energy from
// the first observed sample.
type EnergyDrift struct {
	g         float64
	softening float64
	initial   float64
	maxDrift  float64
	samples   int
}

func NewEnergyDrift(g, softening float64) *EnergyDrift {
	return &EnergyDrift{g: g, softening: softening}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(bodies []*body.Body, t float64) {
	energy := body.SystemEnergy(bodies, e.g, e.softening)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift tracks the maximum magnitude by which total linear momentum
// departs from its first sample.
type MomentumDrift struct {
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(bodies []*body.Body, t float64) {
	p := body.SystemMomentum(bodies)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}

// COMDrift tracks how far the center of mass wanders from its initial
// location. With a fixed anchor it should stay nearly put; steady growth
// usually means the approximation is feeding net momentum into the system.
type COMDrift struct {
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewCOMDrift() *COMDrift { return &COMDrift{} }

func (c *COMDrift) Name() string { return "com_drift" }

func (c *COMDrift) Observe(bodies []*body.Body, t float64) {
	com := body.CenterOfMass(bodies)
	if c.samples == 0 {
		c.initial = com
	}
	c.samples++
	c.maxDrift = math.Max(c.maxDrift, com.Sub(c.initial).Len())
}

func (c *COMDrift) Value() float64 { return c.maxDrift }

func (c *COMDrift) Reset() {
	c.initial = mgl64.Vec3{}
	c.maxDrift = 0
	c.samples = 0
}

// Defaults returns the metric set the run command reports.
func Defaults(g, softening float64) []Metric {
	return []Metric{
		NewEnergyDrift(g, softening),
		NewMomentumDrift(),
		NewCOMDrift(),
	}
}
