package sim

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/octree"
	"github.com/san-kum/orbitsim/internal/scene"
)

// Time-scale clamps for the key-driven speed controls.
const (
	MinTimeScale       = 0.1
	MaxTimeScale       = 10.0
	timeScaleUpFactor  = 1.1
	timeScaleDownRatio = 0.9
)

// Simulation owns the body population and drives one tick at a time:
// force accumulation (direct or tree-approximated), integration, then
// throttled trajectory sampling. It is single-threaded by design; nothing
// may mutate body state between force accumulation and the end of
// integration within a tick.
type Simulation struct {
	cfg    *config.Config
	bodies []*body.Body

	solver    Solver
	paused    bool
	timeScale float64

	trajectoryTicks int
	rng             *rand.Rand
}

// New validates the config, seeds the scene from cfg.Seed and returns a
// ready simulation.
func New(cfg *config.Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	solver, err := ParseSolver(cfg.Solver)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:       cfg,
		solver:    solver,
		timeScale: clampTimeScale(cfg.TimeScale),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}
	s.bodies = scene.Seed(s.rng, cfg.G, cfg.Scene, cfg.TrajectoryCap)
	return s, nil
}

// NewWithBodies builds a simulation over a caller-supplied population,
// bypassing scene seeding. Used by tests and by the solver comparison.
func NewWithBodies(cfg *config.Config, bodies []*body.Body) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	solver, err := ParseSolver(cfg.Solver)
	if err != nil {
		return nil, err
	}
	return &Simulation{
		cfg:       cfg,
		bodies:    bodies,
		solver:    solver,
		timeScale: clampTimeScale(cfg.TimeScale),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Bodies exposes the population for renderers and metrics. The slice and
// the bodies are owned by the simulation; read-only for callers.
func (s *Simulation) Bodies() []*body.Body { return s.bodies }

func (s *Simulation) Solver() Solver     { return s.solver }
func (s *Simulation) Paused() bool       { return s.paused }
func (s *Simulation) TimeScale() float64 { return s.timeScale }

func (s *Simulation) SetSolver(solver Solver) { s.solver = solver }

// ToggleSolver flips between the exact and approximate strategies.
func (s *Simulation) ToggleSolver() {
	if s.solver == SolverDirect {
		s.solver = SolverBarnesHut
	} else {
		s.solver = SolverDirect
	}
}

func (s *Simulation) SetPaused(p bool) { s.paused = p }
func (s *Simulation) TogglePause()     { s.paused = !s.paused }

func (s *Simulation) SetTimeScale(v float64) { s.timeScale = clampTimeScale(v) }
func (s *Simulation) SpeedUp()               { s.SetTimeScale(s.timeScale * timeScaleUpFactor) }
func (s *Simulation) SlowDown()              { s.SetTimeScale(s.timeScale * timeScaleDownRatio) }

func clampTimeScale(v float64) float64 {
	if v < MinTimeScale {
		return MinTimeScale
	}
	if v > MaxTimeScale {
		return MaxTimeScale
	}
	return v
}

// Reset discards the population and reseeds the scene from the configured
// seed, so a reset run replays identically.
func (s *Simulation) Reset() {
	s.rng = rand.New(rand.NewSource(s.cfg.Seed))
	s.bodies = scene.Seed(s.rng, s.cfg.G, s.cfg.Scene, s.cfg.TrajectoryCap)
	s.trajectoryTicks = 0
}

// Step advances one tick: accumulate forces under the selected solver,
// integrate every body by frameDt scaled by the time multiplier, and append
// a trajectory sample every TrajectoryInterval ticks. Paused or empty
// simulations no-op.
func (s *Simulation) Step(frameDt float64) {
	if s.paused || len(s.bodies) == 0 {
		return
	}
	dt := frameDt * s.timeScale

	s.AccumulateForces()

	for _, b := range s.bodies {
		b.Integrate(dt)
	}

	s.trajectoryTicks++
	if s.trajectoryTicks >= s.cfg.TrajectoryInterval {
		s.trajectoryTicks = 0
		for _, b := range s.bodies {
			if !b.Fixed {
				b.RecordTrajectory()
			}
		}
	}
}

// AccumulateForces zeroes every non-fixed body's acceleration and runs the
// selected force strategy over the current position snapshot. Exposed so
// solver comparisons and tests can inspect accelerations before any body
// moves.
func (s *Simulation) AccumulateForces() {
	for _, b := range s.bodies {
		if !b.Fixed {
			b.Acceleration = mgl64.Vec3{}
		}
	}

	switch s.solver {
	case SolverBarnesHut:
		root := s.BuildTree()
		for _, b := range s.bodies {
			if !b.Fixed {
				root.ComputeForce(b, s.cfg.G)
			}
		}
	default:
		for _, target := range s.bodies {
			if target.Fixed {
				continue
			}
			for _, source := range s.bodies {
				// ApplyGravity skips the identity pairing itself.
				target.ApplyGravity(source, s.cfg.G, s.cfg.Softening)
			}
		}
	}
}

// BuildTree roots a fresh octree on the padded bounding volume of the
// current positions and inserts every body. The tree references the live
// bodies and is only valid until the next integration.
func (s *Simulation) BuildTree() *octree.Node {
	center, size := s.bounds()
	root := octree.NewRoot(center, size, octree.Params{
		Theta:       s.cfg.Theta,
		MaxDepth:    s.cfg.MaxDepth,
		MinNodeSize: s.cfg.MinNodeSize,
		Softening:   s.cfg.Softening,
	})
	for _, b := range s.bodies {
		root.Insert(b)
	}
	return root
}

// bounds computes the root cube for the tree: the axis-aligned box of all
// positions, padded on every side so bodies on the hull do not land exactly
// on the root's half-open boundary, floored at MinBoundsSize so a tightly
// clustered population still gets a usable volume. The cube edge is the
// padded box diagonal, which comfortably covers the box.
func (s *Simulation) bounds() (center mgl64.Vec3, size float64) {
	if len(s.bodies) == 0 {
		return mgl64.Vec3{}, s.cfg.MinBoundsSize
	}

	min := s.bodies[0].Position
	max := s.bodies[0].Position
	for _, b := range s.bodies[1:] {
		for axis := 0; axis < 3; axis++ {
			min[axis] = math.Min(min[axis], b.Position[axis])
			max[axis] = math.Max(max[axis], b.Position[axis])
		}
	}

	padding := max.Sub(min).Mul(s.cfg.BoundsPadding)
	min = min.Sub(padding)
	max = max.Add(padding)

	size = max.Sub(min).Len()
	if size < s.cfg.MinBoundsSize {
		size = s.cfg.MinBoundsSize
	}
	return min.Add(max).Mul(0.5), size
}

// Valid reports whether every body still holds finite state.
func (s *Simulation) Valid() bool {
	for _, b := range s.bodies {
		for axis := 0; axis < 3; axis++ {
			if !finite(b.Position[axis]) || !finite(b.Velocity[axis]) {
				return false
			}
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Energy returns kinetic plus softened pairwise potential energy.
func (s *Simulation) Energy() float64 {
	return body.SystemEnergy(s.bodies, s.cfg.G, s.cfg.Softening)
}

// Momentum returns total linear momentum of the non-fixed population.
func (s *Simulation) Momentum() mgl64.Vec3 {
	return body.SystemMomentum(s.bodies)
}

// AngularMomentum returns total angular momentum about the origin.
func (s *Simulation) AngularMomentum() mgl64.Vec3 {
	return body.SystemAngularMomentum(s.bodies)
}
