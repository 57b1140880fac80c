package sim

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// SweepResult reports how far one theta's approximate accelerations land
// from the exact direct-sum accelerations on the same frozen configuration.
type SweepResult struct {
	Theta   float64
	MaxErr  float64
	MeanErr float64
}

// ThetaSweep measures Barnes-Hut accuracy across opening angles. The build
// callback must return a fresh, identically seeded simulation configured
// with the given theta, so every evaluation sees the same configuration.
// Forces are accumulated once per theta without integrating. One goroutine
// runs per theta; each simulation owns its bodies, so force evaluation
// itself stays single-threaded.
func ThetaSweep(build func(theta float64) (*Simulation, error), thetas []float64) ([]SweepResult, error) {
	ref, err := build(0.5)
	if err != nil {
		return nil, err
	}
	ref.SetSolver(SolverDirect)
	ref.AccumulateForces()

	exact := make([]mgl64.Vec3, len(ref.bodies))
	for i, b := range ref.bodies {
		exact[i] = b.Acceleration
	}

	results := make([]SweepResult, len(thetas))
	errs := make([]error, len(thetas))

	var wg sync.WaitGroup
	for idx, theta := range thetas {
		wg.Add(1)
		go func(idx int, theta float64) {
			defer wg.Done()

			s, err := build(theta)
			if err != nil {
				errs[idx] = err
				return
			}
			s.SetSolver(SolverBarnesHut)
			s.AccumulateForces()

			results[idx] = compareAccelerations(s, exact, theta)
		}(idx, theta)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func compareAccelerations(s *Simulation, exact []mgl64.Vec3, theta float64) SweepResult {
	res := SweepResult{Theta: theta}
	count := 0

	for i, b := range s.bodies {
		if b.Fixed || i >= len(exact) {
			continue
		}
		ref := exact[i].Len()
		if ref == 0 {
			continue
		}
		rel := b.Acceleration.Sub(exact[i]).Len() / ref
		res.MaxErr = math.Max(res.MaxErr, rel)
		res.MeanErr += rel
		count++
	}

	if count > 0 {
		res.MeanErr /= float64(count)
	}
	return res
}
