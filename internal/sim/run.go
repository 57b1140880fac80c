package sim

import (
	"context"
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/metrics"
)

// ErrDiverged reports that integration produced NaN or Inf state; the run
// stops at the last finite sample.
var ErrDiverged = errors.New("sim: state diverged (NaN or Inf)")

// RunConfig controls a headless run.
type RunConfig struct {
	Dt       float64
	Duration float64
	// SampleEvery records a series sample every N steps; values below 1
	// sample every step.
	SampleEvery int
	// Track selects a body index whose position is recorded alongside the
	// series; negative disables tracking.
	Track int
}

// Result is the recorded telemetry of a headless run.
type Result struct {
	Times    []float64
	Energy   []float64
	Momentum []float64
	Tracked  []mgl64.Vec3
	Metrics  map[string]float64
	Steps    int
}

// Run drives the simulation for the configured duration, observing metrics
// every step and sampling the series on the configured stride. The context
// is checked each step; cancellation returns the partial result with the
// context error. Divergence returns the partial result with ErrDiverged.
func Run(ctx context.Context, s *Simulation, ms []metrics.Metric, cfg RunConfig) (*Result, error) {
	steps := int(cfg.Duration / cfg.Dt)
	sampleEvery := cfg.SampleEvery
	if sampleEvery < 1 {
		sampleEvery = 1
	}

	result := &Result{
		Times:    make([]float64, 0, steps/sampleEvery+1),
		Energy:   make([]float64, 0, steps/sampleEvery+1),
		Momentum: make([]float64, 0, steps/sampleEvery+1),
		Metrics:  make(map[string]float64),
	}

	for _, m := range ms {
		m.Reset()
	}

	sample := func(t float64) {
		result.Times = append(result.Times, t)
		result.Energy = append(result.Energy, s.Energy())
		result.Momentum = append(result.Momentum, s.Momentum().Len())
		if cfg.Track >= 0 && cfg.Track < len(s.bodies) {
			result.Tracked = append(result.Tracked, s.bodies[cfg.Track].Position)
		}
	}
	sample(0)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.Step(cfg.Dt)
		result.Steps++
		t := float64(i+1) * cfg.Dt

		for _, m := range ms {
			m.Observe(s.bodies, t)
		}
		if (i+1)%sampleEvery == 0 {
			sample(t)
		}

		if !s.Valid() {
			for _, m := range ms {
				result.Metrics[m.Name()] = m.Value()
			}
			return result, ErrDiverged
		}
	}

	for _, m := range ms {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
