package sim

import "fmt"

// Solver selects the force-evaluation strategy. Both strategies read the
// same body fields and write the same acceleration field, so switching is a
// pure toggle of which routine runs next tick; no state conversion happens.
type Solver int

const (
	// SolverDirect sums every pair exactly. O(n^2), always exact under the
	// model's own softening rule.
	SolverDirect Solver = iota
	// SolverBarnesHut approximates far-field gravity through the octree.
	// O(n log n) typical.
	SolverBarnesHut
)

func (s Solver) String() string {
	switch s {
	case SolverDirect:
		return "direct"
	case SolverBarnesHut:
		return "barneshut"
	default:
		return fmt.Sprintf("solver(%d)", int(s))
	}
}

func ParseSolver(name string) (Solver, error) {
	switch name {
	case "direct", "nbody":
		return SolverDirect, nil
	case "barneshut", "barnes-hut", "bh", "":
		return SolverBarnesHut, nil
	default:
		return SolverBarnesHut, fmt.Errorf("unknown solver: %s", name)
	}
}
