package octree

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/body"
)

// Params are the tuning knobs of the spatial partition. They are threaded
// through the root constructor rather than held as package state so tests
// and sweeps can vary them per tree.
type Params struct {
	// Theta is the Barnes-Hut opening angle: a subtree whose size/distance
	// ratio falls below it is summarized as a single point mass. Smaller is
	// more accurate and slower.
	Theta float64
	// MaxDepth bounds recursion; bodies landing in a full-depth leaf are
	// merged into its aggregate instead of subdividing further.
	MaxDepth int
	// MinNodeSize stops subdivision below this edge length, same merge
	// behavior as MaxDepth.
	MinNodeSize float64
	// Softening is the minimum separation substituted into the inverse
	// square law, matching body.ApplyGravity.
	Softening float64
}

// DefaultParams mirror the tuning the simulation ships with.
func DefaultParams() Params {
	return Params{
		Theta:       0.5,
		MaxDepth:    10,
		MinNodeSize: 0.1,
		Softening:   0.1,
	}
}

// Node is one cube of the octree. A node is a leaf iff it has no children;
// a leaf holds at most one occupant body unless depth or size limits forced
// a merge, in which case TotalMass and CenterOfMass aggregate several bodies
// while the occupant keeps pointing at the first one inserted.
//
// The tree is rebuilt from scratch every tick and must never be retained
// past the body slice it was built from: occupant pointers are non-owning.
type Node struct {
	Center       mgl64.Vec3
	Size         float64
	TotalMass    float64
	CenterOfMass mgl64.Vec3

	children [8]*Node
	occupant *body.Body
	leaf     bool
	depth    int
	params   Params
}

// NewRoot creates an empty root node covering a cube of the given edge
// length centered at center.
func NewRoot(center mgl64.Vec3, size float64, params Params) *Node {
	return &Node{Center: center, Size: size, leaf: true, params: params}
}

// Leaf reports whether the node has no children.
func (n *Node) Leaf() bool { return n.leaf }

// Depth returns the node's distance from the root.
func (n *Node) Depth() int { return n.depth }

// Occupant returns the directly held body, nil for internal or empty nodes.
// Under a depth/size-limited merge this still points at the first body
// inserted even though the aggregate covers more; do not use it for
// identity decisions in that state.
func (n *Node) Occupant() *body.Body { return n.occupant }

// Child returns the i-th octant subtree, nil when the node is a leaf.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Contains reports whether p lies inside this node's cube. The interval is
// half-open per axis, [center-size/2, center+size/2), so a point exactly on
// a shared face belongs to exactly one sibling.
func (n *Node) Contains(p mgl64.Vec3) bool {
	half := n.Size * 0.5
	return p.X() >= n.Center.X()-half && p.X() < n.Center.X()+half &&
		p.Y() >= n.Center.Y()-half && p.Y() < n.Center.Y()+half &&
		p.Z() >= n.Center.Z()-half && p.Z() < n.Center.Z()+half
}

// Octant maps a position to a 3-bit child index: bit 0 for x >= center.x,
// bit 1 for y, bit 2 for z.
func (n *Node) Octant(p mgl64.Vec3) int {
	oct := 0
	if p.X() >= n.Center.X() {
		oct |= 1
	}
	if p.Y() >= n.Center.Y() {
		oct |= 2
	}
	if p.Z() >= n.Center.Z() {
		oct |= 4
	}
	return oct
}

// OctantCenter returns the center of the child cube for the given octant
// index, offset a quarter edge along each axis.
func (n *Node) OctantCenter(oct int) mgl64.Vec3 {
	quarter := n.Size * 0.25
	offset := mgl64.Vec3{-quarter, -quarter, -quarter}
	if oct&1 != 0 {
		offset[0] = quarter
	}
	if oct&2 != 0 {
		offset[1] = quarter
	}
	if oct&4 != 0 {
		offset[2] = quarter
	}
	return n.Center.Add(offset)
}

func (n *Node) subdivide() {
	childSize := n.Size * 0.5
	for i := range n.children {
		n.children[i] = &Node{
			Center: n.OctantCenter(i),
			Size:   childSize,
			leaf:   true,
			depth:  n.depth + 1,
			params: n.params,
		}
	}
}

// Insert places b into the subtree. A body outside the node's cube is
// silently dropped; the caller's bounds computation is responsible for
// padding the root so this does not happen in practice.
func (n *Node) Insert(b *body.Body) {
	if !n.Contains(b.Position) {
		return
	}

	// Empty node: become an occupied leaf.
	if n.TotalMass == 0 {
		n.occupant = b
		n.TotalMass = b.Mass
		n.CenterOfMass = b.Position
		n.leaf = true
		return
	}

	if n.leaf && n.occupant != nil {
		if n.depth >= n.params.MaxDepth || n.Size < n.params.MinNodeSize {
			// Subdivision limit reached: fold the body into the aggregate
			// by weighted average. The occupant keeps pointing at the first
			// body (degenerate leaf).
			newMass := n.TotalMass + b.Mass
			n.CenterOfMass = n.CenterOfMass.Mul(n.TotalMass).
				Add(b.Position.Mul(b.Mass)).
				Mul(1 / newMass)
			n.TotalMass = newMass
			return
		}

		existing := n.occupant
		n.occupant = nil
		n.leaf = false
		n.subdivide()

		n.children[n.Octant(existing.Position)].Insert(existing)
		n.children[n.Octant(b.Position)].Insert(b)
	} else if !n.leaf {
		n.children[n.Octant(b.Position)].Insert(b)
	}

	n.updateAggregate()
}

// updateAggregate recomputes TotalMass and CenterOfMass from the level
// below. Insert calls it on the unwind so aggregates stay consistent
// bottom-up after every structural change.
func (n *Node) updateAggregate() {
	if n.leaf && n.occupant != nil {
		n.TotalMass = n.occupant.Mass
		n.CenterOfMass = n.occupant.Position
		return
	}
	if n.leaf {
		return
	}

	n.TotalMass = 0
	var weighted mgl64.Vec3
	for _, c := range n.children {
		if c == nil || c.TotalMass == 0 {
			continue
		}
		n.TotalMass += c.TotalMass
		weighted = weighted.Add(c.CenterOfMass.Mul(c.TotalMass))
	}
	if n.TotalMass > 0 {
		n.CenterOfMass = weighted.Mul(1 / n.TotalMass)
	} else {
		n.CenterOfMass = n.Center
	}
}

// ComputeForce accumulates this subtree's gravitational pull onto target.
//
// Leaves holding exactly the target contribute nothing. A leaf whose
// aggregate grew past its occupant (merge under depth/size limits) is
// treated as a point mass at its center of mass rather than as the occupant
// body, so the merged mass is not lost. Internal nodes far enough away per
// the opening criterion are likewise summarized as point masses; otherwise
// the traversal recurses.
func (n *Node) ComputeForce(target *body.Body, g float64) {
	if n.TotalMass == 0 {
		return
	}

	if n.leaf {
		if n.occupant == nil {
			return
		}
		if n.occupant == target {
			return
		}
		if n.TotalMass > n.occupant.Mass {
			// Degenerate merged leaf: the occupant no longer represents the
			// whole cell. Apply the aggregate instead.
			n.applyPointMass(target, g)
			return
		}
		target.ApplyGravity(n.occupant, g, n.params.Softening)
		return
	}

	if n.approximates(target.Position) {
		n.applyPointMass(target, g)
		return
	}

	for _, c := range n.children {
		if c != nil {
			c.ComputeForce(target, g)
		}
	}
}

// approximates evaluates the opening criterion size/distance < theta.
// Below the softening floor the node is never summarized; the traversal
// recurses instead of dividing by a near-zero distance.
func (n *Node) approximates(p mgl64.Vec3) bool {
	dist := n.CenterOfMass.Sub(p).Len()
	if dist < n.params.Softening {
		return false
	}
	return n.Size/dist < n.params.Theta
}

// applyPointMass applies the inverse-square law using the node's aggregate
// mass and center of mass, with the same softening clamp as the exact path.
func (n *Node) applyPointMass(target *body.Body, g float64) {
	delta := n.CenterOfMass.Sub(target.Position)
	norm := delta.Len()
	if norm == 0 {
		return
	}
	dist := norm
	if dist < n.params.Softening {
		dist = n.params.Softening
	}
	target.Acceleration = target.Acceleration.
		Add(delta.Mul(g * n.TotalMass / (dist * dist * norm)))
}
