package octree_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/octree"
)

func newBody(pos mgl64.Vec3, mass float64) *body.Body {
	return body.New(pos, mgl64.Vec3{}, mass, 1.0, mgl64.Vec3{}, false)
}

var _ = Describe("Node", func() {
	var params octree.Params

	BeforeEach(func() {
		params = octree.DefaultParams()
	})

	Describe("Contains", func() {
		It("treats the cube as half-open per axis", func() {
			root := octree.NewRoot(mgl64.Vec3{}, 10, params)

			Expect(root.Contains(mgl64.Vec3{-5, 0, 0})).To(BeTrue())
			Expect(root.Contains(mgl64.Vec3{5, 0, 0})).To(BeFalse())
			Expect(root.Contains(mgl64.Vec3{4.999, 4.999, 4.999})).To(BeTrue())
		})

		It("assigns a point on a shared face to exactly one child", func() {
			root := octree.NewRoot(mgl64.Vec3{}, 10, params)
			root.Insert(newBody(mgl64.Vec3{-2, -2, -2}, 1))
			root.Insert(newBody(mgl64.Vec3{2, 2, 2}, 1))

			// x=0 sits on the face between the low-x and high-x octants.
			p := mgl64.Vec3{0, 1, 1}
			owners := 0
			for i := 0; i < 8; i++ {
				if c := root.Child(i); c != nil && c.Contains(p) {
					owners++
				}
			}
			Expect(owners).To(Equal(1))
		})
	})

	Describe("Octant", func() {
		It("maps axis comparisons onto index bits", func() {
			root := octree.NewRoot(mgl64.Vec3{}, 10, params)

			Expect(root.Octant(mgl64.Vec3{-1, -1, -1})).To(Equal(0))
			Expect(root.Octant(mgl64.Vec3{1, -1, -1})).To(Equal(1))
			Expect(root.Octant(mgl64.Vec3{-1, 1, -1})).To(Equal(2))
			Expect(root.Octant(mgl64.Vec3{-1, -1, 1})).To(Equal(4))
			Expect(root.Octant(mgl64.Vec3{1, 1, 1})).To(Equal(7))
			// Ties break toward the upper octant.
			Expect(root.Octant(mgl64.Vec3{0, 0, 0})).To(Equal(7))
		})
	})

	Describe("Insert", func() {
		It("stores a single body as an occupied leaf", func() {
			root := octree.NewRoot(mgl64.Vec3{}, 10, params)
			b := newBody(mgl64.Vec3{1, 2, 3}, 4)

			root.Insert(b)

			Expect(root.Leaf()).To(BeTrue())
			Expect(root.Occupant()).To(BeIdenticalTo(b))
			Expect(root.TotalMass).To(Equal(4.0))
			Expect(root.CenterOfMass).To(Equal(b.Position))
		})

		It("silently drops a body outside the root cube", func() {
			root := octree.NewRoot(mgl64.Vec3{}, 10, params)
			root.Insert(newBody(mgl64.Vec3{100, 0, 0}, 7))

			Expect(root.TotalMass).To(BeZero())
			Expect(root.Occupant()).To(BeNil())
		})

		It("subdivides when a second body arrives", func() {
			root := octree.NewRoot(mgl64.Vec3{}, 10, params)
			a := newBody(mgl64.Vec3{-2, -2, -2}, 1)
			b := newBody(mgl64.Vec3{2, 2, 2}, 3)

			root.Insert(a)
			root.Insert(b)

			Expect(root.Leaf()).To(BeFalse())
			Expect(root.Occupant()).To(BeNil())
			Expect(root.TotalMass).To(Equal(4.0))

			// COM = (1*(-2,-2,-2) + 3*(2,2,2)) / 4 = (1,1,1).
			Expect(root.CenterOfMass.Sub(mgl64.Vec3{1, 1, 1}).Len()).To(BeNumerically("<", 1e-12))
		})

		It("conserves mass and center of mass over many inserts", func() {
			rng := rand.New(rand.NewSource(42))
			root := octree.NewRoot(mgl64.Vec3{}, 200, params)

			total := 0.0
			var weighted mgl64.Vec3
			for i := 0; i < 300; i++ {
				pos := mgl64.Vec3{
					(rng.Float64() - 0.5) * 180,
					(rng.Float64() - 0.5) * 180,
					(rng.Float64() - 0.5) * 180,
				}
				mass := 0.1 + rng.Float64()*10
				root.Insert(newBody(pos, mass))
				total += mass
				weighted = weighted.Add(pos.Mul(mass))
			}

			Expect(root.TotalMass).To(BeNumerically("~", total, 1e-9))
			com := weighted.Mul(1 / total)
			Expect(root.CenterOfMass.Sub(com).Len()).To(BeNumerically("<", 1e-9))
		})

		It("merges into the aggregate at the depth limit", func() {
			params.MaxDepth = 0
			root := octree.NewRoot(mgl64.Vec3{}, 10, params)

			root.Insert(newBody(mgl64.Vec3{-1, 0, 0}, 1))
			root.Insert(newBody(mgl64.Vec3{1, 0, 0}, 3))

			// Still a leaf: the limit forbade subdivision.
			Expect(root.Leaf()).To(BeTrue())
			Expect(root.TotalMass).To(Equal(4.0))
			// COM = (1*(-1) + 3*1)/4 = 0.5 along x.
			Expect(root.CenterOfMass.X()).To(BeNumerically("~", 0.5, 1e-12))
			// The occupant keeps pointing at the first body inserted.
			Expect(root.Occupant().Mass).To(Equal(1.0))
		})

		It("merges when the node is below the minimum size", func() {
			params.MinNodeSize = 100
			root := octree.NewRoot(mgl64.Vec3{}, 10, params)

			root.Insert(newBody(mgl64.Vec3{-1, 0, 0}, 2))
			root.Insert(newBody(mgl64.Vec3{1, 0, 0}, 2))

			Expect(root.Leaf()).To(BeTrue())
			Expect(root.TotalMass).To(Equal(4.0))
		})
	})

	Describe("ComputeForce", func() {
		It("never lets a body attract itself", func() {
			root := octree.NewRoot(mgl64.Vec3{}, 10, params)
			b := newBody(mgl64.Vec3{1, 1, 1}, 5)
			root.Insert(b)

			root.ComputeForce(b, 0.1)

			Expect(b.Acceleration.Len()).To(BeZero())
		})

		It("applies the aggregate of a merged leaf, not just the occupant", func() {
			params.MaxDepth = 0
			root := octree.NewRoot(mgl64.Vec3{}, 10, params)
			root.Insert(newBody(mgl64.Vec3{1, 0, 0}, 1))
			root.Insert(newBody(mgl64.Vec3{1, 0, 0.5}, 9))

			target := newBody(mgl64.Vec3{-4, 0, 0}, 1)
			root.ComputeForce(target, 0.1)

			// Pull reflects the merged 10 units of mass, far above what the
			// 1-unit occupant alone would produce.
			dist := root.CenterOfMass.Sub(target.Position).Len()
			want := 0.1 * 10.0 / (dist * dist)
			Expect(target.Acceleration.Len()).To(BeNumerically("~", want, 1e-9))
		})

		It("matches direct summation closely at small theta", func() {
			rng := rand.New(rand.NewSource(7))
			params.Theta = 0.1

			bodies := make([]*body.Body, 0, 100)
			root := octree.NewRoot(mgl64.Vec3{}, 400, params)
			for i := 0; i < 100; i++ {
				b := newBody(mgl64.Vec3{
					(rng.Float64() - 0.5) * 150,
					(rng.Float64() - 0.5) * 150,
					(rng.Float64() - 0.5) * 150,
				}, 0.5+rng.Float64()*5)
				bodies = append(bodies, b)
				root.Insert(b)
			}

			target := bodies[0]
			root.ComputeForce(target, 0.1)
			approx := target.Acceleration

			target.Acceleration = mgl64.Vec3{}
			for _, other := range bodies {
				target.ApplyGravity(other, 0.1, params.Softening)
			}
			exact := target.Acceleration

			rel := approx.Sub(exact).Len() / exact.Len()
			Expect(rel).To(BeNumerically("<", 0.02))
		})

		It("summarizes distant clusters as point masses", func() {
			params.Theta = 0.9
			root := octree.NewRoot(mgl64.Vec3{}, 1000, params)

			// Tight far-away cluster.
			cluster := []mgl64.Vec3{
				{400, 0, 0}, {401, 0, 0}, {400, 1, 0}, {400, 0, 1},
			}
			total := 0.0
			for _, p := range cluster {
				root.Insert(newBody(p, 2))
				total += 2
			}

			target := newBody(mgl64.Vec3{-400, 0, 0}, 1)
			root.ComputeForce(target, 0.1)

			dist := root.CenterOfMass.Sub(target.Position).Len()
			want := 0.1 * total / (dist * dist)
			Expect(target.Acceleration.Len()).To(BeNumerically("~", want, want*0.01))
		})
	})
})
