package body

import "github.com/go-gl/mathgl/mgl64"

// Conserved-quantity helpers over a body set. These are diagnostics: the
// integrator does not conserve energy exactly, and the metrics built on
// top of these report how far it drifts.

// SystemEnergy returns kinetic plus pairwise potential energy. The same
// softening floor used by the force law clamps small separations so the
// potential stays bounded for near-coincident bodies.
func SystemEnergy(bodies []*Body, g, softening float64) float64 {
	ke := 0.0
	pe := 0.0

	for i, bi := range bodies {
		v := bi.Velocity.Len()
		ke += 0.5 * bi.Mass * v * v

		for _, bj := range bodies[i+1:] {
			r := bj.Position.Sub(bi.Position).Len()
			if r < softening {
				r = softening
			}
			pe -= g * bi.Mass * bj.Mass / r
		}
	}

	return ke + pe
}

// SystemMomentum returns the total linear momentum. Fixed bodies carry no
// momentum regardless of their stored velocity.
func SystemMomentum(bodies []*Body) mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range bodies {
		if b.Fixed {
			continue
		}
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p
}

// SystemAngularMomentum returns the total angular momentum about the origin.
func SystemAngularMomentum(bodies []*Body) mgl64.Vec3 {
	var l mgl64.Vec3
	for _, b := range bodies {
		if b.Fixed {
			continue
		}
		l = l.Add(b.Position.Cross(b.Velocity.Mul(b.Mass)))
	}
	return l
}

// CenterOfMass returns the mass-weighted mean position of the set. An empty
// set yields the origin.
func CenterOfMass(bodies []*Body) mgl64.Vec3 {
	var weighted mgl64.Vec3
	total := 0.0
	for _, b := range bodies {
		weighted = weighted.Add(b.Position.Mul(b.Mass))
		total += b.Mass
	}
	if total == 0 {
		return mgl64.Vec3{}
	}
	return weighted.Mul(1 / total)
}
