package game

import "github.com/jakecoffman/cp"

// normalize returns v scaled to unit length, or v unchanged when it has no
// length.
func normalize(v cp.Vector) cp.Vector {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Mult(1 / l)
}

// avoid bends dir away from every other unit within the collision radius.
// Each neighbour adds a unit vector pointing from it toward self, scaled by
// the avoidance weight; the sum is renormalized. Neighbours sitting exactly
// on self contribute nothing.
func (s *Sim) avoid(self *Unit, dir cp.Vector) cp.Vector {
	radius := s.params.CollisionRadius
	for _, other := range s.units {
		if other == self {
			continue
		}
		away := self.Pos.Sub(other.Pos)
		dist := away.Length()
		if dist >= radius || dist == 0 {
			continue
		}
		dir = dir.Add(away.Mult(s.params.AvoidanceWeight / dist))
	}
	return normalize(dir)
}
