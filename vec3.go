package gaspoc

import (
	"math"

	"github.com/SergiiSharpov/gaspoc/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Identity is the rotation that leaves every vector unchanged.
var Identity = r3.Rotation{Real: 1}

// RotateToVec returns the shortest-arc rotation that transforms a onto the same direction as b.
// If a and b are opposite the rotation is half a turn about a fixed axis perpendicular to a,
// see Perpendicular.
func RotateToVec(a, b r3.Vec) r3.Rotation {
	return RotateToVecAbout(a, b, r3.Vec{})
}

// RotateToVecAbout is like RotateToVec but when a and b are opposite it
// turns half a turn about the component of axis perpendicular to a.
// If that component is zero it falls back to Perpendicular(a).
func RotateToVecAbout(a, b, axis r3.Vec) r3.Rotation {
	// is either vector == 0?
	if d3.EqualWithin(a, r3.Vec{}, Tolerance) || d3.EqualWithin(b, r3.Vec{}, Tolerance) {
		return Identity
	}
	// normalize both vectors
	a = r3.Unit(a)
	b = r3.Unit(b)
	cross := r3.Cross(a, b)
	sin := r3.Norm(cross)
	cos := r3.Dot(a, b)
	if sin <= Tolerance {
		if cos > 0 {
			// are the vectors the same?
			return Identity
		}
		// are the vectors opposite (180 degrees apart)?
		perp := r3.Sub(axis, r3.Scale(r3.Dot(axis, a), a))
		if r3.Norm(perp) <= Tolerance || !IsFinite(r3.Norm(perp)) {
			perp = Perpendicular(a)
		}
		return r3.NewRotation(pi, perp)
	}
	return r3.NewRotation(math.Atan2(sin, cos), cross)
}

// Perpendicular returns a unit vector perpendicular to a. The result only
// depends on a so it can break ties deterministically.
func Perpendicular(a r3.Vec) r3.Vec {
	var p r3.Vec
	if math.Abs(a.X) > math.Abs(a.Z) {
		p = r3.Vec{X: -a.Y, Y: a.X}
	} else {
		p = r3.Vec{Y: -a.Z, Z: a.Y}
	}
	if r3.Norm2(p) == 0 {
		// only reached for a == 0.
		p = r3.Vec{X: 1}
	}
	return r3.Unit(p)
}

// Angle returns the unsigned angle between a and b in radians, in [0, pi].
// It is numerically stable for nearly parallel vectors.
func Angle(a, b r3.Vec) float64 {
	return math.Atan2(r3.Norm(r3.Cross(a, b)), r3.Dot(a, b))
}
