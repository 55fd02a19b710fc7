package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is an affine transform of 3D space: a linear map (rotation
// and scale) followed by a translation.
// The zero value of Transform is the identity transform.
type Transform struct {
	// d is the linear part with the identity subtracted so that the
	// zero value is the identity. Row major.
	d   [3][3]float64
	off r3.Vec
}

// Transform applies the Transform to the argument point.
func (t Transform) Transform(v r3.Vec) r3.Vec {
	return r3.Add(t.Direction(v), t.off)
}

// Direction applies the rotation and scale of the Transform to the
// argument direction, ignoring translation.
func (t Transform) Direction(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: v.X + t.d[0][0]*v.X + t.d[0][1]*v.Y + t.d[0][2]*v.Z,
		Y: v.Y + t.d[1][0]*v.X + t.d[1][1]*v.Y + t.d[1][2]*v.Z,
		Z: v.Z + t.d[2][0]*v.X + t.d[2][1]*v.Y + t.d[2][2]*v.Z,
	}
}

// ComposeTransform returns the transform that scales by scale, rotates
// by q and then moves to position. The zero rotation is treated as no
// rotation. The identity Transform is constructed with
//
//	ComposeTransform(Vec{}, Vec{1,1,1}, Rotation{Real: 1})
func ComposeTransform(position, scale r3.Vec, q r3.Rotation) Transform {
	if q == (r3.Rotation{}) {
		q = r3.Rotation{Real: 1}
	}
	cols := [3]r3.Vec{
		q.Rotate(r3.Vec{X: scale.X}),
		q.Rotate(r3.Vec{Y: scale.Y}),
		q.Rotate(r3.Vec{Z: scale.Z}),
	}
	var m [3][3]float64
	for j, c := range cols {
		m[0][j], m[1][j], m[2][j] = c.X, c.Y, c.Z
	}
	return fromLinear(m, position)
}

// Translate returns t followed by a translation by v.
func (t Transform) Translate(v r3.Vec) Transform {
	t.off = r3.Add(t.off, v)
	return t
}

// Mul returns the transform applying b first and then t.
func (t Transform) Mul(b Transform) Transform {
	ta, tb := t.linear(), b.linear()
	var m [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = ta[i][0]*tb[0][j] + ta[i][1]*tb[1][j] + ta[i][2]*tb[2][j]
		}
	}
	return fromLinear(m, t.Transform(b.off))
}

// IsIdentity returns true if the Transform leaves every point unchanged.
func (t Transform) IsIdentity() bool { return t == (Transform{}) }

func (t Transform) linear() (m [3][3]float64) {
	m = t.d
	for i := range m {
		m[i][i]++
	}
	return m
}

func fromLinear(m [3][3]float64, off r3.Vec) Transform {
	for i := range m {
		m[i][i]--
	}
	return Transform{d: m, off: off}
}

// equals tests the equality of the Transforms to within a tolerance.
func (t Transform) equals(b Transform, tolerance float64) bool {
	for i := range t.d {
		for j := range t.d[i] {
			if math.Abs(t.d[i][j]-b.d[i][j]) > tolerance {
				return false
			}
		}
	}
	return EqualWithin(t.off, b.off, tolerance)
}
