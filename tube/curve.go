package tube

import (
	"errors"
	"math"

	"github.com/SergiiSharpov/gaspoc"
	"github.com/SergiiSharpov/gaspoc/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerateTurn is returned when the three points of a turn do not
// define a corner: one of the legs has zero length or the legs are
// parallel (a straight continuation or a full reversal).
var ErrDegenerateTurn = errors.New("degenerate turn")

// Turn is a circular arc rounding the corner of a path.
// It starts at the trimmed end of the incoming segment and ends at the
// trimmed start of the outgoing segment.
type Turn struct {
	start  r3.Vec // trimmed end of incoming segment.
	origin r3.Vec
	axis1  r3.Vec // origin to start.
	rot    r3.Vec // rotation axis.
	sweep  float64
	d1, d2 r3.Vec // incident directions, normalized.
}

// NewTurn returns the arc rounding corner p2 where p1 lies on the incoming
// segment and p3 on the outgoing one, both at distance radius from p2.
func NewTurn(p1, p2, p3 r3.Vec, radius float64) (Turn, error) {
	const tol = gaspoc.Tolerance
	in := r3.Sub(p2, p1)
	out := r3.Sub(p3, p2)
	if r3.Norm(in) <= tol || r3.Norm(out) <= tol || radius <= 0 {
		return Turn{}, ErrDegenerateTurn
	}
	d1, d2 := r3.Unit(in), r3.Unit(out)
	axis := r3.Cross(d1, d2)
	if r3.Norm(axis) <= tol || !d3.Finite(axis) {
		return Turn{}, ErrDegenerateTurn
	}
	origin := r3.Add(p1, r3.Scale(radius, d2))
	axis1 := r3.Sub(p1, origin)
	axis2 := r3.Sub(p3, origin)
	return Turn{
		start:  p1,
		origin: origin,
		axis1:  axis1,
		rot:    r3.Unit(axis),
		sweep:  gaspoc.Angle(axis1, axis2),
		d1:     d1,
		d2:     d2,
	}, nil
}

// Point returns the point on the arc at fraction f of the sweep.
// Point(0) is p1 and Point(1) is p3.
func (t Turn) Point(f float64) r3.Vec {
	rotated := r3.NewRotation(f*t.sweep, t.rot).Rotate(t.axis1)
	return r3.Add(t.start, r3.Sub(rotated, t.axis1))
}

// Direction returns the sweep direction at fraction f, a linear blend
// of the incoming and outgoing directions. The result is not normalized.
func (t Turn) Direction(f float64) r3.Vec {
	return d3.Lerp(t.d1, t.d2, f)
}

// Sweep returns the angle swept by the arc in radians.
func (t Turn) Sweep() float64 { return t.sweep }

// Origin returns the center of the arc.
func (t Turn) Origin() r3.Vec { return t.origin }

// Length returns the length of the arc.
func (t Turn) Length() float64 {
	return t.sweep * r3.Norm(t.axis1)
}

// CornerAngle returns the angle in radians between the incoming and
// outgoing directions. A straight continuation is 0.
func (t Turn) CornerAngle() float64 {
	return math.Acos(gaspoc.Clamp(r3.Dot(t.d1, t.d2), -1, 1))
}
