package tube

import (
	"math"

	"github.com/SergiiSharpov/gaspoc"
	"gonum.org/v1/gonum/spatial/r3"
)

// Ring returns the cross-section of a pipe: cfg.Segments points on a circle
// of the given radius around center, in the plane perpendicular to direction.
//
// The ring is built by placing point i at angle i*2π/segments on a canonical
// circle perpendicular to cfg.Up and then applying the shortest-arc rotation
// from cfg.Up onto direction. Point 0 therefore only depends on direction,
// which keeps rings swept along a path from twisting relative to each other.
// Ring returns nil for a zero direction.
func Ring(center, direction r3.Vec, radius float64, cfg Config) []r3.Vec {
	return ringAbout(center, direction, r3.Vec{}, radius, cfg)
}

// ringAbout is Ring with the half turn used for directions opposite to
// cfg.Up taken about hint, see gaspoc.RotateToVecAbout. Rings swept towards
// -Up along a turn converge onto the half turn about the turn's axis, so
// passing that axis keeps them from flipping on the last step.
func ringAbout(center, direction, hint r3.Vec, radius float64, cfg Config) []r3.Vec {
	rot, ok := newRingFrame(direction, hint, cfg)
	if !ok {
		return nil
	}
	ring := make([]r3.Vec, cfg.Segments)
	for i := range ring {
		ring[i] = rot.point(i, center, radius)
	}
	return ring
}

// RingPoint returns point i of Ring(center, direction, radius, cfg).
// The index wraps around so point cfg.Segments is point 0.
func RingPoint(i int, center, direction r3.Vec, radius float64, cfg Config) r3.Vec {
	rot, ok := newRingFrame(direction, r3.Vec{}, cfg)
	if !ok {
		return center
	}
	return rot.point(i, center, radius)
}

// ringFrame maps the canonical XZ circle around +Y onto a plane perpendicular
// to a sweep direction.
type ringFrame struct {
	toUp     r3.Rotation // canonical +Y frame onto cfg.Up.
	toDir    r3.Rotation // cfg.Up onto the sweep direction.
	segments int
}

func newRingFrame(direction, hint r3.Vec, cfg Config) (ringFrame, bool) {
	if r3.Norm(direction) <= cfg.Tolerance || !gaspoc.IsFinite(r3.Norm(direction)) {
		return ringFrame{}, false
	}
	return ringFrame{
		toUp:     gaspoc.RotateToVec(r3.Vec{Y: 1}, cfg.Up),
		toDir:    gaspoc.RotateToVecAbout(cfg.Up, direction, hint),
		segments: cfg.Segments,
	}, true
}

func (f ringFrame) point(i int, center r3.Vec, radius float64) r3.Vec {
	i %= f.segments
	if i < 0 {
		i += f.segments
	}
	angle := float64(i) * gaspoc.Tau / float64(f.segments)
	sin, cos := math.Sincos(angle)
	// (0, radius) rotated by angle in the XZ plane.
	p := r3.Vec{X: -radius * sin, Z: radius * cos}
	p = f.toDir.Rotate(f.toUp.Rotate(p))
	return r3.Add(center, p)
}
