package tube

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/SergiiSharpov/gaspoc"
	"gonum.org/v1/gonum/spatial/r3"
)

// AssembleStats describes the pieces a path mesh was built from.
type AssembleStats struct {
	PathLength float64
	Segments   int // straight shells emitted.
	Turns      int // rounded turns emitted.
	// SkippedCorners counts interior waypoints where the path continues
	// straight or reverses and no turn could be built.
	SkippedCorners int
	// SkippedSegments counts zero length segments, usually repeated waypoints.
	SkippedSegments int
}

// Assemble returns the mesh of a pipe of the given radius following path.
// Straight segments are trimmed at interior waypoints and joined by rounded
// turns. V texture coordinates grow with the distance along the untrimmed
// path from 0 at the first waypoint to 1 at the last.
//
// A path with fewer than two points or zero length yields an empty mesh.
func Assemble(path []r3.Vec, radius float64, cfg Config) (*MeshBuffer, error) {
	m, _, err := AssembleWithStats(path, radius, cfg)
	return m, err
}

// AssembleWithStats is Assemble that also reports what was built.
func AssembleWithStats(path []r3.Vec, radius float64, cfg Config) (*MeshBuffer, AssembleStats, error) {
	var stats AssembleStats
	if err := cfg.Validate(); err != nil {
		return nil, stats, err
	}
	if radius <= 0 || !gaspoc.IsFinite(radius) {
		return nil, stats, fmt.Errorf("pipe radius must be positive, got %g", radius)
	}
	if len(path) < 2 {
		return &MeshBuffer{}, stats, nil
	}
	for i, p := range path {
		if !gaspoc.IsFinite(p.X) || !gaspoc.IsFinite(p.Y) || !gaspoc.IsFinite(p.Z) {
			return nil, stats, fmt.Errorf("waypoint %d is not finite: %v", i, p)
		}
	}
	log := cfg.logger()
	pts, cum := dedup(path, cfg.Tolerance)
	stats.SkippedSegments = len(path) - len(pts)
	stats.PathLength = cum[len(cum)-1]
	if len(pts) < 2 || stats.PathLength <= cfg.Tolerance {
		return &MeshBuffer{}, stats, nil
	}
	L := stats.PathLength

	// offsets[i] is how far the segments meeting at pts[i] are trimmed.
	offsets := make([]float64, len(pts))
	// axes[i] is the rotation axis of the turn at pts[i].
	axes := make([]r3.Vec, len(pts))
	for i := 1; i < len(pts)-1; i++ {
		in := r3.Sub(pts[i], pts[i-1])
		out := r3.Sub(pts[i+1], pts[i])
		cross := r3.Norm(r3.Cross(r3.Unit(in), r3.Unit(out)))
		if cross <= cfg.Tolerance {
			stats.SkippedCorners++
			if r3.Dot(in, out) < 0 {
				log.Debug("pipe reverses direction, turn skipped", slog.Int("waypoint", i), slog.Any("at", pts[i]))
			}
			continue
		}
		offsets[i] = math.Min(radius, 0.5*math.Min(r3.Norm(in), r3.Norm(out)))
		axes[i] = r3.Unit(r3.Cross(in, out))
	}

	m := &MeshBuffer{}
	for i := 0; i < len(pts)-1; i++ {
		a, b := pts[i], pts[i+1]
		dir := r3.Unit(r3.Sub(b, a))
		from := r3.Add(a, r3.Scale(offsets[i], dir))
		to := r3.Sub(b, r3.Scale(offsets[i+1], dir))
		if r3.Norm(r3.Sub(to, from)) > cfg.Tolerance {
			// Match the rings of the turn before, else the turn after.
			hint := axes[i]
			if hint == (r3.Vec{}) {
				hint = axes[i+1]
			}
			seg, err := segmentMesh(from, to, hint, radius, L, cum[i]+offsets[i], cfg)
			if err != nil {
				return nil, stats, fmt.Errorf("segment %d: %w", i, err)
			}
			m.Append(seg)
			stats.Segments++
		}
		if i+2 >= len(pts) || offsets[i+1] == 0 {
			continue
		}
		next := r3.Unit(r3.Sub(pts[i+2], b))
		o := offsets[i+1]
		turn, err := NewTurn(to, b, r3.Add(b, r3.Scale(o, next)), o)
		if err != nil {
			// Offsets are only set on proper corners.
			return nil, stats, fmt.Errorf("turn at waypoint %d: %w", i+1, err)
		}
		tm, err := TurnMesh(turn, radius, L, cum[i+1]-o, 2*o, cfg)
		if err != nil {
			return nil, stats, fmt.Errorf("turn at waypoint %d: %w", i+1, err)
		}
		m.Append(tm)
		stats.Turns++
		log.Debug("turn", slog.Int("waypoint", i+1), slog.Float64("angle", gaspoc.RtoD(turn.CornerAngle())), slog.Float64("radius", o))
	}
	log.Debug("assembled pipe",
		slog.Int("waypoints", len(path)),
		slog.Float64("length", L),
		slog.Int("segments", stats.Segments),
		slog.Int("turns", stats.Turns),
		slog.Int("vertices", m.Len()),
	)
	return m, stats, nil
}

// dedup drops consecutive waypoints closer than tol and returns the kept
// points with the cumulative path length at each of them.
func dedup(path []r3.Vec, tol float64) (pts []r3.Vec, cum []float64) {
	pts = append(pts, path[0])
	cum = append(cum, 0)
	for _, p := range path[1:] {
		last := pts[len(pts)-1]
		d := r3.Norm(r3.Sub(p, last))
		if d <= tol {
			continue
		}
		pts = append(pts, p)
		cum = append(cum, cum[len(cum)-1]+d)
	}
	return pts, cum
}
