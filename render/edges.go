package render

import (
	"math"

	"github.com/SergiiSharpov/gaspoc"
	"gonum.org/v1/gonum/spatial/r3"
)

// Line3 is a 3D line segment.
type Line3 [2]r3.Vec

const (
	// DefaultEdgeThreshold is the default crease angle in degrees above
	// which an edge shared by two faces is part of the outline.
	DefaultEdgeThreshold = 1.0
	// DefaultWeldTolerance is the default distance under which two
	// vertices are considered the same point when pairing edges.
	DefaultWeldTolerance = 1e-4
)

type edgeKey [2][3]int64

type openEdge struct {
	line   Line3
	normal r3.Vec
	done   bool
}

// Edges returns the outline of a triangle soup: every edge whose two
// adjacent faces meet at an angle larger than thresholdDeg degrees and
// every edge that borders a single face. Vertices closer than weldTol
// are treated as the same vertex. Zero arguments select the defaults.
// Degenerate triangles are ignored.
func Edges(model []Triangle3, thresholdDeg, weldTol float64) []Line3 {
	if thresholdDeg <= 0 {
		thresholdDeg = DefaultEdgeThreshold
	}
	if weldTol <= 0 {
		weldTol = DefaultWeldTolerance
	}
	thresholdDot := math.Cos(gaspoc.DtoR(thresholdDeg))
	ri := 1 / weldTol
	quantize := func(v r3.Vec) [3]int64 {
		v = r3.Scale(ri, v)
		return [3]int64{int64(math.Round(v.X)), int64(math.Round(v.Y)), int64(math.Round(v.Z))}
	}

	var (
		lines []Line3
		open  []openEdge
		// index into open for edges awaiting their second face.
		cache = make(map[edgeKey]int)
	)
	for _, tri := range model {
		n := tri.Normal()
		if n == (r3.Vec{}) {
			continue
		}
		var q [3][3]int64
		for j := range tri {
			q[j] = quantize(tri[j])
		}
		if q[0] == q[1] || q[1] == q[2] || q[2] == q[0] {
			continue
		}
		for j := 0; j < 3; j++ {
			k := (j + 1) % 3
			rev := edgeKey{q[k], q[j]}
			if idx, ok := cache[rev]; ok {
				e := &open[idx]
				if r3.Dot(n, e.normal) <= thresholdDot {
					lines = append(lines, e.line)
				}
				e.done = true
				delete(cache, rev)
				continue
			}
			cache[edgeKey{q[j], q[k]}] = len(open)
			open = append(open, openEdge{line: Line3{tri[j], tri[k]}, normal: n})
		}
	}
	// Edges with a single adjacent face are boundary edges.
	for _, e := range open {
		if !e.done {
			lines = append(lines, e.line)
		}
	}
	return lines
}
