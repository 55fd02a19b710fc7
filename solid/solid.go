// Package solid builds watertight solids of pipes for fabrication and
// 3D printing. Unlike the pipe surfaces built for display, which are open
// at both ends, a solid is closed and can be sliced.
package solid

import (
	"errors"
	"fmt"

	"github.com/SergiiSharpov/gaspoc"
	"github.com/SergiiSharpov/gaspoc/render"
	sdfrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultMeshCells is the number of marching cubes cells along the longest
// side of a solid's bounding box.
const DefaultMeshCells = 200

// Pipe returns the solid of a pipe of the given radius following path: a
// cylinder along every segment with a sphere joining them at every waypoint.
func Pipe(path []r3.Vec, radius float64) (sdf.SDF3, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("pipe radius must be positive, got %g", radius)
	}
	var parts []sdf.SDF3
	for i := 0; i < len(path)-1; i++ {
		a, b := path[i], path[i+1]
		if !gaspoc.IsFinite(r3.Norm(a)) || !gaspoc.IsFinite(r3.Norm(b)) {
			return nil, fmt.Errorf("waypoint %d is not finite", i)
		}
		dir := r3.Sub(b, a)
		length := r3.Norm(dir)
		if length <= gaspoc.Tolerance {
			continue
		}
		cyl, err := sdf.Cylinder3D(length, radius, 0)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		mid := r3.Scale(0.5, r3.Add(a, b))
		m := sdf.Translate3d(toV3(mid)).Mul(sdf.RotateToVector(v3.Vec{Z: 1}, toV3(dir)))
		parts = append(parts, sdf.Transform3D(cyl, m))
		if i > 0 {
			// Round the joint with the previous segment.
			ball, err := sdf.Sphere3D(radius)
			if err != nil {
				return nil, err
			}
			parts = append(parts, sdf.Transform3D(ball, sdf.Translate3d(toV3(a))))
		}
	}
	if len(parts) == 0 {
		return nil, errors.New("pipe path has no length")
	}
	return sdf.Union3D(parts...), nil
}

// Bored returns s with a bore of diameter bore drilled along path. The bore
// runs past both ends of path so a pipe solid built on the same path stays
// open at its ends. It fails if the bore would break out of s.
func Bored(s sdf.SDF3, path []r3.Vec, bore float64) (sdf.SDF3, error) {
	if bore <= 0 {
		return nil, fmt.Errorf("bore diameter must be positive, got %g", bore)
	}
	if len(path) < 2 {
		return nil, errors.New("bore path needs two waypoints")
	}
	ext := append([]r3.Vec(nil), path...)
	if d, ok := endDirection(ext[0], ext[1:]); ok {
		ext[0] = r3.Add(ext[0], r3.Scale(bore, d))
	}
	n := len(ext)
	if d, ok := endDirection(ext[n-1], reversed(ext[:n-1])); ok {
		ext[n-1] = r3.Add(ext[n-1], r3.Scale(bore, d))
	}
	inner, err := Pipe(ext, bore/2)
	if err != nil {
		return nil, fmt.Errorf("bore: %w", err)
	}
	// The bore surface halfway along every segment must lie inside s.
	for i := 0; i < len(path)-1; i++ {
		dir := r3.Sub(path[i+1], path[i])
		if r3.Norm(dir) <= gaspoc.Tolerance {
			continue
		}
		mid := r3.Scale(0.5, r3.Add(path[i], path[i+1]))
		side := r3.Scale(bore/2, gaspoc.Perpendicular(dir))
		if Distance(s, r3.Add(mid, side)) >= 0 {
			return nil, fmt.Errorf("bore of diameter %g breaks through the wall of segment %d", bore, i)
		}
	}
	return sdf.Difference3D(s, inner), nil
}

// endDirection returns the unit direction from the first of rest that is
// apart from end towards end.
func endDirection(end r3.Vec, rest []r3.Vec) (r3.Vec, bool) {
	for _, p := range rest {
		d := r3.Sub(end, p)
		if r3.Norm(d) > gaspoc.Tolerance {
			return r3.Unit(d), true
		}
	}
	return r3.Vec{}, false
}

func reversed(pts []r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// Triangles renders s into a closed triangle mesh using marching cubes with
// cells cells along the longest side of its bounding box.
func Triangles(s sdf.SDF3, cells int) []render.Triangle3 {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	tris := sdfrender.ToTriangles(s, sdfrender.NewMarchingCubesUniform(cells))
	model := make([]render.Triangle3, 0, len(tris))
	for _, tri := range tris {
		t := render.Triangle3{toR3(tri[0]), toR3(tri[1]), toR3(tri[2])}
		if t.Degenerate(0) {
			continue
		}
		model = append(model, t)
	}
	return model
}

// Distance returns the signed distance from p to the surface of s,
// negative inside.
func Distance(s sdf.SDF3, p r3.Vec) float64 {
	return s.Evaluate(toV3(p))
}

func toV3(v r3.Vec) v3.Vec { return v3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

func toR3(v v3.Vec) r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }
