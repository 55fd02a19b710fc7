// Package render converts generated pipe meshes into triangle streams and
// writes them out in common interchange formats (binary STL, Wavefront OBJ).
// It also derives the outline edges drawn over a mesh.
package render

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a 3D triangle. Vertices are wound counter-clockwise
// when viewed from the front face.
type Triangle3 [3]r3.Vec

// Renderer is a stream of triangles. ReadTriangles fills dst and returns
// the number of triangles written. It returns io.EOF once the stream
// is exhausted.
type Renderer interface {
	ReadTriangles(dst []Triangle3) (int, error)
}

// VertexData is a non-indexed triangle mesh with per-vertex normals and
// texture coordinates. Every three consecutive vertices form a triangle.
type VertexData interface {
	Len() int
	Vertex(i int) (position, normal r3.Vec, uv r2.Vec)
}

// Normal returns the normal vector to the plane defined by the 3D triangle.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	n := r3.Cross(e1, e2)
	if r3.Norm2(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// Degenerate returns true if the triangle is degenerate.
func (t Triangle3) Degenerate(tol float64) bool {
	// check for identical vertices.
	return equalWithin(t[0], t[1], tol) ||
		equalWithin(t[1], t[2], tol) ||
		equalWithin(t[2], t[0], tol)
}

// Centroid returns the mean of the triangle's vertices.
func (t Triangle3) Centroid() r3.Vec {
	return r3.Scale(1./3., r3.Add(r3.Add(t[0], t[1]), t[2]))
}

func equalWithin(a, b r3.Vec, tol float64) bool {
	d := r3.Sub(a, b)
	return d.X <= tol && d.X >= -tol &&
		d.Y <= tol && d.Y >= -tol &&
		d.Z <= tol && d.Z >= -tol
}
