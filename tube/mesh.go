package tube

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/SergiiSharpov/gaspoc/internal/d3"
	"github.com/SergiiSharpov/gaspoc/render"
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// MeshBuffer is a non-indexed triangle mesh stored as parallel vertex arrays.
// Every three consecutive vertices form a triangle wound counter-clockwise
// when seen from outside the pipe.
type MeshBuffer struct {
	Positions []r3.Vec
	// Normals are flat per triangle and point out of the pipe.
	Normals []r3.Vec
	// UVs hold U around the pipe in [0,1] and V along the path in [0,1].
	UVs []r2.Vec
}

var _ render.VertexData = (*MeshBuffer)(nil)

// Len returns the number of vertices.
func (m *MeshBuffer) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *MeshBuffer) TriangleCount() int { return m.Len() / 3 }

// IsEmpty returns true if the mesh has no geometry.
func (m *MeshBuffer) IsEmpty() bool { return m.Len() == 0 }

// Vertex returns the attributes of the ith vertex.
func (m *MeshBuffer) Vertex(i int) (position, normal r3.Vec, uv r2.Vec) {
	return m.Positions[i], m.Normals[i], m.UVs[i]
}

// Append concatenates the vertices of b to m.
func (m *MeshBuffer) Append(b *MeshBuffer) {
	if b == nil {
		return
	}
	m.Positions = append(m.Positions, b.Positions...)
	m.Normals = append(m.Normals, b.Normals...)
	m.UVs = append(m.UVs, b.UVs...)
}

// addTriangle appends triangle (a,b,c) with its flat normal.
func (m *MeshBuffer) addTriangle(a, b, c r3.Vec, ua, ub, uc r2.Vec) {
	// Normal is the negated cross product of edges (c-a) and (b-a) which
	// points outwards for counter-clockwise winding.
	n := r3.Scale(-1, r3.Cross(r3.Sub(c, a), r3.Sub(b, a)))
	if norm := r3.Norm(n); norm > 0 {
		n = r3.Scale(1/norm, n)
	}
	m.Positions = append(m.Positions, a, b, c)
	m.Normals = append(m.Normals, n, n, n)
	m.UVs = append(m.UVs, ua, ub, uc)
}

// Clone returns a deep copy of m.
func (m *MeshBuffer) Clone() *MeshBuffer {
	c := &MeshBuffer{}
	c.Append(m)
	return c
}

// Triangles returns the triangles of the mesh.
func (m *MeshBuffer) Triangles() []render.Triangle3 {
	tris := make([]render.Triangle3, m.TriangleCount())
	for i := range tris {
		copy(tris[i][:], m.Positions[3*i:3*i+3])
	}
	return tris
}

// Renderer returns a triangle stream over the mesh.
func (m *MeshBuffer) Renderer() render.Renderer {
	return &meshReader{m: m}
}

type meshReader struct {
	m    *MeshBuffer
	next int // index of next triangle to read
}

func (r *meshReader) ReadTriangles(dst []render.Triangle3) (int, error) {
	total := r.m.TriangleCount()
	if r.next >= total {
		return 0, io.EOF
	}
	n := 0
	for ; n < len(dst) && r.next < total; n++ {
		i := 3 * r.next
		dst[n] = render.Triangle3{r.m.Positions[i], r.m.Positions[i+1], r.m.Positions[i+2]}
		r.next++
	}
	return n, nil
}

// Bounds returns the bounding box of the mesh vertices.
// An empty mesh returns an empty box, see d3.Box.Empty.
func (m *MeshBuffer) Bounds() d3.Box {
	bb := d3.EmptyBox()
	for _, p := range m.Positions {
		bb = bb.Include(p)
	}
	return bb
}

// VRange returns the smallest and largest V texture coordinate.
func (m *MeshBuffer) VRange() (min, max float64) {
	if m.IsEmpty() {
		return 0, 0
	}
	min, max = math.Inf(1), math.Inf(-1)
	for _, uv := range m.UVs {
		min = math.Min(min, uv.Y)
		max = math.Max(max, uv.Y)
	}
	return min, max
}

// Validate checks the parallel arrays are consistent and that no
// attribute is NaN or infinite.
func (m *MeshBuffer) Validate() error {
	n := len(m.Positions)
	if len(m.Normals) != n || len(m.UVs) != n {
		return fmt.Errorf("mismatched mesh arrays: %d positions, %d normals, %d uvs", n, len(m.Normals), len(m.UVs))
	}
	if n%3 != 0 {
		return fmt.Errorf("vertex count %d not a multiple of 3", n)
	}
	for i := 0; i < n; i++ {
		uv := m.UVs[i]
		if !d3.Finite(m.Positions[i]) || !d3.Finite(m.Normals[i]) || !d3.Finite(r3.Vec{X: uv.X, Y: uv.Y}) {
			return fmt.Errorf("vertex %d: %w", i, errNonFinite)
		}
	}
	return nil
}

var errNonFinite = errors.New("inf/NaN vertex attribute")

// EqualWithin returns true if both meshes have the same vertex count and
// all their attributes are within tol of each other.
func (m *MeshBuffer) EqualWithin(b *MeshBuffer, tol float64) bool {
	if m.Len() != b.Len() {
		return false
	}
	for i := 0; i < m.Len(); i++ {
		if !d3.EqualWithin(m.Positions[i], b.Positions[i], tol) ||
			!d3.EqualWithin(m.Normals[i], b.Normals[i], tol) ||
			math.Abs(m.UVs[i].X-b.UVs[i].X) > tol ||
			math.Abs(m.UVs[i].Y-b.UVs[i].Y) > tol {
			return false
		}
	}
	return true
}

// GPUBuffers holds single precision vertex attributes ready to be
// uploaded to a vertex buffer.
type GPUBuffers struct {
	Positions []ms3.Vec
	Normals   []ms3.Vec
	UVs       [][2]float32
}

// Float32 converts the mesh to single precision. It returns an error if any
// attribute does not fit in a float32.
func (m *MeshBuffer) Float32() (GPUBuffers, error) {
	n := m.Len()
	g := GPUBuffers{
		Positions: make([]ms3.Vec, n),
		Normals:   make([]ms3.Vec, n),
		UVs:       make([][2]float32, n),
	}
	for i := 0; i < n; i++ {
		g.Positions[i] = toMS3(m.Positions[i])
		g.Normals[i] = toMS3(m.Normals[i])
		g.UVs[i] = [2]float32{float32(m.UVs[i].X), float32(m.UVs[i].Y)}
		if bad32(g.Positions[i].X, g.Positions[i].Y, g.Positions[i].Z) ||
			bad32(g.Normals[i].X, g.Normals[i].Y, g.Normals[i].Z) ||
			bad32(g.UVs[i][0], g.UVs[i][1]) {
			return GPUBuffers{}, fmt.Errorf("vertex %d: %w", i, errNonFinite)
		}
	}
	return g, nil
}

// Flat returns the buffers as interleaved-free flat arrays:
// 3 floats per position, 3 per normal and 2 per texture coordinate.
func (g GPUBuffers) Flat() (positions, normals, uvs []float32) {
	positions = make([]float32, 0, 3*len(g.Positions))
	normals = make([]float32, 0, 3*len(g.Normals))
	uvs = make([]float32, 0, 2*len(g.UVs))
	for i := range g.Positions {
		p, n, uv := g.Positions[i], g.Normals[i], g.UVs[i]
		positions = append(positions, p.X, p.Y, p.Z)
		normals = append(normals, n.X, n.Y, n.Z)
		uvs = append(uvs, uv[0], uv[1])
	}
	return positions, normals, uvs
}

func toMS3(v r3.Vec) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func bad32(f ...float32) bool {
	for _, v := range f {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return true
		}
	}
	return false
}
