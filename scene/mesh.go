package scene

import (
	"github.com/SergiiSharpov/gaspoc/internal/d3"
	"github.com/SergiiSharpov/gaspoc/render"
)

// Mesh is a node drawing a triangle mesh.
type Mesh struct {
	NodeBase
	Geometry render.VertexData
	Material StandardMaterial
}

// NewMesh returns a mesh node drawing geometry with material m.
func NewMesh(name string, geometry render.VertexData, m StandardMaterial) *Mesh {
	return &Mesh{NodeBase: NodeBase{Name: name}, Geometry: geometry, Material: m}
}

// Lines is a node drawing independent line segments.
type Lines struct {
	NodeBase
	Segments []render.Line3
	Material LineMaterial
}

// NewLines returns a line node drawing segments with material m.
func NewLines(name string, segments []render.Line3, m LineMaterial) *Lines {
	return &Lines{NodeBase: NodeBase{Name: name}, Segments: segments, Material: m}
}

// Triangles returns the triangles of every visible mesh under root
// in the coordinates of root.
func Triangles(root Node) []render.Triangle3 {
	var tris []render.Triangle3
	Walk(root, func(n Node, world d3.Transform) error {
		m, ok := n.(*Mesh)
		if !ok || m.Geometry == nil {
			return nil
		}
		for i := 0; i+2 < m.Geometry.Len(); i += 3 {
			var t render.Triangle3
			for j := range t {
				p, _, _ := m.Geometry.Vertex(i + j)
				t[j] = world.Transform(p)
			}
			tris = append(tris, t)
		}
		return nil
	})
	return tris
}

// Count returns the number of visible nodes under root per layer, root included.
func Count(root Node) map[Layer]int {
	count := make(map[Layer]int)
	Walk(root, func(n Node, _ d3.Transform) error {
		count[n.Base().Layer]++
		return nil
	})
	return count
}
