package tube

import (
	"fmt"

	"github.com/SergiiSharpov/gaspoc"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// SegmentMesh returns the lateral surface of a straight pipe segment
// between from and to. The V texture coordinate of the from ring is
// startDistance/pathLength and increases with the length of the segment.
func SegmentMesh(from, to r3.Vec, radius, pathLength, startDistance float64, cfg Config) (*MeshBuffer, error) {
	return segmentMesh(from, to, r3.Vec{}, radius, pathLength, startDistance, cfg)
}

// segmentMesh is SegmentMesh with the rings of segments running opposite
// to cfg.Up oriented about hint, the axis of an adjoining turn.
func segmentMesh(from, to, hint r3.Vec, radius, pathLength, startDistance float64, cfg Config) (*MeshBuffer, error) {
	if err := checkShell(radius, pathLength, cfg); err != nil {
		return nil, err
	}
	dir := r3.Sub(to, from)
	length := r3.Norm(dir)
	if length <= cfg.Tolerance {
		return nil, gaspoc.ErrMsg("segment start and end coincide")
	}
	a := ringAbout(from, dir, hint, radius, cfg)
	b := ringAbout(to, dir, hint, radius, cfg)
	m := &MeshBuffer{}
	m.shell(a, b, startDistance/pathLength, (startDistance+length)/pathLength)
	return m, nil
}

func checkShell(radius, pathLength float64, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if radius <= 0 {
		return fmt.Errorf("pipe radius must be positive, got %g", radius)
	}
	if pathLength <= 0 {
		return fmt.Errorf("path length must be positive, got %g", pathLength)
	}
	return nil
}

// shell appends the triangles joining ring a at V=v0 to ring b at V=v1.
// Both rings must have the same number of points.
func (m *MeshBuffer) shell(a, b []r3.Vec, v0, v1 float64) {
	s := len(a)
	fs := float64(s)
	m.grow(6 * s)
	for i := 0; i < s; i++ {
		j := (i + 1) % s
		u0, u1 := float64(i)/fs, float64(i+1)/fs
		m.addTriangle(a[i], b[i], a[j],
			r2.Vec{X: u0, Y: v0}, r2.Vec{X: u0, Y: v1}, r2.Vec{X: u1, Y: v0})
		m.addTriangle(b[i], b[j], a[j],
			r2.Vec{X: u0, Y: v1}, r2.Vec{X: u1, Y: v1}, r2.Vec{X: u1, Y: v0})
	}
}

// grow ensures space for n more vertices.
func (m *MeshBuffer) grow(n int) {
	if cap(m.Positions)-len(m.Positions) >= n {
		return
	}
	l := len(m.Positions)
	m.Positions = append(make([]r3.Vec, 0, l+n), m.Positions...)
	m.Normals = append(make([]r3.Vec, 0, l+n), m.Normals...)
	m.UVs = append(make([]r2.Vec, 0, l+n), m.UVs...)
}
