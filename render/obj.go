package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// OBJWriter writes meshes as named objects of a single Wavefront OBJ file.
// Unlike STL the OBJ format keeps the texture coordinates, which carry
// the along-path flow parametrization of a pipe.
type OBJWriter struct {
	w *bufio.Writer
	// offset is the 1-based index of the next vertex written.
	offset int
}

// NewOBJWriter returns an OBJWriter writing to w. Flush must be called
// once all objects have been written.
func NewOBJWriter(w io.Writer) *OBJWriter {
	return &OBJWriter{w: bufio.NewWriter(w), offset: 1}
}

// WriteObject writes m as object name. Vertices are not shared between
// triangles since normals are flat per face.
func (o *OBJWriter) WriteObject(name string, m VertexData) error {
	n := m.Len()
	if n == 0 {
		return errors.New("empty mesh")
	}
	if n%3 != 0 {
		return fmt.Errorf("mesh %q vertex count %d not a multiple of 3", name, n)
	}
	if name != "" {
		fmt.Fprintf(o.w, "o %s\n", name)
	}
	for i := 0; i < n; i++ {
		p, _, _ := m.Vertex(i)
		fmt.Fprintf(o.w, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	for i := 0; i < n; i++ {
		_, _, uv := m.Vertex(i)
		fmt.Fprintf(o.w, "vt %g %g\n", uv.X, uv.Y)
	}
	for i := 0; i < n; i++ {
		_, nrm, _ := m.Vertex(i)
		fmt.Fprintf(o.w, "vn %g %g %g\n", nrm.X, nrm.Y, nrm.Z)
	}
	for i := 0; i < n; i += 3 {
		a, b, c := o.offset+i, o.offset+i+1, o.offset+i+2
		_, err := fmt.Fprintf(o.w, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		if err != nil {
			return err
		}
	}
	o.offset += n
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (o *OBJWriter) Flush() error {
	return o.w.Flush()
}

// WriteOBJ writes a single mesh to w in Wavefront OBJ format.
func WriteOBJ(w io.Writer, name string, m VertexData) error {
	ow := NewOBJWriter(w)
	if err := ow.WriteObject(name, m); err != nil {
		return err
	}
	return ow.Flush()
}
