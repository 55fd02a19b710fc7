package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

// CreateSTL writes the triangles of a Renderer to a binary STL file at path.
func CreateSTL(path string, r Renderer) error {
	return createSTL(path, r)
}

// WriteSTL writes model triangles to a writer in STL file format.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	nt := int64(len(model)) // int64 cast so that next line works correctly on 32bit machines.
	if nt > math.MaxUint32 {
		return errors.New("amount of triangles in model exceeds STL design limits")
	}
	header := stlHeader{
		Count: uint32(nt), // size of stl triangles is 50
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var b [stlTriangleSize]byte
	for _, triangle := range model {
		toSTLTriangle(triangle).put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// ReadSTL reads a binary STL file's triangles. Triangles whose stored normal
// disagrees with the normal calculated from the vertices are returned
// together with an error wrapping ErrNormalMismatch.
func ReadSTL(r io.Reader) ([]Triangle3, error) {
	return readBinarySTL(r)
}

// ErrNormalMismatch is returned by ReadSTL when stored normals are
// not approximately equal to the normals calculated from the vertices.
var ErrNormalMismatch = errors.New("triangle normal not approximately equal to calculated normal from vertices")

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

const (
	stlTriangleSize   = 50
	sizeOfSTLHeader   = 84
	trianglesInBuffer = 1 << 10
)

type stlReader struct {
	r   Renderer
	buf [trianglesInBuffer]Triangle3
}

func (w *stlReader) Read(b []byte) (int, error) {
	ntMax := min(len(b)/stlTriangleSize, len(w.buf))

	if ntMax == 0 {
		return 0, errors.New("stlReader requires at least 50 bytes to write a single triangle")
	}

	var (
		err error
		it  int // Number of triangles written to byte buffer
		nt  int // number of triangles read during ReadTriangles
	)

	for it < ntMax && err == nil {
		// remaining space in byte buffer for triangles and prevent overflow.
		remaining := ntMax - it
		nt, err = w.r.ReadTriangles(w.buf[:remaining])
		if nt > remaining {
			panic("bug: ReadTriangles read more triangles than available in buffer")
		}
		for _, triangle := range w.buf[:nt] {
			toSTLTriangle(triangle).put(b[it*stlTriangleSize:])
			it++
		}
	}
	return it * stlTriangleSize, err
}

func createSTL(path string, r Renderer) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	// Do not write header.
	_, err = file.Seek(sizeOfSTLHeader, 0)
	if err != nil {
		return err
	}
	rd := &stlReader{
		r: r,
	}
	n, err := io.CopyBuffer(file, rd, make([]byte, stlTriangleSize*trianglesInBuffer))
	if err != nil {
		return err
	}
	_, err = file.Seek(0, 0)
	if err != nil {
		return err
	}
	header := stlHeader{
		Count: uint32(n / stlTriangleSize),
	}
	if err = binary.Write(file, binary.LittleEndian, &header); err != nil {
		return err
	}
	return file.Close()
}

func readBinarySTL(r io.Reader) (output []Triangle3, readErr error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.New("encountered EOF while reading STL header")
		}
		return nil, errors.New("STL header read failed: " + err.Error())
	}
	if header.Count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	var (
		buf            [stlTriangleSize]byte
		d              stlTriangle
		i              int
		normMismatches int
	)
	defer func() {
		if readErr != nil && !errors.Is(readErr, ErrNormalMismatch) {
			readErr = fmt.Errorf("%d/%d STL triangles read: %w", i+1, header.Count, readErr)
		}
	}()
	output = make([]Triangle3, 0, header.Count)
	for i = 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		d.get(buf[:])
		if err := d.validate(); err != nil {
			if !errors.Is(err, ErrNormalMismatch) {
				return nil, err
			}
			normMismatches++
		}
		output = append(output, d.toTriangle3())
	}
	if normMismatches > 0 {
		// This may be valid output, so we return the triangles.
		return output, fmt.Errorf("%d of %d triangles: %w", normMismatches, header.Count, ErrNormalMismatch)
	}
	return output, nil
}

// stlTriangle is a triangle as stored in a binary STL file: the facet
// normal followed by the three vertices. The attribute byte count is
// always written as zero.
type stlTriangle [4][3]float32

func toSTLTriangle(t Triangle3) (d stlTriangle) {
	d[0] = to3F32(t.Normal())
	for i, v := range t {
		d[i+1] = to3F32(v)
	}
	return d
}

func to3F32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func (d stlTriangle) normal() [3]float32 { return d[0] }

func (d stlTriangle) put(b []byte) {
	_ = b[stlTriangleSize-1] // early bounds check
	for i, v := range d {
		for j, f := range v {
			binary.LittleEndian.PutUint32(b[12*i+4*j:], math.Float32bits(f))
		}
	}
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (d *stlTriangle) get(b []byte) {
	_ = b[stlTriangleSize-1] // early bounds check
	for i := range d {
		for j := range d[i] {
			d[i][j] = math.Float32frombits(binary.LittleEndian.Uint32(b[12*i+4*j:]))
		}
	}
}

func (d stlTriangle) validate() error {
	const normTol = 5e-2
	for i, v := range d {
		if math32.IsNaN(v[0]) || math32.IsInf(v[0], 0) ||
			math32.IsNaN(v[1]) || math32.IsInf(v[1], 0) ||
			math32.IsNaN(v[2]) || math32.IsInf(v[2], 0) {
			if i == 0 {
				return errors.New("inf/NaN STL triangle normal")
			}
			return errors.New("inf/NaN STL triangle vertex")
		}
	}
	t := d.toTriangle3()
	if t.Degenerate(1e-12) {
		return errors.New("triangle is degenerate")
	}
	calc := to3F32(t.Normal())
	flipped := [3]float32{-calc[0], -calc[1], -calc[2]}
	if !equalWithin3F32(calc, d.normal(), normTol) && !equalWithin3F32(flipped, d.normal(), normTol) {
		return ErrNormalMismatch // sometimes may fail
	}
	return nil
}

func equalWithin3F32(a, b [3]float32, tol float32) bool {
	return math32.Abs(a[0]-b[0]) <= tol &&
		math32.Abs(a[1]-b[1]) <= tol &&
		math32.Abs(a[2]-b[2]) <= tol
}

func (d stlTriangle) toTriangle3() (t Triangle3) {
	for i := range t {
		v := d[i+1]
		t[i] = r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
	}
	return t
}
