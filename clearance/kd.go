package clearance

import (
	"math"

	"github.com/SergiiSharpov/gaspoc/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface = axisSamples{}
	_ kdtree.Bounder   = axisSamples{}
)

// axisSample is a point on the axis of a pipe, tagged with the path
// segment it was sampled from.
type axisSample struct {
	p   r3.Vec
	seg int
}

type axisSamples []axisSample

func (k axisSamples) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k axisSamples) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k axisSamples) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: d, samples: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k axisSamples) Slice(start, end int) kdtree.Interface {
	return k[start:end]
}

func (k axisSamples) Bounds() *kdtree.Bounding {
	bb := d3.EmptyBox()
	for _, s := range k {
		bb = bb.Include(s.p)
	}
	return &kdtree.Bounding{
		Min: axisSample{p: bb.Min},
		Max: axisSample{p: bb.Max},
	}
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
//
// Given c = a.Compare(b, d):
//
//	c = a_d - b_d
func (a axisSample) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a, b.(axisSample), d)
}

// Dims returns the number of dimensions described in the Comparable.
func (a axisSample) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a axisSample) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.p, b.(axisSample).p))
}

func kdComp(a, b axisSample, dim kdtree.Dim) float64 {
	switch dim {
	case 0:
		return a.p.X - b.p.X
	case 1:
		return a.p.Y - b.p.Y
	case 2:
		return a.p.Z - b.p.Z
	}
	return math.NaN()
}

type kdPlane struct {
	dim     kdtree.Dim
	samples axisSamples
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.samples[i], p.samples[j], p.dim) < 0
}

func (p kdPlane) Swap(i, j int) {
	p.samples[i], p.samples[j] = p.samples[j], p.samples[i]
}

func (p kdPlane) Len() int { return len(p.samples) }

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.samples = p.samples[start:end]
	return p
}
