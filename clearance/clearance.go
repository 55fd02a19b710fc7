// Package clearance finds pipes of a plant that run into each other.
//
// Every pipe's axis is sampled into a k-d tree. Points on the surface of
// every other pipe are then looked up in the tree and measured against the
// nearest stretch of axis: a point closer to the axis than the pipe's
// radius lies inside that pipe.
package clearance

import (
	"fmt"
	"math"
	"sort"

	"github.com/SergiiSharpov/gaspoc/internal/d3"
	"github.com/SergiiSharpov/gaspoc/render"
	"github.com/SergiiSharpov/gaspoc/tube"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// Body is a pipe placed in the plant, in plant coordinates.
type Body struct {
	Name   string
	Radius float64
	// Axis is the pipe's path.
	Axis []r3.Vec
	// Surface holds points on the pipe's surface, see SampleSurface.
	Surface []r3.Vec
}

// FromTube returns the body of a built tube placed by its scene node.
func FromTube(name string, t *tube.Tube) (Body, error) {
	m := t.Mesh()
	if m == nil || m.IsEmpty() {
		return Body{}, fmt.Errorf("tube %q has no mesh, call Make first", name)
	}
	world := t.Node().World()
	tris := m.Triangles()
	if !world.IsIdentity() {
		for i := range tris {
			for j := range tris[i] {
				tris[i][j] = world.Transform(tris[i][j])
			}
		}
	}
	b := Body{
		Name:    name,
		Radius:  t.Radius(),
		Axis:    transform(world, t.Path()),
		Surface: SampleSurface(tris, t.Radius()/2),
	}
	return b, nil
}

// SampleSurface returns points along the edges of the triangles spaced at
// most step apart. Pipe segments are meshed with triangles as long as the
// segment so their vertices alone miss pipes crossing mid-segment.
func SampleSurface(tris []render.Triangle3, step float64) []r3.Vec {
	var pts []r3.Vec
	for _, tri := range tris {
		for j := range tri {
			a, b := tri[j], tri[(j+1)%3]
			n := int(math.Ceil(r3.Norm(r3.Sub(b, a)) / step))
			for k := 0; k < n; k++ {
				pts = append(pts, d3.Lerp(a, b, float64(k)/float64(n)))
			}
		}
	}
	return pts
}

func transform(t d3.Transform, pts []r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(pts))
	if t.IsIdentity() {
		copy(out, pts)
		return out
	}
	for i, p := range pts {
		out[i] = t.Transform(p)
	}
	return out
}

// Clash is an interference between two pipes.
type Clash struct {
	A, B string
	// At is the point of A deepest inside B.
	At r3.Vec
	// Depth is how far At lies inside B's surface.
	Depth float64
}

func (c Clash) String() string {
	return fmt.Sprintf("%s runs into %s at %.3g (depth %.3g)", c.A, c.B, c.At, c.Depth)
}

// Check returns the clashes between every pair of bodies, at most one per
// ordered pair, sorted by decreasing depth. Points penetrating less than
// tol are ignored so pipes that merely touch do not clash.
func Check(bodies []Body, tol float64) []Clash {
	indices := make([]*index, len(bodies))
	for i, b := range bodies {
		indices[i] = newIndex(b)
	}
	var clashes []Clash
	for i, a := range bodies {
		for j, idx := range indices {
			if i == j || idx == nil {
				continue
			}
			if c, ok := idx.deepest(a, tol); ok {
				clashes = append(clashes, c)
			}
		}
	}
	sort.SliceStable(clashes, func(i, j int) bool { return clashes[i].Depth > clashes[j].Depth })
	return clashes
}

type index struct {
	body Body
	tree *kdtree.Tree
	// bounds encloses the body's surface.
	bounds d3.Box
}

func newIndex(b Body) *index {
	if len(b.Axis) < 2 || b.Radius <= 0 {
		return nil
	}
	step := b.Radius / 2
	bounds := d3.EmptyBox()
	for _, p := range b.Axis {
		bounds = bounds.Extend(d3.NewBox(p, d3.Elem(2*b.Radius)))
	}
	var samples axisSamples
	for i := 0; i < len(b.Axis)-1; i++ {
		a, c := b.Axis[i], b.Axis[i+1]
		n := int(math.Ceil(r3.Norm(r3.Sub(c, a)) / step))
		for k := 0; k <= n; k++ {
			f := 0.0
			if n > 0 {
				f = float64(k) / float64(n)
			}
			samples = append(samples, axisSample{p: d3.Lerp(a, c, f), seg: i})
		}
	}
	return &index{body: b, tree: kdtree.New(samples, false), bounds: bounds}
}

// distance returns the distance from p to the axis near the sample closest to p.
func (idx *index) distance(p r3.Vec) float64 {
	got, _ := idx.tree.Nearest(axisSample{p: p})
	s := got.(axisSample)
	d := segmentDistance(p, idx.body.Axis[s.seg], idx.body.Axis[s.seg+1])
	// Samples at a waypoint may belong to either adjoining segment.
	if s.seg > 0 {
		d = math.Min(d, segmentDistance(p, idx.body.Axis[s.seg-1], idx.body.Axis[s.seg]))
	}
	if s.seg+2 < len(idx.body.Axis) {
		d = math.Min(d, segmentDistance(p, idx.body.Axis[s.seg+1], idx.body.Axis[s.seg+2]))
	}
	return d
}

// deepest returns the surface point of a penetrating idx's body the most.
func (idx *index) deepest(a Body, tol float64) (Clash, bool) {
	c := Clash{A: a.Name, B: idx.body.Name}
	for _, v := range a.Surface {
		if !idx.bounds.Contains(v) {
			continue
		}
		depth := idx.body.Radius - idx.distance(v)
		if depth > tol && depth > c.Depth {
			c.At, c.Depth = v, depth
		}
	}
	return c, c.Depth > 0
}

// segmentDistance returns the distance from p to segment ab.
func segmentDistance(p, a, b r3.Vec) float64 {
	ab := r3.Sub(b, a)
	l2 := r3.Norm2(ab)
	if l2 == 0 {
		return r3.Norm(r3.Sub(p, a))
	}
	t := math.Max(0, math.Min(1, r3.Dot(r3.Sub(p, a), ab)/l2))
	return r3.Norm(r3.Sub(p, r3.Add(a, r3.Scale(t, ab))))
}
