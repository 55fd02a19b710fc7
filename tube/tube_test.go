package tube

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/SergiiSharpov/gaspoc"
	"github.com/SergiiSharpov/gaspoc/flow"
	"github.com/SergiiSharpov/gaspoc/internal/d3"
	"github.com/SergiiSharpov/gaspoc/render"
	"github.com/SergiiSharpov/gaspoc/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

// cornerPath is a path with one right angle corner, 20 units long.
var cornerPath = []r3.Vec{{}, {X: 10}, {X: 10, Z: 10}}

func testConfig(segments int) Config {
	cfg := DefaultConfig()
	cfg.Segments = segments
	return cfg
}

func TestRing(t *testing.T) {
	cfg := DefaultConfig()
	center := r3.Vec{X: 1, Y: 2, Z: 3}
	for _, dir := range []r3.Vec{
		{X: 1}, {Y: 1}, {Y: -1}, {Z: -3}, {X: 1, Y: 1, Z: 1}, {X: -0.2, Y: 5, Z: 0.1},
	} {
		const r = 2.5
		ring := Ring(center, dir, r, cfg)
		if len(ring) != cfg.Segments {
			t.Fatalf("got %d ring points, want %d", len(ring), cfg.Segments)
		}
		n := r3.Unit(dir)
		for i, p := range ring {
			d := r3.Sub(p, center)
			if math.Abs(r3.Norm(d)-r) > tol {
				t.Errorf("dir %v point %d: distance %g from center, want %g", dir, i, r3.Norm(d), r)
			}
			if math.Abs(r3.Dot(d, n)) > tol {
				t.Errorf("dir %v point %d: not in plane perpendicular to direction", dir, i)
			}
			if got := RingPoint(i, center, dir, r, cfg); !d3.EqualWithin(got, p, tol) {
				t.Errorf("RingPoint(%d) = %v, want %v", i, got, p)
			}
		}
		// Ring wraps around.
		if got := RingPoint(cfg.Segments, center, dir, r, cfg); !d3.EqualWithin(got, ring[0], tol) {
			t.Errorf("RingPoint(segments) = %v, want %v", got, ring[0])
		}
		// Direction length does not matter.
		scaled := Ring(center, r3.Scale(7, dir), r, cfg)
		for i := range ring {
			if !d3.EqualWithin(scaled[i], ring[i], tol) {
				t.Fatalf("ring depends on direction length")
			}
		}
	}
	if Ring(center, r3.Vec{}, 1, cfg) != nil {
		t.Error("zero direction should return nil ring")
	}
}

func TestRingOrientation(t *testing.T) {
	cfg := DefaultConfig()
	// Point 0 is (0,0,r) rotated onto the direction.
	got := RingPoint(0, r3.Vec{}, r3.Vec{X: 1}, 1, cfg)
	if !d3.EqualWithin(got, r3.Vec{Z: 1}, tol) {
		t.Errorf("got %v, want (0,0,1)", got)
	}
	got = RingPoint(0, r3.Vec{}, r3.Vec{Y: 1}, 1, cfg)
	if !d3.EqualWithin(got, r3.Vec{Z: 1}, tol) {
		t.Errorf("got %v, want (0,0,1)", got)
	}
	// A quarter of the ring further the point sits at -X for an upward pipe.
	got = RingPoint(cfg.Segments/4, r3.Vec{}, r3.Vec{Y: 1}, 1, cfg)
	if !d3.EqualWithin(got, r3.Vec{X: -1}, tol) {
		t.Errorf("got %v, want (-1,0,0)", got)
	}
	// Antiparallel to up must not produce NaNs.
	for _, p := range Ring(r3.Vec{}, r3.Vec{Y: -1}, 1, cfg) {
		if !d3.Finite(p) {
			t.Fatal("NaN ring point for antiparallel direction")
		}
	}
}

func TestTurn(t *testing.T) {
	p1, p2, p3 := r3.Vec{X: 9}, r3.Vec{X: 10}, r3.Vec{X: 10, Z: 1}
	turn, err := NewTurn(p1, p2, p3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(turn.Sweep()-math.Pi/2) > tol {
		t.Errorf("sweep %g, want pi/2", turn.Sweep())
	}
	if !d3.EqualWithin(turn.Point(0), p1, tol) || !d3.EqualWithin(turn.Point(1), p3, tol) {
		t.Errorf("arc endpoints %v %v, want %v %v", turn.Point(0), turn.Point(1), p1, p3)
	}
	s := math.Sqrt2 / 2
	if mid := turn.Point(0.5); !d3.EqualWithin(mid, r3.Vec{X: 9 + s, Z: 1 - s}, tol) {
		t.Errorf("arc midpoint %v", mid)
	}
	for f := 0.0; f <= 1; f += 0.125 {
		if d := r3.Norm(r3.Sub(turn.Point(f), turn.Origin())); math.Abs(d-1) > tol {
			t.Errorf("f=%g: distance %g from arc origin", f, d)
		}
	}
	if !d3.EqualWithin(turn.Direction(0), r3.Vec{X: 1}, tol) || !d3.EqualWithin(turn.Direction(1), r3.Vec{Z: 1}, tol) {
		t.Error("turn directions should match incident directions")
	}
	if math.Abs(turn.Length()-math.Pi/2) > tol {
		t.Errorf("arc length %g", turn.Length())
	}
}

func TestTurnObliqueEndpoints(t *testing.T) {
	corner := r3.Vec{X: 1, Y: 2, Z: 3}
	in := r3.Unit(r3.Vec{X: 1, Y: 0.3})
	for _, deg := range []float64{10, 45, 60, 120, 170} {
		a := deg * math.Pi / 180
		out := r3.Unit(r3.Vec{X: math.Cos(a), Y: 0.3 * math.Cos(a), Z: math.Sin(a)})
		const r = 0.7
		p1 := r3.Sub(corner, r3.Scale(r, in))
		p3 := r3.Add(corner, r3.Scale(r, out))
		turn, err := NewTurn(p1, corner, p3, r)
		if err != nil {
			t.Fatalf("%g deg: %v", deg, err)
		}
		if !d3.EqualWithin(turn.Point(1), p3, 1e-9) {
			t.Errorf("%g deg: arc ends at %v, want %v", deg, turn.Point(1), p3)
		}
	}
}

// A shallow corner sweeps the supplement of its corner angle, so the arc
// loops out to the far side of the corner instead of hugging it.
func TestTurnShallowCorner(t *testing.T) {
	a := 5 * math.Pi / 180
	p2 := r3.Vec{X: 10}
	d2 := r3.Vec{X: math.Cos(a), Z: math.Sin(a)}
	turn, err := NewTurn(r3.Vec{X: 9}, p2, r3.Add(p2, d2), 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(turn.CornerAngle()-a) > tol {
		t.Errorf("corner angle %g, want %g", turn.CornerAngle(), a)
	}
	if math.Abs(turn.Sweep()-(math.Pi-a)) > tol {
		t.Errorf("sweep %g deg, want 175", gaspoc.RtoD(turn.Sweep()))
	}
	mid := turn.Point(0.5)
	if mid.Z > -0.9 {
		t.Errorf("arc midpoint %v should lie on the far side of the corner", mid)
	}
	if d := r3.Norm(r3.Sub(mid, p2)); math.Abs(d-0.9128) > 1e-3 {
		t.Errorf("arc midpoint %g from corner, want 0.9128", d)
	}
	if !d3.EqualWithin(turn.Point(1), r3.Add(p2, d2), tol) {
		t.Errorf("arc ends at %v", turn.Point(1))
	}
}

func TestTurnDegenerate(t *testing.T) {
	for name, p := range map[string][3]r3.Vec{
		"collinear": {{}, {X: 1}, {X: 2}},
		"reversal":  {{}, {X: 1}, {}},
		"zero in":   {{X: 1}, {X: 1}, {X: 1, Y: 1}},
		"zero out":  {{}, {X: 1}, {X: 1}},
	} {
		_, err := NewTurn(p[0], p[1], p[2], 1)
		if !errors.Is(err, ErrDegenerateTurn) {
			t.Errorf("%s: expected ErrDegenerateTurn, got %v", name, err)
		}
	}
}

func TestSegmentMesh(t *testing.T) {
	cfg := testConfig(8)
	from, to := r3.Vec{}, r3.Vec{X: 10}
	m, err := SegmentMesh(from, to, 1, 20, 0, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 8*6 {
		t.Fatalf("got %d vertices, want 48", m.Len())
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	assertOutwardNormals(t, m, func(p r3.Vec) r3.Vec { return r3.Vec{X: p.X} })
	vmin, vmax := m.VRange()
	if vmin != 0 || math.Abs(vmax-0.5) > tol {
		t.Errorf("V range [%g,%g], want [0,0.5]", vmin, vmax)
	}
	for i, uv := range m.UVs {
		if uv.X < 0 || uv.X > 1 {
			t.Fatalf("vertex %d: U=%g out of range", i, uv.X)
		}
	}
	// Last column uses U=1.
	if m.UVs[m.Len()-1].X != 1 {
		t.Errorf("last column U=%g", m.UVs[m.Len()-1].X)
	}

	for _, bad := range []struct {
		from, to    r3.Vec
		radius, len float64
		cfg         Config
	}{
		{from, to, 0, 20, cfg},
		{from, to, 1, 0, cfg},
		{from, from, 1, 20, cfg},
		{from, to, 1, 20, testConfig(2)},
	} {
		if _, err := SegmentMesh(bad.from, bad.to, bad.radius, bad.len, 0, bad.cfg); err == nil {
			t.Errorf("expected error for %+v", bad)
		}
	}
}

// assertOutwardNormals checks every triangle normal is unit length and
// points away from axis(centroid), the closest point on the pipe's axis.
func assertOutwardNormals(t *testing.T, m *MeshBuffer, axis func(r3.Vec) r3.Vec) {
	t.Helper()
	for i, tri := range m.Triangles() {
		n := m.Normals[3*i]
		if math.Abs(r3.Norm(n)-1) > 1e-6 {
			t.Fatalf("triangle %d: normal %v not unit", i, n)
		}
		c := tri.Centroid()
		if r3.Dot(n, r3.Sub(c, axis(c))) <= 0 {
			t.Fatalf("triangle %d: normal %v points inwards", i, n)
		}
	}
}

func TestAssembleCorner(t *testing.T) {
	cfg := testConfig(8)
	m, stats, err := AssembleWithStats(cornerPath, 1, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if stats.PathLength != 20 || stats.Segments != 2 || stats.Turns != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	const segVerts, turnVerts = 8 * 6, 8 * 8 * 6
	if m.Len() != 2*segVerts+turnVerts {
		t.Fatalf("got %d vertices, want %d", m.Len(), 2*segVerts+turnVerts)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	vmin, vmax := m.VRange()
	if vmin != 0 || math.Abs(vmax-1) > tol {
		t.Errorf("V range [%g,%g], want [0,1]", vmin, vmax)
	}
	// First segment is trimmed to end at x=9.
	first := &MeshBuffer{Positions: m.Positions[:segVerts], Normals: m.Normals[:segVerts], UVs: m.UVs[:segVerts]}
	if bb := first.Bounds(); math.Abs(bb.Max.X-9) > tol || math.Abs(bb.Min.X) > tol {
		t.Errorf("first segment spans x [%g,%g], want [0,9]", bb.Min.X, bb.Max.X)
	}
	if _, v := first.VRange(); math.Abs(v-9.0/20) > tol {
		t.Errorf("first segment ends at V=%g, want 0.45", v)
	}
	// Last segment starts at z=1.
	last := m.Positions[segVerts+turnVerts:]
	for _, p := range last {
		if p.Z < 1-tol {
			t.Fatalf("last segment vertex %v before z=1", p)
		}
	}
	if v := m.UVs[segVerts+turnVerts].Y; math.Abs(v-11.0/20) > tol {
		t.Errorf("last segment starts at V=%g, want 0.55", v)
	}
	bb := m.Bounds()
	want := d3.Box{Min: r3.Vec{X: 0, Y: -1, Z: -1}, Max: r3.Vec{X: 11, Y: 1, Z: 10}}
	if !bb.Equals(want, 1e-9) {
		t.Errorf("bounds %+v, want %+v", bb, want)
	}
	assertContinuous(t, m, cfg.Segments, cfg.TurnSegments)
}

// assertContinuous checks the layout segment, turn, segment, ... of a mesh
// with all segments present: the last ring of each piece must equal the first
// ring of the next one, V included.
func assertContinuous(t *testing.T, m *MeshBuffer, segments, turnSegments int) {
	t.Helper()
	seg := 6 * segments
	turn := seg * turnSegments
	for start := 0; start+seg+turn < m.Len(); start += seg + turn {
		// B ring of the segment against A ring of the turn.
		for i := 0; i < segments; i++ {
			b := start + 6*i + 1
			a := start + seg + 6*i
			if !d3.EqualWithin(m.Positions[b], m.Positions[a], 1e-9) || math.Abs(m.UVs[b].Y-m.UVs[a].Y) > 1e-12 {
				t.Fatalf("gap between segment at %d and turn, ring point %d: %v %v", start, i, m.Positions[b], m.Positions[a])
			}
		}
		// B ring of the last turn step against A ring of next segment.
		for i := 0; i < segments; i++ {
			b := start + seg + turn - seg + 6*i + 1
			a := start + seg + turn + 6*i
			if !d3.EqualWithin(m.Positions[b], m.Positions[a], 1e-9) || math.Abs(m.UVs[b].Y-m.UVs[a].Y) > 1e-12 {
				t.Fatalf("gap between turn and segment at %d, ring point %d: %v %v", start+seg+turn, i, m.Positions[b], m.Positions[a])
			}
		}
	}
}

func TestAssembleObliqueContinuity(t *testing.T) {
	cfg := DefaultConfig()
	path := []r3.Vec{{}, {X: 4}, {X: 6, Y: 3}, {X: 6, Y: 3, Z: -5}, {X: 1, Y: 4, Z: -6}}
	m, stats, err := AssembleWithStats(path, 0.5, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Turns != 3 || stats.Segments != 4 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	assertContinuous(t, m, cfg.Segments, cfg.TurnSegments)
	// V never decreases along the mesh.
	prev := 0.0
	for i := 0; i < m.Len(); i += 6 {
		v := m.UVs[i].Y
		if v < prev-1e-12 {
			t.Fatalf("V decreases at vertex %d: %g after %g", i, v, prev)
		}
		prev = v
	}
	if _, vmax := m.VRange(); math.Abs(vmax-1) > tol {
		t.Errorf("V ends at %g", vmax)
	}
}

// Turns into and out of pipes running opposite to the up reference must
// sweep their rings smoothly, without the half turn of the -Up frame
// flipping the last or first ring.
func TestAssembleDownwardTurn(t *testing.T) {
	const radius = 1.0
	cfg := DefaultConfig()
	s := cfg.Segments
	for _, path := range [][]r3.Vec{
		{{}, {Z: 5}, {Y: -5, Z: 5}},
		{{}, {X: 5}, {X: 5, Y: -5}},
		{{}, {Z: -5}, {Y: -5, Z: -5}},
		{{Y: 5}, {}, {Z: 5}},
		{{Y: 5}, {}, {X: -5}},
	} {
		m, stats, err := AssembleWithStats(path, radius, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if stats.Turns != 1 || stats.Segments != 2 {
			t.Fatalf("path %v: unexpected stats %+v", path, stats)
		}
		assertContinuous(t, m, s, cfg.TurnSegments)
		// Every turn step moves a ring point about one arc step, a flip
		// moves it across the pipe.
		base := 6 * s
		worst := 0.0
		for k := 0; k < cfg.TurnSegments; k++ {
			for i := 0; i < s; i++ {
				a := m.Positions[base+6*s*k+6*i]
				b := m.Positions[base+6*s*k+6*i+1]
				worst = math.Max(worst, r3.Norm(r3.Sub(b, a)))
			}
		}
		if worst > 0.75*radius {
			t.Errorf("path %v: ring point jumps %g between turn steps", path, worst)
		}
	}
}

func TestAssembleCollinear(t *testing.T) {
	cfg := DefaultConfig()
	for n := 2; n < 6; n++ {
		var path []r3.Vec
		for i := 0; i < n; i++ {
			path = append(path, r3.Vec{X: float64(i * i), Y: 1, Z: 1})
		}
		m, stats, err := AssembleWithStats(path, 0.3, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if want := (n - 1) * cfg.Segments * 6; m.Len() != want {
			t.Errorf("%d points: got %d vertices, want %d", n, m.Len(), want)
		}
		if stats.Turns != 0 || stats.SkippedCorners != n-2 {
			t.Errorf("%d points: unexpected stats %+v", n, stats)
		}
		vmin, vmax := m.VRange()
		if vmin != 0 || math.Abs(vmax-1) > tol {
			t.Errorf("%d points: V range [%g,%g]", n, vmin, vmax)
		}
		// V=0 at the first waypoint and V=1 at the last one.
		for i, p := range m.Positions {
			if math.Abs(p.X) < tol && m.UVs[i].Y != 0 {
				t.Fatalf("V=%g at first waypoint", m.UVs[i].Y)
			}
			if math.Abs(p.X-float64((n-1)*(n-1))) < tol && math.Abs(m.UVs[i].Y-1) > tol {
				t.Fatalf("V=%g at last waypoint", m.UVs[i].Y)
			}
		}
		assertOutwardNormals(t, m, func(p r3.Vec) r3.Vec { return r3.Vec{X: p.X, Y: 1, Z: 1} })
	}
}

func TestAssembleDegenerate(t *testing.T) {
	cfg := testConfig(8)
	for name, test := range map[string]struct {
		path     []r3.Vec
		vertices int
	}{
		"nil":          {nil, 0},
		"single":       {[]r3.Vec{{X: 1}}, 0},
		"zero length":  {[]r3.Vec{{X: 1}, {X: 1}, {X: 1}}, 0},
		"duplicate":    {[]r3.Vec{{}, {}, {X: 5}}, 48},
		"reversal":     {[]r3.Vec{{}, {X: 5}, {X: 2}}, 96},
		"short corner": {[]r3.Vec{{}, {X: 1}, {X: 1, Z: 5}}, 96 + 384},
		"tiny corner":  {[]r3.Vec{{}, {X: 0.5}, {X: 0.5, Z: 0.5}, {X: 1, Z: 0.5}}, 48 + 384 + 384 + 48},
	} {
		m, err := Assemble(test.path, 1, cfg)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if m.Len() != test.vertices {
			t.Errorf("%s: got %d vertices, want %d", name, m.Len(), test.vertices)
		}
		if err := m.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := Assemble(cornerPath, -1, cfg); err == nil {
		t.Error("expected error for negative radius")
	}
	if _, err := Assemble([]r3.Vec{{}, {X: math.NaN()}}, 1, cfg); err == nil {
		t.Error("expected error for NaN waypoint")
	}
}

func TestMeshFloat32(t *testing.T) {
	m, err := Assemble(cornerPath, 1, testConfig(8))
	if err != nil {
		t.Fatal(err)
	}
	g, err := m.Float32()
	if err != nil {
		t.Fatal(err)
	}
	pos, nrm, uv := g.Flat()
	if len(pos) != 3*m.Len() || len(nrm) != 3*m.Len() || len(uv) != 2*m.Len() {
		t.Fatal("bad flat buffer lengths")
	}
	if float64(pos[3]) != float64(float32(m.Positions[1].X)) {
		t.Error("flat positions not in vertex order")
	}
	last := m.Len() - 1
	if g.UVs[last] != [2]float32{float32(m.UVs[last].X), float32(m.UVs[last].Y)} {
		t.Error("uv not converted")
	}
	if uv[2*last] != g.UVs[last][0] || uv[2*last+1] != g.UVs[last][1] {
		t.Error("flat uvs not in vertex order")
	}
	m.UVs[2].X = math.NaN()
	if _, err := m.Float32(); err == nil {
		t.Error("expected error for NaN texture coordinate")
	}
	m.UVs[2].X = 0
	m.Positions[4].Y = math.Inf(1)
	if _, err := m.Float32(); err == nil {
		t.Error("expected error for infinite position")
	}
}

func TestMeshRenderer(t *testing.T) {
	m, err := Assemble(cornerPath, 1, testConfig(8))
	if err != nil {
		t.Fatal(err)
	}
	r := m.Renderer()
	buf := make([]render.Triangle3, 7)
	total := 0
	for {
		n, err := r.ReadTriangles(buf)
		total += n
		if err != nil {
			break
		}
	}
	if total != m.TriangleCount() {
		t.Errorf("read %d triangles, want %d", total, m.TriangleCount())
	}
	c := m.Clone()
	if !c.EqualWithin(m, 0) {
		t.Error("clone differs")
	}
	x := m.Positions[0].X
	c.Positions[0].X += 1
	if c.EqualWithin(m, 0.5) || m.Positions[0].X != x {
		t.Error("clone shares memory with original")
	}
}

func TestTubeMake(t *testing.T) {
	tb := New(1, WithConfig(testConfig(8)))
	if err := tb.Make(); err != nil || tb.Mesh() != nil || tb.Node().Len() != 0 {
		t.Fatal("make with empty path should be a no-op")
	}
	if err := tb.Tick(time.Second); err != nil {
		t.Fatal("tick before make should be a no-op")
	}
	for _, p := range cornerPath {
		tb.AddPoint(p)
	}
	if tb.Mesh() != nil {
		t.Fatal("AddPoint should not rebuild")
	}
	if err := tb.Make(); err != nil {
		t.Fatal(err)
	}
	first := tb.Mesh()
	if first.Len() != 480 {
		t.Fatalf("got %d vertices", first.Len())
	}
	children := tb.Node().Children()
	if len(children) != 2 {
		t.Fatalf("got %d children, want surface and outline", len(children))
	}
	surface, ok := children[0].(*scene.Mesh)
	if !ok || surface.Geometry != first || surface.Material.EmissiveMap == nil {
		t.Fatal("first child should be the surface mesh with flow texture")
	}
	outline, ok := children[1].(*scene.Lines)
	if !ok || outline.Layer != scene.BloomLayer || len(outline.Segments) == 0 {
		t.Fatal("second child should be the outline on the bloom layer")
	}
	oldFlow := tb.Flow()
	if err := tb.Tick(500 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if oldFlow.Texture().Offset() == 0 {
		t.Error("tick did not scroll the flow texture")
	}

	// Make is idempotent and replaces the flow controller.
	if err := tb.Make(); err != nil {
		t.Fatal(err)
	}
	if !tb.Mesh().EqualWithin(first, tol) {
		t.Error("second make produced a different mesh")
	}
	if tb.Node().Len() != 2 {
		t.Errorf("children accumulated: %d", tb.Node().Len())
	}
	if !oldFlow.Released() || tb.Flow() == oldFlow {
		t.Error("old flow controller should be released")
	}
	if err := oldFlow.SetProgress(0.5); !errors.Is(err, flow.ErrReleased) {
		t.Errorf("stale controller still active: %v", err)
	}
}

func TestTubeClone(t *testing.T) {
	tb := New(0.1)
	tb.SetPath([]r3.Vec{{X: 6.5, Z: 4}, {X: 6.5, Y: 0.5, Z: 4}, {X: 16, Y: 0.5, Z: 4}, {X: 16, Y: 0.5, Z: -2}})
	if err := tb.Make(); err != nil {
		t.Fatal(err)
	}
	c, err := tb.Clone()
	if err != nil {
		t.Fatal(err)
	}
	if c.Radius() != tb.Radius() || !c.Mesh().EqualWithin(tb.Mesh(), tol) {
		t.Fatal("clone mesh differs from original")
	}
	c.AddPoint(r3.Vec{X: 24.5, Y: 0.5, Z: -2})
	if len(tb.Path()) != 4 {
		t.Error("clone shares path with original")
	}
	if c.Flow() == tb.Flow() || c.Node() == tb.Node() {
		t.Error("clone shares state with original")
	}
	p := tb.Path()
	p[0].X = 100
	if tb.Path()[0].X != 6.5 {
		t.Error("Path returned internal slice")
	}
}

func TestTubeClearDispose(t *testing.T) {
	tb := New(1, WithConfig(testConfig(8)), WithFlow(time.Second, flow.QuadraticOut))
	tb.SetPath(cornerPath)
	if err := tb.Make(); err != nil {
		t.Fatal(err)
	}
	f := tb.Flow()
	tb.Clear()
	if tb.Node().Len() != 0 || tb.Flow() != nil || !f.Released() {
		t.Error("clear should remove children and release flow")
	}
	if tb.Mesh() == nil {
		t.Error("clear should keep the mesh")
	}
	tb.Dispose()
	if tb.Mesh() != nil || tb.Edges() != nil {
		t.Error("dispose should drop geometry")
	}
	// A disposed tube can be rebuilt.
	if err := tb.Make(); err != nil || tb.Mesh().Len() != 480 {
		t.Errorf("rebuild after dispose failed: %v", err)
	}
}

func TestTubeTooLong(t *testing.T) {
	tb := New(1)
	tb.SetPath([]r3.Vec{{}, {X: 9000}})
	if err := tb.Make(); !errors.Is(err, flow.ErrTextureTooLarge) {
		t.Errorf("expected ErrTextureTooLarge, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
	var zero Config
	if err := zero.Validate(); err == nil {
		t.Error("zero config should not validate")
	}
}
