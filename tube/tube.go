package tube

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SergiiSharpov/gaspoc/flow"
	"github.com/SergiiSharpov/gaspoc/render"
	"github.com/SergiiSharpov/gaspoc/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tube is a pipe following a path of waypoints. It owns the mesh built from
// the path, the outline of that mesh and the flow animation scrolling over
// it, and attaches them to its own scene group.
//
// A Tube is not safe for concurrent use.
type Tube struct {
	radius float64
	path   []r3.Vec
	cfg    Config

	flowDuration time.Duration
	ease         flow.EaseFunc
	material     scene.StandardMaterial
	outline      scene.LineMaterial

	node  *scene.Group
	mesh  *MeshBuffer
	stats AssembleStats
	edges []render.Line3
	flow  *flow.Controller
}

// Option configures a Tube.
type Option func(*Tube)

// WithConfig sets the mesh resolution and orientation of the tube.
func WithConfig(cfg Config) Option {
	return func(t *Tube) { t.cfg = cfg }
}

// WithLogger sets the logger receiving debug messages about the tube's geometry.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tube) { t.cfg.Logger = l }
}

// WithFlow sets the duration of one flow cycle and its easing.
func WithFlow(d time.Duration, ease flow.EaseFunc) Option {
	return func(t *Tube) {
		t.flowDuration = d
		t.ease = ease
	}
}

// WithMaterial sets the surface material. Its emissive map is replaced
// by the flow texture on every Make.
func WithMaterial(m scene.StandardMaterial) Option {
	return func(t *Tube) { t.material = m }
}

// WithOutline sets the material of the outline drawn over the tube's edges.
func WithOutline(m scene.LineMaterial) Option {
	return func(t *Tube) { t.outline = m }
}

// New returns a tube of the given radius with an empty path.
func New(radius float64, opts ...Option) *Tube {
	t := &Tube{
		radius:       radius,
		cfg:          DefaultConfig(),
		flowDuration: flow.DefaultDuration,
		ease:         flow.Linear,
		material:     scene.PipeMaterial(),
		outline:      scene.OutlineMaterial(),
		node:         scene.NewGroup("tube"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// AddPoint appends a waypoint to the path. The mesh is not rebuilt until Make.
func (t *Tube) AddPoint(p r3.Vec) {
	t.path = append(t.path, p)
}

// SetPath replaces the path with a copy of path. The mesh is not rebuilt until Make.
func (t *Tube) SetPath(path []r3.Vec) {
	t.path = append([]r3.Vec(nil), path...)
}

// Path returns a copy of the tube's waypoints.
func (t *Tube) Path() []r3.Vec {
	return append([]r3.Vec(nil), t.path...)
}

// Radius returns the radius of the tube.
func (t *Tube) Radius() float64 { return t.radius }

// Config returns the mesh configuration of the tube.
func (t *Tube) Config() Config { return t.cfg }

// Make rebuilds the tube's geometry and flow animation from its path and
// replaces the tube's children. Paths with fewer than 2 points are ignored.
func (t *Tube) Make() error {
	if len(t.path) < 2 {
		return nil
	}
	mesh, stats, err := AssembleWithStats(t.path, t.radius, t.cfg)
	if err != nil {
		return err
	}
	tex, err := flow.NewTexture(stats.PathLength)
	if err != nil {
		return fmt.Errorf("flow texture: %w", err)
	}
	t.Clear()
	t.mesh, t.stats = mesh, stats
	t.edges = render.Edges(mesh.Triangles(), render.DefaultEdgeThreshold, 0)

	t.flow = flow.NewController(tex, flow.NewLoop(t.flowDuration, t.ease))
	if err := t.flow.Start(); err != nil {
		return err
	}

	mat := t.material
	mat.EmissiveMap = tex
	surface := scene.NewMesh(t.node.Name+"/surface", mesh, mat)
	outline := scene.NewLines(t.node.Name+"/outline", t.edges, t.outline)
	outline.Layer = scene.BloomLayer
	return errors.Join(t.node.Add(surface), t.node.Add(outline))
}

// Clone returns a new tube with a copy of t's path, radius and settings
// and freshly built geometry. The clone shares no state with t.
func (t *Tube) Clone() (*Tube, error) {
	c := New(t.radius,
		WithConfig(t.cfg),
		WithFlow(t.flowDuration, t.ease),
		WithMaterial(t.material),
		WithOutline(t.outline),
	)
	c.node.Name = t.node.Name
	c.SetPath(t.path)
	if err := c.Make(); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear detaches the tube's children and stops its flow animation.
func (t *Tube) Clear() {
	t.node.Clear()
	if t.flow != nil {
		t.flow.Release()
		t.flow = nil
	}
}

// Dispose clears the tube and drops its geometry.
func (t *Tube) Dispose() {
	t.Clear()
	t.mesh = nil
	t.edges = nil
	t.stats = AssembleStats{}
}

// Tick advances the flow animation by dt. It does nothing before Make.
func (t *Tube) Tick(dt time.Duration) error {
	if t.flow == nil {
		return nil
	}
	return t.flow.Tick(dt)
}

// Mesh returns the surface built by the last Make or nil.
func (t *Tube) Mesh() *MeshBuffer { return t.mesh }

// Stats returns what the last Make built.
func (t *Tube) Stats() AssembleStats { return t.stats }

// Edges returns the outline of the surface built by the last Make.
func (t *Tube) Edges() []render.Line3 { return t.edges }

// Flow returns the controller of the flow animation or nil before Make.
func (t *Tube) Flow() *flow.Controller { return t.flow }

// Node returns the scene group the tube attaches its children to.
// Position the tube by moving the group.
func (t *Tube) Node() *scene.Group { return t.node }
