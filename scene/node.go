// Package scene is a small retained scene graph. Pipes attach their surface
// and outline to a Group they own instead of being scene nodes themselves,
// and renderers walk the graph to collect what to draw and where.
package scene

import (
	"errors"

	"github.com/SergiiSharpov/gaspoc/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Layer selects the render passes a node is drawn in.
type Layer uint8

const (
	// DefaultLayer is drawn by the main render pass.
	DefaultLayer Layer = iota
	// BloomLayer is drawn by the glow pass.
	BloomLayer
)

// Node is an element of the scene graph.
type Node interface {
	// Base returns the fields shared by every node.
	Base() *NodeBase
}

// NodeBase holds the placement of a node relative to its parent.
// Embed it to implement Node.
type NodeBase struct {
	Name     string
	Position r3.Vec
	// Rotation of the node. The zero value is no rotation.
	Rotation r3.Rotation
	// Scale of the node. The zero value means unit scale.
	Scale  r3.Vec
	Layer  Layer
	Hidden bool

	parent *Group
}

// Base implements Node.
func (b *NodeBase) Base() *NodeBase { return b }

// Parent returns the group the node is attached to or nil.
func (b *NodeBase) Parent() *Group { return b.parent }

// Local returns the transform from node space to parent space.
func (b *NodeBase) Local() d3.Transform {
	scale := b.Scale
	if scale == (r3.Vec{}) {
		scale = d3.Elem(1)
	}
	return d3.ComposeTransform(b.Position, scale, b.Rotation)
}

// World returns the transform from node space to scene space.
func (b *NodeBase) World() d3.Transform {
	t := b.Local()
	for p := b.parent; p != nil; p = p.parent {
		t = p.Local().Mul(t)
	}
	return t
}

// Group is a node holding child nodes.
type Group struct {
	NodeBase
	children []Node
}

// NewGroup returns an empty named group.
func NewGroup(name string) *Group {
	return &Group{NodeBase: NodeBase{Name: name}}
}

var errCycle = errors.New("node can not be added to itself or its descendants")

// Add attaches n as the last child of g, detaching it from its previous parent.
func (g *Group) Add(n Node) error {
	if sub, ok := n.(*Group); ok {
		for p := g; p != nil; p = p.parent {
			if p == sub {
				return errCycle
			}
		}
	}
	b := n.Base()
	if b.parent != nil {
		b.parent.Remove(n)
	}
	b.parent = g
	g.children = append(g.children, n)
	return nil
}

// Remove detaches n from g. It returns false if n is not a child of g.
func (g *Group) Remove(n Node) bool {
	for i, c := range g.children {
		if c == n {
			g.children = append(g.children[:i], g.children[i+1:]...)
			n.Base().parent = nil
			return true
		}
	}
	return false
}

// Clear detaches all children of g.
func (g *Group) Clear() {
	for _, c := range g.children {
		c.Base().parent = nil
	}
	g.children = nil
}

// Children returns the children of g. The returned slice must not be modified.
func (g *Group) Children() []Node { return g.children }

// Len returns the number of children of g.
func (g *Group) Len() int { return len(g.children) }

// SkipChildren may be returned by a WalkFunc to skip the children of a group.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node visited by Walk with the transform
// from node space to the space of the walk's root.
type WalkFunc func(n Node, world d3.Transform) error

// Walk visits root and its descendants depth first, parents before children.
// Hidden nodes and their descendants are skipped. Walk stops at the first
// error returned by fn other than SkipChildren.
func Walk(root Node, fn WalkFunc) error {
	err := walk(root, d3.Transform{}, fn)
	if err == SkipChildren {
		return nil
	}
	return err
}

func walk(n Node, parent d3.Transform, fn WalkFunc) error {
	b := n.Base()
	if b.Hidden {
		return nil
	}
	world := parent.Mul(b.Local())
	err := fn(n, world)
	if err != nil {
		return err
	}
	g, ok := n.(*Group)
	if !ok {
		return nil
	}
	for _, c := range g.children {
		err = walk(c, world, fn)
		if err == SkipChildren {
			err = nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}
