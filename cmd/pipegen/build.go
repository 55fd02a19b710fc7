package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/SergiiSharpov/gaspoc/clearance"
	"github.com/SergiiSharpov/gaspoc/config"
	"github.com/SergiiSharpov/gaspoc/internal/d3"
	"github.com/SergiiSharpov/gaspoc/preview"
	"github.com/SergiiSharpov/gaspoc/render"
	"github.com/SergiiSharpov/gaspoc/scene"
	"github.com/SergiiSharpov/gaspoc/solid"
	"github.com/muesli/termenv"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

type builder struct {
	opts   options
	logger *slog.Logger
	stdout io.Writer
}

// build loads the plant file and writes every requested output.
func (b *builder) build() error {
	start := time.Now()
	plant, err := config.Load(b.opts.config)
	if err != nil {
		return err
	}
	root := scene.NewGroup("plant")
	pipes, err := plant.Build(root, b.logger)
	if err != nil {
		return err
	}
	for _, p := range pipes {
		if p.Tube.Flow() == nil {
			continue // fewer than 2 waypoints.
		}
		if err := p.Tube.Flow().SetProgress(b.opts.progress); err != nil {
			return err
		}
	}
	var written []string
	out := func(name string) string {
		path := filepath.Join(b.opts.out, name)
		written = append(written, path)
		return path
	}
	if b.opts.stl {
		if err := render.CreateSTL(out("plant.stl"), render.FromTriangles(scene.Triangles(root))); err != nil {
			return fmt.Errorf("stl: %w", err)
		}
	}
	if b.opts.obj {
		if err := writeOBJ(out("plant.obj"), pipes); err != nil {
			return fmt.Errorf("obj: %w", err)
		}
	}
	if b.opts.png {
		opts := preview.DefaultOptions()
		opts.Width, opts.Height = b.opts.size, b.opts.size*3/4
		if err := preview.Save(out("plant.png"), root, opts); err != nil {
			return fmt.Errorf("png: %w", err)
		}
	}
	if b.opts.solid {
		mat, err := solid.MaterialByName(b.opts.material)
		if err != nil {
			return err
		}
		for _, p := range pipes {
			if err := writeSolid(out(p.Name+"_solid.stl"), p, mat, b.opts.wall, b.opts.cells); err != nil {
				return fmt.Errorf("solid %s: %w", p.Name, err)
			}
		}
	}
	var clashes []clearance.Clash
	if b.opts.clash > 0 {
		var bodies []clearance.Body
		for _, p := range pipes {
			body, err := clearance.FromTube(p.Name, p.Tube)
			if err != nil {
				b.logger.Warn("clearance skipped", "tube", p.Name, "err", err)
				continue
			}
			bodies = append(bodies, body)
		}
		clashes = clearance.Check(bodies, b.opts.clash)
	}
	b.logger.Debug("built", "config", b.opts.config, "tubes", len(pipes), "took", time.Since(start))
	summary(b.stdout, pipes, written, clashes)
	return nil
}

func summary(w io.Writer, pipes []config.Pipe, written []string, clashes []clearance.Clash) {
	o := termenv.NewOutput(w)
	title := func(s string) string { return o.String(s).Bold().String() }
	fmt.Fprintln(w, title("pipes"))
	for _, p := range pipes {
		st := p.Tube.Stats()
		fmt.Fprintf(w, "  %-16s length %8.3f  segments %3d  turns %3d  triangles %6d\n",
			p.Name, st.PathLength, st.Segments, st.Turns, p.Tube.Mesh().TriangleCount())
	}
	if len(written) > 0 {
		fmt.Fprintln(w, title("wrote"))
		for _, path := range written {
			fmt.Fprintln(w, " ", o.String(path).Foreground(o.Color("4")).String())
		}
	}
	if len(clashes) > 0 {
		fmt.Fprintln(w, o.String(fmt.Sprintf("%d clashes", len(clashes))).Bold().Foreground(o.Color("1")).String())
		for _, c := range clashes {
			fmt.Fprintln(w, " ", c)
		}
	}
}

func writeOBJ(path string, pipes []config.Pipe) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	ow := render.NewOBJWriter(f)
	for _, p := range pipes {
		m := p.Tube.Mesh()
		if m.IsEmpty() {
			continue
		}
		if err := ow.WriteObject(p.Name, placed{VertexData: m, world: p.Tube.Node().World()}); err != nil {
			return err
		}
	}
	if err := ow.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func writeSolid(path string, p config.Pipe, mat solid.Material, wall float64, cells int) error {
	world := p.Tube.Node().World()
	axis := p.Tube.Path()
	for i := range axis {
		axis[i] = world.Transform(axis[i])
	}
	radius := p.Tube.Radius()
	s, err := solid.Pipe(axis, radius)
	if err != nil {
		return err
	}
	s = mat.Scale(s)
	if wall > 0 {
		bore := 2 * (radius - wall)
		if bore <= 0 {
			return fmt.Errorf("wall %g leaves no bore in a pipe of radius %g", wall, radius)
		}
		// The bore is sized for shrinkage on its own, only its axis follows the scaled solid.
		k := mat.Factor()
		for i := range axis {
			axis[i] = r3.Scale(k, axis[i])
		}
		s, err = solid.Bored(s, axis, mat.InternalDimScale(bore))
		if err != nil {
			return err
		}
	}
	return render.CreateSTL(path, render.FromTriangles(solid.Triangles(s, cells)))
}

// placed is mesh data moved into plant coordinates.
type placed struct {
	render.VertexData
	world d3.Transform
}

func (p placed) Vertex(i int) (position, normal r3.Vec, uv r2.Vec) {
	position, normal, uv = p.VertexData.Vertex(i)
	return p.world.Transform(position), p.world.Direction(normal), uv
}
