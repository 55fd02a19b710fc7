package config

import (
	"fmt"
	"log/slog"

	"github.com/SergiiSharpov/gaspoc/flow"
	"github.com/SergiiSharpov/gaspoc/scene"
	"github.com/SergiiSharpov/gaspoc/tube"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pipe is a tube built from a plant file.
type Pipe struct {
	Name string
	Tube *tube.Tube
}

// Build makes every tube of the plant and its clones, in file order.
// Clones are named after their source with a "#n" suffix. The tubes are
// also added to root when it is not nil.
func (p *Plant) Build(root *scene.Group, logger *slog.Logger) ([]Pipe, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var pipes []Pipe
	for i, desc := range p.Tubes {
		name := desc.Name
		if name == "" {
			name = fmt.Sprintf("tube%d", i)
		}
		t, err := p.newTube(desc, logger)
		if err != nil {
			return nil, fmt.Errorf("tube %s: %w", name, err)
		}
		t.Node().Name = name
		t.Node().Position = desc.Offset.R3()
		if err := t.Make(); err != nil {
			return nil, fmt.Errorf("tube %s: %w", name, err)
		}
		pipes = append(pipes, Pipe{Name: name, Tube: t})
		for j, off := range desc.Clones {
			c, err := t.Clone()
			if err != nil {
				return nil, fmt.Errorf("tube %s clone %d: %w", name, j+1, err)
			}
			c.Node().Name = fmt.Sprintf("%s#%d", name, j+1)
			c.Node().Position = r3.Add(t.Node().Position, off.R3())
			pipes = append(pipes, Pipe{Name: c.Node().Name, Tube: c})
		}
	}
	if root != nil {
		for _, pipe := range pipes {
			if err := root.Add(pipe.Tube.Node()); err != nil {
				return nil, err
			}
		}
	}
	return pipes, nil
}

// TubeConfig returns the mesh configuration set by the plant defaults.
func (p *Plant) TubeConfig() tube.Config {
	cfg := tube.DefaultConfig()
	if p.Defaults.Segments != 0 {
		cfg.Segments = p.Defaults.Segments
	}
	if p.Defaults.TurnSegments != 0 {
		cfg.TurnSegments = p.Defaults.TurnSegments
	}
	if p.Defaults.Up != nil {
		cfg.Up = p.Defaults.Up.R3()
	}
	return cfg
}

func (p *Plant) newTube(desc Tube, logger *slog.Logger) (*tube.Tube, error) {
	cfg := p.TubeConfig()
	cfg.Logger = logger

	d := p.Defaults
	dur, _ := parseDuration(firstNonEmpty(desc.FlowDuration, d.FlowDuration))
	if dur == 0 {
		dur = flow.DefaultDuration
	}
	ease, _ := flow.EaseByName(firstNonEmpty(desc.FlowEase, d.FlowEase))

	mat := scene.PipeMaterial()
	if c := firstNonEmpty(desc.Color, d.Color); c != "" {
		rgba, err := scene.ParseHexColor(c)
		if err != nil {
			return nil, err
		}
		mat.Color = rgba
	}
	outline := scene.OutlineMaterial()
	if d.Outline != "" {
		rgba, err := scene.ParseHexColor(d.Outline)
		if err != nil {
			return nil, err
		}
		outline.Color = rgba
	}
	t := tube.New(p.radius(desc),
		tube.WithConfig(cfg),
		tube.WithFlow(dur, ease),
		tube.WithMaterial(mat),
		tube.WithOutline(outline),
	)
	for _, pt := range desc.Points {
		t.AddPoint(pt.R3())
	}
	return t, nil
}

// R3 returns v as a gonum vector.
func (v Vec) R3() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
