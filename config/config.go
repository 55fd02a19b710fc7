// Package config reads plant description files. A plant file lists the
// pipes of a plant, each with its waypoints, radius and flow settings,
// and may be written in TOML or YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SergiiSharpov/gaspoc/flow"
	"github.com/SergiiSharpov/gaspoc/scene"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a plant file.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatOf returns the format of a file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown plant file extension %q, want .toml, .yaml or .yml", filepath.Ext(path))
}

// Vec is a point or direction written as [x, y, z].
type Vec [3]float64

// Defaults apply to every pipe that does not set the field itself.
type Defaults struct {
	Radius       float64 `toml:"radius,omitempty" yaml:"radius,omitempty"`
	Segments     int     `toml:"segments,omitempty" yaml:"segments,omitempty"`
	TurnSegments int     `toml:"turn_segments,omitempty" yaml:"turn_segments,omitempty"`
	Up           *Vec    `toml:"up,omitempty" yaml:"up,omitempty"`
	FlowDuration string  `toml:"flow_duration,omitempty" yaml:"flow_duration,omitempty"`
	FlowEase     string  `toml:"flow_ease,omitempty" yaml:"flow_ease,omitempty"`
	Color        string  `toml:"color,omitempty" yaml:"color,omitempty"`
	Outline      string  `toml:"outline,omitempty" yaml:"outline,omitempty"`
}

// Tube describes one pipe.
type Tube struct {
	Name   string  `toml:"name" yaml:"name"`
	Radius float64 `toml:"radius,omitempty" yaml:"radius,omitempty"`
	Points []Vec   `toml:"points" yaml:"points"`
	// Offset moves the whole pipe.
	Offset Vec `toml:"offset,omitempty" yaml:"offset,omitempty"`
	// Clones are copies of the pipe moved by each offset relative to it.
	Clones       []Vec  `toml:"clones,omitempty" yaml:"clones,omitempty"`
	FlowDuration string `toml:"flow_duration,omitempty" yaml:"flow_duration,omitempty"`
	FlowEase     string `toml:"flow_ease,omitempty" yaml:"flow_ease,omitempty"`
	Color        string `toml:"color,omitempty" yaml:"color,omitempty"`
}

// Plant is the content of a plant file.
type Plant struct {
	Name     string   `toml:"name,omitempty" yaml:"name,omitempty"`
	Defaults Defaults `toml:"defaults,omitempty" yaml:"defaults,omitempty"`
	Tubes    []Tube   `toml:"tube" yaml:"tubes"`
}

// Load reads a plant file, choosing the format by extension.
func Load(path string) (*Plant, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Decode reads a plant in the given format. Unknown fields are an error
// so typos in a plant file do not go unnoticed.
func Decode(r io.Reader, format Format) (*Plant, error) {
	var p Plant
	var err error
	switch format {
	case TOML:
		err = toml.NewDecoder(r).DisallowUnknownFields().Decode(&p)
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&p)
		if errors.Is(err, io.EOF) {
			err = nil // empty document.
		}
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return &p, p.Validate()
}

// Encode writes the plant in the given format.
func (p *Plant) Encode(w io.Writer, format Format) error {
	var b []byte
	var err error
	switch format {
	case TOML:
		b, err = toml.Marshal(p)
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(p)
		b = buf.Bytes()
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Save writes the plant to path in the format of its extension.
func (p *Plant) Save(path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := p.Encode(&buf, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Validate reports every problem found in the plant.
func (p *Plant) Validate() error {
	var errs []error
	names := make(map[string]bool)
	if _, err := parseDuration(p.Defaults.FlowDuration); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}
	if err := checkStyle(p.Defaults.FlowEase, p.Defaults.Color); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}
	if p.Defaults.Outline != "" {
		if _, err := scene.ParseHexColor(p.Defaults.Outline); err != nil {
			errs = append(errs, fmt.Errorf("defaults: outline: %w", err))
		}
	}
	for i, t := range p.Tubes {
		name := t.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		} else if names[name] {
			errs = append(errs, fmt.Errorf("tube %s: duplicate name", name))
		}
		names[name] = true
		if p.radius(t) <= 0 {
			errs = append(errs, fmt.Errorf("tube %s: radius must be positive", name))
		}
		if _, err := parseDuration(t.FlowDuration); err != nil {
			errs = append(errs, fmt.Errorf("tube %s: %w", name, err))
		}
		if err := checkStyle(t.FlowEase, t.Color); err != nil {
			errs = append(errs, fmt.Errorf("tube %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (p *Plant) radius(t Tube) float64 {
	if t.Radius != 0 {
		return t.Radius
	}
	return p.Defaults.Radius
}

func checkStyle(ease, color string) error {
	var errs []error
	if _, ok := flow.EaseByName(ease); !ok {
		errs = append(errs, fmt.Errorf("unknown flow ease %q", ease))
	}
	if color != "" {
		if _, err := scene.ParseHexColor(color); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("flow duration: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative flow duration %s", s)
	}
	return d, nil
}
