package solid

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
)

// PLA (polylactic acid) is the most widely used plastic filament in 3D printing.
var PLA = Material{Name: "pla", Shrink: 0.2e-2, PullShrink: 0.45}

// Material describes how a printed part deviates from its model once it cools.
type Material struct {
	Name string
	// Shrink is the thermal contraction of the material once it cools
	// to room temperature after the heated bed is turned off.
	Shrink float64
	// PullShrink takes viscoelastic shrinkage into account. It narrows
	// holes by a constant amount regardless of their size.
	PullShrink float64
}

// MaterialByName returns the material called name. The empty name
// returns a material without shrinkage.
func MaterialByName(name string) (Material, error) {
	switch name {
	case "":
		return Material{}, nil
	case PLA.Name:
		return PLA, nil
	}
	return Material{}, fmt.Errorf("unknown material %q", name)
}

// Factor is the uniform scale Scale applies.
func (m Material) Factor() float64 { return 1 / (1 - m.Shrink) }

// Scale enlarges s so it has its modelled size after shrinking.
func (m Material) Scale(s sdf.SDF3) sdf.SDF3 {
	if m.Shrink == 0 {
		return s
	}
	return sdf.ScaleUniform3D(s, m.Factor())
}

// InternalDimScale returns the size to model an internal dimension at,
// such as a bore, so it prints at real.
func (m Material) InternalDimScale(real float64) float64 {
	if real <= 0 {
		panic("InternalDimScale only works for non-zero dimensions")
	}
	return real*(m.Shrink+1) + m.PullShrink
}
