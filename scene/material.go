package scene

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// DefaultEnvMap names the environment map shared by the scene's shiny surfaces.
const DefaultEnvMap = "default"

// Texture is an image that may change between frames, such as a
// scrolling texture. Frame returns the image to draw the current frame with.
type Texture interface {
	Frame() *image.RGBA
}

// StandardMaterial is a physically based surface material.
type StandardMaterial struct {
	Color       color.RGBA
	Roughness   float64
	Metalness   float64
	Transparent bool
	Opacity     float64
	// EnvMap names an environment map provided by the renderer.
	EnvMap string
	// EmissiveMap is added to the lit color, scaled by EmissiveIntensity.
	EmissiveMap       Texture
	EmissiveIntensity float64
}

// PipeMaterial returns the material of pipe surfaces: a glossy white
// transparent surface reflecting the default environment.
func PipeMaterial() StandardMaterial {
	return StandardMaterial{
		Color:             color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Transparent:       true,
		Opacity:           1,
		EnvMap:            DefaultEnvMap,
		EmissiveIntensity: 1,
	}
}

// LineMaterial is the material of line segments.
type LineMaterial struct {
	Color       color.RGBA
	Transparent bool
	Opacity     float64
}

// OutlineMaterial returns the material of the glowing pipe outlines.
func OutlineMaterial() LineMaterial {
	return LineMaterial{
		Color:       color.RGBA{R: 0x00, G: 0x11, B: 0xff, A: 255},
		Transparent: true,
		Opacity:     0.4,
	}
}

// ParseHexColor parses colors written as "#rrggbb", "rrggbb" or "#rgb".
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	c := color.RGBA{A: 255}
	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%2x%2x%2x", &c.R, &c.G, &c.B)
	case 3:
		_, err = fmt.Sscanf(s, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("want 3 or 6 hex digits")
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}
