// Package flow draws the texture that shows fluid moving through a pipe and
// animates it by scrolling the texture along the pipe.
//
// The texture is a narrow black strip with a short white band at its end.
// Mapped onto a pipe with V running along the path, scrolling the V offset
// makes the band travel from the first waypoint to the last one.
package flow

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/SergiiSharpov/gaspoc"
	"golang.org/x/image/draw"
)

const (
	// TextureWidth is the width of every flow texture in pixels.
	TextureWidth = 8
	// MinTextureHeight is the height of the texture of very short pipes.
	MinTextureHeight = 8
	// MaxTextureSize is the largest texture height supported.
	MaxTextureSize = 16384
	// PulseFraction is the fraction of the texture height taken by the pulse.
	PulseFraction = 0.03
)

// ErrTextureTooLarge is returned when a path is too long for its flow
// texture to fit in MaxTextureSize.
var ErrTextureTooLarge = errors.New("flow texture exceeds maximum size")

var (
	bodyColor  = color.RGBA{A: 255}
	pulseColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Texture is the flow bitmap of one pipe together with its scroll offset.
type Texture struct {
	img *image.RGBA
	// offset is the V texture offset, in (-1,0].
	offset float64
}

// TextureHeight returns the height in pixels of the flow texture of a
// path pathLength long: twice the next power of two, at least MinTextureHeight.
func TextureHeight(pathLength float64) int {
	h := math.Max(MinTextureHeight, gaspoc.CeilPowerOfTwo(pathLength)*2)
	return int(math.Min(h, math.MaxInt32))
}

// NewTexture returns the flow texture of a path of length pathLength.
func NewTexture(pathLength float64) (*Texture, error) {
	if math.IsNaN(pathLength) || math.IsInf(pathLength, 0) || pathLength < 0 {
		return nil, fmt.Errorf("invalid path length %g", pathLength)
	}
	h := TextureHeight(pathLength)
	if h > MaxTextureSize {
		return nil, fmt.Errorf("%w: path length %g needs height %d", ErrTextureTooLarge, pathLength, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, TextureWidth, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(pulseColor), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, TextureWidth, bodyRows(h)), image.NewUniform(bodyColor), image.Point{}, draw.Src)
	return &Texture{img: img}, nil
}

// bodyRows returns the number of dark rows, leaving at least one pulse row.
func bodyRows(h int) int {
	return min(int(float64(h)*(1-PulseFraction)), h-1)
}

// Bounds returns the pixel bounds of the texture.
func (t *Texture) Bounds() image.Rectangle { return t.img.Bounds() }

// Image returns the texture bitmap without the scroll offset applied.
// Row 0 is the top of the texture which maps to V=1.
func (t *Texture) Image() *image.RGBA { return t.img }

// Offset returns the current V offset.
func (t *Texture) Offset() float64 { return t.offset }

// SetProgress scrolls the texture so the pulse sits at fraction p of the
// path. p is wrapped into [0,1).
func (t *Texture) SetProgress(p float64) {
	if !gaspoc.IsFinite(p) {
		return
	}
	t.offset = -gaspoc.Fract(p)
}

// row returns the texture row sampled at texture coordinate v with the
// offset applied and repeat wrapping.
func (t *Texture) row(v float64) int {
	h := t.img.Bounds().Dy()
	s := gaspoc.Fract(v + t.offset)
	y := int((1 - s) * float64(h))
	return min(max(y, 0), h-1)
}

// At returns the color of the texture at texture coordinates (u,v) with
// the scroll offset applied.
func (t *Texture) At(u, v float64) color.RGBA {
	x := int(gaspoc.Fract(u) * TextureWidth)
	return t.img.RGBAAt(min(x, TextureWidth-1), t.row(v))
}

// Intensity returns the brightness of the texture at V coordinate v in [0,1].
func (t *Texture) Intensity(v float64) float64 {
	c := t.At(0, v)
	return float64(c.R) / 255
}

// Frame returns a copy of the texture with the scroll offset baked in so
// it can be used by renderers that do not support texture offsets.
func (t *Texture) Frame() *image.RGBA {
	b := t.img.Bounds()
	h := b.Dy()
	dst := image.NewRGBA(b)
	// Row y of the frame is row y+shift of the bitmap.
	shift := int(math.Round(-t.offset*float64(h))) % h
	draw.Draw(dst, image.Rect(0, 0, b.Dx(), h-shift), t.img, image.Point{Y: shift}, draw.Src)
	draw.Draw(dst, image.Rect(0, h-shift, b.Dx(), h), t.img, image.Point{}, draw.Src)
	return dst
}
