// Package preview renders a scene to an image on the CPU so generated
// pipes can be inspected without a GPU.
package preview

import (
	"errors"
	"image"
	"math"

	"github.com/SergiiSharpov/gaspoc/internal/d3"
	"github.com/SergiiSharpov/gaspoc/scene"
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/spatial/r3"
)

// Options configures a preview render.
type Options struct {
	Width, Height int
	// Supersample renders at this many times the output size and
	// downsamples the result for antialiasing.
	Supersample int
	// Eye is the direction from the scene center towards the camera.
	Eye r3.Vec
	// Up is the camera's up direction.
	Up         r3.Vec
	Background string // hex color.
	// Flow maps each surface's flow texture onto it. Otherwise surfaces
	// are drawn with their material color.
	Flow bool
	// TextureRows caps the height of flow textures handed to the
	// rasteriser. Taller textures are resampled. Zero disables the cap.
	TextureRows int
	// Outlines draws line nodes.
	Outlines bool
}

// DefaultOptions returns an isometric 800x600 view with flow and outlines.
func DefaultOptions() Options {
	return Options{
		Width:       800,
		Height:      600,
		Supersample: 2,
		Eye:         r3.Vec{X: 1, Y: 1, Z: 1},
		Up:          r3.Vec{Y: 1},
		Background:  "#FFF8E3",
		Flow:        true,
		TextureRows: 1024,
		Outlines:    true,
	}
}

const (
	fovy = 30 // vertical field of view in degrees
	near = 1
	far  = 10
)

var errEmptyScene = errors.New("nothing to render")

// Render draws the visible meshes and lines under root.
func Render(root scene.Node, opts Options) (image.Image, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	scale := max(opts.Supersample, 1)
	items := collect(root)
	bb := d3.EmptyBox()
	for _, it := range items {
		bb = bb.Extend(it.bounds)
	}
	if bb.Empty() {
		return nil, errEmptyScene
	}
	// Fit the scene in a bi-unit cube centered at the origin.
	fit := 2 / math.Max(d3.Max(bb.Size()), 1e-12)
	view := d3.ComposeTransform(r3.Vec{}, d3.Elem(fit), r3.Rotation{}).
		Mul(d3.Transform{}.Translate(r3.Scale(-1, bb.Center())))
	toView := func(p r3.Vec) fauxgl.Vector {
		p = view.Transform(p)
		return fauxgl.V(p.X, p.Y, p.Z)
	}

	eyeDir := opts.Eye
	if r3.Norm(eyeDir) == 0 {
		eyeDir = r3.Vec{X: 1, Y: 1, Z: 1}
	}
	eyeDir = r3.Scale(4, r3.Unit(eyeDir))
	up := opts.Up
	if r3.Norm(up) == 0 {
		up = r3.Vec{Y: 1}
	}
	var (
		eye    = fauxgl.V(eyeDir.X, eyeDir.Y, eyeDir.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		upv    = fauxgl.V(up.X, up.Y, up.Z)
		aspect = float64(opts.Width) / float64(opts.Height)
	)
	matrix := fauxgl.LookAt(eye, fauxgl.Vector{}, upv).Perspective(fovy, aspect, near, far)

	ctx := fauxgl.NewContext(opts.Width*scale, opts.Height*scale)
	bg := fauxgl.HexColor("#FFF8E3")
	if opts.Background != "" {
		bg = fauxgl.HexColor(opts.Background)
	}
	ctx.ClearColorBufferWith(bg)
	ctx.AlphaBlend = true
	ctx.LineWidth = float64(scale)

	// Surfaces first so outlines are depth tested against them.
	for _, it := range items {
		if it.mesh == nil {
			continue
		}
		shader := fauxgl.NewPhongShader(matrix, light, eye)
		shader.ObjectColor = fauxgl.MakeColor(it.mesh.Material.Color)
		if opts.Flow && it.mesh.Material.EmissiveMap != nil {
			frame := capRows(it.mesh.Material.EmissiveMap.Frame(), opts.TextureRows)
			shader.Texture = fauxgl.NewImageTexture(frame)
		}
		ctx.Shader = shader
		ctx.DrawTriangles(surfaceTriangles(it.mesh, it.world, toView))
	}
	if opts.Outlines {
		for _, it := range items {
			if it.lines == nil {
				continue
			}
			c := fauxgl.MakeColor(it.lines.Material.Color)
			c.A = it.lines.Material.Opacity
			ctx.Shader = fauxgl.NewSolidColorShader(matrix, c)
			ctx.DrawLines(outlineLines(it.lines, it.world, toView))
		}
	}
	img := ctx.Image()
	if scale > 1 {
		img = resize.Resize(uint(opts.Width), uint(opts.Height), img, resize.Bilinear)
	}
	return img, nil
}

// Save renders root and writes it to a PNG file.
func Save(path string, root scene.Node, opts Options) error {
	img, err := Render(root, opts)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

type item struct {
	world  d3.Transform
	bounds d3.Box
	mesh   *scene.Mesh
	lines  *scene.Lines
}

func collect(root scene.Node) []item {
	var items []item
	scene.Walk(root, func(n scene.Node, world d3.Transform) error {
		it := item{world: world, bounds: d3.EmptyBox()}
		switch n := n.(type) {
		case *scene.Mesh:
			if n.Geometry == nil {
				return nil
			}
			it.mesh = n
			for i := 0; i < n.Geometry.Len(); i++ {
				p, _, _ := n.Geometry.Vertex(i)
				it.bounds = it.bounds.Include(world.Transform(p))
			}
		case *scene.Lines:
			it.lines = n
			for _, l := range n.Segments {
				it.bounds = it.bounds.Include(world.Transform(l[0])).Include(world.Transform(l[1]))
			}
		default:
			return nil
		}
		items = append(items, it)
		return nil
	})
	return items
}

func surfaceTriangles(m *scene.Mesh, world d3.Transform, toView func(r3.Vec) fauxgl.Vector) []*fauxgl.Triangle {
	g := m.Geometry
	tris := make([]*fauxgl.Triangle, 0, g.Len()/3)
	for i := 0; i+2 < g.Len(); i += 3 {
		var v [3]fauxgl.Vertex
		for j := range v {
			p, n, uv := g.Vertex(i + j)
			if n = world.Direction(n); r3.Norm2(n) > 0 {
				n = r3.Unit(n)
			}
			v[j] = fauxgl.Vertex{
				Position: toView(world.Transform(p)),
				Normal:   fauxgl.V(n.X, n.Y, n.Z),
				Texture:  fauxgl.V(uv.X, uv.Y, 0),
			}
		}
		tris = append(tris, fauxgl.NewTriangle(v[0], v[1], v[2]))
	}
	return tris
}

func outlineLines(l *scene.Lines, world d3.Transform, toView func(r3.Vec) fauxgl.Vector) []*fauxgl.Line {
	lines := make([]*fauxgl.Line, len(l.Segments))
	for i, s := range l.Segments {
		lines[i] = fauxgl.NewLine(
			fauxgl.Vertex{Position: toView(world.Transform(s[0]))},
			fauxgl.Vertex{Position: toView(world.Transform(s[1]))},
		)
	}
	return lines
}

// capRows resamples img to at most rows rows, keeping its width. Shrinking
// averages neighbouring rows so a band thinner than a pixel still shows.
func capRows(img *image.RGBA, rows int) *image.RGBA {
	b := img.Bounds()
	if rows <= 0 || b.Dy() <= rows {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), rows))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
