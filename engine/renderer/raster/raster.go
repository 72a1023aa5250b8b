package raster

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/vector"

	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/graphics"
	"github.com/spaghettifunk/anima-vector/engine/math"
)

type style struct {
	color     graphics.Color
	lineWidth float32
}

// Stats counts what was drawn since the last Clear.
type Stats struct {
	Meshes    int
	Polylines int
	Triangles int
	Segments  int
}

/**
 * @brief Software backend drawing into an RGBA image. Meshes are filled
 * triangle by triangle and polylines are stroked as one quad per segment.
 * The matrix stack only supports translation.
 */
type Backend struct {
	target     *image.RGBA
	rasterizer *vector.Rasterizer
	background graphics.Color

	offset  math.Vec2
	matrix  []math.Vec2
	current style
	styles  []style

	stats Stats
}

func New(width, height int) *Backend {
	b := &Backend{
		background: graphics.ColorBlack,
		current:    style{color: graphics.ColorWhite, lineWidth: 1},
	}
	b.resize(width, height)
	return b
}

func (b *Backend) resize(width, height int) {
	width = math.Max(width, 1)
	height = math.Max(height, 1)
	b.target = image.NewRGBA(image.Rect(0, 0, width, height))
	b.rasterizer = vector.NewRasterizer(width, height)
	b.rasterizer.DrawOp = draw.Over
	b.Clear()
}

func (b *Backend) Initialize(appName string, appWidth, appHeight uint32) error {
	b.resize(int(appWidth), int(appHeight))
	core.LogInfo("software renderer initialized for %s (%dx%d)", appName, appWidth, appHeight)
	return nil
}

func (b *Backend) Shutdown() error {
	b.matrix = nil
	b.styles = nil
	return nil
}

func (b *Backend) Resized(width, height uint16) error {
	b.resize(int(width), int(height))
	return nil
}

// BeginFrame clears the target and resets both stacks.
func (b *Backend) BeginFrame(deltaTime float64) error {
	b.offset = math.Vec2{}
	b.matrix = b.matrix[:0]
	b.styles = b.styles[:0]
	b.current = style{color: graphics.ColorWhite, lineWidth: 1}
	b.Clear()
	return nil
}

func (b *Backend) EndFrame(deltaTime float64) error {
	if len(b.matrix) > 0 || len(b.styles) > 0 {
		return fmt.Errorf("unbalanced frame: %d matrices and %d styles still pushed", len(b.matrix), len(b.styles))
	}
	return nil
}

func (b *Backend) SetBackground(c graphics.Color) {
	b.background = c
}

// Clear fills the target with the background colour and resets Stats.
func (b *Backend) Clear() {
	draw.Draw(b.target, b.target.Bounds(), image.NewUniform(b.background), image.Point{}, draw.Src)
	b.stats = Stats{}
}

func (b *Backend) Image() *image.RGBA {
	return b.target
}

func (b *Backend) Stats() Stats {
	return b.stats
}

func (b *Backend) PushMatrix() {
	b.matrix = append(b.matrix, b.offset)
}

func (b *Backend) PopMatrix() {
	if len(b.matrix) == 0 {
		core.LogWarn("PopMatrix called with an empty matrix stack")
		return
	}
	b.offset = b.matrix[len(b.matrix)-1]
	b.matrix = b.matrix[:len(b.matrix)-1]
}

// Translate moves the origin. z is ignored by a 2D target.
func (b *Backend) Translate(x, y, z float32) {
	b.offset = b.offset.Add(math.NewVec2(x, y))
}

func (b *Backend) PushStyle() {
	b.styles = append(b.styles, b.current)
}

func (b *Backend) PopStyle() {
	if len(b.styles) == 0 {
		core.LogWarn("PopStyle called with an empty style stack")
		return
	}
	b.current = b.styles[len(b.styles)-1]
	b.styles = b.styles[:len(b.styles)-1]
}

func (b *Backend) SetColor(c graphics.Color) {
	b.current.color = c
}

func (b *Backend) SetLineWidth(width float32) {
	b.current.lineWidth = width
}

func (b *Backend) point(v math.Vec3) (float32, float32) {
	return v.X + b.offset.X, v.Y + b.offset.Y
}

// DrawMesh fills every triangle of the mesh with the current colour. All
// triangles go through a single rasterizer pass so shared edges blend
// without seams.
func (b *Backend) DrawMesh(mesh *graphics.Mesh) {
	if mesh == nil || mesh.TriangleCount() == 0 {
		return
	}
	b.begin()
	for i := 0; i < mesh.TriangleCount(); i++ {
		tri := mesh.Triangle(i)
		// same orientation for every triangle, the rasterizer sums signed coverage
		if (tri[1].X-tri[0].X)*(tri[2].Y-tri[0].Y)-(tri[2].X-tri[0].X)*(tri[1].Y-tri[0].Y) < 0 {
			tri[1], tri[2] = tri[2], tri[1]
		}
		b.rasterizer.MoveTo(b.point(tri[0]))
		b.rasterizer.LineTo(b.point(tri[1]))
		b.rasterizer.LineTo(b.point(tri[2]))
		b.rasterizer.ClosePath()
	}
	b.flush()
	b.stats.Meshes++
	b.stats.Triangles += mesh.TriangleCount()
}

// DrawPolyline strokes the polyline with the current line width, never
// thinner than one pixel.
func (b *Backend) DrawPolyline(polyline *graphics.Polyline) {
	if polyline == nil || polyline.Size() < 2 {
		return
	}
	vs := polyline.Vertices()
	halfWidth := math.Max(b.current.lineWidth, 1) / 2

	b.begin()
	segments := 0
	stroke := func(from, to math.Vec3) {
		dir := to.ToVec2().Sub(from.ToVec2())
		if dir.Length() <= math.K_FLOAT_EPSILON {
			return
		}
		dir = dir.Normalized().MulScalar(halfWidth)
		n := dir.Perp()
		// extend both ends by half the width so joins are covered
		a := from.ToVec2().Sub(dir)
		c := to.ToVec2().Add(dir)
		b.quad(a.Add(n), c.Add(n), c.Sub(n), a.Sub(n))
		segments++
	}
	for i := 1; i < len(vs); i++ {
		stroke(vs[i-1], vs[i])
	}
	if polyline.IsClosed() && len(vs) > 2 {
		stroke(vs[len(vs)-1], vs[0])
	}
	b.flush()
	b.stats.Polylines++
	b.stats.Segments += segments
}

func (b *Backend) quad(p0, p1, p2, p3 math.Vec2) {
	b.rasterizer.MoveTo(p0.X+b.offset.X, p0.Y+b.offset.Y)
	b.rasterizer.LineTo(p1.X+b.offset.X, p1.Y+b.offset.Y)
	b.rasterizer.LineTo(p2.X+b.offset.X, p2.Y+b.offset.Y)
	b.rasterizer.LineTo(p3.X+b.offset.X, p3.Y+b.offset.Y)
	b.rasterizer.ClosePath()
}

func (b *Backend) begin() {
	bounds := b.target.Bounds()
	b.rasterizer.Reset(bounds.Dx(), bounds.Dy())
	b.rasterizer.DrawOp = draw.Over
}

func (b *Backend) flush() {
	b.rasterizer.Draw(b.target, b.target.Bounds(), image.NewUniform(b.current.color), image.Point{})
}

// SavePNG writes the current target to path.
func (b *Backend) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, b.target); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
