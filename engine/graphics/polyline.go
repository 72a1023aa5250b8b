package graphics

import (
	m "math"

	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/math"
)

const (
	DefaultCurveResolution = 16
	DefaultArcResolution   = 20
	// upper bound for any per-curve resolution
	MaxResolution = 4096
)

// pointTolerance is used to avoid emitting the same point twice when a
// curve starts where the polyline currently ends.
const pointTolerance float32 = 1e-5

/**
 * @brief A flattened, ordered sequence of points. Curves are approximated
 * with line segments at the resolution given to each call.
 */
type Polyline struct {
	vertices []math.Vec3
	// Catmull-Rom control points accumulated by CurveTo.
	curveVertices []math.Vec3
	closed        bool
}

func NewPolyline() *Polyline {
	return &Polyline{}
}

// NewPolylineFromVertices copies vertices into a new open polyline.
func NewPolylineFromVertices(vertices []math.Vec3) *Polyline {
	return &Polyline{vertices: append([]math.Vec3(nil), vertices...)}
}

func clampResolution(resolution int) int {
	return math.Clamp(resolution, 1, MaxResolution)
}

// Clear drops every vertex and reopens the polyline.
func (p *Polyline) Clear() {
	p.vertices = p.vertices[:0]
	p.curveVertices = nil
	p.closed = false
}

func (p *Polyline) AddVertex(v math.Vec3) {
	p.curveVertices = nil
	p.vertices = append(p.vertices, v)
}

func (p *Polyline) AddVertices(vs ...math.Vec3) {
	p.curveVertices = nil
	p.vertices = append(p.vertices, vs...)
}

func (p *Polyline) LineTo(v math.Vec3) {
	p.AddVertex(v)
}

// appendIfNew adds v unless it matches the current last vertex.
func (p *Polyline) appendIfNew(v math.Vec3) {
	if n := len(p.vertices); n > 0 && p.vertices[n-1].Compare(v, pointTolerance) {
		return
	}
	p.vertices = append(p.vertices, v)
}

// CurveTo adds a Catmull-Rom control point. Once four control points have
// been collected, the span between the middle two is emitted with
// resolution segments. Any other drawing call restarts the control point
// collection.
func (p *Polyline) CurveTo(to math.Vec3, resolution int) {
	resolution = clampResolution(resolution)
	p.curveVertices = append(p.curveVertices, to)
	n := len(p.curveVertices)
	if n < 4 {
		return
	}
	p0, p1, p2, p3 := p.curveVertices[n-4], p.curveVertices[n-3], p.curveVertices[n-2], p.curveVertices[n-1]
	p.appendIfNew(p1)
	for i := 1; i <= resolution; i++ {
		t := float32(i) / float32(resolution)
		p.vertices = append(p.vertices, catmullRom(p0, p1, p2, p3, t))
	}
	// only the last three are needed for the next span
	p.curveVertices = append(p.curveVertices[:0], p.curveVertices[n-3:]...)
}

// BezierTo adds a cubic Bezier from the last vertex through the control
// points cp1 and cp2 to to. It needs a start point, so nothing happens on
// an empty polyline.
func (p *Polyline) BezierTo(cp1, cp2, to math.Vec3, resolution int) {
	p.curveVertices = nil
	if len(p.vertices) == 0 {
		core.LogWarn("bezierTo called on an empty polyline, call moveTo first")
		return
	}
	resolution = clampResolution(resolution)
	start := p.vertices[len(p.vertices)-1]
	for i := 1; i <= resolution; i++ {
		t := float32(i) / float32(resolution)
		p.vertices = append(p.vertices, cubicBezier(start, cp1, cp2, to, t))
	}
}

// QuadBezierTo adds a quadratic curve that starts at cp1, is pulled toward
// cp2 and ends at to. The start point is skipped when the polyline already
// ends there.
func (p *Polyline) QuadBezierTo(cp1, cp2, to math.Vec3, resolution int) {
	p.curveVertices = nil
	resolution = clampResolution(resolution)
	p.appendIfNew(cp1)
	for i := 1; i <= resolution; i++ {
		t := float32(i) / float32(resolution)
		p.vertices = append(p.vertices, quadBezier(cp1, cp2, to, t))
	}
}

// Arc adds an elliptical arc around centre. Angles are in degrees and the
// arc runs from angleBegin to angleEnd, counter-clockwise when angleEnd is
// larger. resolution is the number of segments for a full turn.
func (p *Polyline) Arc(centre math.Vec3, radiusX, radiusY, angleBegin, angleEnd float32, resolution int) {
	p.curveVertices = nil
	resolution = clampResolution(resolution)
	sweep := angleEnd - angleBegin
	segments := int(m.Ceil(float64(float32(resolution) * math.Abs(sweep) / 360)))
	segments = math.Clamp(segments, 1, MaxResolution)

	for i := 0; i <= segments; i++ {
		angle := math.DegToRad(angleBegin + sweep*float32(i)/float32(segments))
		v := math.NewVec3(
			centre.X+radiusX*math.Cos(angle),
			centre.Y+radiusY*math.Sin(angle),
			centre.Z)
		if i == 0 {
			p.appendIfNew(v)
			continue
		}
		p.vertices = append(p.vertices, v)
	}
}

func (p *Polyline) SetClosed(closed bool) {
	p.closed = closed
}

func (p *Polyline) IsClosed() bool {
	return p.closed
}

func (p *Polyline) Size() int {
	return len(p.vertices)
}

// Vertices returns the backing slice. Callers must not modify it.
func (p *Polyline) Vertices() []math.Vec3 {
	return p.vertices
}

func (p *Polyline) Clone() *Polyline {
	return &Polyline{
		vertices:      append([]math.Vec3(nil), p.vertices...),
		curveVertices: append([]math.Vec3(nil), p.curveVertices...),
		closed:        p.closed,
	}
}

// Bounds returns the 2D bounding box. An empty polyline has zero extents.
func (p *Polyline) Bounds() math.Extents2D {
	if len(p.vertices) == 0 {
		return math.Extents2D{}
	}
	e := math.Extents2D{Min: p.vertices[0].ToVec2(), Max: p.vertices[0].ToVec2()}
	for _, v := range p.vertices[1:] {
		e.Min.X = math.Min(e.Min.X, v.X)
		e.Min.Y = math.Min(e.Min.Y, v.Y)
		e.Max.X = math.Max(e.Max.X, v.X)
		e.Max.Y = math.Max(e.Max.Y, v.Y)
	}
	return e
}

// Perimeter is the summed segment length, including the closing segment
// of a closed polyline.
func (p *Polyline) Perimeter() float32 {
	var length float32
	for i := 1; i < len(p.vertices); i++ {
		length += p.vertices[i].Distance(p.vertices[i-1])
	}
	if p.closed && len(p.vertices) > 2 {
		length += p.vertices[0].Distance(p.vertices[len(p.vertices)-1])
	}
	return length
}

// SignedArea of the polygon the vertices describe in the XY plane.
// Positive for counter-clockwise order in a y-up frame.
func (p *Polyline) SignedArea() float32 {
	return signedArea(p.vertices)
}

func signedArea(vs []math.Vec3) float32 {
	if len(vs) < 3 {
		return 0
	}
	var area float32
	prev := vs[len(vs)-1]
	for _, v := range vs {
		area += prev.X*v.Y - v.X*prev.Y
		prev = v
	}
	return area / 2
}

func catmullRom(p0, p1, p2, p3 math.Vec3, t float32) math.Vec3 {
	t2 := t * t
	t3 := t2 * t
	f := func(a, b, c, d float32) float32 {
		return 0.5 * ((2 * b) +
			(-a+c)*t +
			(2*a-5*b+4*c-d)*t2 +
			(-a+3*b-3*c+d)*t3)
	}
	return math.NewVec3(
		f(p0.X, p1.X, p2.X, p3.X),
		f(p0.Y, p1.Y, p2.Y, p3.Y),
		f(p0.Z, p1.Z, p2.Z, p3.Z))
}

// (1-t)^3 P0 + 3(1-t)^2 t P1 + 3(1-t) t^2 P2 + t^3 P3
func cubicBezier(p0, p1, p2, p3 math.Vec3, t float32) math.Vec3 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return math.NewVec3(
		a*p0.X+b*p1.X+c*p2.X+d*p3.X,
		a*p0.Y+b*p1.Y+c*p2.Y+d*p3.Y,
		a*p0.Z+b*p1.Z+c*p2.Z+d*p3.Z)
}

// (1-t)^2 P0 + 2(1-t)t P1 + t^2 P2
func quadBezier(p0, p1, p2 math.Vec3, t float32) math.Vec3 {
	mt := 1 - t
	a := mt * mt
	b := 2 * mt * t
	c := t * t
	return math.NewVec3(
		a*p0.X+b*p1.X+c*p2.X,
		a*p0.Y+b*p1.Y+c*p2.Y,
		a*p0.Z+b*p1.Z+c*p2.Z)
}
