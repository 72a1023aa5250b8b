package graphics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ByteArena/poly2tri-go"

	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/math"
)

// WindingMode decides which regions of overlapping contours count as
// inside. See the OpenGL Red Book, chapter 11, for the definitions.
type WindingMode uint8

const (
	WindingOdd WindingMode = iota
	WindingNonzero
	WindingPositive
	WindingNegative
	WindingAbsGeqTwo
)

// Fills reports whether a region with the given winding number is inside.
func (w WindingMode) Fills(windings int) bool {
	switch w {
	case WindingOdd:
		return windings%2 != 0
	case WindingNonzero:
		return windings != 0
	case WindingPositive:
		return windings > 0
	case WindingNegative:
		return windings < 0
	case WindingAbsGeqTwo:
		return windings >= 2 || windings <= -2
	}
	return false
}

func (w WindingMode) String() string {
	switch w {
	case WindingOdd:
		return "odd"
	case WindingNonzero:
		return "nonzero"
	case WindingPositive:
		return "positive"
	case WindingNegative:
		return "negative"
	case WindingAbsGeqTwo:
		return "abs_geq_two"
	}
	return fmt.Sprintf("WindingMode(%d)", uint8(w))
}

func ParseWindingMode(s string) (WindingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "odd", "evenodd", "":
		return WindingOdd, nil
	case "nonzero":
		return WindingNonzero, nil
	case "positive":
		return WindingPositive, nil
	case "negative":
		return WindingNegative, nil
	case "abs_geq_two":
		return WindingAbsGeqTwo, nil
	}
	return WindingOdd, fmt.Errorf("%w: unknown winding mode %q", core.ErrInvalidConfig, s)
}

func (w *WindingMode) UnmarshalText(text []byte) error {
	parsed, err := ParseWindingMode(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

func (w WindingMode) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

type PrimitiveMode uint8

const (
	PrimitiveTriangles PrimitiveMode = iota
)

// Mesh is an indexed triangle list.
type Mesh struct {
	Mode     PrimitiveMode
	Vertices []math.Vec3
	Indices  []uint32
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the corners of the i-th triangle.
func (m *Mesh) Triangle(i int) [3]math.Vec3 {
	return [3]math.Vec3{
		m.Vertices[m.Indices[3*i]],
		m.Vertices[m.Indices[3*i+1]],
		m.Vertices[m.Indices[3*i+2]],
	}
}

// Area is the summed unsigned area of every triangle in the XY plane.
func (m *Mesh) Area() float32 {
	var area float32
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		area += math.Abs(signedArea(tri[:]))
	}
	return area
}

// Tessellator converts closed polylines into fill meshes and resolved
// outlines.
type Tessellator interface {
	TessellateToMeshes(polylines []*Polyline, winding WindingMode) ([]*Mesh, error)
	TessellateToOutline(polylines []*Polyline, winding WindingMode) ([]*Polyline, error)
}

// sweepTessellator triangulates with poly2tri's constrained Delaunay sweep
// when the contours are simple and do not touch, resolving nesting with a
// containment tree. Crossing or touching contours are split into their
// arrangement first and filled slab by slab.
type sweepTessellator struct{}

func NewTessellator() Tessellator {
	return sweepTessellator{}
}

type contour struct {
	points   []math.Vec3
	area     float32
	parent   int
	children []int
	winding  int
}

func (c *contour) orientation() int {
	if c.area < 0 {
		return -1
	}
	return 1
}

// sanitize drops repeated points, including a closing point equal to the
// first one.
func sanitize(vs []math.Vec3) []math.Vec3 {
	out := make([]math.Vec3, 0, len(vs))
	for _, v := range vs {
		if n := len(out); n > 0 && out[n-1].Compare(v, pointTolerance) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0].Compare(out[len(out)-1], pointTolerance) {
		out = out[:len(out)-1]
	}
	return out
}

func pointInPolygon(p math.Vec3, poly []math.Vec3) bool {
	inside := false
	j := len(poly) - 1
	for i := range poly {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// contains uses a vertex majority so a shared vertex does not decide alone.
func contains(outer, inner *contour) bool {
	in := 0
	for _, v := range inner.points {
		if pointInPolygon(v, outer.points) {
			in++
		}
	}
	return in*2 > len(inner.points)
}

// usableContours returns the sanitized point lists with at least three
// distinct points.
func usableContours(polylines []*Polyline) [][]math.Vec3 {
	var out [][]math.Vec3
	for _, pl := range polylines {
		if pl == nil {
			continue
		}
		if pts := sanitize(pl.Vertices()); len(pts) >= 3 {
			out = append(out, pts)
		}
	}
	return out
}

// buildContours returns the contours with an area ordered from largest to
// smallest, with parents, children and winding numbers resolved.
func buildContours(points [][]math.Vec3) []*contour {
	var contours []*contour
	for _, pts := range points {
		area := signedArea(pts)
		if math.Abs(area) <= math.K_FLOAT_EPSILON {
			continue
		}
		contours = append(contours, &contour{points: pts, area: area, parent: -1})
	}
	sort.SliceStable(contours, func(i, j int) bool {
		return math.Abs(contours[i].area) > math.Abs(contours[j].area)
	})

	// Parents always sort before their children, so the closest container
	// is the last matching candidate.
	for i := range contours {
		for j := i - 1; j >= 0; j-- {
			if contains(contours[j], contours[i]) {
				contours[i].parent = j
				contours[j].children = append(contours[j].children, i)
				break
			}
		}
		parentWinding := 0
		if p := contours[i].parent; p >= 0 {
			parentWinding = contours[p].winding
		}
		contours[i].winding = parentWinding + contours[i].orientation()
	}
	return contours
}

func outsideWinding(contours []*contour, c *contour) int {
	if c.parent < 0 {
		return 0
	}
	return contours[c.parent].winding
}

func (sweepTessellator) TessellateToMeshes(polylines []*Polyline, winding WindingMode) ([]*Mesh, error) {
	points := usableContours(polylines)
	if arr := newArrangement(points); !arr.simple() {
		mesh := arr.fill(winding)
		if mesh.TriangleCount() == 0 {
			return []*Mesh{}, nil
		}
		return []*Mesh{mesh}, nil
	}

	contours := buildContours(points)
	meshes := make([]*Mesh, 0, len(contours))
	for _, c := range contours {
		if !winding.Fills(c.winding) {
			continue
		}
		holes := make([][]math.Vec3, 0, len(c.children))
		for _, child := range c.children {
			holes = append(holes, contours[child].points)
		}
		mesh, err := triangulate(c.points, holes)
		if err != nil {
			return nil, err
		}
		if mesh.TriangleCount() > 0 {
			meshes = append(meshes, mesh)
		}
	}
	return meshes, nil
}

func (sweepTessellator) TessellateToOutline(polylines []*Polyline, winding WindingMode) ([]*Polyline, error) {
	points := usableContours(polylines)
	if arr := newArrangement(points); !arr.simple() {
		return arr.outline(winding), nil
	}

	contours := buildContours(points)
	outlines := make([]*Polyline, 0, len(contours))
	for _, c := range contours {
		inside := winding.Fills(c.winding)
		outside := winding.Fills(outsideWinding(contours, c))
		if inside == outside {
			continue
		}
		pl := NewPolylineFromVertices(c.points)
		pl.SetClosed(true)
		outlines = append(outlines, pl)
	}
	return outlines, nil
}

// triangulate runs the sweep on one region. poly2tri reports bad input by
// panicking, which is turned into ErrTessellationFailed.
func triangulate(outer []math.Vec3, holes [][]math.Vec3) (mesh *Mesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			mesh = nil
			err = fmt.Errorf("%w: %v", core.ErrTessellationFailed, r)
		}
	}()

	mesh = &Mesh{Mode: PrimitiveTriangles}
	// keyed by position, the sweep hands back its own point values
	index := make(map[[2]float64]uint32)
	toPoints := func(vs []math.Vec3) []*poly2tri.Point {
		pts := make([]*poly2tri.Point, len(vs))
		for i, v := range vs {
			pt := poly2tri.NewPoint(float64(v.X), float64(v.Y))
			key := [2]float64{pt.X, pt.Y}
			if _, ok := index[key]; !ok {
				index[key] = uint32(len(mesh.Vertices))
				mesh.Vertices = append(mesh.Vertices, v)
			}
			pts[i] = pt
		}
		return pts
	}

	swctx := poly2tri.NewSweepContext(toPoints(outer), false)
	for _, h := range holes {
		swctx.AddHole(toPoints(h))
	}
	swctx.Triangulate()

	for _, tr := range swctx.GetTriangles() {
		for _, pt := range tr.Points {
			key := [2]float64{pt.X, pt.Y}
			idx, ok := index[key]
			if !ok {
				// a point the sweep created itself
				idx = uint32(len(mesh.Vertices))
				index[key] = idx
				mesh.Vertices = append(mesh.Vertices, math.NewVec3(float32(pt.X), float32(pt.Y), 0))
			}
			mesh.Indices = append(mesh.Indices, idx)
		}
	}
	return mesh, nil
}
