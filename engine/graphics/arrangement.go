package graphics

import (
	m "math"
	"sort"

	"github.com/spaghettifunk/anima-vector/engine/math"
)

// Distances below this are treated as the same point when contours are
// split at their intersections.
const arrangementEpsilon = 1e-6

type point struct {
	x, y float64
}

func (p point) sub(o point) point     { return point{p.x - o.x, p.y - o.y} }
func (p point) scale(s float64) point { return point{p.x * s, p.y * s} }
func (p point) cross(o point) float64 { return p.x*o.y - p.y*o.x }
func (p point) dot(o point) float64   { return p.x*o.x + p.y*o.y }
func (p point) length() float64       { return m.Hypot(p.x, p.y) }
func (p point) lerp(o point, t float64) point {
	return point{p.x + (o.x-p.x)*t, p.y + (o.y-p.y)*t}
}

type segment struct {
	a, b point
}

func (s segment) bounds() (minX, minY, maxX, maxY float64) {
	return m.Min(s.a.x, s.b.x), m.Min(s.a.y, s.b.y), m.Max(s.a.x, s.b.x), m.Max(s.a.y, s.b.y)
}

type vertexKey [2]int64

func keyOf(p point) vertexKey {
	return vertexKey{int64(m.Round(p.x / arrangementEpsilon)), int64(m.Round(p.y / arrangementEpsilon))}
}

// halfEdge is a directed piece of an input edge between two vertices of
// the arrangement.
type halfEdge struct {
	from, to int
}

/**
 * @brief The planar arrangement of a set of closed contours: every edge is
 * split where it meets another one, so the pieces only touch at their
 * ends. Winding numbers are then constant on either side of each piece.
 */
type arrangement struct {
	segments []segment
	vertices []point
	index    map[vertexKey]int
	pieces   []halfEdge
	// an edge was split somewhere other than its ends
	crossed bool
	z       float32
}

func newArrangement(contours [][]math.Vec3) *arrangement {
	a := &arrangement{index: make(map[vertexKey]int)}
	for ci, c := range contours {
		if ci == 0 && len(c) > 0 {
			a.z = c[0].Z
		}
		for i := range c {
			p, q := c[i], c[(i+1)%len(c)]
			a.segments = append(a.segments, segment{
				a: point{float64(p.X), float64(p.Y)},
				b: point{float64(q.X), float64(q.Y)},
			})
		}
	}

	splits := make([][]float64, len(a.segments))
	for i := range a.segments {
		for j := i + 1; j < len(a.segments); j++ {
			ti, tj := intersectSegments(a.segments[i], a.segments[j])
			splits[i] = append(splits[i], ti...)
			splits[j] = append(splits[j], tj...)
		}
	}

	for i, s := range a.segments {
		ts := append([]float64{0, 1}, splits[i]...)
		sort.Float64s(ts)
		length := s.b.sub(s.a).length()
		prev := a.vertex(s.a)
		for _, t := range ts[1:] {
			var next int
			if t >= 1 {
				next = a.vertex(s.b)
			} else {
				if t*length > arrangementEpsilon && (1-t)*length > arrangementEpsilon {
					a.crossed = true
				}
				next = a.vertex(s.a.lerp(s.b, t))
			}
			if next != prev {
				a.pieces = append(a.pieces, halfEdge{from: prev, to: next})
				prev = next
			}
		}
	}
	return a
}

func (a *arrangement) vertex(p point) int {
	key := keyOf(p)
	if i, ok := a.index[key]; ok {
		return i
	}
	a.index[key] = len(a.vertices)
	a.vertices = append(a.vertices, p)
	return len(a.vertices) - 1
}

// simple reports whether no contour touches or crosses another contour or
// itself. Only then is the containment tree enough to resolve windings.
func (a *arrangement) simple() bool {
	if a.crossed {
		return false
	}
	degree := make([]int, len(a.vertices))
	for _, p := range a.pieces {
		degree[p.from]++
		degree[p.to]++
	}
	for _, d := range degree {
		if d != 2 {
			return false
		}
	}
	return true
}

// intersectSegments returns, for each segment, the parameters at which the
// other one touches it. Collinear overlaps report the overlapping ends.
func intersectSegments(s, o segment) ([]float64, []float64) {
	sMinX, sMinY, sMaxX, sMaxY := s.bounds()
	oMinX, oMinY, oMaxX, oMaxY := o.bounds()
	if sMaxX < oMinX-arrangementEpsilon || oMaxX < sMinX-arrangementEpsilon ||
		sMaxY < oMinY-arrangementEpsilon || oMaxY < sMinY-arrangementEpsilon {
		return nil, nil
	}

	r := s.b.sub(s.a)
	d := o.b.sub(o.a)
	rl, dl := r.length(), d.length()
	if rl == 0 || dl == 0 {
		return nil, nil
	}
	qp := o.a.sub(s.a)
	denom := r.cross(d)

	if m.Abs(denom) > arrangementEpsilon*rl*dl {
		t := qp.cross(d) / denom
		u := qp.cross(r) / denom
		et, eu := arrangementEpsilon/rl, arrangementEpsilon/dl
		if t < -et || t > 1+et || u < -eu || u > 1+eu {
			return nil, nil
		}
		return []float64{clamp01(t)}, []float64{clamp01(u)}
	}

	// parallel, only collinear segments can share points
	if m.Abs(r.cross(qp))/rl > arrangementEpsilon {
		return nil, nil
	}
	var ts, us []float64
	for _, p := range []point{o.a, o.b} {
		if t := p.sub(s.a).dot(r) / (rl * rl); t > 0 && t < 1 {
			ts = append(ts, t)
		}
	}
	for _, p := range []point{s.a, s.b} {
		if u := p.sub(o.a).dot(d) / (dl * dl); u > 0 && u < 1 {
			us = append(us, u)
		}
	}
	return ts, us
}

func clamp01(t float64) float64 {
	return m.Max(0, m.Min(1, t))
}

// windingAt is the winding number of p with respect to the input edges,
// positive inside counter-clockwise contours.
func (a *arrangement) windingAt(p point) int {
	wn := 0
	for _, s := range a.segments {
		side := s.b.sub(s.a).cross(p.sub(s.a))
		if s.a.y <= p.y {
			if s.b.y > p.y && side > 0 {
				wn++
			}
		} else if s.b.y <= p.y && side < 0 {
			wn--
		}
	}
	return wn
}

// boundary returns the pieces that separate filled from unfilled space,
// directed so the filled side is on their left.
func (a *arrangement) boundary(winding WindingMode) []halfEdge {
	type group struct {
		lo, hi int
		net    int
	}
	groups := make(map[[2]int]*group)
	var order [][2]int
	for _, p := range a.pieces {
		lo, hi, dir := p.from, p.to, 1
		if lo > hi {
			lo, hi, dir = hi, lo, -1
		}
		key := [2]int{lo, hi}
		g, ok := groups[key]
		if !ok {
			g = &group{lo: lo, hi: hi}
			groups[key] = g
			order = append(order, key)
		}
		g.net += dir
	}

	var edges []halfEdge
	for _, key := range order {
		g := groups[key]
		lo, hi := a.vertices[g.lo], a.vertices[g.hi]
		d := hi.sub(lo)
		length := d.length()
		normal := point{-d.y / length, d.x / length}
		offset := m.Min(length*1e-3, 1e-4)
		right := a.windingAt(lo.lerp(hi, 0.5).sub(normal.scale(offset)))
		left := right + g.net

		fillLeft, fillRight := winding.Fills(left), winding.Fills(right)
		switch {
		case fillLeft && !fillRight:
			edges = append(edges, halfEdge{from: g.lo, to: g.hi})
		case fillRight && !fillLeft:
			edges = append(edges, halfEdge{from: g.hi, to: g.lo})
		}
	}
	return edges
}

// outline links the boundary pieces into closed loops. At a vertex shared
// by several loops the walk takes the first piece clockwise from where it
// came, which keeps it on the same filled region.
func (a *arrangement) outline(winding WindingMode) []*Polyline {
	edges := a.boundary(winding)
	outgoing := make(map[int][]int)
	for i, e := range edges {
		outgoing[e.from] = append(outgoing[e.from], i)
	}
	used := make([]bool, len(edges))

	var loops []*Polyline
	for start := range edges {
		if used[start] {
			continue
		}
		var loop []point
		closed := false
		for e := start; ; {
			used[e] = true
			loop = append(loop, a.vertices[edges[e].from])
			v := edges[e].to
			back := a.vertices[edges[e].from].sub(a.vertices[v])

			next, best := -1, m.Inf(1)
			for _, c := range outgoing[v] {
				if used[c] && c != start {
					continue
				}
				angle := clockwiseAngle(back, a.vertices[edges[c].to].sub(a.vertices[v]))
				if angle < best {
					next, best = c, angle
				}
			}
			if next == start {
				closed = true
				break
			}
			if next < 0 {
				break
			}
			e = next
		}
		if !closed {
			continue
		}
		loop = dropCollinear(loop)
		if len(loop) < 3 {
			continue
		}
		vs := make([]math.Vec3, len(loop))
		for i, p := range loop {
			vs[i] = math.NewVec3(float32(p.x), float32(p.y), a.z)
		}
		pl := NewPolylineFromVertices(vs)
		pl.SetClosed(true)
		loops = append(loops, pl)
	}
	return loops
}

// clockwiseAngle measures from `from` to `to` turning clockwise, in
// (0, 2π]. Going straight back comes last.
func clockwiseAngle(from, to point) float64 {
	angle := m.Atan2(from.y, from.x) - m.Atan2(to.y, to.x)
	for angle <= 1e-12 {
		angle += 2 * m.Pi
	}
	for angle > 2*m.Pi {
		angle -= 2 * m.Pi
	}
	return angle
}

// dropCollinear removes the vertices splitting left on straight runs.
func dropCollinear(loop []point) []point {
	changed := true
	for changed && len(loop) >= 3 {
		changed = false
		for i := 0; i < len(loop) && len(loop) >= 3; i++ {
			prev := loop[(i+len(loop)-1)%len(loop)]
			next := loop[(i+1)%len(loop)]
			in, out := loop[i].sub(prev), next.sub(loop[i])
			if m.Abs(in.cross(out)) <= arrangementEpsilon*in.length()*out.length() && in.dot(out) > 0 {
				loop = append(loop[:i], loop[i+1:]...)
				changed = true
			}
		}
	}
	return loop
}

// fill decomposes the filled area into horizontal slabs. Every vertex and
// intersection starts a new slab, so inside one slab no edges cross and
// the winding number only changes when passing an edge.
func (a *arrangement) fill(winding WindingMode) *Mesh {
	ys := make([]float64, 0, len(a.vertices))
	for _, v := range a.vertices {
		ys = append(ys, v.y)
	}
	sort.Float64s(ys)

	type crossing struct {
		top, bottom, mid float64
		dir              int
	}
	mesh := &Mesh{Mode: PrimitiveTriangles}
	index := make(map[[2]float64]uint32)
	add := func(p point) uint32 {
		key := [2]float64{p.x, p.y}
		if i, ok := index[key]; ok {
			return i
		}
		i := uint32(len(mesh.Vertices))
		index[key] = i
		mesh.Vertices = append(mesh.Vertices, math.NewVec3(float32(p.x), float32(p.y), a.z))
		return i
	}
	triangle := func(p0, p1, p2 point) {
		if m.Abs(p1.sub(p0).cross(p2.sub(p0))) <= arrangementEpsilon*arrangementEpsilon {
			return
		}
		mesh.Indices = append(mesh.Indices, add(p0), add(p1), add(p2))
	}

	var crossings []crossing
	for i := 1; i < len(ys); i++ {
		y0, y1 := ys[i-1], ys[i]
		if y1-y0 <= arrangementEpsilon {
			continue
		}
		ym := (y0 + y1) / 2

		crossings = crossings[:0]
		for _, s := range a.segments {
			lo, hi, dir := s.a, s.b, 1
			if lo.y > hi.y {
				lo, hi, dir = hi, lo, -1
			}
			if lo.y > ym || hi.y < ym {
				continue
			}
			xAt := func(y float64) float64 {
				return lo.x + (y-lo.y)*(hi.x-lo.x)/(hi.y-lo.y)
			}
			crossings = append(crossings, crossing{top: xAt(y1), bottom: xAt(y0), mid: xAt(ym), dir: dir})
		}
		sort.Slice(crossings, func(i, j int) bool { return crossings[i].mid < crossings[j].mid })

		// left of every crossing the winding number is zero
		windings := 0
		for j := 0; j+1 < len(crossings); j++ {
			windings -= crossings[j].dir
			if !winding.Fills(windings) {
				continue
			}
			l, r := crossings[j], crossings[j+1]
			p00, p01 := point{l.bottom, y0}, point{r.bottom, y0}
			p10, p11 := point{l.top, y1}, point{r.top, y1}
			triangle(p00, p01, p11)
			triangle(p00, p11, p10)
		}
	}
	return mesh
}
