package graphics

import (
	"errors"
	m "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/math"
)

func reversed(pl *Polyline) *Polyline {
	vs := pl.Vertices()
	out := make([]math.Vec3, len(vs))
	for i := range vs {
		out[len(vs)-1-i] = vs[i]
	}
	r := NewPolylineFromVertices(out)
	r.SetClosed(true)
	return r
}

func totalArea(meshes []*Mesh) float32 {
	var area float32
	for _, m := range meshes {
		area += m.Area()
	}
	return area
}

func TestWindingModeFills(t *testing.T) {
	tests := []struct {
		mode     WindingMode
		windings []int
		want     []bool
	}{
		{WindingOdd, []int{-1, 0, 1, 2, 3}, []bool{true, false, true, false, true}},
		{WindingNonzero, []int{-1, 0, 1, 2}, []bool{true, false, true, true}},
		{WindingPositive, []int{-1, 0, 1, 2}, []bool{false, false, true, true}},
		{WindingNegative, []int{-2, -1, 0, 1}, []bool{true, true, false, false}},
		{WindingAbsGeqTwo, []int{-2, -1, 0, 1, 2}, []bool{true, false, false, false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			for i, w := range tt.windings {
				assert.Equal(t, tt.want[i], tt.mode.Fills(w), "winding %d", w)
			}
		})
	}
}

func TestParseWindingMode(t *testing.T) {
	for _, mode := range []WindingMode{WindingOdd, WindingNonzero, WindingPositive, WindingNegative, WindingAbsGeqTwo} {
		parsed, err := ParseWindingMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	_, err := ParseWindingMode("sideways")
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	var w WindingMode
	require.NoError(t, w.UnmarshalText([]byte("NonZero")))
	assert.Equal(t, WindingNonzero, w)
}

func TestTessellateSquare(t *testing.T) {
	meshes, err := NewTessellator().TessellateToMeshes([]*Polyline{square(0, 0, 10)}, WindingOdd)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, PrimitiveTriangles, meshes[0].Mode)
	assert.Equal(t, 2, meshes[0].TriangleCount())
	assert.InDelta(t, 100, meshes[0].Area(), 1e-3)
}

func TestTessellateClosingDuplicateIsIgnored(t *testing.T) {
	pl := NewPolylineFromVertices([]math.Vec3{v(0, 0), v(4, 0), v(4, 4), v(0, 4), v(0, 0)})
	meshes, err := NewTessellator().TessellateToMeshes([]*Polyline{pl}, WindingNonzero)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Len(t, meshes[0].Vertices, 4)
	assert.InDelta(t, 16, meshes[0].Area(), 1e-3)
}

func TestTessellateDegenerateContours(t *testing.T) {
	line := NewPolylineFromVertices([]math.Vec3{v(0, 0), v(1, 1)})
	flat := NewPolylineFromVertices([]math.Vec3{v(0, 0), v(1, 0), v(2, 0)})
	meshes, err := NewTessellator().TessellateToMeshes([]*Polyline{line, flat, nil}, WindingNonzero)
	require.NoError(t, err)
	assert.Empty(t, meshes)
}

func TestTessellateNested(t *testing.T) {
	outer := square(0, 0, 10)
	inner := square(3, 3, 4)

	tests := []struct {
		name    string
		inner   *Polyline
		winding WindingMode
		meshes  int
		area    float32
	}{
		{"odd makes a hole", inner, WindingOdd, 1, 84},
		{"nonzero same direction stays filled", inner, WindingNonzero, 2, 100},
		{"nonzero opposite direction makes a hole", reversed(inner), WindingNonzero, 1, 84},
		{"abs geq two fills only the overlap", inner, WindingAbsGeqTwo, 1, 16},
		{"negative fills nothing counter-clockwise", inner, WindingNegative, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meshes, err := NewTessellator().TessellateToMeshes([]*Polyline{tt.inner, outer}, tt.winding)
			require.NoError(t, err)
			assert.Len(t, meshes, tt.meshes)
			assert.InDelta(t, tt.area, totalArea(meshes), 1e-3)
		})
	}
}

func TestTessellateToOutline(t *testing.T) {
	outer := square(0, 0, 10)
	inner := square(3, 3, 4)
	tess := NewTessellator()

	outlines, err := tess.TessellateToOutline([]*Polyline{outer, inner}, WindingNonzero)
	require.NoError(t, err)
	require.Len(t, outlines, 1)
	assert.True(t, outlines[0].IsClosed())
	assert.InDelta(t, 100, outlines[0].SignedArea(), 1e-3)

	outlines, err = tess.TessellateToOutline([]*Polyline{outer, reversed(inner)}, WindingNonzero)
	require.NoError(t, err)
	assert.Len(t, outlines, 2)

	outlines, err = tess.TessellateToOutline([]*Polyline{outer, inner}, WindingAbsGeqTwo)
	require.NoError(t, err)
	require.Len(t, outlines, 1)
	assert.InDelta(t, 16, outlines[0].SignedArea(), 1e-3)
}

func TestTessellateSiblings(t *testing.T) {
	meshes, err := NewTessellator().TessellateToMeshes(
		[]*Polyline{square(0, 0, 2), square(5, 0, 3)}, WindingOdd)
	require.NoError(t, err)
	assert.Len(t, meshes, 2)
	assert.InDelta(t, 13, totalArea(meshes), 1e-3)
}

func bowtie() *Polyline {
	pl := NewPolylineFromVertices([]math.Vec3{v(0, 0), v(10, 10), v(10, 0), v(0, 10)})
	pl.SetClosed(true)
	return pl
}

// pentagram draws the five point star in one stroke, points at radius r.
func pentagram(r float64) *Polyline {
	vs := make([]math.Vec3, 5)
	for i := range vs {
		angle := m.Pi/2 + float64(i)*4*m.Pi/5
		vs[i] = v(float32(r*m.Cos(angle)), float32(r*m.Sin(angle)))
	}
	pl := NewPolylineFromVertices(vs)
	pl.SetClosed(true)
	return pl
}

func TestTessellateOverlapping(t *testing.T) {
	a, b := square(0, 0, 10), square(5, 0, 10)

	tests := []struct {
		name    string
		b       *Polyline
		winding WindingMode
		area    float32
	}{
		{"odd drops the overlap", b, WindingOdd, 100},
		{"nonzero is the union", b, WindingNonzero, 150},
		{"abs geq two is the overlap", b, WindingAbsGeqTwo, 50},
		{"positive is the union", b, WindingPositive, 150},
		{"negative is empty", b, WindingNegative, 0},
		{"opposite directions cancel", reversed(b), WindingNonzero, 100},
		{"opposite directions, negative", reversed(b), WindingNegative, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meshes, err := NewTessellator().TessellateToMeshes([]*Polyline{a, tt.b}, tt.winding)
			require.NoError(t, err)
			assert.InDelta(t, tt.area, totalArea(meshes), 1e-3)
		})
	}
}

func TestTessellateSelfIntersecting(t *testing.T) {
	tess := NewTessellator()

	tests := []struct {
		name    string
		winding WindingMode
		area    float32
	}{
		{"odd", WindingOdd, 50},
		{"nonzero", WindingNonzero, 50},
		{"positive keeps the counter-clockwise lobe", WindingPositive, 25},
		{"negative keeps the clockwise lobe", WindingNegative, 25},
		{"abs geq two", WindingAbsGeqTwo, 0},
	}
	for _, tt := range tests {
		t.Run("bowtie "+tt.name, func(t *testing.T) {
			meshes, err := tess.TessellateToMeshes([]*Polyline{bowtie()}, tt.winding)
			require.NoError(t, err)
			assert.InDelta(t, tt.area, totalArea(meshes), 1e-3)
		})
	}

	const radius = 10.0
	inner := radius * m.Cos(2*m.Pi/5) / m.Cos(m.Pi/5)
	star := 5 * radius * inner * m.Sin(m.Pi/5)
	pentagon := 2.5 * inner * inner * m.Sin(2*m.Pi/5)

	meshes, err := tess.TessellateToMeshes([]*Polyline{pentagram(radius)}, WindingNonzero)
	require.NoError(t, err)
	assert.InDelta(t, star, totalArea(meshes), 1e-2)

	meshes, err = tess.TessellateToMeshes([]*Polyline{pentagram(radius)}, WindingOdd)
	require.NoError(t, err)
	assert.InDelta(t, star-pentagon, totalArea(meshes), 1e-2)
}

func TestTessellateTouchingContours(t *testing.T) {
	// share the edge x = 10
	meshes, err := NewTessellator().TessellateToMeshes(
		[]*Polyline{square(0, 0, 10), square(10, 0, 10)}, WindingNonzero)
	require.NoError(t, err)
	assert.InDelta(t, 200, totalArea(meshes), 1e-3)
}

func outlineArea(outlines []*Polyline) float32 {
	var area float32
	for _, o := range outlines {
		area += o.SignedArea()
	}
	return area
}

func TestTessellateToOutlineResolvesOverlaps(t *testing.T) {
	a, b := square(0, 0, 10), square(5, 0, 10)
	tess := NewTessellator()

	outlines, err := tess.TessellateToOutline([]*Polyline{a, b}, WindingNonzero)
	require.NoError(t, err)
	require.Len(t, outlines, 1)
	assert.True(t, outlines[0].IsClosed())
	assert.Equal(t, 4, outlines[0].Size())
	assert.InDelta(t, 150, outlines[0].SignedArea(), 1e-3)

	outlines, err = tess.TessellateToOutline([]*Polyline{a, b}, WindingOdd)
	require.NoError(t, err)
	assert.Len(t, outlines, 2)
	assert.InDelta(t, 100, outlineArea(outlines), 1e-3)

	outlines, err = tess.TessellateToOutline([]*Polyline{a, b}, WindingAbsGeqTwo)
	require.NoError(t, err)
	require.Len(t, outlines, 1)
	assert.InDelta(t, 50, outlines[0].SignedArea(), 1e-3)

	// the lobes touch at the crossing, each is traced on its own
	outlines, err = tess.TessellateToOutline([]*Polyline{bowtie()}, WindingNonzero)
	require.NoError(t, err)
	require.Len(t, outlines, 2)
	for _, o := range outlines {
		assert.Equal(t, 3, o.Size())
		assert.InDelta(t, 25, o.SignedArea(), 1e-3)
	}

	outlines, err = tess.TessellateToOutline([]*Polyline{pentagram(10)}, WindingNonzero)
	require.NoError(t, err)
	require.Len(t, outlines, 1)
	assert.Equal(t, 10, outlines[0].Size())
}
