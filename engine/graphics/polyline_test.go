package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-vector/engine/math"
)

func v(x, y float32) math.Vec3 {
	return math.NewVec3From2(x, y)
}

func square(x, y, size float32) *Polyline {
	pl := NewPolylineFromVertices([]math.Vec3{
		v(x, y), v(x+size, y), v(x+size, y+size), v(x, y+size),
	})
	pl.SetClosed(true)
	return pl
}

func TestPolylineLineTo(t *testing.T) {
	pl := NewPolyline()
	pl.LineTo(v(0, 0))
	pl.LineTo(v(10, 0))
	pl.LineTo(v(10, 10))
	pl.LineTo(v(0, 10))

	assert.Equal(t, 4, pl.Size())
	assert.False(t, pl.IsClosed())
	assert.InDelta(t, 30, pl.Perimeter(), 1e-4)

	pl.SetClosed(true)
	assert.InDelta(t, 40, pl.Perimeter(), 1e-4)
	assert.InDelta(t, 100, pl.SignedArea(), 1e-4)

	b := pl.Bounds()
	assert.Equal(t, math.Vec2{X: 0, Y: 0}, b.Min)
	assert.Equal(t, math.Vec2{X: 10, Y: 10}, b.Max)
}

func TestPolylineClear(t *testing.T) {
	pl := square(0, 0, 1)
	pl.Clear()
	assert.Equal(t, 0, pl.Size())
	assert.False(t, pl.IsClosed())
	assert.Equal(t, math.Extents2D{}, pl.Bounds())
}

func TestPolylineCurveToNeedsFourPoints(t *testing.T) {
	pl := NewPolyline()
	pl.CurveTo(v(0, 0), 8)
	pl.CurveTo(v(1, 0), 8)
	pl.CurveTo(v(2, 1), 8)
	assert.Equal(t, 0, pl.Size())

	pl.CurveTo(v(3, 1), 8)
	require.Equal(t, 9, pl.Size())
	assert.True(t, pl.Vertices()[0].Compare(v(1, 0), 1e-5))
	assert.True(t, pl.Vertices()[8].Compare(v(2, 1), 1e-4))

	// the next span continues from the previous end point
	pl.CurveTo(v(4, 0), 8)
	assert.Equal(t, 17, pl.Size())
	assert.True(t, pl.Vertices()[16].Compare(v(3, 1), 1e-4))
}

func TestPolylineLineToRestartsCurve(t *testing.T) {
	pl := NewPolyline()
	pl.CurveTo(v(0, 0), 4)
	pl.CurveTo(v(1, 0), 4)
	pl.CurveTo(v(2, 0), 4)
	pl.LineTo(v(5, 5))
	pl.CurveTo(v(3, 0), 4)
	assert.Equal(t, 1, pl.Size())
}

func TestPolylineBezierTo(t *testing.T) {
	pl := NewPolyline()
	pl.BezierTo(v(0, 1), v(1, 1), v(1, 0), 10)
	assert.Equal(t, 0, pl.Size(), "bezier without a start point is ignored")

	pl.AddVertex(v(0, 0))
	pl.BezierTo(v(0, 1), v(1, 1), v(1, 0), 10)
	require.Equal(t, 11, pl.Size())
	assert.Equal(t, v(1, 0), pl.Vertices()[10])
	// halfway the curve sits at y = 0.75
	assert.InDelta(t, 0.75, pl.Vertices()[5].Y, 1e-5)
}

func TestPolylineQuadBezierTo(t *testing.T) {
	pl := NewPolyline()
	pl.QuadBezierTo(v(0, 0), v(1, 2), v(2, 0), 4)
	require.Equal(t, 5, pl.Size())
	assert.Equal(t, v(0, 0), pl.Vertices()[0])
	assert.Equal(t, v(2, 0), pl.Vertices()[4])
	assert.InDelta(t, 1, pl.Vertices()[2].Y, 1e-5)

	// starting where the polyline ends does not duplicate the point
	pl.QuadBezierTo(v(2, 0), v(3, -2), v(4, 0), 4)
	assert.Equal(t, 9, pl.Size())
}

func TestPolylineArc(t *testing.T) {
	tests := []struct {
		name       string
		begin, end float32
		resolution int
		want       int
	}{
		{"full circle", 0, 360, 20, 21},
		{"quarter", 0, 90, 20, 6},
		{"clockwise quarter", 90, 0, 20, 6},
		{"tiny sweep", 0, 1, 20, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl := NewPolyline()
			pl.Arc(v(5, 5), 2, 3, tt.begin, tt.end, tt.resolution)
			assert.Equal(t, tt.want, pl.Size())
		})
	}

	pl := NewPolyline()
	pl.Arc(v(0, 0), 2, 3, 0, 90, 20)
	assert.True(t, pl.Vertices()[0].Compare(v(2, 0), 1e-5))
	assert.True(t, pl.Vertices()[pl.Size()-1].Compare(v(0, 3), 1e-5))
}

func TestPolylineClone(t *testing.T) {
	pl := square(0, 0, 2)
	c := pl.Clone()
	c.AddVertex(v(9, 9))
	assert.Equal(t, 4, pl.Size())
	assert.Equal(t, 5, c.Size())
	assert.True(t, c.IsClosed())
}
