package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathFlatten(t *testing.T) {
	p := NewPath()
	assert.True(t, p.HasChanged())

	p.AddCommand(NewLineCommand(v(0, 0)))
	p.AddCommand(NewLineCommand(v(4, 0)))
	p.AddCommand(NewQuadBezierCommand(v(4, 4), v(4, 0), v(6, 2)))
	p.AddCommand(NewLineCommand(v(0, 4)))
	p.Close()

	require.Equal(t, 4, p.Size())
	assert.Equal(t, CommandQuadBezierTo, p.Commands()[2].Type)

	pl := p.Flatten(4, DefaultArcResolution)
	assert.False(t, p.HasChanged())
	assert.True(t, pl.IsClosed())
	// two line points, four quad points after the shared start, one line point
	assert.Equal(t, 7, pl.Size())
}

func TestPathFlattenArc(t *testing.T) {
	p := NewPath()
	p.AddCommand(NewArcCommand(v(0, 0), 1, 1, 0, 180))
	pl := p.Flatten(DefaultCurveResolution, 20)
	assert.Equal(t, 11, pl.Size())
}

func TestCommandTypeString(t *testing.T) {
	assert.Equal(t, "bezierTo", CommandBezierTo.String())
	assert.Equal(t, "CommandType(42)", CommandType(42).String())
}
