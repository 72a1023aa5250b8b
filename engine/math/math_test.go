package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(0, 1, 10))
	assert.Equal(t, 10, Clamp(42, 1, 10))
	assert.Equal(t, float32(2.5), Clamp(float32(2.5), 1, 10))
}

func TestVec3Lerp(t *testing.T) {
	a := NewVec3(0, 0, 0)
	b := NewVec3(10, -10, 4)
	assert.Equal(t, NewVec3(5, -5, 2), a.Lerp(b, 0.5))
	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
}

func TestVec2Normalized(t *testing.T) {
	v := NewVec2(3, 4).Normalized()
	assert.InDelta(t, 1.0, v.Length(), 1e-6)
	assert.Equal(t, Vec2{}, Vec2{}.Normalized())
}

func TestDegRad(t *testing.T) {
	assert.InDelta(t, K_PI, DegToRad(180), 1e-6)
	assert.InDelta(t, 90, RadToDeg(K_HALF_PI), 1e-4)
}

func TestExtents(t *testing.T) {
	e := Extents2D{Min: NewVec2(0, 0), Max: NewVec2(4, 2)}
	assert.Equal(t, float32(4), e.Width())
	assert.Equal(t, float32(2), e.Height())
	assert.True(t, e.Contains(NewVec2(4, 1)))
	assert.False(t, e.Contains(NewVec2(5, 1)))
}
