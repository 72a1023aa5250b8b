package graphics

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/math"
)

// Color is an 8 bit per channel, non premultiplied RGBA colour.
type Color struct {
	R, G, B, A uint8
}

var (
	ColorWhite = Color{255, 255, 255, 255}
	ColorBlack = Color{0, 0, 0, 255}
)

// NewColorFromHex builds an opaque colour from 0xRRGGBB.
func NewColorFromHex(hex int) Color {
	return Color{
		R: uint8((hex >> 16) & 0xFF),
		G: uint8((hex >> 8) & 0xFF),
		B: uint8(hex & 0xFF),
		A: 255,
	}
}

// Hex returns the colour as 0xRRGGBB, dropping alpha.
func (c Color) Hex() int {
	return int(c.R)<<16 | int(c.G)<<8 | int(c.B)
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// ToVec4 returns the colour normalised to [0, 1].
func (c Color) ToVec4() math.Vec4 {
	return math.NewVec4(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseHexColor accepts "#rrggbb" or "#rrggbbaa", with "#" or "0x" prefix.
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("%w: invalid colour %q", core.ErrInvalidConfig, s)
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: invalid colour %q", core.ErrInvalidConfig, s)
	}
	if len(hex) == 6 {
		return NewColorFromHex(int(value)), nil
	}
	return Color{
		R: uint8(value >> 24),
		G: uint8(value >> 16),
		B: uint8(value >> 8),
		A: uint8(value),
	}, nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHexColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
