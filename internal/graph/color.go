package graph

import (
	"fmt"
	"math"

	"github.com/crazy3lf/colorconv"
	"github.com/rotisserie/eris"

	"github.com/cybre/neon-skyline/internal/utils"
)

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

var (
	White = Hex(0xffffff)
	Black = Hex(0x000000)
)

// Hex unpacks a 0xRRGGBB value.
func Hex(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Hex packs the color into 0xRRGGBB.
func (c Color) Hex() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// String formats the color as #rrggbb.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FromHSL converts hue in turns [0,1) plus saturation and lightness in [0,1].
func FromHSL(h, s, l float64) (Color, error) {
	h = h - math.Floor(h)
	r, g, b, err := colorconv.HSLToRGB(h*360, utils.Clamp(s, 0.0, 1.0), utils.Clamp(l, 0.0, 1.0))
	if err != nil {
		return Color{}, eris.Wrapf(err, "convert hsl(%v, %v, %v)", h, s, l)
	}
	return Color{R: r, G: g, B: b}, nil
}

// StarRamp blends 0xffffff toward 0x0000ff by n as a packed integer, the way
// the star field has always been tinted.
func StarRamp(n float64) Color {
	n = utils.Clamp(n, 0.0, 1.0)
	v := math.Floor(n*0x0000ff + (1-n)*0xffffff)
	return Hex(uint32(v))
}

// HSL is a hue (in turns), saturation, lightness triple.
type HSL struct {
	H, S, L float64
}

// RGB converts the triple with FromHSL.
func (c HSL) RGB() (Color, error) {
	return FromHSL(c.H, c.S, c.L)
}
