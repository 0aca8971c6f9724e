package render

import (
	"image/color"

	"github.com/chewxy/math32"
)

// RGBA is a linear float32 color with components in [0, 1].
// Unlike image/color types it is not premultiplied and survives HDR
// intermediate values; Clamp before converting to 8-bit output.
type RGBA struct {
	R, G, B, A float32
}

// Common colors.
var (
	Black       = RGBA{0, 0, 0, 1}
	White       = RGBA{1, 1, 1, 1}
	Transparent = RGBA{0, 0, 0, 0}

	// DarkBackground is the flat fallback shown when no environment map
	// is available or the background is hidden (#1a1a1a).
	DarkBackground = RGBA{0.102, 0.102, 0.102, 1}
)

// RGBA implements color.Color (16-bit components, premultiplied).
func (c RGBA) RGBA() (r, g, b, a uint32) {
	cc := c.Clamp()
	r = uint32(cc.R * cc.A * 65535)
	g = uint32(cc.G * cc.A * 65535)
	b = uint32(cc.B * cc.A * 65535)
	a = uint32(cc.A * 65535)
	return
}

var _ color.Color = RGBA{}

// Clamp limits every component to [0, 1].
func (c RGBA) Clamp() RGBA {
	return RGBA{
		R: math32.Min(math32.Max(c.R, 0), 1),
		G: math32.Min(math32.Max(c.G, 0), 1),
		B: math32.Min(math32.Max(c.B, 0), 1),
		A: math32.Min(math32.Max(c.A, 0), 1),
	}
}

// Scale multiplies the color channels by s, leaving alpha unchanged.
func (c RGBA) Scale(s float32) RGBA {
	return RGBA{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A}
}

// Add sums the color channels of c and o, leaving c's alpha.
func (c RGBA) Add(o RGBA) RGBA {
	return RGBA{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B, A: c.A}
}

// Mul multiplies channels component-wise, leaving c's alpha.
func (c RGBA) Mul(o RGBA) RGBA {
	return RGBA{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, A: c.A}
}

// Lerp interpolates between c and o by t in [0, 1].
func (c RGBA) Lerp(o RGBA, t float32) RGBA {
	return RGBA{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}
