package render

import (
	"github.com/chewxy/math32"
)

// ToneMapping selects how HDR radiance values are compressed into the
// displayable [0,1] range.
type ToneMapping int

const (
	// ToneMappingNone clamps linearly.
	ToneMappingNone ToneMapping = iota

	// ToneMappingACES applies the ACES filmic approximation
	// (Narkowicz fit), the default for environment-lit rendering.
	ToneMappingACES
)

func (m ToneMapping) String() string {
	switch m {
	case ToneMappingNone:
		return "none"
	case ToneMappingACES:
		return "aces"
	default:
		return "unknown"
	}
}

// MapChannel tone-maps a single linear radiance value.
func (m ToneMapping) MapChannel(v float32) float32 {
	if m == ToneMappingACES {
		// Narkowicz ACES fit: x(2.51x+0.03)/(x(2.43x+0.59)+0.14)
		v = v * (2.51*v + 0.03) / (v*(2.43*v+0.59) + 0.14)
	}
	return math32.Min(math32.Max(v, 0), 1)
}

// Map tone-maps a radiance color, preserving alpha.
func (m ToneMapping) Map(c RGBA) RGBA {
	return RGBA{
		R: m.MapChannel(c.R),
		G: m.MapChannel(c.G),
		B: m.MapChannel(c.B),
		A: c.A,
	}
}

// EnvTexture is a decoded equirectangular HDR environment map: linear
// RGB radiance, three float32 values per texel.
//
// It is owned by the asset manager's cache and shared read-only with the
// render backends once resolved. A nil *EnvTexture means "no environment"
// and renders as the flat dark fallback.
type EnvTexture struct {
	Name    string // environment base name, e.g. "studio"
	Quality string // tier tag: "1k", "2k", "4k"

	Width  int
	Height int
	Pix    []float32 // len = Width*Height*3
}

// At returns the radiance at texel (x, y). Out-of-range coordinates are
// clamped to the edge.
func (t *EnvTexture) At(x, y int) RGBA {
	if t.Width == 0 || t.Height == 0 {
		return Black
	}
	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}
	i := (y*t.Width + x) * 3
	return RGBA{R: t.Pix[i], G: t.Pix[i+1], B: t.Pix[i+2], A: 1}
}

// Sample returns the radiance for a direction expressed as spherical
// coordinates: u in [0,1) wraps around the horizon, v in [0,1] runs from
// zenith to nadir. Nearest-texel lookup; the cube explorer never
// magnifies the map enough for bilinear to matter.
func (t *EnvTexture) Sample(u, v float32) RGBA {
	u = u - math32.Floor(u)
	v = math32.Min(math32.Max(v, 0), 1)
	x := int(u * float32(t.Width))
	y := int(v * float32(t.Height-1))
	return t.At(x, y)
}

// AverageRadiance returns the mean radiance of the map, used by the
// software backend as a cheap ambient environment term. Computed over a
// sparse grid so 4k maps do not stall texture application.
func (t *EnvTexture) AverageRadiance() RGBA {
	if t == nil || t.Width == 0 || t.Height == 0 {
		return Black
	}
	const grid = 16
	var r, g, b float32
	n := 0
	for gy := 0; gy < grid; gy++ {
		for gx := 0; gx < grid; gx++ {
			c := t.Sample((float32(gx)+0.5)/grid, (float32(gy)+0.5)/grid)
			r += c.R
			g += c.G
			b += c.B
			n++
		}
	}
	inv := 1 / float32(n)
	return RGBA{R: r * inv, G: g * inv, B: b * inv, A: 1}
}
