package asset

import (
	"github.com/gogpu/cubeview/render"
	"github.com/gogpu/cubeview/scene"
)

// presetKey indexes the material catalogue.
type presetKey struct {
	typ   MaterialType
	style FaceStyle
}

// styleBase holds the style-dependent parameters; the material type then
// decides whether the face is lit (PBR) or flat (basic).
var styleBases = map[FaceStyle]scene.MaterialParams{
	StyleWood: {
		Color:     render.RGBA{R: 0.55, G: 0.36, B: 0.2, A: 1},
		Roughness: 0.8, Metalness: 0, EnvIntensity: 0.4,
	},
	StyleGlass: {
		Color:     render.RGBA{R: 0.75, G: 0.85, B: 0.9, A: 0.4},
		Roughness: 0.05, Metalness: 0, EnvIntensity: 1.2,
	},
	StyleFur: {
		Color:     render.RGBA{R: 0.62, G: 0.48, B: 0.32, A: 1},
		Roughness: 1, Metalness: 0, EnvIntensity: 0.2,
	},
	StyleMetal: {
		Color:     render.RGBA{R: 0.72, G: 0.73, B: 0.75, A: 1},
		Roughness: 0.25, Metalness: 1, EnvIntensity: 1,
	},
	StylePlastic: {
		Color:     render.RGBA{R: 0.85, G: 0.2, B: 0.18, A: 1},
		Roughness: 0.45, Metalness: 0, EnvIntensity: 0.6,
	},
	StyleGold: {
		Color:     render.RGBA{R: 1, G: 0.77, B: 0.34, A: 1},
		Roughness: 0.18, Metalness: 1, EnvIntensity: 1,
	},
}

// buildCatalogue precomputes the full (type × style) preset table once at
// manager construction. The catalogue is immutable afterwards; lookups
// return copies.
func buildCatalogue() map[presetKey]scene.MaterialParams {
	cat := make(map[presetKey]scene.MaterialParams, int(numMaterialTypes)*int(numFaceStyles))
	for style, base := range styleBases {
		lit := base
		lit.Unlit = false
		cat[presetKey{MaterialPBR, style}] = lit

		flat := base
		flat.Unlit = true
		flat.Metalness = 0
		flat.EnvIntensity = 0
		cat[presetKey{MaterialBasic, style}] = flat
	}
	return cat
}

// Material returns the preset for the given combination. ok is false
// only for combinations outside the closed enumerations.
func (m *Manager) Material(typ MaterialType, style FaceStyle) (scene.MaterialParams, bool) {
	if !typ.Valid() || !style.Valid() {
		return scene.MaterialParams{}, false
	}
	p, ok := m.catalogue[presetKey{typ, style}]
	return p, ok
}
