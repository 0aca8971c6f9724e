package scene

import "github.com/gogpu/cubeview/render"

// MaterialParams is the full set of surface parameters a preset carries.
type MaterialParams struct {
	// Color is the base albedo.
	Color render.RGBA

	// Roughness in [0,1]: 0 is mirror-smooth, 1 is fully diffuse.
	Roughness float32

	// Metalness in [0,1]: 0 dielectric, 1 metal.
	Metalness float32

	// EnvIntensity scales the environment lighting contribution.
	EnvIntensity float32

	// Unlit disables lighting entirely (the "basic" material type).
	Unlit bool
}

// Material is one cube face's live material. Face materials are created
// once with the scene and never replaced: commands overwrite the fields
// in place via Set. Copy-in-place keeps references held elsewhere (the
// renderer, tests) valid and avoids disposal bookkeeping; swapping
// prebuilt instances would only pay off at object counts far above six.
type Material struct {
	MaterialParams

	// Label identifies the material in logs ("face:Front").
	Label string
}

// Set overwrites the material's parameters in place.
func (m *Material) Set(p MaterialParams) {
	m.MaterialParams = p
}

// Params returns a copy of the current parameters.
func (m *Material) Params() MaterialParams {
	return m.MaterialParams
}
