package cubeview

import (
	"github.com/gogpu/cubeview/asset"
	"github.com/gogpu/cubeview/scene"
)

// The enums live in the packages that own their semantics; the root
// package re-exports them so embedders only import cubeview.
type (
	// MaterialType selects the shading model applied to cube faces.
	MaterialType = asset.MaterialType

	// FaceStyle selects one of the fixed surface presets.
	FaceStyle = asset.FaceStyle

	// EnvQuality is the environment map resolution tier.
	EnvQuality = asset.EnvQuality

	// TransformMode selects which gizmo manipulation is active in
	// debug mode.
	TransformMode = scene.TransformMode
)

const (
	// MaterialBasic is unlit flat shading: the preset color without
	// environment lighting contribution.
	MaterialBasic = asset.MaterialBasic

	// MaterialPBR is metallic/roughness shading with environment
	// lighting contribution.
	MaterialPBR = asset.MaterialPBR
)

// Surface presets.
const (
	StyleWood    = asset.StyleWood
	StyleGlass   = asset.StyleGlass
	StyleFur     = asset.StyleFur
	StyleMetal   = asset.StyleMetal
	StylePlastic = asset.StylePlastic
	StyleGold    = asset.StyleGold
)

// Environment tiers.
const (
	Quality1K = asset.Quality1K
	Quality2K = asset.Quality2K
	Quality4K = asset.Quality4K
)

// Gizmo manipulation modes.
const (
	ModeTranslate = scene.ModeTranslate
	ModeRotate    = scene.ModeRotate
	ModeScale     = scene.ModeScale
)

// FaceTarget addresses either every face of the cube or one specific face.
// The zero value targets all faces.
type FaceTarget struct {
	face int
	one  bool
}

// AllFaces returns a target covering all six faces.
func AllFaces() FaceTarget { return FaceTarget{} }

// OneFace returns a target covering a single face index (0..5).
func OneFace(face int) FaceTarget { return FaceTarget{face: face, one: true} }

// All reports whether the target covers every face.
func (t FaceTarget) All() bool { return !t.one }

// Face returns the targeted face index. Meaningful only when All is false.
func (t FaceTarget) Face() int { return t.face }

// Valid reports whether the target addresses the cube's fixed face set.
func (t FaceTarget) Valid() bool {
	return !t.one || (t.face >= 0 && t.face < scene.NumFaces)
}
