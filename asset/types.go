package asset

import "fmt"

// MaterialType selects the shading model applied to cube faces.
type MaterialType int

const (
	// MaterialBasic is unlit flat shading: the preset color without
	// environment lighting contribution.
	MaterialBasic MaterialType = iota

	// MaterialPBR is metallic/roughness shading with environment
	// lighting contribution.
	MaterialPBR

	numMaterialTypes
)

func (m MaterialType) String() string {
	switch m {
	case MaterialBasic:
		return "basic"
	case MaterialPBR:
		return "pbr"
	default:
		return fmt.Sprintf("MaterialType(%d)", int(m))
	}
}

// Valid reports whether m is a recognized material type.
func (m MaterialType) Valid() bool {
	return m >= MaterialBasic && m < numMaterialTypes
}

// FaceStyle selects one of the fixed surface presets.
type FaceStyle int

const (
	StyleWood FaceStyle = iota
	StyleGlass
	StyleFur
	StyleMetal
	StylePlastic
	StyleGold

	numFaceStyles
)

func (s FaceStyle) String() string {
	switch s {
	case StyleWood:
		return "wood"
	case StyleGlass:
		return "glass"
	case StyleFur:
		return "fur"
	case StyleMetal:
		return "metal"
	case StylePlastic:
		return "plastic"
	case StyleGold:
		return "gold"
	default:
		return fmt.Sprintf("FaceStyle(%d)", int(s))
	}
}

// Valid reports whether s is a recognized face style.
func (s FaceStyle) Valid() bool {
	return s >= StyleWood && s < numFaceStyles
}

// EnvQuality is the environment map resolution tier.
type EnvQuality int

const (
	Quality1K EnvQuality = iota
	Quality2K
	Quality4K

	numQualities
)

// Qualities lists every tier in ascending resolution order.
var Qualities = [numQualities]EnvQuality{Quality1K, Quality2K, Quality4K}

// String returns the tier tag used in asset file names ("1k", "2k", "4k").
func (q EnvQuality) String() string {
	switch q {
	case Quality1K:
		return "1k"
	case Quality2K:
		return "2k"
	case Quality4K:
		return "4k"
	default:
		return fmt.Sprintf("EnvQuality(%d)", int(q))
	}
}

// Valid reports whether q is a recognized quality tier.
func (q EnvQuality) Valid() bool {
	return q >= Quality1K && q < numQualities
}
