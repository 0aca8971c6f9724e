package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/cubeview/render"
)

// AmbientLight is a constant illumination term.
type AmbientLight struct {
	Color     render.RGBA
	Intensity float32
}

// DirectionalLight illuminates from a fixed direction (pointing from the
// light toward the scene).
type DirectionalLight struct {
	Direction mgl32.Vec3
	Color     render.RGBA
	Intensity float32
}

// NormalizedDirection returns the unit light direction.
func (l *DirectionalLight) NormalizedDirection() mgl32.Vec3 {
	if n := l.Direction.Len(); n > 0 {
		return l.Direction.Mul(1 / n)
	}
	return mgl32.Vec3{0, -1, 0}
}
