// Package scene holds the explorer's scene graph: one cube with six
// independently addressable face materials, lights, a perspective
// camera, debug helpers (axes, face labels, transform gizmo) and the
// current environment state.
//
// The scene is plain data plus small geometry helpers. It performs no
// I/O and owns no GPU resources; backends read it, commands mutate it,
// always from the viewer's single execution context.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/cubeview/render"
)

// AxesHelper renders the world axes as three colored line segments in
// debug mode.
type AxesHelper struct {
	Visible bool
	Length  float32
}

// Scene is the root node. Exactly one cube, two lights, the debug
// helpers and the environment state.
type Scene struct {
	Cube *Cube

	Ambient     AmbientLight
	Directional DirectionalLight

	Axes   AxesHelper
	Labels [NumFaces]*FaceLabel
	Gizmo  Gizmo

	// Env is the active environment map, nil when none is loaded or the
	// active tier failed. Shared read-only with the asset cache.
	Env *render.EnvTexture

	// ShowBackground selects between the environment map and the flat
	// Background color behind the cube. Environment lighting stays
	// active even when the background is hidden.
	ShowBackground bool

	// Background is the flat fallback color.
	Background render.RGBA
}

// New creates the default scene: unit cube at the origin, warm key light,
// dim ambient, helpers hidden, dark background visible.
func New() *Scene {
	s := &Scene{
		Cube: NewCube(),
		Ambient: AmbientLight{
			Color:     render.White,
			Intensity: 0.25,
		},
		Directional: DirectionalLight{
			Direction: mgl32.Vec3{-0.5, -1, -0.3},
			Color:     render.RGBA{R: 1, G: 0.96, B: 0.9, A: 1},
			Intensity: 1.0,
		},
		Axes:           AxesHelper{Length: 1.5},
		ShowBackground: true,
		Background:     render.DarkBackground,
	}
	for i := range s.Labels {
		s.Labels[i] = newFaceLabel(i)
	}
	return s
}

// SetDebugVisible toggles the axes helper, face labels and gizmo
// together. The three are one visual unit; showing them independently
// is not supported.
func (s *Scene) SetDebugVisible(visible bool) {
	s.Axes.Visible = visible
	s.Gizmo.Visible = visible
	for _, l := range s.Labels {
		l.Visible = visible
	}
}

// BackgroundColor returns the color backends clear to: the flat dark
// fallback unless a background environment is both present and shown
// (in which case backends sample Env directly and ignore this value).
func (s *Scene) BackgroundColor() render.RGBA {
	return s.Background
}
