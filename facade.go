package cubeview

import (
	"context"

	"github.com/gogpu/cubeview/event"
)

// Renderer is the command facade shared by the interactive Viewer and
// the Headless stand-in. Hosts program against it so swapping in
// Headless for CI needs no code changes.
type Renderer interface {
	// Initialize brings the renderer to the Ready state, emitting
	// Progress events and finally Ready. It is an error to call it
	// twice.
	Initialize(ctx context.Context, cfg Config) error

	// Dispose releases all resources. Idempotent.
	Dispose()

	// SetMaterial applies the preset for the given type and style to
	// the targeted face or faces.
	SetMaterial(typ MaterialType, style FaceStyle, target FaceTarget)

	// SetDebugMode toggles the debug helpers; enabling suspends camera
	// orbit and auto-rotation, disabling restores them.
	SetDebugMode(enabled bool)

	// SetTransformMode selects the active gizmo manipulation.
	SetTransformMode(mode TransformMode)

	// SetBackgroundVisible toggles environment background rendering.
	SetBackgroundVisible(visible bool)

	// SetEnvMapQuality switches the environment resolution tier,
	// loading it on demand.
	SetEnvMapQuality(q EnvQuality)

	// SetAutoRotate toggles idle camera rotation.
	SetAutoRotate(enabled bool)

	// ResetToDefaults applies the full settings snapshot atomically.
	ResetToDefaults(cfg ResetConfig)

	// Resize updates the render target dimensions.
	Resize(width, height int)

	// FPS returns the measured frame rate over the recent window.
	FPS() float64

	// IsGPU reports whether the GPU backend is active. Stable after
	// initialization.
	IsGPU() bool

	// On subscribes fn to events of type t.
	On(t event.Type, fn event.Handler)

	// Off removes a previously subscribed handler.
	Off(t event.Type, fn event.Handler)
}

var (
	_ Renderer = (*Viewer)(nil)
	_ Renderer = (*Headless)(nil)
)
