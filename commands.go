package cubeview

import (
	"context"

	"github.com/gogpu/cubeview/event"
	"github.com/gogpu/cubeview/input"
	"github.com/gogpu/cubeview/scene"
)

// requestFrame marks the scene dirty; the next tick draws.
func (v *Viewer) requestFrame() {
	v.pending.Store(true)
}

// SetMaterial applies the preset for typ and style to the targeted
// face or faces. Invalid combinations and targets are ignored.
func (v *Viewer) SetMaterial(typ MaterialType, style FaceStyle, target FaceTarget) {
	if !v.ready() {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.applyMaterialLocked(typ, style, target)
}

func (v *Viewer) applyMaterialLocked(typ MaterialType, style FaceStyle, target FaceTarget) {
	if !target.Valid() {
		Logger().Debug("material command ignored, bad face target", "face", target.Face())
		return
	}
	params, ok := v.assets.Material(typ, style)
	if !ok {
		Logger().Debug("material command ignored, unknown preset",
			"type", typ.String(), "style", style.String())
		return
	}
	if target.All() {
		for i := 0; i < scene.NumFaces; i++ {
			v.sc.Cube.Materials[i].Set(params)
		}
	} else {
		v.sc.Cube.Materials[target.Face()].Set(params)
	}
	v.requestFrame()
}

// SetDebugMode toggles the axes helper, face labels and transform
// gizmo. Enabling suspends camera orbit and auto-rotation; disabling
// restores the auto-rotate state that was active before.
func (v *Viewer) SetDebugMode(enabled bool) {
	if !v.ready() {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.applyDebugLocked(enabled)
}

func (v *Viewer) applyDebugLocked(enabled bool) {
	if v.debugMode == enabled {
		return
	}
	v.debugMode = enabled
	if enabled {
		v.restoreAutoRotate = v.ctrl.AutoRotate()
		v.ctrl.SetAutoRotate(false)
		v.ctrl.SetEnabled(false)
	} else {
		v.ctrl.SetEnabled(true)
		v.ctrl.SetAutoRotate(v.restoreAutoRotate)
	}
	v.sc.SetDebugVisible(enabled)
	v.requestFrame()
}

// SetTransformMode selects the gizmo manipulation shown in debug mode.
func (v *Viewer) SetTransformMode(mode TransformMode) {
	if !v.ready() || !mode.Valid() {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sc.Gizmo.Mode == mode {
		return
	}
	v.sc.Gizmo.Mode = mode
	v.requestFrame()
}

// SetBackgroundVisible toggles rendering of the environment map behind
// the cube. Lighting keeps using the environment either way.
func (v *Viewer) SetBackgroundVisible(visible bool) {
	if !v.ready() {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.showBg == visible {
		return
	}
	v.showBg = visible
	v.applyEnvironmentLocked(v.quality, visible)
}

// SetEnvMapQuality switches the environment resolution tier. Resolved
// tiers apply immediately; unresolved ones load asynchronously and
// apply when done, unless a newer request supersedes them.
func (v *Viewer) SetEnvMapQuality(q EnvQuality) {
	if !v.ready() || !q.Valid() {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.quality == q && v.assets.Resolved(q) {
		return
	}
	v.quality = q
	v.applyEnvironmentLocked(q, v.showBg)
}

// applyEnvironmentLocked is the single convergence point for quality
// and visibility changes. Caller holds v.mu.
func (v *Viewer) applyEnvironmentLocked(q EnvQuality, visible bool) {
	if v.assets.Resolved(q) {
		tex := v.assets.EnvMap(context.Background(), q)
		v.assets.ApplyEnvironment(v.sc, tex, visible)
		v.requestFrame()
		return
	}

	v.envGen++
	gen := v.envGen
	go func() {
		tex := v.assets.EnvMap(context.Background(), q)

		v.mu.Lock()
		defer v.mu.Unlock()
		if !v.ready() || gen != v.envGen {
			return // superseded or shut down while loading
		}
		v.assets.ApplyEnvironment(v.sc, tex, v.showBg)
		v.requestFrame()
	}()
}

// SetAutoRotate toggles idle camera rotation. During debug mode the
// desired state is recorded and applied when debug mode ends.
func (v *Viewer) SetAutoRotate(enabled bool) {
	if !v.ready() {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.debugMode {
		v.restoreAutoRotate = enabled
		return
	}
	if v.ctrl.SetAutoRotate(enabled) {
		v.requestFrame()
	}
}

// ResetToDefaults applies the full settings snapshot in one step:
// camera pose, cube transform, debug mode, environment, materials,
// then auto-rotation. Exactly one CameraReset event fires.
func (v *Viewer) ResetToDefaults(cfg ResetConfig) {
	if !v.ready() {
		return
	}
	v.mu.Lock()

	v.cam.MoveTo(cfg.CameraPosition, cfg.CameraTarget)
	v.ctrl.Resync()

	v.sc.Cube.Position = cfg.CubePosition
	v.sc.Cube.Rotation = cfg.CubeRotation
	v.sc.Cube.Scale = cfg.CubeScale

	v.applyDebugLocked(cfg.DebugMode)

	v.showBg = cfg.ShowBackground
	if cfg.EnvQuality.Valid() {
		v.quality = cfg.EnvQuality
	}
	v.applyEnvironmentLocked(v.quality, v.showBg)

	v.applyMaterialLocked(cfg.MaterialType, cfg.FaceStyle, cfg.Target)

	if v.debugMode {
		v.restoreAutoRotate = true
	} else {
		v.ctrl.SetAutoRotate(true)
	}

	v.requestFrame()
	v.mu.Unlock()

	v.bus.Emit(event.Event{Type: event.CameraReset})
}

// Pointer and key input forwards to the camera controller. The next
// tick integrates the deltas and redraws if the camera moved, so none
// of these set the frame flag themselves.

// Orbit feeds a pointer-drag delta in pixels.
func (v *Viewer) Orbit(dx, dy float32) {
	if v.ready() {
		v.ctrl.Orbit(dx, dy)
	}
}

// Pan feeds a pan-drag delta in pixels.
func (v *Viewer) Pan(dx, dy float32) {
	if v.ready() {
		v.ctrl.Pan(dx, dy)
	}
}

// Dolly feeds a wheel delta; positive moves the camera closer.
func (v *Viewer) Dolly(delta float32) {
	if v.ready() {
		v.ctrl.Dolly(delta)
	}
}

// SetKey records a movement key press or release.
func (v *Viewer) SetKey(k input.Key, down bool) {
	if v.ready() {
		v.ctrl.SetKey(k, down)
	}
}

// Resize updates the render target dimensions and the camera aspect.
func (v *Viewer) Resize(width, height int) {
	if width <= 0 || height <= 0 || v.State() == StateInitializing {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	v.width, v.height = width, height
	if !v.ready() {
		return // applied when Initialize builds the target
	}
	v.target.Resize(width, height)
	v.be.SetSize(width, height)
	v.cam.SetAspect(float32(width) / float32(height))
	v.requestFrame()
}
