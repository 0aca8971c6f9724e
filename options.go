package cubeview

import (
	"time"

	"github.com/gogpu/cubeview/asset"
	"github.com/gogpu/cubeview/render"
)

// Option configures a Viewer at construction time.
type Option func(*Viewer)

// WithBackendName forces a specific rendering backend ("gpu",
// "software") instead of priority-based selection with fallback.
func WithBackendName(name string) Option {
	return func(v *Viewer) { v.backendName = name }
}

// WithScheduler replaces the default TickScheduler. Pass a manual
// scheduler to drive frames from a host event loop.
func WithScheduler(s FrameScheduler) Option {
	return func(v *Viewer) { v.sched = s }
}

// WithFrameInterval sets the default scheduler's tick interval.
// Ignored when WithScheduler is also given.
func WithFrameInterval(d time.Duration) Option {
	return func(v *Viewer) { v.frameInterval = d }
}

// WithToneMapping selects the HDR compression applied by the backend.
func WithToneMapping(tm render.ToneMapping) Option {
	return func(v *Viewer) { v.tm = tm }
}

// WithDeviceHandle lends a host GPU device to the backend instead of
// letting it open its own. Only device-aware backends use it.
func WithDeviceHandle(h render.DeviceHandle) Option {
	return func(v *Viewer) { v.device = h }
}

// WithSize sets the initial render target dimensions. The default is
// 800x600; Resize changes them later.
func WithSize(width, height int) Option {
	return func(v *Viewer) {
		if width > 0 && height > 0 {
			v.width, v.height = width, height
		}
	}
}

// WithAssetRoot sets the directory environment maps load from.
func WithAssetRoot(root string) Option {
	return func(v *Viewer) {
		v.assetOpts = append(v.assetOpts, asset.WithRoot(root))
	}
}

// WithEnvironmentName selects the environment map base name.
func WithEnvironmentName(name string) Option {
	return func(v *Viewer) {
		v.assetOpts = append(v.assetOpts, asset.WithEnvironmentName(name))
	}
}

// WithLoader replaces the HDR file loader. Tests inject synthetic
// environments this way.
func WithLoader(l asset.Loader) Option {
	return func(v *Viewer) {
		v.assetOpts = append(v.assetOpts, asset.WithLoader(l))
	}
}
