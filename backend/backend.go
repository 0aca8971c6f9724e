// Package backend defines the rendering backend interface and registry.
//
// Two backends exist: the software rasterizer in this package (always
// available, registered on import) and the wgpu compute backend in
// backend/gpu (opt-in via blank import). Selection happens once, inside
// Viewer.Initialize; afterwards the chosen backend lives behind the
// Backend interface and nothing branches on which one it is.
package backend

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/cubeview/render"
	"github.com/gogpu/cubeview/scene"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Backend renders the scene to a target. Implementations are not safe
// for concurrent use; the viewer serializes all calls.
type Backend interface {
	// Name returns the backend identifier ("software", "gpu").
	Name() string

	// Init initializes the backend. Called once before any rendering.
	Init() error

	// Render draws one frame of the scene through cam into target.
	Render(target render.Target, sc *scene.Scene, cam *scene.Camera) error

	// SetSize informs the backend of the current target dimensions so
	// it can resize size-dependent resources ahead of the next Render.
	SetSize(width, height int)

	// SetToneMapping selects HDR-to-display compression.
	SetToneMapping(tm render.ToneMapping)

	// Close releases all backend resources. The backend must not be
	// used afterwards.
	Close()
}

// DeviceAware is implemented by backends that can reuse a GPU device
// lent by a host application instead of opening their own.
type DeviceAware interface {
	SetDeviceHandle(h render.DeviceHandle) error
}

// package logger, propagated from the root package.
var loggerPtr atomic.Pointer[slog.Logger]

// SetLogger sets the package logger. Nil restores silence.
func SetLogger(l *slog.Logger) {
	loggerPtr.Store(l)
}

// Slogger returns the package logger; backend/gpu shares it.
func Slogger() *slog.Logger {
	if l := loggerPtr.Load(); l != nil {
		return l
	}
	return slog.New(discardHandler{})
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }
