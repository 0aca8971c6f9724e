// Package asset loads, caches and serves HDR environment maps at three
// quality tiers and owns the fixed catalogue of material presets.
//
// Environment loads are asynchronous and coalesced: concurrent requests
// for the same tier share one underlying load, and a tier that fails
// resolves to nil exactly once instead of propagating an error. The
// viewer keeps rendering with whatever is already resolved.
package asset

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/gogpu/cubeview/event"
	"github.com/gogpu/cubeview/render"
	"github.com/gogpu/cubeview/scene"
)

// package logger, propagated from the root package.
var loggerPtr atomic.Pointer[slog.Logger]

// SetLogger sets the package logger. Nil restores silence.
func SetLogger(l *slog.Logger) {
	loggerPtr.Store(l)
}

func slogger() *slog.Logger {
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

// Loader resolves one environment tier to a texture. path follows the
// <root>/<name>_<tier>.hdr convention; implementations may ignore it
// (embedded assets).
type Loader func(path, name, quality string) (*render.EnvTexture, error)

// Option configures a Manager.
type Option func(*Manager)

// WithRoot sets the directory containing environment map files.
func WithRoot(root string) Option {
	return func(m *Manager) { m.root = root }
}

// WithEnvironmentName sets the environment base name; files are looked
// up as <root>/<name>_<tier>.hdr.
func WithEnvironmentName(name string) Option {
	return func(m *Manager) { m.name = name }
}

// WithLoader replaces the file-based HDR loader, e.g. for embedded
// assets.
func WithLoader(l Loader) Option {
	return func(m *Manager) {
		if l != nil {
			m.load = l
		}
	}
}

// envEntry is one tier's cache slot. A slot is created unresolved and
// resolved exactly once: tex stays nil when the load failed.
type envEntry struct {
	tex      *render.EnvTexture
	resolved bool
}

// Manager owns the environment cache and the material preset catalogue.
//
// The manager never lets a load failure escape as an error: a failed
// tier resolves to nil, emits one EnvMapError event, and stays resolved
// so render-time lookups cannot retry-storm a dead asset host. Use
// Invalidate to re-attempt explicitly.
type Manager struct {
	bus  *event.Bus
	root string
	name string
	load Loader

	catalogue map[presetKey]scene.MaterialParams

	mu      sync.Mutex
	entries [numQualities]envEntry
	flight  singleflight.Group
	warm    errgroup.Group

	initialized bool
	disposed    atomic.Bool
}

// New creates a manager publishing load events on bus. The preset
// catalogue is built eagerly; no I/O happens until Initialize or EnvMap.
func New(bus *event.Bus, opts ...Option) *Manager {
	m := &Manager{
		bus:       bus,
		root:      "assets/env",
		name:      "studio",
		load:      decodeHDR,
		catalogue: buildCatalogue(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize loads the default tier synchronously and kicks off the
// remaining tiers in the background. It fails softly: after it returns,
// the default tier is either loaded or resolved-nil; it never returns a
// load error. A second call is a no-op.
func (m *Manager) Initialize(ctx context.Context, def EnvQuality) {
	m.mu.Lock()
	if m.initialized || m.disposed.Load() {
		m.mu.Unlock()
		return
	}
	m.initialized = true
	m.mu.Unlock()

	if !def.Valid() {
		def = Quality1K
	}
	m.EnvMap(ctx, def)

	for _, q := range Qualities {
		if q == def {
			continue
		}
		q := q
		m.warm.Go(func() error {
			m.EnvMap(context.Background(), q)
			return nil
		})
	}
}

// WaitBackground blocks until the background tier warm-up started by
// Initialize has settled. Mostly useful in tests and batch tools.
func (m *Manager) WaitBackground() {
	_ = m.warm.Wait()
}

// EnvMap returns the texture for a tier, or nil when the tier failed to
// load, the tier tag is invalid, or the manager is disposed. If no load
// for the tier has started, one is started; concurrent callers coalesce
// onto a single load and all receive the same result.
func (m *Manager) EnvMap(ctx context.Context, q EnvQuality) *render.EnvTexture {
	if !q.Valid() || m.disposed.Load() {
		return nil
	}

	m.mu.Lock()
	if e := m.entries[q]; e.resolved {
		m.mu.Unlock()
		return e.tex
	}
	m.mu.Unlock()

	if ctx.Err() != nil {
		return nil
	}

	v, _, _ := m.flight.Do(q.String(), func() (any, error) {
		return m.resolve(q), nil
	})
	tex, _ := v.(*render.EnvTexture)
	return tex
}

// resolve performs the single load for a tier and records the outcome.
// Runs at most once per tier per flight.
func (m *Manager) resolve(q EnvQuality) *render.EnvTexture {
	// A caller can pass EnvMap's resolved check, stall, and enter a
	// fresh flight after an earlier one already settled the slot. The
	// slot is authoritative: loading again would re-emit the tier event.
	m.mu.Lock()
	if e := m.entries[q]; e.resolved {
		m.mu.Unlock()
		return e.tex
	}
	m.mu.Unlock()

	path := filepath.Join(m.root, fmt.Sprintf("%s_%s.hdr", m.name, q))
	tex, err := m.load(path, m.name, q.String())
	if err != nil {
		tex = nil
	}

	// Liveness check: a load completing after Dispose must not publish
	// into a torn-down scene.
	if m.disposed.Load() {
		return nil
	}

	m.mu.Lock()
	m.entries[q] = envEntry{tex: tex, resolved: true}
	m.mu.Unlock()

	if err != nil {
		slogger().Warn("asset: env tier failed, degrading", "quality", q.String(), "error", err)
		m.bus.Emit(event.Event{Type: event.EnvMapError, Quality: q.String()})
		return nil
	}
	slogger().Info("asset: env tier loaded", "quality", q.String(), "size", fmt.Sprintf("%dx%d", tex.Width, tex.Height))
	m.bus.Emit(event.Event{Type: event.EnvMapLoaded, Quality: q.String()})
	return tex
}

// Resolved reports whether a tier has settled (successfully or not).
func (m *Manager) Resolved(q EnvQuality) bool {
	if !q.Valid() {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[q].resolved
}

// Invalidate clears a tier's cache slot so the next EnvMap call starts a
// fresh load. This is the explicit recovery hook for failed tiers; the
// manager never retries automatically.
func (m *Manager) Invalidate(q EnvQuality) {
	if !q.Valid() {
		return
	}
	m.mu.Lock()
	m.entries[q] = envEntry{}
	m.mu.Unlock()
	m.flight.Forget(q.String())
}

// ApplyEnvironment applies a resolved texture to the scene. Pure state
// application, no I/O:
//   - non-nil tex: always used as lighting environment; shown as
//     background only when showBackground is set, otherwise the flat
//     dark background stands in while lighting stays active.
//   - nil tex: both lighting and background fall back to the flat dark
//     color (graceful degradation).
func (m *Manager) ApplyEnvironment(sc *scene.Scene, tex *render.EnvTexture, showBackground bool) {
	sc.Background = render.DarkBackground
	if tex == nil {
		sc.Env = nil
		sc.ShowBackground = false
		return
	}
	sc.Env = tex
	sc.ShowBackground = showBackground
}

// Preview returns a tone-mapped LDR thumbnail of a resolved tier, or nil
// when the tier is unresolved or failed.
func (m *Manager) Preview(q EnvQuality, tm render.ToneMapping, maxDim int) image.Image {
	if !q.Valid() {
		return nil
	}
	m.mu.Lock()
	tex := m.entries[q].tex
	m.mu.Unlock()
	return Flatten(tex, tm, maxDim)
}

// Dispose releases the cache. Idempotent, safe without Initialize.
// In-flight loads settle harmlessly: their completion sees the disposed
// flag and publishes nothing.
func (m *Manager) Dispose() {
	if m.disposed.Swap(true) {
		return
	}
	m.mu.Lock()
	for i := range m.entries {
		m.entries[i] = envEntry{}
	}
	m.mu.Unlock()
	slogger().Debug("asset: disposed")
}
