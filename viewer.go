package cubeview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/cubeview/asset"
	"github.com/gogpu/cubeview/backend"
	"github.com/gogpu/cubeview/event"
	"github.com/gogpu/cubeview/input"
	"github.com/gogpu/cubeview/render"
	"github.com/gogpu/cubeview/scene"
)

// Lifecycle errors.
var (
	// ErrAlreadyInitialized is returned by Initialize on a viewer that
	// is initializing or ready.
	ErrAlreadyInitialized = errors.New("cubeview: already initialized")

	// ErrDisposed is returned by Initialize on a disposed viewer.
	ErrDisposed = errors.New("cubeview: disposed")
)

// State is the viewer lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateError
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Viewer is the interactive cube explorer: one cube, six face
// materials, an HDR environment, an orbiting camera, and a
// render-on-demand frame loop.
//
// All exported methods are safe for concurrent use. Commands issued
// before Initialize completes are silently ignored.
type Viewer struct {
	mu    sync.Mutex
	state atomic.Int32

	bus    *event.Bus
	assets *asset.Manager
	sc     *scene.Scene
	cam    *scene.Camera
	ctrl   *input.Controller
	be     backend.Backend
	target *render.PixmapTarget

	sched         FrameScheduler
	frameInterval time.Duration
	tm            render.ToneMapping
	device        render.DeviceHandle
	backendName   string
	assetOpts     []asset.Option

	width, height int
	quality       EnvQuality
	showBg        bool
	envGen        uint64

	debugMode         bool
	restoreAutoRotate bool

	pending      atomic.Bool
	isGPU        atomic.Bool
	lastProgress int

	statsMu      sync.Mutex
	stats        FrameStats
	windowStart  time.Time
	windowFrames int
	lastTick     time.Time
}

// New constructs an independent viewer. Nothing renders until
// Initialize is called.
func New(opts ...Option) *Viewer {
	v := &Viewer{
		bus:           event.NewBus(),
		width:         800,
		height:        600,
		frameInterval: time.Second / 60,
		tm:            render.ToneMappingACES,
		quality:       Quality1K,
		showBg:        true,
		lastProgress:  -1,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.sched == nil {
		v.sched = NewTickScheduler(v.frameInterval)
	}
	return v
}

// State returns the current lifecycle state.
func (v *Viewer) State() State {
	return State(v.state.Load())
}

func (v *Viewer) ready() bool {
	return v.State() == StateReady
}

// IsGPU reports whether the GPU backend is active. The value is stable
// once the viewer is ready.
func (v *Viewer) IsGPU() bool {
	return v.isGPU.Load()
}

// On subscribes fn to events of type t. Usable before Initialize.
func (v *Viewer) On(t event.Type, fn event.Handler) { v.bus.On(t, fn) }

// Off removes a previously subscribed handler.
func (v *Viewer) Off(t event.Type, fn event.Handler) { v.bus.Off(t, fn) }

// Target returns the CPU render target holding the last drawn frame.
// Nil before initialization.
func (v *Viewer) Target() *render.PixmapTarget {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.target
}

// emitProgress reports an initialization stage. Percentages are
// monotonic; a stage that would move backwards is dropped.
func (v *Viewer) emitProgress(percent int, msg string) {
	if percent <= v.lastProgress {
		return
	}
	v.lastProgress = percent
	v.bus.Emit(event.Event{Type: event.Progress, Percent: percent, Message: msg})
}

// Initialize brings the viewer to the Ready state: scene and camera,
// backend selection with fallback, the default environment tier
// (synchronously, remaining tiers warm in the background), and the
// frame scheduler. Progress events fire at each stage, Ready last.
func (v *Viewer) Initialize(ctx context.Context, cfg Config) error {
	v.mu.Lock()
	switch v.State() {
	case StateUninitialized:
	case StateDisposed:
		v.mu.Unlock()
		return ErrDisposed
	default:
		v.mu.Unlock()
		return ErrAlreadyInitialized
	}
	v.state.Store(int32(StateInitializing))

	fail := func(err error) error {
		v.state.Store(int32(StateError))
		v.mu.Unlock()
		v.bus.Emit(event.Event{Type: event.Error, Message: err.Error()})
		return err
	}

	v.emitProgress(0, "starting")
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	v.sc = scene.New()
	v.cam = scene.NewCamera(float32(v.width) / float32(v.height))
	v.target = render.NewPixmapTarget(v.width, v.height)
	v.emitProgress(15, "scene ready")

	v.ctrl = input.NewController(v.cam)
	v.emitProgress(30, "camera ready")

	be, err := v.openBackend()
	if err != nil {
		return fail(err)
	}
	v.be = be
	v.emitProgress(45, "backend "+be.Name())

	if v.device != nil {
		if da, ok := be.(backend.DeviceAware); ok {
			if derr := da.SetDeviceHandle(v.device); derr != nil {
				Logger().Warn("device handle rejected, backend keeps its own device", "error", derr)
			}
		}
	}
	be.SetSize(v.width, v.height)
	be.SetToneMapping(v.tm)
	v.emitProgress(60, "device ready")

	if !cfg.EnvQuality.Valid() {
		cfg.EnvQuality = Quality1K
	}
	v.quality = cfg.EnvQuality
	v.assets = asset.New(v.bus, v.assetOpts...)
	v.assets.Initialize(ctx, cfg.EnvQuality)
	v.emitProgress(75, "assets ready")

	tex := v.assets.EnvMap(ctx, cfg.EnvQuality)
	v.assets.ApplyEnvironment(v.sc, tex, v.showBg)
	v.applyMaterialLocked(MaterialBasic, StyleWood, AllFaces())
	if cfg.DebugMode {
		v.applyDebugLocked(true)
	}
	v.emitProgress(90, "environment applied")

	v.isGPU.Store(be.Name() == backend.BackendGPU)
	v.lastTick = time.Now()
	v.windowStart = v.lastTick
	v.sched.Start(v.tick)
	v.pending.Store(true)
	v.emitProgress(100, "initialized")
	v.state.Store(int32(StateReady))
	v.mu.Unlock()

	v.bus.Emit(event.Event{Type: event.Ready})
	Logger().Info("viewer initialized", "backend", be.Name(), "quality", cfg.EnvQuality.String())
	return nil
}

func (v *Viewer) openBackend() (backend.Backend, error) {
	if v.backendName == "" {
		return backend.InitDefault()
	}
	be := backend.Get(v.backendName)
	if be == nil {
		return nil, fmt.Errorf("cubeview: backend %q: %w", v.backendName, backend.ErrBackendNotAvailable)
	}
	if err := be.Init(); err != nil {
		be.Close()
		return nil, fmt.Errorf("cubeview: init backend %q: %w", v.backendName, err)
	}
	return be, nil
}

// Dispose stops the frame loop and releases every resource. Safe to
// call at any time, from any state, any number of times.
func (v *Viewer) Dispose() {
	v.mu.Lock()
	if v.State() == StateDisposed {
		v.mu.Unlock()
		return
	}
	v.state.Store(int32(StateDisposed))
	sched := v.sched
	assets := v.assets
	be := v.be
	v.be = nil
	v.mu.Unlock()

	// Stop outside the lock: it waits for an in-flight tick, and that
	// tick may be waiting on v.mu. The state flip above turns any such
	// tick into a no-op.
	if sched != nil {
		sched.Stop()
	}
	if assets != nil {
		assets.Dispose()
		assets.WaitBackground()
	}
	if be != nil {
		be.Close()
	}
	v.bus.Clear()
	Logger().Info("viewer disposed")
}
