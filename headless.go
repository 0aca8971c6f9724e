package cubeview

import (
	"context"
	"sync"
	"time"

	"github.com/gogpu/cubeview/event"
)

// Headless is a Renderer that performs no rendering work: it runs the
// lifecycle state machine and event protocol with a short simulated
// initialization, so hosts and CI pipelines can exercise their wiring
// without a scene, a backend, or asset files.
type Headless struct {
	mu    sync.Mutex
	state State
	bus   *event.Bus

	// delay is the simulated per-stage initialization cost.
	delay time.Duration
}

// NewHeadless creates a headless renderer.
func NewHeadless() *Headless {
	return &Headless{
		bus:   event.NewBus(),
		delay: 5 * time.Millisecond,
	}
}

// State returns the current lifecycle state.
func (h *Headless) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Initialize simulates startup: Progress at 0, 50 and 100, then Ready.
func (h *Headless) Initialize(ctx context.Context, _ Config) error {
	h.mu.Lock()
	switch h.state {
	case StateUninitialized:
	case StateDisposed:
		h.mu.Unlock()
		return ErrDisposed
	default:
		h.mu.Unlock()
		return ErrAlreadyInitialized
	}
	h.state = StateInitializing
	h.mu.Unlock()

	for _, percent := range []int{0, 50, 100} {
		if err := ctx.Err(); err != nil {
			h.mu.Lock()
			h.state = StateError
			h.mu.Unlock()
			h.bus.Emit(event.Event{Type: event.Error, Message: err.Error()})
			return err
		}
		h.bus.Emit(event.Event{Type: event.Progress, Percent: percent, Message: "headless"})
		if percent < 100 {
			time.Sleep(h.delay)
		}
	}

	h.mu.Lock()
	h.state = StateReady
	h.mu.Unlock()
	h.bus.Emit(event.Event{Type: event.Ready})
	return nil
}

// Dispose moves to the terminal state. Idempotent.
func (h *Headless) Dispose() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == StateDisposed {
		return
	}
	h.state = StateDisposed
	h.bus.Clear()
}

// Commands are accepted and discarded; the protocol only requires that
// they are safe in every state.

func (h *Headless) SetMaterial(MaterialType, FaceStyle, FaceTarget) {}
func (h *Headless) SetDebugMode(bool)                               {}
func (h *Headless) SetTransformMode(TransformMode)                  {}
func (h *Headless) SetBackgroundVisible(bool)                       {}
func (h *Headless) SetEnvMapQuality(EnvQuality)                     {}
func (h *Headless) SetAutoRotate(bool)                              {}
func (h *Headless) ResetToDefaults(ResetConfig) {
	if h.State() == StateReady {
		h.bus.Emit(event.Event{Type: event.CameraReset})
	}
}
func (h *Headless) Resize(int, int) {}

// FPS always reports zero; nothing is drawn.
func (h *Headless) FPS() float64 { return 0 }

// IsGPU always reports false.
func (h *Headless) IsGPU() bool { return false }

// On subscribes fn to events of type t.
func (h *Headless) On(t event.Type, fn event.Handler) { h.bus.On(t, fn) }

// Off removes a previously subscribed handler.
func (h *Headless) Off(t event.Type, fn event.Handler) { h.bus.Off(t, fn) }
