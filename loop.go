package cubeview

import (
	"sync"
	"time"

	"github.com/gogpu/cubeview/event"
)

// FrameScheduler drives the viewer's tick callback. The default
// TickScheduler runs a timer goroutine; hosts with their own event loop
// provide an implementation that calls tick from it instead.
type FrameScheduler interface {
	// Start begins invoking tick repeatedly. Only called once.
	Start(tick func())

	// Stop ceases invocations. After Stop returns, tick is no longer
	// running and will not run again.
	Stop()
}

// TickScheduler invokes the tick callback at a fixed interval from its
// own goroutine.
type TickScheduler struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewTickScheduler creates a scheduler with the given tick interval.
// Non-positive intervals default to 60 Hz.
func NewTickScheduler(interval time.Duration) *TickScheduler {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickScheduler{interval: interval}
}

// Start begins the tick loop.
func (s *TickScheduler) Start(tick func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func(stop, done chan struct{}) {
		defer close(done)
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				tick()
			}
		}
	}(s.stop, s.done)
}

// Stop halts the loop and waits for the tick goroutine to exit.
func (s *TickScheduler) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

var _ FrameScheduler = (*TickScheduler)(nil)

// fpsWindow is the number of draws the FPS measurement averages over.
const fpsWindow = 30

// FrameStats is a snapshot of the viewer's drawing activity.
type FrameStats struct {
	// Frames is the total number of frames drawn since initialization.
	Frames uint64

	// FPS is the frame rate averaged over the last measurement window.
	// Zero until a full window has elapsed.
	FPS float64

	// LastDraw is when the most recent frame finished.
	LastDraw time.Time
}

// FPS returns the measured frame rate. With render-on-demand this
// reflects actual draws, not scheduler ticks: an idle viewer reports
// the rate of its last active window.
func (v *Viewer) FPS() float64 {
	v.statsMu.Lock()
	defer v.statsMu.Unlock()
	return v.stats.FPS
}

// Stats returns a snapshot of the frame counters.
func (v *Viewer) Stats() FrameStats {
	v.statsMu.Lock()
	defer v.statsMu.Unlock()
	return v.stats
}

// tick advances the camera and draws one frame if anything changed.
// Idle ticks (no pending frame request, no camera motion) do no
// rendering work at all.
func (v *Viewer) tick() {
	if !v.ready() {
		return
	}
	v.mu.Lock()
	if !v.ready() { // disposed between check and lock
		v.mu.Unlock()
		return
	}

	now := time.Now()
	dt := float32(now.Sub(v.lastTick).Seconds())
	v.lastTick = now
	if dt > 0.25 {
		dt = 0.25 // clamp after stalls so the camera does not jump
	}

	if v.ctrl.Update(dt) {
		v.pending.Store(true)
	}
	if !v.pending.Load() {
		v.mu.Unlock()
		return
	}

	err := v.be.Render(v.target, v.sc, v.cam)
	v.pending.Store(false)
	v.mu.Unlock()

	if err != nil {
		Logger().Warn("frame render failed", "error", err)
		v.bus.Emit(event.Event{Type: event.Error, Message: err.Error()})
		return
	}
	v.recordFrame(time.Now())
}

func (v *Viewer) recordFrame(now time.Time) {
	v.statsMu.Lock()
	defer v.statsMu.Unlock()
	v.stats.Frames++
	v.stats.LastDraw = now
	v.windowFrames++
	if v.windowFrames >= fpsWindow {
		if elapsed := now.Sub(v.windowStart).Seconds(); elapsed > 0 {
			v.stats.FPS = float64(v.windowFrames) / elapsed
		}
		v.windowFrames = 0
		v.windowStart = now
	}
}
