package cubeview

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/cubeview/event"
	"github.com/gogpu/cubeview/render"
	"github.com/gogpu/cubeview/scene"
)

// manualScheduler drives ticks from the test instead of a timer.
type manualScheduler struct {
	tick    func()
	stopped bool
}

func (m *manualScheduler) Start(tick func()) { m.tick = tick }
func (m *manualScheduler) Stop()             { m.stopped = true }
func (m *manualScheduler) fire() {
	if m.tick != nil {
		m.tick()
	}
}

func okLoader(_, name, quality string) (*render.EnvTexture, error) {
	tex := &render.EnvTexture{Name: name, Quality: quality, Width: 4, Height: 2, Pix: make([]float32, 4*2*3)}
	for i := range tex.Pix {
		tex.Pix[i] = 0.5
	}
	return tex, nil
}

func failLoader(_, _, quality string) (*render.EnvTexture, error) {
	return nil, errors.New("no such tier " + quality)
}

func newTestViewer(t *testing.T) (*Viewer, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	v := New(
		WithBackendName("software"),
		WithScheduler(sched),
		WithLoader(okLoader),
		WithSize(32, 32),
	)
	t.Cleanup(v.Dispose)
	return v, sched
}

func mustInit(t *testing.T, v *Viewer) {
	t.Helper()
	if err := v.Initialize(context.Background(), Config{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
}

func TestInitialize_ProgressMonotonicThenReady(t *testing.T) {
	v, _ := newTestViewer(t)

	var percents []int
	readyAfterAll := false
	v.On(event.Progress, func(ev event.Event) {
		percents = append(percents, ev.Percent)
	})
	v.On(event.Ready, func(event.Event) {
		readyAfterAll = len(percents) > 0 && percents[len(percents)-1] == 100
	})

	mustInit(t, v)

	if len(percents) == 0 {
		t.Fatal("no progress events")
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] <= percents[i-1] {
			t.Fatalf("progress not monotonic: %v", percents)
		}
	}
	if percents[0] != 0 || percents[len(percents)-1] != 100 {
		t.Fatalf("progress must run 0..100, got %v", percents)
	}
	if !readyAfterAll {
		t.Fatal("Ready fired before progress reached 100")
	}
	if v.State() != StateReady {
		t.Fatalf("state = %v, want ready", v.State())
	}
	if v.IsGPU() {
		t.Fatal("IsGPU() true on the software backend")
	}
}

func TestInitialize_Twice(t *testing.T) {
	v, _ := newTestViewer(t)
	mustInit(t, v)
	if err := v.Initialize(context.Background(), Config{}); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Initialize: %v, want ErrAlreadyInitialized", err)
	}
}

func TestInitialize_AfterDispose(t *testing.T) {
	v, _ := newTestViewer(t)
	v.Dispose()
	if err := v.Initialize(context.Background(), Config{}); !errors.Is(err, ErrDisposed) {
		t.Fatalf("Initialize after Dispose: %v, want ErrDisposed", err)
	}
}

func TestInitialize_CanceledContext(t *testing.T) {
	v, _ := newTestViewer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gotError := false
	v.On(event.Error, func(event.Event) { gotError = true })

	if err := v.Initialize(ctx, Config{}); err == nil {
		t.Fatal("Initialize succeeded with canceled context")
	}
	if v.State() != StateError {
		t.Fatalf("state = %v, want error", v.State())
	}
	if !gotError {
		t.Fatal("no Error event emitted")
	}
}

func TestDispose_Idempotent(t *testing.T) {
	v, sched := newTestViewer(t)
	mustInit(t, v)
	v.Dispose()
	v.Dispose()
	if v.State() != StateDisposed {
		t.Fatalf("state = %v, want disposed", v.State())
	}
	if !sched.stopped {
		t.Fatal("scheduler not stopped")
	}
	// Ticks after dispose are no-ops, not panics.
	sched.fire()
}

func TestCommandsBeforeReady_AreNoOps(t *testing.T) {
	v, _ := newTestViewer(t)

	v.SetMaterial(MaterialPBR, StyleGold, AllFaces())
	v.SetDebugMode(true)
	v.SetTransformMode(ModeRotate)
	v.SetBackgroundVisible(false)
	v.SetEnvMapQuality(Quality4K)
	v.SetAutoRotate(false)
	v.ResetToDefaults(DefaultResetConfig())

	if v.FPS() != 0 {
		t.Fatal("FPS nonzero before initialization")
	}
	if v.State() != StateUninitialized {
		t.Fatalf("commands changed state to %v", v.State())
	}
}

func TestRenderOnDemand_IdleTicksDrawNothing(t *testing.T) {
	v, sched := newTestViewer(t)
	mustInit(t, v)

	v.SetAutoRotate(false)
	sched.fire() // consume the pending frame

	base := v.Stats().Frames
	for i := 0; i < 10; i++ {
		sched.fire()
	}
	if got := v.Stats().Frames; got != base {
		t.Fatalf("idle ticks drew %d frames", got-base)
	}

	v.SetMaterial(MaterialPBR, StyleGold, AllFaces())
	sched.fire()
	if got := v.Stats().Frames; got != base+1 {
		t.Fatalf("command did not trigger exactly one draw, frames = %d, want %d", got, base+1)
	}
}

func TestOrbitInput_TriggersRedraw(t *testing.T) {
	v, sched := newTestViewer(t)
	mustInit(t, v)
	v.SetAutoRotate(false)
	sched.fire()

	base := v.Stats().Frames
	v.Orbit(40, 10)
	sched.fire()
	if got := v.Stats().Frames; got != base+1 {
		t.Fatalf("orbit drag drew %d frames, want 1", got-base)
	}
}

func TestSetMaterial_SingleFace(t *testing.T) {
	v, _ := newTestViewer(t)
	mustInit(t, v)

	before := make([]scene.MaterialParams, scene.NumFaces)
	for i := range before {
		before[i] = v.sc.Cube.Materials[i].Params()
	}

	v.SetMaterial(MaterialPBR, StyleGold, OneFace(3))

	for i := 0; i < scene.NumFaces; i++ {
		got := v.sc.Cube.Materials[i].Params()
		if i == 3 {
			if got == before[i] {
				t.Fatal("targeted face unchanged")
			}
			if got.Metalness != 1 {
				t.Fatalf("face 3 metalness = %v, want gold preset", got.Metalness)
			}
		} else if got != before[i] {
			t.Fatalf("face %d changed by single-face command", i)
		}
	}
}

func TestSetMaterial_AllFaces(t *testing.T) {
	v, _ := newTestViewer(t)
	mustInit(t, v)

	v.SetMaterial(MaterialPBR, StyleGlass, AllFaces())
	want := v.sc.Cube.Materials[0].Params()
	if want.Unlit {
		t.Fatal("pbr preset applied as unlit")
	}
	for i := 1; i < scene.NumFaces; i++ {
		if v.sc.Cube.Materials[i].Params() != want {
			t.Fatalf("face %d differs after all-faces command", i)
		}
	}
}

func TestSetMaterial_InvalidIgnored(t *testing.T) {
	v, _ := newTestViewer(t)
	mustInit(t, v)

	before := v.sc.Cube.Materials[0].Params()
	v.SetMaterial(MaterialType(42), StyleWood, AllFaces())
	v.SetMaterial(MaterialPBR, StyleWood, OneFace(17))
	if v.sc.Cube.Materials[0].Params() != before {
		t.Fatal("invalid command mutated materials")
	}
}

func TestDebugMode_SuspendsOrbitAndRestores(t *testing.T) {
	v, _ := newTestViewer(t)
	mustInit(t, v)

	if !v.ctrl.AutoRotate() || !v.ctrl.Enabled() {
		t.Fatal("orbit not active after init")
	}

	v.SetDebugMode(true)
	if v.ctrl.Enabled() || v.ctrl.AutoRotate() {
		t.Fatal("debug mode left orbit or auto-rotate active")
	}
	if !v.sc.Axes.Visible || !v.sc.Gizmo.Visible {
		t.Fatal("debug helpers not visible")
	}

	v.SetDebugMode(false)
	if !v.ctrl.Enabled() || !v.ctrl.AutoRotate() {
		t.Fatal("leaving debug mode did not restore orbit state")
	}
	if v.sc.Axes.Visible {
		t.Fatal("axes still visible after leaving debug mode")
	}
}

func TestSetAutoRotate_DuringDebugDeferred(t *testing.T) {
	v, _ := newTestViewer(t)
	mustInit(t, v)

	v.SetDebugMode(true)
	v.SetAutoRotate(false) // desired state, applied on exit
	v.SetDebugMode(false)

	if v.ctrl.AutoRotate() {
		t.Fatal("auto-rotate re-enabled despite being turned off during debug mode")
	}
}

func TestResetToDefaults(t *testing.T) {
	v, _ := newTestViewer(t)
	mustInit(t, v)

	resets := 0
	v.On(event.CameraReset, func(event.Event) { resets++ })

	v.SetDebugMode(true)
	v.SetMaterial(MaterialPBR, StyleGold, AllFaces())
	v.cam.Position = v.cam.Position.Add(v.cam.Position) // drift the camera

	def := DefaultResetConfig()
	v.ResetToDefaults(def)

	if resets != 1 {
		t.Fatalf("CameraReset fired %d times, want 1", resets)
	}
	if v.cam.Position != def.CameraPosition || v.cam.Target != def.CameraTarget {
		t.Fatal("camera pose not restored")
	}
	if v.sc.Axes.Visible {
		t.Fatal("debug helpers still visible after reset")
	}
	if !v.ctrl.AutoRotate() {
		t.Fatal("auto-rotate not re-enabled by reset")
	}
	p := v.sc.Cube.Materials[0].Params()
	if !p.Unlit {
		t.Fatal("materials not reset to the basic wood preset")
	}
}

func TestResize(t *testing.T) {
	v, _ := newTestViewer(t)

	// Before Initialize: recorded, applied at startup.
	v.Resize(64, 48)
	mustInit(t, v)
	if v.target.Width() != 64 || v.target.Height() != 48 {
		t.Fatalf("initial target = %dx%d, want 64x48", v.target.Width(), v.target.Height())
	}

	v.Resize(128, 96)
	if v.target.Width() != 128 || v.target.Height() != 96 {
		t.Fatalf("resized target = %dx%d, want 128x96", v.target.Width(), v.target.Height())
	}
	if v.cam.Aspect != float32(128)/float32(96) {
		t.Fatalf("camera aspect = %v after resize", v.cam.Aspect)
	}

	v.Resize(0, -1) // ignored
	if v.target.Width() != 128 {
		t.Fatal("invalid resize applied")
	}
}

func TestFPS_MeasuredOverWindow(t *testing.T) {
	v, sched := newTestViewer(t)
	mustInit(t, v)
	v.SetAutoRotate(false)

	for i := 0; i < fpsWindow+1; i++ {
		v.requestFrame()
		sched.fire()
	}
	if v.FPS() <= 0 {
		t.Fatalf("FPS = %v after %d draws, want > 0", v.FPS(), fpsWindow+1)
	}
}

func TestEnvQuality_SwitchAppliesResolvedTier(t *testing.T) {
	v, _ := newTestViewer(t)
	mustInit(t, v)
	v.assets.WaitBackground() // all tiers resolved

	v.SetEnvMapQuality(Quality4K)
	if v.sc.Env == nil || v.sc.Env.Quality != "4k" {
		t.Fatalf("scene env = %+v, want 4k tier", v.sc.Env)
	}
}

func TestBackgroundVisibility(t *testing.T) {
	v, _ := newTestViewer(t)
	mustInit(t, v)

	if !v.sc.ShowBackground {
		t.Fatal("background hidden after init")
	}
	v.SetBackgroundVisible(false)
	if v.sc.ShowBackground {
		t.Fatal("background still visible")
	}
	if v.sc.Env == nil {
		t.Fatal("hiding the background dropped the environment texture")
	}
}

func TestInitialize_EnvFailureStillReady(t *testing.T) {
	sched := &manualScheduler{}
	v := New(
		WithBackendName("software"),
		WithScheduler(sched),
		WithLoader(failLoader),
		WithSize(16, 16),
	)
	defer v.Dispose()

	envErrors := 0
	v.On(event.EnvMapError, func(event.Event) { envErrors++ })

	if err := v.Initialize(context.Background(), Config{}); err != nil {
		t.Fatalf("Initialize failed on env error: %v", err)
	}
	v.assets.WaitBackground()
	if v.State() != StateReady {
		t.Fatalf("state = %v, want ready despite env failure", v.State())
	}
	if envErrors == 0 {
		t.Fatal("no EnvMapError emitted")
	}
	if v.sc.Env != nil {
		t.Fatal("scene has an environment despite load failure")
	}

	// Rendering still works on the flat background.
	sched.fire()
	if v.Stats().Frames == 0 {
		t.Fatal("no frame drawn after env failure")
	}
}
