package cubeview

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/cubeview/event"
)

func TestHeadless_EventSequence(t *testing.T) {
	h := NewHeadless()
	defer h.Dispose()

	var percents []int
	ready := false
	h.On(event.Progress, func(ev event.Event) { percents = append(percents, ev.Percent) })
	h.On(event.Ready, func(event.Event) { ready = true })

	if err := h.Initialize(context.Background(), Config{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	want := []int{0, 50, 100}
	if len(percents) != len(want) {
		t.Fatalf("progress = %v, want %v", percents, want)
	}
	for i, p := range want {
		if percents[i] != p {
			t.Fatalf("progress = %v, want %v", percents, want)
		}
	}
	if !ready {
		t.Fatal("Ready not emitted")
	}
	if h.State() != StateReady {
		t.Fatalf("state = %v, want ready", h.State())
	}
}

func TestHeadless_Lifecycle(t *testing.T) {
	h := NewHeadless()
	if err := h.Initialize(context.Background(), Config{}); err != nil {
		t.Fatal(err)
	}
	if err := h.Initialize(context.Background(), Config{}); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Initialize: %v", err)
	}

	h.Dispose()
	h.Dispose()
	if h.State() != StateDisposed {
		t.Fatalf("state = %v", h.State())
	}
	if err := h.Initialize(context.Background(), Config{}); !errors.Is(err, ErrDisposed) {
		t.Fatalf("Initialize after Dispose: %v", err)
	}
}

func TestHeadless_CanceledContext(t *testing.T) {
	h := NewHeadless()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Initialize(ctx, Config{}); err == nil {
		t.Fatal("Initialize succeeded with canceled context")
	}
	if h.State() != StateError {
		t.Fatalf("state = %v, want error", h.State())
	}
}

func TestHeadless_CommandsSafeInAnyState(t *testing.T) {
	h := NewHeadless()

	h.SetMaterial(MaterialPBR, StyleGold, OneFace(2))
	h.SetDebugMode(true)
	h.SetTransformMode(ModeScale)
	h.SetBackgroundVisible(false)
	h.SetEnvMapQuality(Quality2K)
	h.SetAutoRotate(false)
	h.Resize(100, 100)
	h.ResetToDefaults(DefaultResetConfig())

	if h.FPS() != 0 {
		t.Fatal("headless FPS nonzero")
	}
	if h.IsGPU() {
		t.Fatal("headless IsGPU true")
	}
}

func TestHeadless_ResetEmitsCameraReset(t *testing.T) {
	h := NewHeadless()
	defer h.Dispose()

	resets := 0
	h.On(event.CameraReset, func(event.Event) { resets++ })

	h.ResetToDefaults(DefaultResetConfig()) // before ready: silent
	if err := h.Initialize(context.Background(), Config{}); err != nil {
		t.Fatal(err)
	}
	h.ResetToDefaults(DefaultResetConfig())

	if resets != 1 {
		t.Fatalf("CameraReset fired %d times, want 1", resets)
	}
}
