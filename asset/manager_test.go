package asset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gogpu/cubeview/event"
	"github.com/gogpu/cubeview/render"
	"github.com/gogpu/cubeview/scene"
)

// countingLoader returns a loader that succeeds for every tier except
// those in fail, counting invocations per tier.
func countingLoader(counts *sync.Map, fail map[string]bool) Loader {
	return func(path, name, quality string) (*render.EnvTexture, error) {
		v, _ := counts.LoadOrStore(quality, new(atomic.Int64))
		v.(*atomic.Int64).Add(1)
		if fail[quality] {
			return nil, errors.New("synthetic decode failure")
		}
		return &render.EnvTexture{
			Name: name, Quality: quality,
			Width: 2, Height: 1,
			Pix: []float32{1, 1, 1, 0.5, 0.5, 0.5},
		}, nil
	}
}

func TestEnvMap_AtMostOneLoadPerTier(t *testing.T) {
	var counts sync.Map
	m := New(event.NewBus(), WithLoader(countingLoader(&counts, nil)))
	defer m.Dispose()

	const callers = 16
	results := make([]*render.EnvTexture, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = m.EnvMap(context.Background(), Quality2K)
		}()
	}
	wg.Wait()

	v, ok := counts.Load("2k")
	if !ok || v.(*atomic.Int64).Load() != 1 {
		t.Fatalf("loader ran %v times for 2k, want exactly 1", v)
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d received a different texture", i)
		}
	}
	if results[0] == nil {
		t.Fatal("coalesced load resolved nil for a successful tier")
	}
}

func TestResolve_AfterSlotSettledSkipsReload(t *testing.T) {
	var counts sync.Map
	bus := event.NewBus()
	var loaded atomic.Int64
	bus.On(event.EnvMapLoaded, func(event.Event) { loaded.Add(1) })

	m := New(bus, WithLoader(countingLoader(&counts, nil)))
	defer m.Dispose()

	want := m.EnvMap(context.Background(), Quality2K)

	// A caller that raced past EnvMap's resolved check lands here in a
	// fresh flight; the settled slot must win without a second load.
	if got := m.resolve(Quality2K); got != want {
		t.Fatalf("resolve returned a different texture for a settled tier")
	}
	v, _ := counts.Load("2k")
	if got := v.(*atomic.Int64).Load(); got != 1 {
		t.Fatalf("loader ran %d times for a settled tier, want 1", got)
	}
	if loaded.Load() != 1 {
		t.Fatalf("EnvMapLoaded fired %d times, want exactly 1", loaded.Load())
	}
}

func TestEnvMap_FailureResolvesNilOnceAndEmitsError(t *testing.T) {
	var counts sync.Map
	bus := event.NewBus()
	var errEvents atomic.Int64
	bus.On(event.EnvMapError, func(ev event.Event) {
		if ev.Quality != "4k" {
			t.Errorf("EnvMapError quality = %q, want 4k", ev.Quality)
		}
		errEvents.Add(1)
	})

	m := New(bus, WithLoader(countingLoader(&counts, map[string]bool{"4k": true})))
	defer m.Dispose()

	if tex := m.EnvMap(context.Background(), Quality4K); tex != nil {
		t.Fatal("failed tier resolved non-nil")
	}
	// Second call must not retry: slot stays resolved-nil.
	if tex := m.EnvMap(context.Background(), Quality4K); tex != nil {
		t.Fatal("failed tier resolved non-nil on second call")
	}
	v, _ := counts.Load("4k")
	if v.(*atomic.Int64).Load() != 1 {
		t.Fatalf("failed tier loaded %d times, want 1 (no automatic retry)", v.(*atomic.Int64).Load())
	}
	if errEvents.Load() != 1 {
		t.Fatalf("EnvMapError fired %d times, want exactly 1", errEvents.Load())
	}
}

func TestInvalidate_AllowsExplicitRetry(t *testing.T) {
	var counts sync.Map
	m := New(event.NewBus(), WithLoader(countingLoader(&counts, map[string]bool{"1k": true})))
	defer m.Dispose()

	m.EnvMap(context.Background(), Quality1K)
	m.Invalidate(Quality1K)
	m.EnvMap(context.Background(), Quality1K)

	v, _ := counts.Load("1k")
	if got := v.(*atomic.Int64).Load(); got != 2 {
		t.Fatalf("loader ran %d times across Invalidate, want 2", got)
	}
}

func TestInitialize_SecondCallNoop(t *testing.T) {
	var counts sync.Map
	m := New(event.NewBus(), WithLoader(countingLoader(&counts, nil)))
	defer m.Dispose()

	m.Initialize(context.Background(), Quality1K)
	m.WaitBackground()
	m.Initialize(context.Background(), Quality1K)
	m.WaitBackground()

	for _, q := range []string{"1k", "2k", "4k"} {
		v, ok := counts.Load(q)
		if !ok {
			t.Fatalf("tier %s never loaded", q)
		}
		if got := v.(*atomic.Int64).Load(); got != 1 {
			t.Fatalf("tier %s loaded %d times, want 1", q, got)
		}
	}
}

func TestInitialize_DefaultTierResolvedOnReturn(t *testing.T) {
	var counts sync.Map
	m := New(event.NewBus(), WithLoader(countingLoader(&counts, map[string]bool{"2k": true})))
	defer m.Dispose()

	m.Initialize(context.Background(), Quality2K)
	if !m.Resolved(Quality2K) {
		t.Fatal("default tier not resolved after Initialize (soft-fail expected)")
	}
	m.WaitBackground()
}

func TestApplyEnvironment(t *testing.T) {
	m := New(event.NewBus())
	defer m.Dispose()
	tex := &render.EnvTexture{Width: 1, Height: 1, Pix: []float32{1, 1, 1}}

	tests := []struct {
		name     string
		tex      *render.EnvTexture
		show     bool
		wantEnv  *render.EnvTexture
		wantShow bool
	}{
		{"texture with background", tex, true, tex, true},
		{"texture background hidden", tex, false, tex, false},
		{"nil texture degrades", nil, true, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := scene.New()
			m.ApplyEnvironment(sc, tt.tex, tt.show)
			if sc.Env != tt.wantEnv {
				t.Errorf("Env = %v, want %v", sc.Env, tt.wantEnv)
			}
			if sc.ShowBackground != tt.wantShow {
				t.Errorf("ShowBackground = %v, want %v", sc.ShowBackground, tt.wantShow)
			}
			if sc.Background != render.DarkBackground {
				t.Errorf("Background = %v, want dark fallback", sc.Background)
			}
		})
	}
}

func TestDispose_IdempotentAndBlocksLookups(t *testing.T) {
	var counts sync.Map
	m := New(event.NewBus(), WithLoader(countingLoader(&counts, nil)))

	m.EnvMap(context.Background(), Quality1K)
	m.Dispose()
	m.Dispose()

	if tex := m.EnvMap(context.Background(), Quality1K); tex != nil {
		t.Fatal("disposed manager returned a texture")
	}
}

func TestDispose_WithoutInitialize(t *testing.T) {
	m := New(event.NewBus())
	m.Dispose() // must not panic
}

func TestEnvMap_InvalidTier(t *testing.T) {
	m := New(event.NewBus())
	defer m.Dispose()
	if tex := m.EnvMap(context.Background(), EnvQuality(9)); tex != nil {
		t.Fatal("invalid tier returned a texture")
	}
}

func TestEnvMap_CanceledContext(t *testing.T) {
	var counts sync.Map
	m := New(event.NewBus(), WithLoader(countingLoader(&counts, nil)))
	defer m.Dispose()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if tex := m.EnvMap(ctx, Quality1K); tex != nil {
		t.Fatal("canceled context returned a texture")
	}
	if _, ok := counts.Load("1k"); ok {
		t.Fatal("canceled context still started a load")
	}
}
