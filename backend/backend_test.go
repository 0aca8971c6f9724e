package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/cubeview/render"
	"github.com/gogpu/cubeview/scene"
)

// stubBackend records calls for registry tests.
type stubBackend struct {
	name    string
	initErr error
	inited  bool
	closed  bool
}

func (s *stubBackend) Name() string { return s.name }
func (s *stubBackend) Init() error {
	if s.initErr != nil {
		return s.initErr
	}
	s.inited = true
	return nil
}
func (s *stubBackend) Render(render.Target, *scene.Scene, *scene.Camera) error { return nil }
func (s *stubBackend) SetSize(int, int)                                        {}
func (s *stubBackend) SetToneMapping(render.ToneMapping)                       {}
func (s *stubBackend) Close()                                                  { s.closed = true }

func TestRegistry_RegisterAndGet(t *testing.T) {
	Register("stub", func() Backend { return &stubBackend{name: "stub"} })
	defer Unregister("stub")

	if !IsRegistered("stub") {
		t.Fatal("stub not registered")
	}
	b := Get("stub")
	if b == nil || b.Name() != "stub" {
		t.Fatalf("Get returned %v", b)
	}
	if Get("nope") != nil {
		t.Error("Get of unknown name returned a backend")
	}
}

func TestRegistry_SoftwareAlwaysPresent(t *testing.T) {
	if !IsRegistered(BackendSoftware) {
		t.Fatal("software backend not self-registered")
	}
	b := Get(BackendSoftware)
	if _, ok := b.(*SoftwareBackend); !ok {
		t.Fatalf("software factory produced %T", b)
	}
}

func TestDefault_PrefersGPU(t *testing.T) {
	Register(BackendGPU, func() Backend { return &stubBackend{name: BackendGPU} })
	defer Unregister(BackendGPU)

	b := Default()
	if b == nil || b.Name() != BackendGPU {
		t.Fatalf("Default() = %v, want gpu when registered", b)
	}
}

func TestDefault_FallsBackToSoftware(t *testing.T) {
	// gpu is not registered in this package's tests unless a test adds it.
	if IsRegistered(BackendGPU) {
		t.Skip("gpu backend registered externally")
	}
	b := Default()
	if b == nil || b.Name() != BackendSoftware {
		t.Fatalf("Default() = %v, want software", b)
	}
}

func TestInitDefault_FallsBackOnInitFailure(t *testing.T) {
	failing := &stubBackend{name: BackendGPU, initErr: errors.New("no adapter")}
	Register(BackendGPU, func() Backend { return failing })
	defer Unregister(BackendGPU)

	b, err := InitDefault()
	if err != nil {
		t.Fatalf("InitDefault: %v", err)
	}
	defer b.Close()

	if b.Name() != BackendSoftware {
		t.Fatalf("selected %q, want software after gpu init failure", b.Name())
	}
	if !failing.closed {
		t.Error("failed backend was not closed")
	}
}

func TestInitDefault_NoBackends(t *testing.T) {
	// Temporarily empty the registry.
	registryMu.Lock()
	old := backends
	backends = make(map[string]Factory)
	registryMu.Unlock()
	defer func() {
		registryMu.Lock()
		backends = old
		registryMu.Unlock()
	}()

	if _, err := InitDefault(); !errors.Is(err, ErrBackendNotAvailable) {
		t.Fatalf("err = %v, want ErrBackendNotAvailable", err)
	}
}
