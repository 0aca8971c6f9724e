package backend

import (
	"sync"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU rasterizer backend.
	BackendSoftware = "software"
	// BackendGPU is the name of the wgpu compute backend (backend/gpu).
	BackendGPU = "gpu"
)

// Factory creates a new backend instance.
type Factory func() Backend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	// GPU over software: the rasterizer is the fallback.
	backendPriority = []string{BackendGPU, BackendSoftware}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry. Useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns a list of registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a backend instance by name, or nil if not registered.
func Get(name string) Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available backend based on priority
// (gpu > software), or nil if none is registered.
func Default() Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			if b := factory(); b != nil {
				return b
			}
		}
	}
	for _, factory := range backends {
		if b := factory(); b != nil {
			return b
		}
	}
	return nil
}

// InitDefault selects the default backend and initializes it, falling
// back down the priority order when a higher-priority backend fails to
// initialize (e.g. no GPU adapter on this machine).
func InitDefault() (Backend, error) {
	registryMu.RLock()
	order := make([]string, 0, len(backends))
	order = append(order, backendPriority...)
	for name := range backends {
		known := false
		for _, p := range backendPriority {
			if p == name {
				known = true
				break
			}
		}
		if !known {
			order = append(order, name)
		}
	}
	registryMu.RUnlock()

	var lastErr error
	for _, name := range order {
		b := Get(name)
		if b == nil {
			continue
		}
		if err := b.Init(); err != nil {
			Slogger().Warn("backend: init failed, trying next", "backend", name, "error", err)
			lastErr = err
			b.Close()
			continue
		}
		Slogger().Info("backend: selected", "backend", b.Name())
		return b, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrBackendNotAvailable
}
