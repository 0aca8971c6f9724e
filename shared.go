package cubeview

import "sync"

// The shared instance replaces an implicit global singleton with an
// explicit owner: callers that want one viewer per process use Shared
// and ReleaseShared; everything else constructs independent viewers
// with New.
var (
	sharedMu sync.Mutex
	shared   *Viewer
)

// Shared returns the process-wide viewer, creating it on first call.
// Options are applied only on creation; later calls return the existing
// instance unchanged.
func Shared(opts ...Option) *Viewer {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = New(opts...)
	}
	return shared
}

// ReleaseShared disposes the shared viewer and clears the slot, so a
// subsequent Shared call creates a fresh instance. No-op when none
// exists.
func ReleaseShared() {
	sharedMu.Lock()
	v := shared
	shared = nil
	sharedMu.Unlock()
	if v != nil {
		v.Dispose()
	}
}
