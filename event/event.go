// Package event provides the typed publish/subscribe bus used by the
// viewer for lifecycle and progress notifications.
//
// Events are keyed by an integer [Type] rather than strings so that
// dispatch sites can switch exhaustively over the closed set.
package event

import (
	"fmt"
	"sync"
	"unsafe"
)

// Type identifies one of the fixed viewer event kinds.
type Type int

const (
	// Ready fires once when initialization completes.
	Ready Type = iota

	// Progress reports initialization progress (Percent 0..100, Message).
	Progress

	// EnvMapLoaded fires when an environment tier finishes loading.
	EnvMapLoaded

	// EnvMapError fires when an environment tier fails to load.
	EnvMapError

	// CameraReset fires after a full state reset has been applied.
	CameraReset

	// Error reports a fatal initialization failure (Message).
	Error

	numTypes
)

func (t Type) String() string {
	switch t {
	case Ready:
		return "ready"
	case Progress:
		return "progress"
	case EnvMapLoaded:
		return "envMapLoaded"
	case EnvMapError:
		return "envMapError"
	case CameraReset:
		return "cameraReset"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Event is the payload delivered to handlers. Only the fields relevant
// to the event's Type are populated.
type Event struct {
	Type    Type
	Percent int    // Progress
	Message string // Progress, Error
	Quality string // EnvMapLoaded, EnvMapError: tier tag ("1k".."4k")
}

// Handler receives events. Registering the same function value twice
// for one type stores it once; distinct closures are distinct handlers
// even when created from the same literal. Off must be given the value
// that was passed to On. Registration order is preserved for dispatch.
type Handler func(Event)

// Bus is a synchronous publish/subscribe dispatcher.
//
// Emit invokes handlers in registration order on the calling goroutine,
// without holding the bus lock, so handlers may subscribe or unsubscribe
// reentrantly. The zero value is not usable; call NewBus.
type Bus struct {
	mu       sync.Mutex
	handlers [numTypes][]registration
}

// registration pairs a handler with its identity key. Go functions are
// not comparable; the funcval pointer identifies the function value
// itself, so two closures that share code but were created separately
// stay separate subscriptions. The stored fn keeps the funcval alive
// for as long as the key is held.
type registration struct {
	key unsafe.Pointer
	fn  Handler
}

func handlerKey(fn Handler) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&fn))
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// On subscribes fn to events of type t. Subscribing the same function
// value twice is harmless: it is stored once and invoked once per event.
func (b *Bus) On(t Type, fn Handler) {
	if fn == nil || t < 0 || t >= numTypes {
		return
	}
	key := handlerKey(fn)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, reg := range b.handlers[t] {
		if reg.key == key {
			return
		}
	}
	b.handlers[t] = append(b.handlers[t], registration{key: key, fn: fn})
}

// Off removes fn from the subscribers of type t. Removing a handler that
// was never registered is a no-op.
func (b *Bus) Off(t Type, fn Handler) {
	if fn == nil || t < 0 || t >= numTypes {
		return
	}
	key := handlerKey(fn)

	b.mu.Lock()
	defer b.mu.Unlock()
	regs := b.handlers[t]
	for i, reg := range regs {
		if reg.key == key {
			b.handlers[t] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Emit delivers ev to every handler subscribed to ev.Type, in
// registration order, on the calling goroutine.
func (b *Bus) Emit(ev Event) {
	if ev.Type < 0 || ev.Type >= numTypes {
		return
	}
	b.mu.Lock()
	regs := make([]registration, len(b.handlers[ev.Type]))
	copy(regs, b.handlers[ev.Type])
	b.mu.Unlock()

	for _, reg := range regs {
		reg.fn(ev)
	}
}

// Clear drops every subscription. Called from Viewer.Dispose.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.handlers {
		b.handlers[i] = nil
	}
}

// Len returns the number of handlers subscribed to t.
func (b *Bus) Len(t Type) int {
	if t < 0 || t >= numTypes {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[t])
}
