// Package input translates pointer, wheel and keyboard deltas into
// camera motion: orbit, pan and dolly around a target point, plus an
// auto-rotate idle spin. The host UI feeds raw deltas in; the viewer's
// render loop calls Update once per frame and redraws when the camera
// moved.
package input

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/cubeview/scene"
)

// Key identifies the continuous-movement keys the controller understands.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown

	numKeys
)

const (
	orbitSpeed     = 0.005 // radians per pixel
	panSpeed       = 0.002 // world units per pixel per unit distance
	dollySpeed     = 0.1
	keyOrbitSpeed  = 1.2 // radians per second while held
	autoRotateRate = 0.4 // radians per second
	damping        = 8.0 // velocity decay rate, 1/s

	minPitch    = -1.45 // just short of the poles
	maxPitch    = 1.45
	minDistance = 0.8
	maxDistance = 30
)

// Controller owns the camera-motion state. All methods are safe for
// concurrent use; the host UI may push deltas from its event thread
// while the render loop calls Update.
type Controller struct {
	mu  sync.Mutex
	cam *scene.Camera

	enabled    bool
	autoRotate bool

	// Spherical pose around the target, derived from the camera at
	// attach/reset time.
	yaw, pitch, distance float32

	// Pending pointer deltas, consumed by the next Update.
	orbitX, orbitY float32
	panX, panY     float32
	dolly          float32

	// Decaying velocities for glide-out after the pointer releases.
	velYaw, velPitch float32

	held [numKeys]bool
}

// NewController attaches a controller to cam. Orbit input starts enabled
// and auto-rotate on, matching the viewer's startup defaults.
func NewController(cam *scene.Camera) *Controller {
	c := &Controller{cam: cam, enabled: true, autoRotate: true}
	c.syncFromCamera()
	return c
}

// syncFromCamera derives yaw/pitch/distance from the camera pose.
// Callers hold c.mu or have exclusive access.
func (c *Controller) syncFromCamera() {
	d := c.cam.Position.Sub(c.cam.Target)
	c.distance = d.Len()
	if c.distance == 0 {
		c.distance = minDistance
	}
	c.yaw = math32.Atan2(d.X(), d.Z())
	c.pitch = math32.Asin(d.Y() / c.distance)
}

// Resync re-derives the orbit state after an external camera move
// (reset). Pending deltas and velocities are dropped.
func (c *Controller) Resync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncFromCamera()
	c.orbitX, c.orbitY, c.panX, c.panY, c.dolly = 0, 0, 0, 0, 0
	c.velYaw, c.velPitch = 0, 0
}

// SetEnabled gates orbit/pan input. Debug mode disables it so the gizmo
// gets undivided pointer input; auto-rotate and key state are unaffected
// by re-enabling.
func (c *Controller) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
	if !enabled {
		c.orbitX, c.orbitY, c.panX, c.panY = 0, 0, 0, 0
		c.velYaw, c.velPitch = 0, 0
		c.held = [numKeys]bool{}
	}
}

// Enabled reports whether orbit input is accepted.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// SetAutoRotate toggles the idle spin. Returns true when the state
// actually changed, so callers can skip redundant render requests.
func (c *Controller) SetAutoRotate(enabled bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.autoRotate == enabled {
		return false
	}
	c.autoRotate = enabled
	return true
}

// AutoRotate reports whether the idle spin is active.
func (c *Controller) AutoRotate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoRotate
}

// Orbit accumulates a pointer-drag orbit delta in pixels.
func (c *Controller) Orbit(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	c.orbitX += dx
	c.orbitY += dy
}

// Pan accumulates a pointer-drag pan delta in pixels.
func (c *Controller) Pan(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	c.panX += dx
	c.panY += dy
}

// Dolly accumulates a wheel delta; positive moves the camera closer.
func (c *Controller) Dolly(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	c.dolly += delta
}

// SetKey records a continuous-movement key transition.
func (c *Controller) SetKey(k Key, down bool) {
	if k < 0 || k >= numKeys {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled && down {
		return
	}
	c.held[k] = down
}

// Update advances the camera by dt seconds: consumes pending deltas,
// applies held keys and auto-rotate, decays glide velocities, and
// rewrites the camera pose. Returns true when the camera moved and a
// redraw is needed.
func (c *Controller) Update(dt float32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if dt <= 0 {
		return false
	}

	yaw, pitch, dist := c.yaw, c.pitch, c.distance
	target := c.cam.Target

	// Pointer orbit feeds velocity so releases glide out.
	if c.orbitX != 0 || c.orbitY != 0 {
		c.velYaw = -c.orbitX * orbitSpeed / dt
		c.velPitch = -c.orbitY * orbitSpeed / dt
		c.orbitX, c.orbitY = 0, 0
	}
	yaw += c.velYaw * dt
	pitch += c.velPitch * dt
	decay := math32.Exp(-damping * dt)
	c.velYaw *= decay
	c.velPitch *= decay
	if math32.Abs(c.velYaw) < 1e-4 {
		c.velYaw = 0
	}
	if math32.Abs(c.velPitch) < 1e-4 {
		c.velPitch = 0
	}

	if c.held[KeyLeft] {
		yaw -= keyOrbitSpeed * dt
	}
	if c.held[KeyRight] {
		yaw += keyOrbitSpeed * dt
	}
	if c.held[KeyUp] {
		pitch += keyOrbitSpeed * dt
	}
	if c.held[KeyDown] {
		pitch -= keyOrbitSpeed * dt
	}

	if c.autoRotate {
		yaw += autoRotateRate * dt
	}

	if c.dolly != 0 {
		dist *= math32.Exp(-c.dolly * dollySpeed)
		c.dolly = 0
	}

	if c.panX != 0 || c.panY != 0 {
		right := mgl32.Vec3{math32.Cos(yaw), 0, -math32.Sin(yaw)}
		up := c.cam.Up
		shift := right.Mul(-c.panX * panSpeed * dist).
			Add(up.Mul(c.panY * panSpeed * dist))
		target = target.Add(shift)
		c.panX, c.panY = 0, 0
	}

	pitch = math32.Min(math32.Max(pitch, minPitch), maxPitch)
	dist = math32.Min(math32.Max(dist, minDistance), maxDistance)

	moved := yaw != c.yaw || pitch != c.pitch || dist != c.distance || target != c.cam.Target
	c.yaw, c.pitch, c.distance = yaw, pitch, dist

	if moved {
		c.cam.Target = target
		c.cam.Position = target.Add(mgl32.Vec3{
			dist * math32.Cos(pitch) * math32.Sin(yaw),
			dist * math32.Sin(pitch),
			dist * math32.Cos(pitch) * math32.Cos(yaw),
		})
	}
	return moved
}
