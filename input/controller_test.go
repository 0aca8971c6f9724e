package input

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/gogpu/cubeview/scene"
)

func newTestController() (*Controller, *scene.Camera) {
	cam := scene.NewCamera(1)
	return NewController(cam), cam
}

func TestUpdate_IdleWithoutAutoRotate(t *testing.T) {
	c, cam := newTestController()
	c.SetAutoRotate(false)
	before := cam.Position

	for i := 0; i < 10; i++ {
		if c.Update(1.0 / 60) {
			t.Fatal("idle Update reported movement")
		}
	}
	if cam.Position != before {
		t.Fatalf("camera moved while idle: %v -> %v", before, cam.Position)
	}
}

func TestUpdate_AutoRotateMovesCamera(t *testing.T) {
	c, cam := newTestController()
	before := cam.Position

	if !c.Update(1.0 / 60) {
		t.Fatal("auto-rotate Update reported no movement")
	}
	if cam.Position == before {
		t.Fatal("auto-rotate did not move the camera")
	}
	// Distance to target is preserved by orbiting.
	wantDist := before.Sub(cam.Target).Len()
	gotDist := cam.Position.Sub(cam.Target).Len()
	if math32.Abs(wantDist-gotDist) > 1e-4 {
		t.Fatalf("orbit changed distance: %v -> %v", wantDist, gotDist)
	}
}

func TestSetAutoRotate_ReportsChange(t *testing.T) {
	c, _ := newTestController()
	if c.SetAutoRotate(true) {
		t.Fatal("enabling already-enabled auto-rotate reported a change")
	}
	if !c.SetAutoRotate(false) {
		t.Fatal("disabling auto-rotate did not report a change")
	}
	if c.AutoRotate() {
		t.Fatal("auto-rotate still reported on")
	}
}

func TestOrbit_IgnoredWhileDisabled(t *testing.T) {
	c, cam := newTestController()
	c.SetAutoRotate(false)
	c.SetEnabled(false)
	before := cam.Position

	c.Orbit(100, 50)
	c.Pan(30, 30)
	c.Dolly(2)
	if c.Update(1.0 / 60) {
		t.Fatal("disabled controller reported movement")
	}
	if cam.Position != before {
		t.Fatal("disabled controller moved the camera")
	}
}

func TestOrbit_AppliedWhenEnabled(t *testing.T) {
	c, cam := newTestController()
	c.SetAutoRotate(false)
	before := cam.Position

	c.Orbit(40, 0)
	if !c.Update(1.0 / 60) {
		t.Fatal("orbit delta produced no movement")
	}
	if cam.Position == before {
		t.Fatal("orbit delta did not move the camera")
	}
}

func TestPitchClamped(t *testing.T) {
	c, cam := newTestController()
	c.SetAutoRotate(false)

	// Huge upward drag must not flip over the pole.
	c.Orbit(0, -1e6)
	c.Update(1.0 / 60)
	for i := 0; i < 120; i++ {
		c.Update(1.0 / 60)
	}
	d := cam.Position.Sub(cam.Target)
	sin := d.Y() / d.Len()
	if sin > math32.Sin(maxPitch)+1e-3 {
		t.Fatalf("pitch exceeded clamp: sin=%v", sin)
	}
}

func TestDolly_ClampedToMinDistance(t *testing.T) {
	c, cam := newTestController()
	c.SetAutoRotate(false)

	for i := 0; i < 100; i++ {
		c.Dolly(10)
		c.Update(1.0 / 60)
	}
	dist := cam.Position.Sub(cam.Target).Len()
	if dist < minDistance-1e-3 {
		t.Fatalf("distance %v below minimum %v", dist, minDistance)
	}
}

func TestKeyHeldOrbits(t *testing.T) {
	c, cam := newTestController()
	c.SetAutoRotate(false)
	before := cam.Position

	c.SetKey(KeyRight, true)
	moved := false
	for i := 0; i < 5; i++ {
		moved = c.Update(1.0/60) || moved
	}
	c.SetKey(KeyRight, false)

	if !moved || cam.Position == before {
		t.Fatal("held key did not orbit the camera")
	}
	if c.Update(1.0 / 60) {
		t.Fatal("released key still moving the camera")
	}
}

func TestResync_DropsPendingDeltas(t *testing.T) {
	c, cam := newTestController()
	c.SetAutoRotate(false)

	c.Orbit(500, 500)
	c.Resync()
	before := cam.Position
	if c.Update(1.0 / 60) {
		t.Fatal("Update after Resync reported movement")
	}
	if cam.Position != before {
		t.Fatal("pending deltas survived Resync")
	}
}
