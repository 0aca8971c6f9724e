package scene

import "github.com/go-gl/mathgl/mgl32"

// Camera is a perspective camera orbiting a target point.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	// FOV is the vertical field of view in degrees.
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32
}

// NewCamera creates a camera on the default orbit looking at the origin.
func NewCamera(aspect float32) *Camera {
	return &Camera{
		Position: mgl32.Vec3{3, 2, 4},
		Target:   mgl32.Vec3{0, 0, 0},
		Up:       mgl32.Vec3{0, 1, 0},
		FOV:      45,
		Aspect:   aspect,
		Near:     0.1,
		Far:      100,
	}
}

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// SetAspect updates the aspect ratio after a viewport resize.
func (c *Camera) SetAspect(aspect float32) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

// MoveTo repositions the camera pose in one step, used by reset.
func (c *Camera) MoveTo(position, target mgl32.Vec3) {
	c.Position = position
	c.Target = target
}

// Forward returns the normalized view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	d := c.Target.Sub(c.Position)
	if l := d.Len(); l > 0 {
		return d.Mul(1 / l)
	}
	return mgl32.Vec3{0, 0, -1}
}
