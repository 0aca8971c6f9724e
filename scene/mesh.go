package scene

import "github.com/go-gl/mathgl/mgl32"

// Face indices. The order is fixed and part of the command contract:
// material commands address faces by these indices.
const (
	FaceRight = iota
	FaceLeft
	FaceTop
	FaceBottom
	FaceFront
	FaceBack

	// NumFaces is the number of cube faces.
	NumFaces
)

// FaceNames maps a face index to its display name, used for the debug
// face-label billboards.
var FaceNames = [NumFaces]string{"Right", "Left", "Top", "Bottom", "Front", "Back"}

// faceQuad holds the four corners of one unit-cube face, counter-clockwise
// when viewed from outside, plus the outward normal.
type faceQuad struct {
	corners [4]mgl32.Vec3
	normal  mgl32.Vec3
}

// unitCube is the canonical unit cube (side 1, centered at origin),
// indexed by face constant.
var unitCube = [NumFaces]faceQuad{
	FaceRight: {
		corners: [4]mgl32.Vec3{{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}},
		normal:  mgl32.Vec3{1, 0, 0},
	},
	FaceLeft: {
		corners: [4]mgl32.Vec3{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}},
		normal:  mgl32.Vec3{-1, 0, 0},
	},
	FaceTop: {
		corners: [4]mgl32.Vec3{{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}},
		normal:  mgl32.Vec3{0, 1, 0},
	},
	FaceBottom: {
		corners: [4]mgl32.Vec3{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}},
		normal:  mgl32.Vec3{0, -1, 0},
	},
	FaceFront: {
		corners: [4]mgl32.Vec3{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}},
		normal:  mgl32.Vec3{0, 0, 1},
	},
	FaceBack: {
		corners: [4]mgl32.Vec3{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}},
		normal:  mgl32.Vec3{0, 0, -1},
	},
}

// Cube is the explorer's single mesh: a unit cube with six independently
// addressable face materials and a mutable transform.
type Cube struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler angles, radians, applied XYZ
	Scale    mgl32.Vec3

	// Materials holds exactly NumFaces entries; the pointers are stable
	// for the life of the cube (copy-in-place, see Material).
	Materials [NumFaces]*Material
}

// NewCube creates a cube at the origin with identity transform and one
// material per face.
func NewCube() *Cube {
	c := &Cube{Scale: mgl32.Vec3{1, 1, 1}}
	for i := range c.Materials {
		c.Materials[i] = &Material{Label: "face:" + FaceNames[i]}
	}
	return c
}

// Model returns the cube's model matrix (translate * rotate * scale).
func (c *Cube) Model() mgl32.Mat4 {
	t := mgl32.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z())
	r := mgl32.HomogRotate3DZ(c.Rotation.Z()).
		Mul4(mgl32.HomogRotate3DY(c.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(c.Rotation.X()))
	s := mgl32.Scale3D(c.Scale.X(), c.Scale.Y(), c.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// FaceCorners returns the world-space corners of face i under the cube's
// current transform.
func (c *Cube) FaceCorners(i int) [4]mgl32.Vec3 {
	model := c.Model()
	var out [4]mgl32.Vec3
	for j, p := range unitCube[i].corners {
		out[j] = mgl32.TransformCoordinate(p, model)
	}
	return out
}

// FaceNormal returns the world-space outward normal of face i.
func (c *Cube) FaceNormal(i int) mgl32.Vec3 {
	model := c.Model()
	n := mgl32.TransformNormal(unitCube[i].normal, model)
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return unitCube[i].normal
}

// FaceCenter returns the world-space center of face i.
func (c *Cube) FaceCenter(i int) mgl32.Vec3 {
	corners := c.FaceCorners(i)
	sum := corners[0].Add(corners[1]).Add(corners[2]).Add(corners[3])
	return sum.Mul(0.25)
}
