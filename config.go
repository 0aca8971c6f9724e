package cubeview

import "github.com/go-gl/mathgl/mgl32"

// Config is the externally supplied startup configuration for
// [Viewer.Initialize]. Everything else (material, face selection,
// auto-rotate, transform mode) starts from fixed defaults.
type Config struct {
	// DebugMode shows the axes helper, face labels and transform gizmo,
	// and disables free camera orbit.
	DebugMode bool

	// EnvQuality is the environment tier loaded synchronously during
	// initialization. The remaining tiers warm up in the background.
	EnvQuality EnvQuality
}

// ResetConfig is a snapshot of every user-visible scene setting, applied
// atomically by [Viewer.ResetToDefaults]. It is a value object: the
// caller owns it and the viewer consumes it once.
type ResetConfig struct {
	CameraPosition mgl32.Vec3
	CameraTarget   mgl32.Vec3

	CubePosition mgl32.Vec3
	CubeRotation mgl32.Vec3 // Euler angles, radians
	CubeScale    mgl32.Vec3

	DebugMode      bool
	ShowBackground bool
	EnvQuality     EnvQuality

	MaterialType MaterialType
	FaceStyle    FaceStyle
	Target       FaceTarget
}

// DefaultResetConfig returns the snapshot matching a freshly initialized
// viewer: camera on the default orbit, identity cube transform, wood
// basic material on all faces, background visible at the 1k tier.
func DefaultResetConfig() ResetConfig {
	return ResetConfig{
		CameraPosition: mgl32.Vec3{3, 2, 4},
		CameraTarget:   mgl32.Vec3{0, 0, 0},
		CubePosition:   mgl32.Vec3{0, 0, 0},
		CubeRotation:   mgl32.Vec3{0, 0, 0},
		CubeScale:      mgl32.Vec3{1, 1, 1},
		DebugMode:      false,
		ShowBackground: true,
		EnvQuality:     Quality1K,
		MaterialType:   MaterialBasic,
		FaceStyle:      StyleWood,
		Target:         AllFaces(),
	}
}
