// Package gpu implements the wgpu compute rendering backend.
//
// It is opt-in: blank-import the package to register it, after which
// backend selection prefers it over the software rasterizer and falls
// back automatically when no usable adapter is found.
//
//	import _ "github.com/gogpu/cubeview/backend/gpu"
//
// Faces are rasterized by a WGSL compute shader, one pass per visible
// face in painter order, compositing into a storage buffer that is read
// back into the target after a fence wait. Background and overlay
// drawing stay on the CPU and share code with the software backend.
//
// Building with the nogpu tag strips the implementation and leaves the
// registry with the software backend only.
package gpu
