// Package cubeview is an interactive 3D material and lighting explorer:
// a single textured cube rendered through a GPU compute backend (wgpu)
// with a software-rasterizer fallback, driven by a stateless command
// surface that a UI layer can call without touching the graphics API.
//
// The central type is [Viewer]. It owns the render target and scene
// graph, schedules a render-on-demand loop, and delegates environment
// map loading to an asset manager that caches three quality tiers and
// degrades gracefully when a tier fails to load.
//
// Basic usage:
//
//	v := cubeview.New(cubeview.WithAssetRoot("assets/env"))
//	if err := v.Initialize(ctx, cubeview.Config{EnvQuality: cubeview.Quality1K}); err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Dispose()
//	v.SetMaterial(cubeview.MaterialPBR, cubeview.StyleGold, cubeview.AllFaces())
//
// GPU rendering is opt-in via blank import:
//
//	import _ "github.com/gogpu/cubeview/backend/gpu"
//
// Without it the software backend is selected and everything runs on the
// CPU, which is also how the test suite exercises the full pipeline.
package cubeview
