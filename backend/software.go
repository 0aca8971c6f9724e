package backend

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/cubeview/render"
	"github.com/gogpu/cubeview/scene"
)

// SoftwareBackend is the CPU fallback rasterizer: flat-shaded,
// painter-sorted cube faces with an environment-tinted ambient term.
// It trades physical accuracy for having zero device requirements,
// which also makes it the backend the test suite runs on.
type SoftwareBackend struct {
	initialized bool
	width       int
	height      int
	tm          render.ToneMapping

	// Cached average radiance of the current environment, keyed by
	// texture identity.
	envAvgFor *render.EnvTexture
	envAvg    render.RGBA
}

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func() Backend {
		return NewSoftwareBackend()
	})
}

// NewSoftwareBackend creates a new software rendering backend.
func NewSoftwareBackend() *SoftwareBackend {
	return &SoftwareBackend{tm: render.ToneMappingACES}
}

// Name returns the backend identifier.
func (b *SoftwareBackend) Name() string { return BackendSoftware }

// Init initializes the backend.
func (b *SoftwareBackend) Init() error {
	b.initialized = true
	return nil
}

// Close releases backend resources.
func (b *SoftwareBackend) Close() {
	b.envAvgFor = nil
	b.initialized = false
}

// SetSize records the target dimensions.
func (b *SoftwareBackend) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// SetToneMapping selects HDR compression for shading output.
func (b *SoftwareBackend) SetToneMapping(tm render.ToneMapping) {
	b.tm = tm
}

var _ Backend = (*SoftwareBackend)(nil)

// Render draws one frame.
func (b *SoftwareBackend) Render(target render.Target, sc *scene.Scene, cam *scene.Camera) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	if target == nil || sc == nil || cam == nil {
		return nil
	}
	w, h := target.Width(), target.Height()
	if w == 0 || h == 0 {
		return nil
	}

	fb := frameOf(target)
	fillBackground(fb, sc, cam, b.tm)
	for _, f := range VisibleFaces(sc, cam, w, h, b.averageEnv(sc.Env), b.tm) {
		fillQuad(fb, f.Pts, f.Color)
	}
	drawOverlays(fb, sc, cam)
	return nil
}

// averageEnv caches the sparse-grid average radiance per texture.
func (b *SoftwareBackend) averageEnv(tex *render.EnvTexture) render.RGBA {
	if tex == nil {
		return render.Black
	}
	if b.envAvgFor != tex {
		b.envAvgFor = tex
		b.envAvg = tex.AverageRadiance()
	}
	return b.envAvg
}

// frame is a borrowed view of the target's pixels for one draw.
type frame struct {
	pix    []byte
	stride int
	w, h   int
}

func frameOf(target render.Target) frame {
	return frame{
		pix:    target.Pixels(),
		stride: target.Stride(),
		w:      target.Width(),
		h:      target.Height(),
	}
}

func (f frame) set(x, y int, c render.RGBA) {
	if x < 0 || x >= f.w || y < 0 || y >= f.h {
		return
	}
	cc := c.Clamp()
	i := y*f.stride + x*4
	f.pix[i+0] = uint8(cc.R * 255)
	f.pix[i+1] = uint8(cc.G * 255)
	f.pix[i+2] = uint8(cc.B * 255)
	f.pix[i+3] = 255
}

// blend alpha-composites c over the existing pixel.
func (f frame) blend(x, y int, c render.RGBA) {
	if x < 0 || x >= f.w || y < 0 || y >= f.h {
		return
	}
	cc := c.Clamp()
	if cc.A >= 1 {
		f.set(x, y, cc)
		return
	}
	if cc.A <= 0 {
		return
	}
	i := y*f.stride + x*4
	inv := 1 - cc.A
	f.pix[i+0] = uint8(cc.R*cc.A*255 + float32(f.pix[i+0])*inv)
	f.pix[i+1] = uint8(cc.G*cc.A*255 + float32(f.pix[i+1])*inv)
	f.pix[i+2] = uint8(cc.B*cc.A*255 + float32(f.pix[i+2])*inv)
	f.pix[i+3] = 255
}

// FillBackground writes the scene background into target: the
// environment map sampled along camera rays when one is applied and
// visible, the flat fallback color otherwise. Shared with backend/gpu,
// whose compute passes composite faces over these pixels.
func FillBackground(target render.Target, sc *scene.Scene, cam *scene.Camera, tm render.ToneMapping) {
	fillBackground(frameOf(target), sc, cam, tm)
}

func fillBackground(fb frame, sc *scene.Scene, cam *scene.Camera, tm render.ToneMapping) {
	if sc.Env == nil || !sc.ShowBackground {
		bg := sc.BackgroundColor().Clamp()
		px := [4]byte{uint8(bg.R * 255), uint8(bg.G * 255), uint8(bg.B * 255), 255}
		for y := 0; y < fb.h; y++ {
			row := fb.pix[y*fb.stride : y*fb.stride+fb.w*4]
			for x := 0; x < fb.w*4; x += 4 {
				copy(row[x:x+4], px[:])
			}
		}
		return
	}

	fwd := cam.Forward()
	right := fwd.Cross(cam.Up)
	if l := right.Len(); l > 0 {
		right = right.Mul(1 / l)
	}
	up := right.Cross(fwd)
	tanV := math32.Tan(mgl32.DegToRad(cam.FOV) / 2)
	tanH := tanV * cam.Aspect

	for y := 0; y < fb.h; y++ {
		ndcY := 1 - 2*(float32(y)+0.5)/float32(fb.h)
		for x := 0; x < fb.w; x++ {
			ndcX := 2*(float32(x)+0.5)/float32(fb.w) - 1
			dir := fwd.Add(right.Mul(ndcX * tanH)).Add(up.Mul(ndcY * tanV))
			if l := dir.Len(); l > 0 {
				dir = dir.Mul(1 / l)
			}
			u := math32.Atan2(dir.X(), dir.Z())/(2*math32.Pi) + 0.5
			v := 0.5 - math32.Asin(dir.Y())/math32.Pi
			fb.set(x, y, tm.Map(sc.Env.Sample(u, v)))
		}
	}
}

// FaceQuad is one front-facing cube face projected to pixel space with
// its flat shading resolved.
type FaceQuad struct {
	Depth float32 // view-space distance, for painter sorting
	Pts   [4]mgl32.Vec2
	Color render.RGBA
}

// VisibleFaces returns the cube's front-facing faces projected into a
// w by h pixel target, painter-sorted back to front. envAvg is the
// average radiance of the applied environment (render.Black when none).
func VisibleFaces(sc *scene.Scene, cam *scene.Camera, w, h int, envAvg render.RGBA, tm render.ToneMapping) []FaceQuad {
	vp := cam.ViewProjection()

	faces := make([]FaceQuad, 0, scene.NumFaces)
	for i := 0; i < scene.NumFaces; i++ {
		n := sc.Cube.FaceNormal(i)
		center := sc.Cube.FaceCenter(i)
		if n.Dot(center.Sub(cam.Position)) >= 0 {
			continue // back-facing
		}

		corners := sc.Cube.FaceCorners(i)
		var pts [4]mgl32.Vec2
		ok := true
		for j, p := range corners {
			sx, sy, visible := Project(vp, p, w, h)
			if !visible {
				ok = false
				break
			}
			pts[j] = mgl32.Vec2{sx, sy}
		}
		if !ok {
			continue
		}

		faces = append(faces, FaceQuad{
			Depth: center.Sub(cam.Position).Len(),
			Pts:   pts,
			Color: shadeFace(sc, i, n, envAvg, tm),
		})
	}

	// Painter's algorithm: far faces first. At most three faces of a
	// convex cube are visible, so sorting beats a z-buffer here.
	sort.Slice(faces, func(a, c int) bool { return faces[a].Depth > faces[c].Depth })
	return faces
}

// shadeFace computes the flat color of face i: unlit albedo, or ambient
// + Lambert diffuse + environment term.
func shadeFace(sc *scene.Scene, i int, n mgl32.Vec3, envAvg render.RGBA, tm render.ToneMapping) render.RGBA {
	m := sc.Cube.Materials[i].Params()
	if m.Unlit {
		return m.Color
	}

	c := m.Color.Mul(sc.Ambient.Color).Scale(sc.Ambient.Intensity)

	lightDir := sc.Directional.NormalizedDirection()
	if lambert := -n.Dot(lightDir); lambert > 0 {
		// Metals get most of their response from the environment term.
		diffuse := m.Color.Mul(sc.Directional.Color).
			Scale(sc.Directional.Intensity * lambert * (1 - 0.6*m.Metalness))
		c = c.Add(diffuse)
	}

	if m.EnvIntensity > 0 && sc.Env != nil {
		tint := render.White.Lerp(m.Color, m.Metalness)
		env := envAvg.Mul(tint).Scale(m.EnvIntensity * (1 - 0.7*m.Roughness))
		c = c.Add(env)
	}

	c = tm.Map(c)
	c.A = m.Color.A
	return c
}

// Project maps a world point to pixel coordinates under the given
// view-projection. ok is false when the point is behind the near plane.
func Project(vp mgl32.Mat4, p mgl32.Vec3, w, h int) (x, y float32, ok bool) {
	clip := vp.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	inv := 1 / clip.W()
	ndcX := clip.X() * inv
	ndcY := clip.Y() * inv
	x = (ndcX + 1) / 2 * float32(w)
	y = (1 - ndcY) / 2 * float32(h)
	return x, y, true
}

// fillQuad rasterizes a convex quad as two triangles.
func fillQuad(fb frame, pts [4]mgl32.Vec2, c render.RGBA) {
	fillTriangle(fb, pts[0], pts[1], pts[2], c)
	fillTriangle(fb, pts[0], pts[2], pts[3], c)
}

// fillTriangle rasterizes via edge functions over the bounding box.
func fillTriangle(fb frame, a, bb, cc mgl32.Vec2, col render.RGBA) {
	minX := int(math32.Floor(math32.Min(a.X(), math32.Min(bb.X(), cc.X()))))
	maxX := int(math32.Ceil(math32.Max(a.X(), math32.Max(bb.X(), cc.X()))))
	minY := int(math32.Floor(math32.Min(a.Y(), math32.Min(bb.Y(), cc.Y()))))
	maxY := int(math32.Ceil(math32.Max(a.Y(), math32.Max(bb.Y(), cc.Y()))))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > fb.w {
		maxX = fb.w
	}
	if maxY > fb.h {
		maxY = fb.h
	}

	area := edge(a, bb, cc)
	if area == 0 {
		return
	}
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			p := mgl32.Vec2{float32(x) + 0.5, float32(y) + 0.5}
			w0 := edge(bb, cc, p)
			w1 := edge(cc, a, p)
			w2 := edge(a, bb, p)
			if (w0 >= 0 && w1 >= 0 && w2 >= 0 && area > 0) ||
				(w0 <= 0 && w1 <= 0 && w2 <= 0 && area < 0) {
				fb.blend(x, y, col)
			}
		}
	}
}

func edge(a, b, p mgl32.Vec2) float32 {
	return (b.X()-a.X())*(p.Y()-a.Y()) - (b.Y()-a.Y())*(p.X()-a.X())
}

// drawLine draws a clipped line with Bresenham.
func drawLine(fb frame, x0, y0, x1, y1 int, c render.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		fb.set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var axisColors = [3]render.RGBA{
	{R: 0.9, G: 0.25, B: 0.25, A: 1}, // X
	{R: 0.3, G: 0.85, B: 0.3, A: 1},  // Y
	{R: 0.3, G: 0.45, B: 0.95, A: 1}, // Z
}

// DrawOverlays draws the debug helpers and face labels on top of an
// already rendered frame: world axes and the transform gizmo when
// visible, then any visible face-label billboards. Shared with
// backend/gpu, which calls it after compute readback.
func DrawOverlays(target render.Target, sc *scene.Scene, cam *scene.Camera) {
	drawOverlays(frameOf(target), sc, cam)
}

func drawOverlays(fb frame, sc *scene.Scene, cam *scene.Camera) {
	if sc.Axes.Visible {
		drawAxes(fb, sc, cam)
	}
	if sc.Gizmo.Visible {
		drawGizmo(fb, sc, cam)
	}
	drawLabels(fb, sc, cam)
}

func drawAxes(fb frame, sc *scene.Scene, cam *scene.Camera) {
	vp := cam.ViewProjection()
	origin := mgl32.Vec3{}
	ends := [3]mgl32.Vec3{
		{sc.Axes.Length, 0, 0},
		{0, sc.Axes.Length, 0},
		{0, 0, sc.Axes.Length},
	}
	ox, oy, ok := Project(vp, origin, fb.w, fb.h)
	if !ok {
		return
	}
	for i, end := range ends {
		ex, ey, ok := Project(vp, end, fb.w, fb.h)
		if !ok {
			continue
		}
		drawLine(fb, int(ox), int(oy), int(ex), int(ey), axisColors[i])
	}
}

// drawGizmo renders the manipulation handles as short axis strokes at
// the cube's position. Hit testing lives in the host UI; this is the
// visual anchor only.
func drawGizmo(fb frame, sc *scene.Scene, cam *scene.Camera) {
	vp := cam.ViewProjection()
	pos := sc.Cube.Position
	const handle = 0.4
	ox, oy, ok := Project(vp, pos, fb.w, fb.h)
	if !ok {
		return
	}
	dirs := [3]mgl32.Vec3{{handle, 0, 0}, {0, handle, 0}, {0, 0, handle}}
	for i, d := range dirs {
		ex, ey, ok := Project(vp, pos.Add(d), fb.w, fb.h)
		if !ok {
			continue
		}
		c := axisColors[i]
		c.A = 0.9
		drawLine(fb, int(ox), int(oy), int(ex), int(ey), c)
	}
}

// drawLabels blits the visible face-label billboards centered on their
// faces, front-facing faces only.
func drawLabels(fb frame, sc *scene.Scene, cam *scene.Camera) {
	vp := cam.ViewProjection()
	for i, label := range sc.Labels {
		if label == nil || !label.Visible || label.Image == nil {
			continue
		}
		n := sc.Cube.FaceNormal(i)
		center := sc.Cube.FaceCenter(i)
		if n.Dot(center.Sub(cam.Position)) >= 0 {
			continue
		}
		cx, cy, ok := Project(vp, center, fb.w, fb.h)
		if !ok {
			continue
		}
		img := label.Image
		bounds := img.Bounds()
		ox := int(cx) - bounds.Dx()/2
		oy := int(cy) - bounds.Dy()/2
		for y := 0; y < bounds.Dy(); y++ {
			for x := 0; x < bounds.Dx(); x++ {
				r, g, bl, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				if a == 0 {
					continue
				}
				fb.blend(ox+x, oy+y, render.RGBA{
					R: float32(r) / 65535,
					G: float32(g) / 65535,
					B: float32(bl) / 65535,
					A: float32(a) / 65535,
				})
			}
		}
	}
}
