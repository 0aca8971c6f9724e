//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/cubeview/backend"
	"github.com/gogpu/cubeview/render"
	"github.com/gogpu/cubeview/scene"
)

// Backend renders cube faces with a wgpu compute shader.
type Backend struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	width  int
	height int
	tm     render.ToneMapping

	envAvgFor *render.EnvTexture
	envAvg    render.RGBA

	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

func init() {
	backend.Register(backend.BackendGPU, func() backend.Backend {
		return New()
	})
}

// New creates an uninitialized GPU backend.
func New() *Backend {
	return &Backend{tm: render.ToneMappingACES}
}

var (
	_ backend.Backend     = (*Backend)(nil)
	_ backend.DeviceAware = (*Backend)(nil)
)

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendGPU }

// Init opens a GPU device and builds the compute pipeline. An error
// leaves the backend unusable; the registry then falls back to the
// software rasterizer.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initGPU()
}

func (b *Backend) initGPU() error {
	hb, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("gpu: vulkan backend not available")
	}
	instance, err := hb.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("gpu: create instance: %w", err)
	}
	b.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("gpu: no adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("gpu: open device: %w", err)
	}
	b.device = openDev.Device
	b.queue = openDev.Queue

	if err := b.createPipeline(); err != nil {
		b.device.Destroy()
		b.device = nil
		b.queue = nil
		return fmt.Errorf("gpu: create pipeline: %w", err)
	}
	b.gpuReady = true
	backend.Slogger().Info("gpu: initialized", "adapter", selected.Info.Name)
	return nil
}

// SetDeviceHandle switches the backend to a GPU device lent by the host
// application. The handle must also expose HalDevice() any and
// HalQueue() any returning hal types.
func (b *Backend) SetDeviceHandle(h render.DeviceHandle) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := h.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: device handle does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: handle HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: handle HalQueue is not hal.Queue")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.destroyPipeline()
	if !b.externalDevice && b.device != nil {
		b.device.Destroy()
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}

	b.device = device
	b.queue = queue
	b.externalDevice = true

	if err := b.createPipeline(); err != nil {
		b.gpuReady = false
		return fmt.Errorf("gpu: create pipeline with shared device: %w", err)
	}
	b.gpuReady = true
	backend.Slogger().Info("gpu: switched to shared device")
	return nil
}

// Close releases all GPU resources. Shared devices are not destroyed.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.destroyPipeline()
	if !b.externalDevice {
		if b.device != nil {
			b.device.Destroy()
			b.device = nil
		}
		if b.instance != nil {
			b.instance.Destroy()
			b.instance = nil
		}
	} else {
		b.device = nil
		b.instance = nil
	}
	b.queue = nil
	b.envAvgFor = nil
	b.gpuReady = false
	b.externalDevice = false
}

// SetSize records the target dimensions.
func (b *Backend) SetSize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width = width
	b.height = height
}

// SetToneMapping selects HDR compression for shading output.
func (b *Backend) SetToneMapping(tm render.ToneMapping) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tm = tm
}

// Render draws one frame: CPU background fill, compute-pass face
// rasterization with readback, CPU overlays.
func (b *Backend) Render(target render.Target, sc *scene.Scene, cam *scene.Camera) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.gpuReady {
		return backend.ErrNotInitialized
	}
	if target == nil || sc == nil || cam == nil {
		return nil
	}
	w, h := target.Width(), target.Height()
	if w == 0 || h == 0 {
		return nil
	}

	backend.FillBackground(target, sc, cam, b.tm)

	faces := backend.VisibleFaces(sc, cam, w, h, b.averageEnv(sc.Env), b.tm)
	if len(faces) > 0 {
		if err := b.dispatchFaces(target, faces); err != nil {
			return err
		}
	}

	backend.DrawOverlays(target, sc, cam)
	return nil
}

func (b *Backend) averageEnv(tex *render.EnvTexture) render.RGBA {
	if tex == nil {
		return render.Black
	}
	if b.envAvgFor != tex {
		b.envAvgFor = tex
		b.envAvg = tex.AverageRadiance()
	}
	return b.envAvg
}
