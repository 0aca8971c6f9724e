//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// faceShaderWGSL rasterizes one projected cube face per compute pass.
// The face index arrives in the uniform block; the pass tests the pixel
// against the face's two triangles and alpha-composites the flat face
// color over the storage buffer.
//
// No loops: the driver stack's SPIR-V path miscompiles loop constructs,
// so face iteration happens as one pass per face on the encoder instead.
const faceShaderWGSL = `
struct FrameParams {
    width: u32,
    height: u32,
    face_index: u32,
    _pad: u32,
}

struct Face {
    p0: vec2<f32>,
    p1: vec2<f32>,
    p2: vec2<f32>,
    p3: vec2<f32>,
    color: vec4<f32>,
}

@group(0) @binding(0) var<uniform> params: FrameParams;
@group(0) @binding(1) var<storage, read> faces: array<Face>;
@group(0) @binding(2) var<storage, read_write> pixels: array<u32>;

fn edge_fn(a: vec2<f32>, b: vec2<f32>, p: vec2<f32>) -> f32 {
    return (b.x - a.x) * (p.y - a.y) - (b.y - a.y) * (p.x - a.x);
}

fn in_tri(a: vec2<f32>, b: vec2<f32>, c: vec2<f32>, p: vec2<f32>) -> bool {
    let area = edge_fn(a, b, c);
    if (abs(area) < 1e-6) {
        return false;
    }
    let w0 = edge_fn(b, c, p);
    let w1 = edge_fn(c, a, p);
    let w2 = edge_fn(a, b, p);
    if (area > 0.0) {
        return w0 >= 0.0 && w1 >= 0.0 && w2 >= 0.0;
    }
    return w0 <= 0.0 && w1 <= 0.0 && w2 <= 0.0;
}

@compute @workgroup_size(8, 8, 1)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    if (gid.x >= params.width || gid.y >= params.height) {
        return;
    }
    let face = faces[params.face_index];
    let p = vec2<f32>(f32(gid.x) + 0.5, f32(gid.y) + 0.5);
    if (!in_tri(face.p0, face.p1, face.p2, p) && !in_tri(face.p0, face.p2, face.p3, p)) {
        return;
    }

    let idx = gid.y * params.width + gid.x;
    let dst = pixels[idx];
    let dr = f32(dst & 0xFFu) / 255.0;
    let dg = f32((dst >> 8u) & 0xFFu) / 255.0;
    let db = f32((dst >> 16u) & 0xFFu) / 255.0;

    let a = clamp(face.color.a, 0.0, 1.0);
    let r = clamp(face.color.r * a + dr * (1.0 - a), 0.0, 1.0);
    let g = clamp(face.color.g * a + dg * (1.0 - a), 0.0, 1.0);
    let b = clamp(face.color.b * a + db * (1.0 - a), 0.0, 1.0);

    pixels[idx] = u32(r * 255.0) |
        (u32(g * 255.0) << 8u) |
        (u32(b * 255.0) << 16u) |
        (255u << 24u);
}
`

// createPipeline compiles the face shader and builds the compute
// pipeline. WGSL is compiled to SPIR-V up front so shader errors surface
// at Init instead of first dispatch.
func (b *Backend) createPipeline() error {
	spirvBytes, err := naga.Compile(faceShaderWGSL)
	if err != nil {
		return fmt.Errorf("compile face shader: %w", err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	shader, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "cube_face",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	b.shader = shader

	bindLayout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "cube_face_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	b.bindLayout = bindLayout

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "cube_face_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{b.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	b.pipeLayout = pipeLayout

	pipeline, err := b.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "cube_face_pipeline",
		Layout:  b.pipeLayout,
		Compute: hal.ComputeState{Module: b.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	b.pipeline = pipeline

	return nil
}

func (b *Backend) destroyPipeline() {
	if b.device == nil {
		return
	}
	if b.pipeline != nil {
		b.device.DestroyComputePipeline(b.pipeline)
		b.pipeline = nil
	}
	if b.pipeLayout != nil {
		b.device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.bindLayout != nil {
		b.device.DestroyBindGroupLayout(b.bindLayout)
		b.bindLayout = nil
	}
	if b.shader != nil {
		b.device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
}
