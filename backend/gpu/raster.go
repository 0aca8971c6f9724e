//go:build !nogpu

package gpu

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/cubeview/backend"
	"github.com/gogpu/cubeview/render"
)

// gpuFace mirrors the WGSL Face struct: four screen-space corners and
// the resolved flat color. 48 bytes, matching WGSL struct layout.
type gpuFace struct {
	P0x, P0y   float32
	P1x, P1y   float32
	P2x, P2y   float32
	P3x, P3y   float32
	R, G, B, A float32
}

// frameParams mirrors the WGSL FrameParams uniform. 16 bytes.
type frameParams struct {
	Width     uint32
	Height    uint32
	FaceIndex uint32
	Pad       uint32
}

func structToBytes(ptr unsafe.Pointer, size uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), size)
}

// dispatchFaces composites the painter-sorted faces over the target's
// current pixels: one compute pass per face in a single command
// encoder, with implicit storage barriers between passes preserving
// draw order, then a single fence wait and readback.
func (b *Backend) dispatchFaces(target render.Target, faces []backend.FaceQuad) error {
	w, h := uint32(target.Width()), uint32(target.Height())
	pixelBufSize := uint64(w * h * 4)

	packed := make([]gpuFace, len(faces))
	for i, f := range faces {
		packed[i] = gpuFace{
			P0x: f.Pts[0].X(), P0y: f.Pts[0].Y(),
			P1x: f.Pts[1].X(), P1y: f.Pts[1].Y(),
			P2x: f.Pts[2].X(), P2y: f.Pts[2].Y(),
			P3x: f.Pts[3].X(), P3y: f.Pts[3].Y(),
			R: f.Color.R, G: f.Color.G, B: f.Color.B, A: f.Color.A,
		}
	}
	faceSize := int(unsafe.Sizeof(gpuFace{}))
	facesBytes := make([]byte, faceSize*len(packed))
	for i := range packed {
		copy(facesBytes[i*faceSize:], structToBytes(unsafe.Pointer(&packed[i]), unsafe.Sizeof(packed[i])))
	}

	facesBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "cube_faces", Size: uint64(len(facesBytes)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create faces buffer: %w", err)
	}
	defer b.device.DestroyBuffer(facesBuf)

	storageBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "cube_pixels", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create storage buffer: %w", err)
	}
	defer b.device.DestroyBuffer(storageBuf)

	stagingBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "cube_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer b.device.DestroyBuffer(stagingBuf)

	b.queue.WriteBuffer(facesBuf, 0, facesBytes)
	b.queue.WriteBuffer(storageBuf, 0, packPixels(target))

	uniformBufs, bindGroups, err := b.createFaceBindings(len(faces), w, h, facesBuf, uint64(len(facesBytes)), storageBuf, pixelBufSize)
	defer b.cleanupBindings(uniformBufs, bindGroups)
	if err != nil {
		return err
	}

	return b.encodePasses(bindGroups, storageBuf, stagingBuf, w, h, pixelBufSize, target)
}

// createFaceBindings creates one uniform buffer and bind group per
// face; the faces and pixels buffers are shared across all of them.
func (b *Backend) createFaceBindings(
	n int, w, h uint32,
	facesBuf hal.Buffer, facesSize uint64,
	storageBuf hal.Buffer, pixelBufSize uint64,
) ([]hal.Buffer, []hal.BindGroup, error) {
	paramSize := uint64(unsafe.Sizeof(frameParams{}))
	uniformBufs := make([]hal.Buffer, 0, n)
	bindGroups := make([]hal.BindGroup, 0, n)

	for i := 0; i < n; i++ {
		params := frameParams{Width: w, Height: h, FaceIndex: uint32(i)}

		ub, err := b.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "cube_params", Size: paramSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return uniformBufs, bindGroups, fmt.Errorf("gpu: create uniform buffer %d: %w", i, err)
		}
		uniformBufs = append(uniformBufs, ub)
		b.queue.WriteBuffer(ub, 0, structToBytes(unsafe.Pointer(&params), unsafe.Sizeof(params)))

		bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: "cube_bind", Layout: b.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: paramSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: facesBuf.NativeHandle(), Offset: 0, Size: facesSize}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
			},
		})
		if err != nil {
			return uniformBufs, bindGroups, fmt.Errorf("gpu: create bind group %d: %w", i, err)
		}
		bindGroups = append(bindGroups, bg)
	}

	return uniformBufs, bindGroups, nil
}

func (b *Backend) cleanupBindings(uniformBufs []hal.Buffer, bindGroups []hal.BindGroup) {
	for _, bg := range bindGroups {
		if bg != nil {
			b.device.DestroyBindGroup(bg)
		}
	}
	for _, ub := range uniformBufs {
		if ub != nil {
			b.device.DestroyBuffer(ub)
		}
	}
}

// encodePasses records one compute pass per face, copies the storage
// buffer to staging, submits, waits on the fence, and reads the result
// back into the target.
func (b *Backend) encodePasses(
	bindGroups []hal.BindGroup, storageBuf, stagingBuf hal.Buffer,
	w, h uint32, pixelBufSize uint64, target render.Target,
) error {
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "cube_encoder"})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("cube_frame"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	for _, bg := range bindGroups {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "cube_face_pass"})
		pass.SetPipeline(b.pipeline)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch((w+7)/8, (h+7)/8, 1)
		pass.End()
	}

	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)
	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	fenceOK, err := b.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("gpu: wait: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, pixelBufSize)
	if err := b.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("gpu: readback: %w", err)
	}
	unpackPixels(readback, target)
	return nil
}

// packPixels returns the target's pixels as tightly packed rows. RGBA8
// bytes in memory order already match the shader's little-endian u32
// packing, so rows copy straight through.
func packPixels(t render.Target) []byte {
	w, h := t.Width(), t.Height()
	stride := t.Stride()
	pix := t.Pixels()
	if stride == w*4 {
		out := make([]byte, w*h*4)
		copy(out, pix)
		return out
	}
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], pix[y*stride:y*stride+w*4])
	}
	return out
}

// unpackPixels writes tightly packed rows back into the target.
func unpackPixels(packed []byte, t render.Target) {
	w, h := t.Width(), t.Height()
	stride := t.Stride()
	pix := t.Pixels()
	if stride == w*4 {
		copy(pix, packed)
		return
	}
	for y := 0; y < h; y++ {
		copy(pix[y*stride:y*stride+w*4], packed[y*w*4:(y+1)*w*4])
	}
}
