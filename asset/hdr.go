package asset

import (
	"fmt"
	"image"
	"os"

	"github.com/mdouchement/hdr"
	"golang.org/x/image/draw"

	"github.com/gogpu/cubeview/render"

	// Register the Radiance RGBE codec with image.Decode.
	_ "github.com/mdouchement/hdr/codec/rgbe"
)

// decodeHDR reads a Radiance .hdr file into a linear float32 RGB
// environment texture.
func decodeHDR(path, name, quality string) (*render.EnvTexture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open env map: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode env map: %w", err)
	}
	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("decode env map: %s is not an HDR image (format %s)", path, format)
	}

	bounds := hdrImg.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	tex := &render.EnvTexture{
		Name:    name,
		Quality: quality,
		Width:   w,
		Height:  h,
		Pix:     make([]float32, w*h*3),
	}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := hdrImg.HDRAt(x, y).HDRRGBA()
			tex.Pix[i] = float32(r)
			tex.Pix[i+1] = float32(g)
			tex.Pix[i+2] = float32(b)
			i += 3
		}
	}
	return tex, nil
}

// Flatten tone-maps an environment texture into an 8-bit image, scaled
// so that the longer edge is at most maxDim. Used for UI thumbnails.
func Flatten(tex *render.EnvTexture, tm render.ToneMapping, maxDim int) image.Image {
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		return nil
	}

	full := image.NewRGBA(image.Rect(0, 0, tex.Width, tex.Height))
	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			c := tm.Map(tex.At(x, y))
			i := full.PixOffset(x, y)
			full.Pix[i+0] = uint8(c.R * 255)
			full.Pix[i+1] = uint8(c.G * 255)
			full.Pix[i+2] = uint8(c.B * 255)
			full.Pix[i+3] = 255
		}
	}

	if maxDim <= 0 || (tex.Width <= maxDim && tex.Height <= maxDim) {
		return full
	}
	w, h := tex.Width, tex.Height
	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), full, full.Bounds(), draw.Src, nil)
	return small
}
