package scene

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FaceLabel is a billboard showing a face's name, rendered once at scene
// construction into a small RGBA texture. Labels are visible only in
// debug mode.
type FaceLabel struct {
	Face    int
	Text    string
	Visible bool

	// Image is the pre-rendered label texture (white text on
	// transparent background).
	Image *image.RGBA
}

// labelFace is the fixed typeface for labels. Six static ASCII words
// need no shaping engine, so basicfont covers them.
var labelFace = basicfont.Face7x13

// newFaceLabel renders the label texture for face i.
func newFaceLabel(i int) *FaceLabel {
	text := FaceNames[i]

	d := &font.Drawer{Face: labelFace}
	w := d.MeasureString(text).Ceil()
	h := labelFace.Metrics().Height.Ceil()
	const pad = 4

	img := image.NewRGBA(image.Rect(0, 0, w+2*pad, h+2*pad))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	d.Dst = img
	d.Src = image.NewUniform(color.White)
	d.Dot = fixed.P(pad, pad+labelFace.Metrics().Ascent.Ceil())
	d.DrawString(text)

	return &FaceLabel{Face: i, Text: text, Image: img}
}
