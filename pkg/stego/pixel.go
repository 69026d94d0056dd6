// pixel.go - RGB projection of arbitrary image.Image values.
package stego

import (
	"image"
	"image/color"
)

// Pixel is one RGB sample. Alpha is never carried.
type Pixel struct {
	R, G, B uint8
}

// rgbAt projects the color at (x, y) to RGB. Transparency is dropped and the
// straight (non-premultiplied) color is kept, so a transparent pixel keeps
// the color it was stored with.
func rgbAt(img image.Image, x, y int) Pixel {
	switch m := img.(type) {
	case *image.NRGBA:
		i := m.PixOffset(x, y)
		return Pixel{m.Pix[i], m.Pix[i+1], m.Pix[i+2]}
	case *image.RGBA:
		i := m.PixOffset(x, y)
		if m.Pix[i+3] == 0xff {
			return Pixel{m.Pix[i], m.Pix[i+1], m.Pix[i+2]}
		}
	}

	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return Pixel{c.R, c.G, c.B}
}

// setRGB stores p in out at (x, y) as a fully opaque pixel.
func setRGB(out *image.RGBA, x, y int, p Pixel) {
	i := out.PixOffset(x, y)
	out.Pix[i+0] = p.R
	out.Pix[i+1] = p.G
	out.Pix[i+2] = p.B
	out.Pix[i+3] = 0xff
}
