package stego

import (
	"fmt"
	"image"
)

// Encode hides msg in the channel LSBs of img and returns the result as a new
// opaque RGB image with the same bounds. img is not modified.
//
// Alpha and palette inputs are projected to RGB first; alpha is dropped.
// The output only survives a round trip through a lossless format.
func Encode(img image.Image, msg []byte) (*image.RGBA, error) {
	if img == nil {
		return nil, ErrUnsupportedImage
	}

	b := img.Bounds()
	if pixels := b.Dx() * b.Dy(); !Fits(pixels, len(msg)) {
		return nil, fmt.Errorf("%w: %d bytes need %d pixels, image has %d",
			ErrCapacityExceeded, len(msg), PixelsNeeded(len(msg)), pixels)
	}
	if i := sentinelIndex(msg); i >= 0 {
		return nil, fmt.Errorf("%w at byte %d", ErrAmbiguousMessage, i)
	}

	out := image.NewRGBA(b)
	f := newFrame(msg)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := rgbAt(img, x, y)
			if f.Remaining() > 0 {
				p.R = f.embed(p.R)
				p.G = f.embed(p.G)
				p.B = f.embed(p.B)
			}
			setRGB(out, x, y, p)
		}
	}

	return out, nil
}
