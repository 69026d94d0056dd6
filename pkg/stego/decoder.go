package stego

import "image"

// Decode recovers a message hidden by Encode. It reads channel LSBs in scan
// order and stops at the first byte-aligned terminator, returning the bytes
// before it. An immediate terminator yields an empty, non-nil message.
//
// The bytes are returned as-is; interpreting them as text is up to the caller.
func Decode(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, ErrUnsupportedImage
	}

	var a assembler
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := rgbAt(img, x, y)
			for _, c := range [ChannelsPerPixel]uint8{p.R, p.G, p.B} {
				if a.push(c & 1) {
					return a.message(), nil
				}
			}
		}
	}

	return nil, ErrNoMessageFound
}
