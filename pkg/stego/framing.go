// Package stego hides a byte message in the least-significant bits of an
// image's color channels and recovers it.
//
// Layout of the embedded frame:
//   - pixels are visited row-major, top-left first
//   - each pixel contributes one bit per channel, in R, G, B order
//   - message bytes are written most-significant bit first
//   - the message is followed by the 16-bit terminator 0xFFFE
package stego

import "image"

const (
	// Sentinel terminates every embedded message.
	Sentinel uint16 = 0xFFFE

	// SentinelBits is the length of the terminator in bits.
	SentinelBits = 16

	// ChannelsPerPixel is the number of payload bits carried by one pixel.
	ChannelsPerPixel = 3
)

var sentinelBytes = [2]byte{byte(Sentinel >> 8), byte(Sentinel & 0xFF)}

// FrameBits returns the number of bits needed to embed a message of n bytes.
func FrameBits(n int) int {
	return n*8 + SentinelBits
}

// PixelsNeeded returns the smallest pixel count that can carry a message of n bytes.
func PixelsNeeded(n int) int {
	return (FrameBits(n) + ChannelsPerPixel - 1) / ChannelsPerPixel
}

// Fits reports whether a message of n bytes fits in an image of the given pixel count.
func Fits(pixels, n int) bool {
	return FrameBits(n) <= pixels*ChannelsPerPixel
}

// Capacity returns the largest message, in bytes, that fits in an image with
// bounds r. It returns -1 when not even an empty message fits.
func Capacity(r image.Rectangle) int {
	bits := r.Dx() * r.Dy() * ChannelsPerPixel
	if bits < SentinelBits {
		return -1
	}
	return (bits - SentinelBits) / 8
}

// sentinelIndex returns the byte offset of the first aligned terminator
// pair inside msg, or -1.
func sentinelIndex(msg []byte) int {
	for i := 0; i+1 < len(msg); i++ {
		if msg[i] == sentinelBytes[0] && msg[i+1] == sentinelBytes[1] {
			return i
		}
	}
	return -1
}

// bitAt returns bit i of b, counting from the most significant bit.
func bitAt(b byte, i int) uint8 {
	return (b >> (7 - i)) & 1
}

// setLSB replaces the least-significant bit of c with bit.
func setLSB(c, bit uint8) uint8 {
	return c&^1 | bit
}

// frame yields the bits of a message followed by the terminator, one at a time.
type frame struct {
	msg []byte
	pos int
}

func newFrame(msg []byte) *frame {
	return &frame{msg: msg}
}

// Len returns the total number of bits in the frame.
func (f *frame) Len() int {
	return FrameBits(len(f.msg))
}

// Remaining returns the number of bits not yet consumed.
func (f *frame) Remaining() int {
	return f.Len() - f.pos
}

func (f *frame) next() (uint8, bool) {
	if f.pos >= f.Len() {
		return 0, false
	}
	i := f.pos
	f.pos++

	var b byte
	if k := i / 8; k < len(f.msg) {
		b = f.msg[k]
	} else {
		b = sentinelBytes[k-len(f.msg)]
	}
	return bitAt(b, i%8), true
}

// embed writes the next frame bit into the LSB of c. Once the frame is
// exhausted c is returned unchanged.
func (f *frame) embed(c uint8) uint8 {
	bit, ok := f.next()
	if !ok {
		return c
	}
	return setLSB(c, bit)
}

// assembler groups LSBs into bytes, MSB first, and watches for the terminator.
type assembler struct {
	buf []byte
	cur byte
	n   int
}

// push appends one bit and reports whether the terminator has just completed.
func (a *assembler) push(bit uint8) bool {
	a.cur = a.cur<<1 | bit&1
	a.n++
	if a.n < 8 {
		return false
	}
	a.buf = append(a.buf, a.cur)
	a.cur, a.n = 0, 0

	k := len(a.buf)
	return k >= 2 && a.buf[k-2] == sentinelBytes[0] && a.buf[k-1] == sentinelBytes[1]
}

// message returns the assembled bytes without the terminator.
// Only valid after push reported true.
func (a *assembler) message() []byte {
	return a.buf[:len(a.buf)-2]
}
