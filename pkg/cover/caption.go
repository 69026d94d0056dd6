// caption.go - Centered, word-wrapped caption drawing.
package cover

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// drawCaption renders text centered on img, wrapping at the canvas width
// minus padding on both sides.
func drawCaption(img *image.RGBA, text string, face font.Face, col color.Color, lineHeight, padding int) {
	b := img.Bounds()
	lines := wrapText(text, b.Dx()-2*padding, face)
	if len(lines) == 0 {
		return
	}

	ascent := face.Metrics().Ascent.Ceil()
	top := b.Min.Y + (b.Dy()-len(lines)*lineHeight)/2

	for i, line := range lines {
		width := font.MeasureString(face, line).Ceil()
		x := b.Min.X + (b.Dx()-width)/2
		y := top + i*lineHeight + ascent
		drawString(img, line, x, y, col, face)
	}
}

// wrapText breaks text into lines that each fit within maxWidth pixels,
// using the metrics of face. Explicit newlines always start a new line.
func wrapText(text string, maxWidth int, face font.Face) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		if maxWidth <= 0 {
			lines = append(lines, strings.Join(words, " "))
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			test := current + " " + word
			if font.MeasureString(face, test).Ceil() > maxWidth {
				lines = append(lines, current)
				current = word
			} else {
				current = test
			}
		}
		lines = append(lines, current)
	}
	return lines
}

// drawString draws text with its baseline at (x, y).
func drawString(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}
