// Package cover generates cover images to hide messages in.
//
// All output follows one pipeline: build an image.Image first, then write it
// in a lossless format through imageio.
package cover

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math/rand"

	"github.com/xob0t/GoStego/pkg/imageio"
	"github.com/xob0t/GoStego/pkg/stego"
)

// MaxPixels bounds generated covers to 8K UHD.
const MaxPixels = 7680 * 4320

// ErrTooLarge is returned for covers whose resolved size exceeds MaxPixels.
var ErrTooLarge = errors.New("cover too large")

// Config holds parameters for cover generation.
type Config struct {
	Width     int     // Pixel width (default: 1280)
	Height    int     // Pixel height (default: 720)
	Color     string  // Hex "#rrggbb" or "random"
	Grain     int     // Max per-channel noise amplitude, 0 for a flat fill
	Caption   string  // Optional centered text
	TextColor string  // Caption color (default: "#ffffff")
	FontSize  float64 // Caption size in points (default: 48)
	FontPath  string  // Custom TTF; empty uses the embedded Go font
}

// Render builds the cover image described by cfg.
func Render(cfg Config) (*image.RGBA, error) {
	w, h := cfg.Size()
	if w > MaxPixels/h {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, w, h, MaxPixels)
	}
	bg, err := ParseColor(cfg.Color)
	if err != nil {
		return nil, err
	}
	img := NewSolidImage(w, h, bg)

	if cfg.Caption != "" {
		if err := caption(img, cfg); err != nil {
			return nil, err
		}
	}
	if cfg.Grain > 0 {
		addGrain(img, cfg.Grain)
	}

	return img, nil
}

// Generate renders a cover and writes it to output. The format is inferred
// from the file extension and must be lossless.
func Generate(output string, cfg Config) (image.Rectangle, error) {
	if _, err := imageio.FormatFromPath(output); err != nil {
		return image.Rectangle{}, err
	}

	img, err := Render(cfg)
	if err != nil {
		return image.Rectangle{}, err
	}
	if err := imageio.Save(output, img); err != nil {
		return image.Rectangle{}, err
	}
	return img.Bounds(), nil
}

// GenerateToWriter renders a cover and writes it to w in format f.
// This is useful for in-memory generation (e.g., HTTP, WASM).
func GenerateToWriter(w io.Writer, f imageio.Format, cfg Config) error {
	img, err := Render(cfg)
	if err != nil {
		return err
	}
	return imageio.Encode(w, img, f)
}

// Capacity returns how many message bytes a cover built from cfg can carry.
func Capacity(cfg Config) int {
	w, h := cfg.Size()
	return stego.Capacity(image.Rect(0, 0, w, h))
}

// Size returns the canvas dimensions with defaults applied.
func (c Config) Size() (w, h int) {
	w, h = c.Width, c.Height
	if w <= 0 {
		w = 1280
	}
	if h <= 0 {
		h = 720
	}
	return w, h
}

func caption(img *image.RGBA, cfg Config) error {
	fm, err := NewFontManager(cfg.FontPath)
	if err != nil {
		return err
	}

	size := cfg.FontSize
	if size <= 0 {
		size = 48
	}
	face, err := fm.GetFace(size, 72)
	if err != nil {
		return err
	}
	defer face.Close()

	textColor := cfg.TextColor
	if textColor == "" {
		textColor = "#ffffff"
	}
	col, err := ParseColor(textColor)
	if err != nil {
		return fmt.Errorf("text color: %w", err)
	}

	drawCaption(img, cfg.Caption, face, col, int(size*1.4), int(size))
	return nil
}

// addGrain perturbs every channel by up to ±amp so the cover's low bits are
// not uniform.
func addGrain(img *image.RGBA, amp int) {
	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := int(img.Pix[i+c]) + rand.Intn(2*amp+1) - amp
			img.Pix[i+c] = uint8(min(max(v, 0), 255))
		}
	}
}
