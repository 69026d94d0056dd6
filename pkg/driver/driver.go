// Package driver binds the stego codec to image files and streams.
//
// It decodes inputs to pixels, calls the codec and writes lossless output.
// No bit manipulation happens here.
package driver

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/xob0t/GoStego/pkg/imageio"
	"github.com/xob0t/GoStego/pkg/stego"
)

// ErrIO marks failures reading or writing files and streams.
var ErrIO = errors.New("i/o error")

// Info describes a cover image.
type Info struct {
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Pixels   int    `json:"pixels"`
	Capacity int    `json:"capacity"` // max message bytes, -1 if none fit
}

// Hide embeds msg in the image at inputPath and writes the result to
// outputPath. The output format follows outputPath's extension and must be
// lossless.
func Hide(inputPath, outputPath string, msg []byte) error {
	format, err := imageio.FormatFromPath(outputPath)
	if err != nil {
		return err
	}

	img, _, err := load(inputPath)
	if err != nil {
		return err
	}

	out, err := stego.Encode(img, msg)
	if err != nil {
		return err
	}

	// Encoded in memory first; a failed encode leaves no partial file.
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, out, format); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, outputPath, err)
	}
	return nil
}

// Reveal returns the message hidden in the image at inputPath.
func Reveal(inputPath string) ([]byte, error) {
	img, _, err := load(inputPath)
	if err != nil {
		return nil, err
	}
	return stego.Decode(img)
}

// Inspect reports the dimensions and capacity of the image at inputPath.
func Inspect(inputPath string) (Info, error) {
	img, format, err := load(inputPath)
	if err != nil {
		return Info{}, err
	}
	return info(img, format), nil
}

// HideStream reads a cover image from r and writes the stego image to w in format f.
func HideStream(r io.Reader, w io.Writer, f imageio.Format, msg []byte) error {
	img, _, err := decode(r)
	if err != nil {
		return err
	}

	out, err := stego.Encode(img, msg)
	if err != nil {
		return err
	}

	if err := imageio.Encode(w, out, f); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// RevealStream returns the message hidden in the image read from r.
func RevealStream(r io.Reader) ([]byte, error) {
	img, _, err := decode(r)
	if err != nil {
		return nil, err
	}
	return stego.Decode(img)
}

// InspectStream reports the dimensions and capacity of the image read from r.
func InspectStream(r io.Reader) (Info, error) {
	img, format, err := decode(r)
	if err != nil {
		return Info{}, err
	}
	return info(img, format), nil
}

func load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	return decode(f)
}

func decode(r io.Reader) (image.Image, string, error) {
	img, format, err := imageio.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", stego.ErrUnsupportedImage, err)
	}
	return img, format, nil
}

func info(img image.Image, format string) Info {
	b := img.Bounds()
	return Info{
		Format:   format,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Pixels:   b.Dx() * b.Dy(),
		Capacity: stego.Capacity(b),
	}
}
