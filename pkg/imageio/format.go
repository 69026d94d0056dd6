// Package imageio reads cover images and writes stego images.
//
// Any format the registered decoders understand is accepted as input. Output
// is restricted to lossless formats so embedded LSBs survive the round trip:
//   - ".png"          → PNG
//   - ".bmp"          → 24-bit BMP
//   - ".tif", ".tiff" → Deflate-compressed TIFF
package imageio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a lossless raster format usable for stego output.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

var (
	// ErrLossyFormat is returned for output formats that would destroy the payload.
	ErrLossyFormat = errors.New("lossy format cannot carry a hidden message")

	// ErrUnknownFormat is returned for extensions and names that map to no format.
	ErrUnknownFormat = errors.New("unknown image format")
)

var extensions = map[string]Format{
	".png":  PNG,
	".bmp":  BMP,
	".tif":  TIFF,
	".tiff": TIFF,
}

// lossy lists formats that decode fine but must never be written.
var lossy = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"webp": true,
	"gif":  true,
}

// FormatFromPath infers the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	if lossy[strings.TrimPrefix(ext, ".")] {
		return "", fmt.Errorf("%w: %q", ErrLossyFormat, ext)
	}
	return "", fmt.Errorf("%w %q: use .png, .bmp or .tiff", ErrUnknownFormat, ext)
}

// ParseFormat resolves a format name such as "png" or "TIF".
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	if f, ok := extensions["."+name]; ok {
		return f, nil
	}
	if lossy[name] {
		return "", fmt.Errorf("%w: %q", ErrLossyFormat, name)
	}
	return "", fmt.Errorf("%w %q: use png, bmp or tiff", ErrUnknownFormat, name)
}

// Ext returns the canonical file extension for f.
func (f Format) Ext() string {
	return "." + string(f)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}
