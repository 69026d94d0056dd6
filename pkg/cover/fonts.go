// fonts.go - Font loading with custom TTF support and embedded fallback font.
// Uses golang.org/x/image/font for OpenType rendering. Defaults to Go Regular
// font when no custom font is specified.
package cover

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontManager holds a parsed font and hands out faces at any size.
type FontManager struct {
	parsed *opentype.Font
}

// NewFontManager loads the font at customPath, or the embedded Go font when
// customPath is empty.
func NewFontManager(customPath string) (*FontManager, error) {
	data := goregular.TTF
	if customPath != "" {
		var err error
		data, err = os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
	}
	return NewFontManagerFromBytes(data)
}

// NewFontManagerFromBytes parses raw TTF/OTF data.
func NewFontManagerFromBytes(data []byte) (*FontManager, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &FontManager{parsed: parsed}, nil
}

// GetFace returns a font.Face at the specified size.
func (fm *FontManager) GetFace(size float64, dpi float64) (font.Face, error) {
	if dpi <= 0 {
		dpi = 72
	}

	face, err := opentype.NewFace(fm.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}

	return face, nil
}
