package driver_test

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/xob0t/GoStego/pkg/driver"
	"github.com/xob0t/GoStego/pkg/imageio"
	"github.com/xob0t/GoStego/pkg/stego"
)

// writeCover stores a PNG whose channels are all even, so its LSB stream
// is all zeros and carries no terminator.
func writeCover(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 6)
	}
	path := filepath.Join(dir, "cover.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create cover: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode cover: %v", err)
	}
	return path
}

func TestHideReveal(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{".png", ".bmp", ".tiff"} {
		ext := ext
		t.Run("Should round trip through "+ext, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			in := writeCover(t, dir, 40, 30)
			out := filepath.Join(dir, "stego"+ext)
			msg := []byte("meet at dawn")

			if err := driver.Hide(in, out, msg); err != nil {
				t.Fatalf("expected nil error, but got %v", err)
			}
			got, err := driver.Reveal(out)

			if err != nil {
				t.Fatalf("expected nil error, but got %v", err)
			}
			if string(got) != string(msg) {
				t.Fatalf("expected %q, but got %q", msg, got)
			}
		})
	}
}

func TestHideErrors(t *testing.T) {
	t.Parallel()

	t.Run("Should refuse a lossy output before reading the input", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		err := driver.Hide(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.jpg"), []byte("x"))

		if !errors.Is(err, imageio.ErrLossyFormat) {
			t.Fatalf("expected %v, but got %v", imageio.ErrLossyFormat, err)
		}
	})

	t.Run("Should report a missing input as an I/O error", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		err := driver.Hide(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.png"), []byte("x"))

		if !errors.Is(err, driver.ErrIO) {
			t.Fatalf("expected %v, but got %v", driver.ErrIO, err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected the cause to be kept, but got %v", err)
		}
	})

	t.Run("Should report an undecodable input as unsupported", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		in := filepath.Join(dir, "notes.png")
		if err := os.WriteFile(in, []byte("plain text"), 0644); err != nil {
			t.Fatalf("write input: %v", err)
		}

		err := driver.Hide(in, filepath.Join(dir, "out.png"), []byte("x"))

		if !errors.Is(err, stego.ErrUnsupportedImage) {
			t.Fatalf("expected %v, but got %v", stego.ErrUnsupportedImage, err)
		}
	})

	t.Run("Should not write output when the message does not fit", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		in := writeCover(t, dir, 3, 3)
		out := filepath.Join(dir, "out.png")

		err := driver.Hide(in, out, []byte("too long for nine pixels"))

		if !errors.Is(err, stego.ErrCapacityExceeded) {
			t.Fatalf("expected %v, but got %v", stego.ErrCapacityExceeded, err)
		}
		if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
			t.Fatalf("expected no output file, but stat returned %v", statErr)
		}
	})

	t.Run("Should report an unwritable output as an I/O error", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		in := writeCover(t, dir, 10, 10)

		err := driver.Hide(in, filepath.Join(dir, "no", "such", "dir.png"), []byte("x"))

		if !errors.Is(err, driver.ErrIO) {
			t.Fatalf("expected %v, but got %v", driver.ErrIO, err)
		}
	})
}

func TestReveal(t *testing.T) {
	t.Parallel()

	t.Run("Should report no message in an untouched cover", func(t *testing.T) {
		t.Parallel()
		in := writeCover(t, t.TempDir(), 8, 8)

		_, err := driver.Reveal(in)

		if !errors.Is(err, stego.ErrNoMessageFound) {
			t.Fatalf("expected %v, but got %v", stego.ErrNoMessageFound, err)
		}
	})

	t.Run("Should report a missing file as an I/O error", func(t *testing.T) {
		t.Parallel()

		_, err := driver.Reveal(filepath.Join(t.TempDir(), "nope.png"))

		if !errors.Is(err, driver.ErrIO) {
			t.Fatalf("expected %v, but got %v", driver.ErrIO, err)
		}
	})
}

func TestInspect(t *testing.T) {
	in := writeCover(t, t.TempDir(), 10, 10)

	info, err := driver.Inspect(in)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	want := driver.Info{Format: "png", Width: 10, Height: 10, Pixels: 100, Capacity: 35}
	if info != want {
		t.Errorf("Inspect() = %+v, want %+v", info, want)
	}
}

func TestStreams(t *testing.T) {
	var cover bytes.Buffer
	if err := png.Encode(&cover, image.NewGray(image.Rect(0, 0, 16, 16))); err != nil {
		t.Fatalf("encode cover: %v", err)
	}

	var stegoImg bytes.Buffer
	if err := driver.HideStream(bytes.NewReader(cover.Bytes()), &stegoImg, imageio.BMP, []byte("stream")); err != nil {
		t.Fatalf("HideStream failed: %v", err)
	}

	info, err := driver.InspectStream(bytes.NewReader(stegoImg.Bytes()))
	if err != nil {
		t.Fatalf("InspectStream failed: %v", err)
	}
	if info.Format != "bmp" || info.Pixels != 256 {
		t.Errorf("InspectStream() = %+v", info)
	}

	msg, err := driver.RevealStream(bytes.NewReader(stegoImg.Bytes()))
	if err != nil {
		t.Fatalf("RevealStream failed: %v", err)
	}
	if string(msg) != "stream" {
		t.Errorf("RevealStream() = %q, want %q", msg, "stream")
	}

	if _, err := driver.RevealStream(bytes.NewReader([]byte("junk"))); !errors.Is(err, stego.ErrUnsupportedImage) {
		t.Errorf("RevealStream(junk) error = %v, want %v", err, stego.ErrUnsupportedImage)
	}
}
