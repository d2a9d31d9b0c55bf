// Package snapshot converts readback snapshots to images and writes them to
// disk.
package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register the webp decoder for Read
)

// ErrFormat is returned for an unsupported file extension.
var ErrFormat = errors.New("snapshot: unsupported image format")

// Format is an image file format.
type Format int

const (
	PNG Format = iota
	BMP
	TIFF
	WEBP
)

// String returns the format's extension without the dot.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	case WEBP:
		return "webp"
	default:
		return "unknown"
	}
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	case ".webp":
		return WEBP, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrFormat, filepath.Ext(path))
	}
}

// ToImage copies a tightly packed RGBA8 snapshot into a new image.
func ToImage(pix []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, fmt.Errorf("snapshot: %d bytes is not a %dx%d RGBA frame", len(pix), width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)
	return img, nil
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, nil)
	case WEBP:
		return nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %v", ErrFormat, f)
	}
}

// Write saves img to path, with the format inferred from the extension.
func Write(path string, img image.Image) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	bw := bufio.NewWriter(file)
	if err := Encode(bw, img, f); err != nil {
		_ = file.Close()
		return fmt.Errorf("snapshot: encode %s: %w", f, err)
	}
	if err := bw.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("snapshot: %w", err)
	}
	return file.Close()
}

// Read decodes an image file written by Write.
func Read(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	defer file.Close()
	img, _, err := image.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", path, err)
	}
	return img, nil
}

// Diff returns the number of pixels whose channels differ by more than
// tolerance between two RGBA8 buffers of equal length.
func Diff(a, b []byte, tolerance uint8) (int, error) {
	if len(a) != len(b) || len(a)%4 != 0 {
		return 0, fmt.Errorf("snapshot: cannot compare %d and %d bytes", len(a), len(b))
	}
	n := 0
	for i := 0; i < len(a); i += 4 {
		for c := 0; c < 4; c++ {
			d := int(a[i+c]) - int(b[i+c])
			if d < 0 {
				d = -d
			}
			if d > int(tolerance) {
				n++
				break
			}
		}
	}
	return n, nil
}
