// Package imageio decodes images into RGBA buffers and encodes buffers back
// to lossless image files.
//
// Decoding accepts every registered format: PNG, JPEG, GIF, BMP, TIFF and
// WebP. Encoding picks the format from the file extension and only supports
// lossless formats, so encoded tiles decode to exactly the same bytes.
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/eak1mov/go-tilemap/tile"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrImageLoad  = errors.New("tilemap: cannot load image")
	ErrImageWrite = errors.New("tilemap: cannot write image")
)

// Format names an encoder.
type Format string

const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// FormatOf returns the encoder for a file path, defaulting to PNG when the
// path has no extension.
func FormatOf(filePath string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".png", "":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%w: unsupported output format %q", ErrImageWrite, ext)
	}
}

// DecodeReader decodes an image from r in any registered format.
func DecodeReader(r io.Reader) (*tile.Buffer, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageLoad, err)
	}
	return tile.FromImage(m), nil
}

// Decode reads the image stored at filePath.
func Decode(filePath string) (*tile.Buffer, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageLoad, err)
	}
	defer file.Close()

	b, err := DecodeReader(file)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", filePath, err)
	}
	return b, nil
}

// EncodeWriter writes b to w. Zero-area buffers cannot be encoded.
func EncodeWriter(w io.Writer, format Format, b *tile.Buffer) error {
	if b.Width == 0 || b.Height == 0 {
		return fmt.Errorf("%w: empty %vx%v image", ErrImageWrite, b.Width, b.Height)
	}
	if err := b.Validate(); err != nil {
		panic(err)
	}

	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, b.Image())
	case FormatBMP:
		err = bmp.Encode(w, b.Image())
	case FormatTIFF:
		err = tiff.Encode(w, b.Image(), &tiff.Options{Compression: tiff.Deflate})
	default:
		err = fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrImageWrite, err)
	}
	return nil
}

// Encode writes b to filePath in the format given by its extension. The file
// only appears once it is completely written.
func Encode(filePath string, b *tile.Buffer) (err error) {
	format, err := FormatOf(filePath)
	if err != nil {
		return err
	}

	file, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrImageWrite, err)
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(file.Name())
		}
	}()

	if err = EncodeWriter(file, format, b); err != nil {
		return err
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrImageWrite, err)
	}
	if err = os.Chmod(file.Name(), 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrImageWrite, err)
	}
	if err = os.Rename(file.Name(), filePath); err != nil {
		return fmt.Errorf("%w: %w", ErrImageWrite, err)
	}
	return nil
}
