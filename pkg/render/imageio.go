package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageFormat is an image encoding recognized by file extension.
type ImageFormat int

const (
	FormatUnknown ImageFormat = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatTIFF
	FormatBMP
	FormatWebP
)

// ErrUnsupportedFormat is returned for extensions with no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// FormatFromPath returns the format implied by path's extension.
func FormatFromPath(path string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	case "webp":
		return FormatWebP, nil
	}
	return FormatUnknown, fmt.Errorf("%q: %w", filepath.Ext(path), ErrUnsupportedFormat)
}

// OpenImage decodes an image file. png, jpeg, gif, tiff, bmp and webp are
// supported; the format is sniffed from the content.
func OpenImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	return img, nil
}

// SaveImage encodes img to path using the format implied by the extension.
// webp can be read but not written.
func SaveImage(img image.Image, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if format == FormatWebP {
		return fmt.Errorf("write webp: %w", ErrUnsupportedFormat)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := writeImage(bw, img, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeImage(w io.Writer, img image.Image, format ImageFormat) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatTIFF:
		return tiff.Encode(w, img, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	}
	return ErrUnsupportedFormat
}
