package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the file extension names no
	// known encoder.
	ErrUnsupportedFormat = errors.New("image: unsupported format")
)

// FileFormat identifies an output encoder.
type FileFormat uint8

const (
	// FormatPNG is lossless PNG, the default.
	FormatPNG FileFormat = iota
	// FormatJPEG is baseline JPEG. Alpha is dropped.
	FormatJPEG
	// FormatTIFF is deflate-compressed TIFF.
	FormatTIFF
	// FormatBMP is 32-bit BMP.
	FormatBMP
)

// String returns the canonical extension of the format without the dot.
func (f FileFormat) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpg"
	case FormatTIFF:
		return "tiff"
	case FormatBMP:
		return "bmp"
	default:
		return fmt.Sprintf("FileFormat(%d)", f)
	}
}

// FormatFromExt maps a file extension (with or without the leading dot,
// any case) to its encoder.
func FormatFromExt(ext string) (FileFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format FileFormat) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("image: encode %v: %w", format, err)
	}
	return nil
}

// EncodeFile encodes img in memory in the format named by the extension
// of path. Nothing is written to disk.
func EncodeFile(path string, img image.Image) ([]byte, error) {
	format, err := FormatFromExt(filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save encodes img into the file at path, choosing the encoder from the
// path's extension. The file is encoded in memory first so a failed
// encode never leaves a partial file behind.
func Save(path string, img image.Image) error {
	data, err := EncodeFile(path, img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Clean(path), data, 0o644); err != nil {
		return fmt.Errorf("image: write file: %w", err)
	}
	return nil
}
