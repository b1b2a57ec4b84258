package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testBuf() *ImageBuf {
	buf, _ := NewImageBuf(8, 6)
	buf.Fill(10, 20, 30, 255)
	buf.SetRGBA(3, 4, 200, 100, 50, 255)
	return buf
}

func TestFormatFromExt(t *testing.T) {
	tests := []struct {
		ext     string
		want    FileFormat
		wantErr bool
	}{
		{".png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{".jpg", FormatJPEG, false},
		{".jpeg", FormatJPEG, false},
		{".tif", FormatTIFF, false},
		{".TIFF", FormatTIFF, false},
		{".bmp", FormatBMP, false},
		{".gif", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			got, err := FormatFromExt(tt.ext)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromExt(%q) error = %v, wantErr %v", tt.ext, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("FormatFromExt(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestEncodeLossless(t *testing.T) {
	decoders := map[FileFormat]func(*bytes.Reader) (image.Image, error){
		FormatPNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		FormatTIFF: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
		FormatBMP:  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
	}

	src := testBuf()
	for format, decode := range decoders {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src.NRGBA(), format); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			img, err := decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode error = %v", err)
			}
			got := color.NRGBAModel.Convert(img.At(3, 4)).(color.NRGBA)
			want := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
			if got != want {
				t.Errorf("pixel (3, 4) = %v, want %v", got, want)
			}
		})
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	src := testBuf()

	for _, name := range []string{"out.png", "out.jpg", "out.tiff", "out.bmp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(path, src.NRGBA()); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("Stat() error = %v", err)
			}
			if info.Size() == 0 {
				t.Error("Save() wrote an empty file")
			}
		})
	}
}

func TestSaveUnsupportedWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	err := Save(path, testBuf().NRGBA())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Save() error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Save() left a file behind: %v", err)
	}
}


func TestEncodeFile(t *testing.T) {
	data, err := EncodeFile("dir/out.PNG", testBuf().NRGBA())
	if err != nil {
		t.Fatalf("EncodeFile() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Errorf("decoded bounds = %v, want 8x6", img.Bounds())
	}
}

func TestEncodeFileEmptyImage(t *testing.T) {
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	if _, err := EncodeFile("empty.png", empty); err == nil {
		t.Error("EncodeFile() accepted a 0x0 png")
	}
}
