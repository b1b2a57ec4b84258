package procreate

import (
	"fmt"
	stdimage "image"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/procreate/internal/image"
)

// File is an encoded output waiting to be written.
type File struct {
	Path string
	Data []byte
}

// Encode encodes img for path without touching the disk. The encoder is
// chosen by extension: .png, .jpg/.jpeg, .tif/.tiff or .bmp.
func Encode(path string, img stdimage.Image) (File, error) {
	data, err := image.EncodeFile(path, img)
	if err != nil {
		return File{}, fmt.Errorf("procreate: encode %s: %w", path, err)
	}
	return File{Path: path, Data: data}, nil
}

// Save encodes img and writes it to path.
func Save(path string, img stdimage.Image) error {
	f, err := Encode(path, img)
	if err != nil {
		return err
	}
	return WriteFiles([]File{f})
}

// CheckFormat reports whether path has an extension Save can encode.
func CheckFormat(path string) error {
	if _, err := image.FormatFromExt(filepath.Ext(path)); err != nil {
		return fmt.Errorf("procreate: %s: %w", path, err)
	}
	return nil
}

// WriteFiles writes every file, creating missing parent directories first.
// When a write fails, the files already written by this call are removed
// and the error is returned, so either all files exist or none do.
func WriteFiles(files []File) error {
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			return fmt.Errorf("procreate: %w", err)
		}
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := os.WriteFile(filepath.Clean(f.Path), f.Data, 0o644); err != nil {
			for _, p := range written {
				_ = os.Remove(p)
			}
			return fmt.Errorf("procreate: write %s: %w", f.Path, err)
		}
		written = append(written, f.Path)
	}
	Logger().Info("procreate: files written", "count", len(written))
	return nil
}

// EncodeLayers encodes the pixels of every layer in the tree, hidden ones
// included, as dir/"NNN-<slug>.<ext>", numbered in stored depth-first order
// from 001. Every layer must have been assembled.
func EncodeLayers(doc *Document, dir, ext string) ([]File, error) {
	ext = strings.TrimPrefix(ext, ".")
	if _, err := image.FormatFromExt(ext); err != nil {
		return nil, fmt.Errorf("procreate: %w", err)
	}

	layers := doc.Layers()
	files := make([]File, 0, len(layers))
	for i, l := range layers {
		if l.image == nil {
			return nil, fmt.Errorf("%w: %s (%s)", ErrImageMissing, l.Label(), l.UUID)
		}
		f, err := Encode(filepath.Join(dir, fmt.Sprintf("%03d-%s.%s", i+1, layerSlug(l), ext)), l.image.NRGBA())
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// ExportLayers writes the files of EncodeLayers into dir and returns their
// paths. Nothing is written if any layer fails to encode.
func ExportLayers(doc *Document, dir, ext string) ([]string, error) {
	files, err := EncodeLayers(doc, dir, ext)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("procreate: %w", err)
	}
	if err := WriteFiles(files); err != nil {
		return nil, err
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths, nil
}

// layerSlug derives a file-name-safe name for l: diacritics are removed,
// letters lower-cased and every other run of characters becomes one '-'.
// Layers whose name yields nothing use their uuid.
func layerSlug(l *Layer) string {
	if s := slug(l.Name); s != "" {
		return s
	}
	if s := slug(l.UUID); s != "" {
		return s
	}
	return "layer"
}

var stripMarks = runes.Remove(runes.In(unicode.Mn))

func slug(s string) string {
	t := transform.Chain(norm.NFD, stripMarks, norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}
