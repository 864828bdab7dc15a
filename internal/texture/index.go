package texture

import (
	"path"
	"strings"

	"tso2mqo/internal/tso"
)

// Output formats. Auto keeps bmp, tga and png names and maps anything else
// to png.
const (
	FormatAuto = "auto"
	FormatPNG  = "png"
	FormatBMP  = "bmp"
	FormatTGA  = "tga"
	FormatWebP = "webp"
)

// Formats lists every accepted format name.
var Formats = []string{FormatAuto, FormatPNG, FormatBMP, FormatTGA, FormatWebP}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// FileName returns the output file name for a texture recorded as file.
// Surrounding quotes and any directory part (either separator) are dropped;
// an empty name becomes "none".
func FileName(file, format string) string {
	name := strings.Trim(file, `"`)
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "none"
	}

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if format == FormatAuto {
		switch strings.ToLower(ext) {
		case ".bmp", ".tga", ".png":
			return name
		}
		format = FormatPNG
	}
	return stem + "." + format
}

// FormatOf returns the format implied by an output file name's extension.
func FormatOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// Index maps source texture names to output file names.
type Index struct {
	entries map[string]string // texture name -> output file name
}

// NewIndex names every texture of a loaded file for format. Names are keyed
// with surrounding whitespace trimmed, as material references are.
func NewIndex(textures []tso.Texture, format string) *Index {
	idx := &Index{entries: make(map[string]string, len(textures))}
	for _, t := range textures {
		idx.entries[strings.TrimSpace(t.Name)] = FileName(t.File, format)
	}
	return idx
}

// Resolve returns the output file name for a texture name, or ("", false).
func (idx *Index) Resolve(texName string) (string, bool) {
	name, ok := idx.entries[strings.TrimSpace(texName)]
	return name, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
