// Package textenc resolves text encodings by label for the source string
// decoder and the target file writer.
package textenc

import (
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Default is the label used when none is configured. Source models are
// authored on Japanese Windows installs.
const Default = "shift_jis"

// Lookup returns the encoding registered under name. An empty name selects
// Default.
func Lookup(name string) (encoding.Encoding, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return japanese.ShiftJIS, nil
	case "utf8", "utf-8":
		return unicode.UTF8, nil
	}
	return htmlindex.Get(name)
}

// MustLookup is like Lookup but panics on an unknown label.
func MustLookup(name string) encoding.Encoding {
	enc, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return enc
}

// Decoder turns raw bytes into a Go string using a fixed encoding.
type Decoder struct {
	dec *encoding.Decoder
}

// NewDecoder returns a decoder for enc.
func NewDecoder(enc encoding.Encoding) *Decoder {
	return &Decoder{dec: enc.NewDecoder()}
}

// String decodes b. Bytes that are not valid in the encoding become U+FFFD.
func (d *Decoder) String(b []byte) string {
	out, _, err := transform.Bytes(d.dec, b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// NewWriter wraps w so that UTF-8 text written to it is stored in enc.
// Characters enc cannot represent are replaced. Close flushes pending
// output but does not close w.
func NewWriter(w io.Writer, enc encoding.Encoding) io.WriteCloser {
	return transform.NewWriter(w, encoding.ReplaceUnsupported(enc.NewEncoder()))
}

// NewReader wraps r so that text stored in enc is read back as UTF-8.
func NewReader(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, enc.NewDecoder())
}
