package textenc

import (
	"bytes"
	"io"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

func TestLookup(t *testing.T) {
	for _, label := range []string{"", "shift_jis", "Shift_JIS", " sjis "} {
		enc, err := Lookup(label)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", label, err)
		}
		if enc != japanese.ShiftJIS {
			t.Errorf("Lookup(%q) = %v, want shift_jis", label, enc)
		}
	}

	enc, err := Lookup("UTF-8")
	if err != nil || enc != unicode.UTF8 {
		t.Errorf("Lookup(UTF-8) = %v, %v", enc, err)
	}

	if _, err := Lookup("klingon"); err == nil {
		t.Error("expected an error for an unknown label")
	}
}

func TestDecoderString(t *testing.T) {
	d := NewDecoder(japanese.ShiftJIS)
	if got := d.String([]byte("\x94\xaf")); got != "髪" {
		t.Errorf("got %q, want 髪", got)
	}
	if got := d.String([]byte("W_Hips")); got != "W_Hips" {
		t.Errorf("got %q", got)
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, japanese.ShiftJIS)
	if _, err := io.WriteString(w, "Material 髪\n"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if want := "Material \x94\xaf\n"; buf.String() != want {
		t.Fatalf("encoded %q, want %q", buf.String(), want)
	}

	out, err := io.ReadAll(NewReader(&buf, japanese.ShiftJIS))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "Material 髪\n" {
		t.Errorf("decoded %q", out)
	}
}

func TestWriterReplacesUnsupported(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, japanese.ShiftJIS)
	if _, err := io.WriteString(w, "a\U0001F600b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); len(got) != 3 || got[0] != 'a' || got[2] != 'b' {
		t.Errorf("got %q, want one replacement byte between a and b", got)
	}
}
