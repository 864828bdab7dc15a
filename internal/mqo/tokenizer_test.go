package mqo

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	specs := []struct {
		in  string
		exp []string
	}{
		{"", nil},
		{"  \t ", nil},
		{"Scene {", []string{"Scene", "{"}},
		{"Object \"my obj\" {", []string{"Object", `"my obj"`, "{"}},
		{"3 V(0 1 2) M(0) UV(0 1 0.5 0.5 1 0)", []string{"3", "V(0 1 2)", "M(0)", "UV(0 1 0.5 0.5 1 0)"}},
		{"a(b(c d) e) f", []string{"a(b(c d) e)", "f"}},
		{`"mat" tex("my file.png")`, []string{`"mat"`, `tex("my file.png")`}},
		{`a\ b c`, []string{"a b", "c"}},
		{`"a\b" c`, []string{`"a\b"`, "c"}},
		{"x\ty", []string{"x", "y"}},
		{"V(0 1", []string{"V(0 1"}},
		{`"open quote`, []string{`"open quote`}},
		{"a) b", []string{"a)", "b"}},
	}

	for idx, s := range specs {
		if got := Tokenize(s.in); !reflect.DeepEqual(got, s.exp) {
			t.Fatalf("[spec %d] Tokenize(%q): expected %q; got %q", idx, s.in, s.exp, got)
		}
	}
}

func TestSplitGroup(t *testing.T) {
	key, args, ok := splitGroup(`tex("a b.png")`)
	if !ok || key != "tex" || !reflect.DeepEqual(args, []string{`"a b.png"`}) {
		t.Fatalf("unexpected split: %q %q %v", key, args, ok)
	}

	for _, tok := range []string{"plain", "(1)", "V(1 2"} {
		if _, _, ok := splitGroup(tok); ok {
			t.Fatalf("expected %q not to split", tok)
		}
	}
}
