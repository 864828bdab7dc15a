package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	specs := []struct {
		name    string
		content string
	}{
		{"cfg.json", `{"output_dir": "out", "sidecar": true, "texture_format": "tga", "workers": 3}`},
		{"cfg.yaml", "output_dir: out\nsidecar: true\ntexture_format: tga\nworkers: 3\n"},
		{"cfg.yml", "output_dir: out\nsidecar: true\ntexture_format: tga\nworkers: 3\n"},
	}

	exp := Config{OutputDir: "out", Sidecar: true, TextureFormat: "tga", Workers: 3}
	for _, s := range specs {
		cfg, err := Load(writeFile(t, s.name, s.content))
		if err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		if cfg != exp {
			t.Fatalf("%s: expected %+v; got %+v", s.name, exp, cfg)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if _, err := Load(writeFile(t, "bad.json", "{")); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	if _, err := Load(writeFile(t, "bad.yaml", "workers: [")); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	if err := cfg.Resolve(Flags{}); err != nil {
		t.Fatal(err)
	}

	exp := Config{
		TextureFormat:  "auto",
		SourceEncoding: "shift_jis",
		TargetEncoding: "shift_jis",
		Workers:        runtime.NumCPU(),
	}
	if cfg != exp {
		t.Fatalf("expected %+v; got %+v", exp, cfg)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.SourceEncoding != japanese.ShiftJIS || opts.TargetEncoding != japanese.ShiftJIS {
		t.Fatalf("expected shift_jis encodings; got %v %v", opts.SourceEncoding, opts.TargetEncoding)
	}
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{OutputDir: "a", TextureFormat: "bmp", Workers: 2, Manifest: "m.json"}
	err := cfg.Resolve(Flags{OutputDir: "b", TextureFormat: "webp", TargetEncoding: "utf-8", Workers: 5, Sidecar: true})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.OutputDir != "b" || cfg.TextureFormat != "webp" || cfg.Workers != 5 || !cfg.Sidecar {
		t.Fatalf("expected flag values to win; got %+v", cfg)
	}
	if cfg.Manifest != filepath.Join("b", "m.json") {
		t.Fatalf("expected manifest relative to output dir; got %q", cfg.Manifest)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.TargetEncoding != unicode.UTF8 || !opts.Sidecar || opts.TextureFormat != "webp" {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestResolveValidates(t *testing.T) {
	specs := []Config{
		{TextureFormat: "jpeg"},
		{SourceEncoding: "no-such-encoding"},
		{TargetEncoding: "klingon"},
	}
	for idx, cfg := range specs {
		if err := cfg.Resolve(Flags{}); err == nil {
			t.Fatalf("[spec %d] expected a validation error", idx)
		}
	}
}
