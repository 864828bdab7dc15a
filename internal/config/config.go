package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"tso2mqo/internal/convert"
	"tso2mqo/internal/textenc"
	"tso2mqo/internal/texture"
)

// Config holds conversion settings.
type Config struct {
	// Paths
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	Manifest  string `json:"manifest" yaml:"manifest"`

	// Conversion settings
	Sidecar        bool   `json:"sidecar" yaml:"sidecar"`
	TextureFormat  string `json:"texture_format" yaml:"texture_format"`
	SkipTextures   bool   `json:"skip_textures" yaml:"skip_textures"`
	SourceEncoding string `json:"source_encoding" yaml:"source_encoding"`
	TargetEncoding string `json:"target_encoding" yaml:"target_encoding"`
	Workers        int    `json:"workers" yaml:"workers"`
}

// Load reads a JSON or YAML config file, chosen by extension (.yaml and
// .yml are YAML). Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: parse %s", path)
	}

	return cfg, nil
}

// Resolve applies flag overrides, fills empty fields with defaults and
// validates the result. CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Manifest != "" {
		c.Manifest = flags.Manifest
	}
	if flags.TextureFormat != "" {
		c.TextureFormat = flags.TextureFormat
	}
	if flags.SourceEncoding != "" {
		c.SourceEncoding = flags.SourceEncoding
	}
	if flags.TargetEncoding != "" {
		c.TargetEncoding = flags.TargetEncoding
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	c.Sidecar = c.Sidecar || flags.Sidecar
	c.SkipTextures = c.SkipTextures || flags.SkipTextures

	// Defaults
	if c.TextureFormat == "" {
		c.TextureFormat = texture.FormatAuto
	}
	if c.SourceEncoding == "" {
		c.SourceEncoding = textenc.Default
	}
	if c.TargetEncoding == "" {
		c.TargetEncoding = textenc.Default
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Manifest != "" && !filepath.IsAbs(c.Manifest) && c.OutputDir != "" {
		c.Manifest = filepath.Join(c.OutputDir, c.Manifest)
	}

	if !texture.ValidFormat(c.TextureFormat) {
		return errors.Errorf("config: unknown texture format %q (want one of %s)", c.TextureFormat, strings.Join(texture.Formats, ", "))
	}
	for _, name := range []string{c.SourceEncoding, c.TargetEncoding} {
		if _, err := textenc.Lookup(name); err != nil {
			return errors.Wrapf(err, "config: encoding %q", name)
		}
	}
	return nil
}

// Options returns the conversion options of a resolved config.
func (c *Config) Options() (convert.Options, error) {
	src, err := textenc.Lookup(c.SourceEncoding)
	if err != nil {
		return convert.Options{}, errors.Wrapf(err, "config: source encoding %q", c.SourceEncoding)
	}
	dst, err := textenc.Lookup(c.TargetEncoding)
	if err != nil {
		return convert.Options{}, errors.Wrapf(err, "config: target encoding %q", c.TargetEncoding)
	}
	return convert.Options{
		Sidecar:        c.Sidecar,
		TextureFormat:  c.TextureFormat,
		SkipTextures:   c.SkipTextures,
		SourceEncoding: src,
		TargetEncoding: dst,
	}, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir      string
	Manifest       string
	TextureFormat  string
	SourceEncoding string
	TargetEncoding string
	Workers        int
	Sidecar        bool
	SkipTextures   bool
}
