// Package convert runs the whole source-to-target pipeline for one file.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"

	"tso2mqo/internal/log"
	"tso2mqo/internal/mqo"
	"tso2mqo/internal/mqx"
	"tso2mqo/internal/textenc"
	"tso2mqo/internal/texture"
	"tso2mqo/internal/tso"
)

var logger = log.New("convert")

// Options controls one conversion.
type Options struct {
	// Sidecar writes the bone sidecar next to the target and annotates the
	// target with object and vertex uids.
	Sidecar bool

	// TextureFormat is one of texture.Formats; empty means auto.
	TextureFormat string

	// SkipTextures suppresses texture files. Materials still reference them.
	SkipTextures bool

	// SourceEncoding decodes source strings; TargetEncoding encodes the
	// target file. Nil selects textenc.Default.
	SourceEncoding encoding.Encoding
	TargetEncoding encoding.Encoding
}

// Result summarizes a successful conversion.
type Result struct {
	Source        string
	Target        string
	Sidecar       string   // empty when not written
	Textures      []string // texture files written
	Objects       int
	Vertices      int // welded, summed over objects
	Faces         int // triangles, summed over objects
	Materials     int
	Bones         int
	UnknownParams int
}

// IOError reports a failed filesystem or image codec operation.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("convert: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// SidecarPath returns the sidecar path belonging to target.
func SidecarPath(target string) string {
	return strings.TrimSuffix(target, filepath.Ext(target)) + ".mqx"
}

// Convert reads the source model at src and writes the target file dst,
// the optional sidecar and the textures into dst's directory. Outputs are
// staged and only renamed into place once every one of them was written;
// on error nothing is left behind.
func Convert(src, dst string, opts Options) (res *Result, err error) {
	format := opts.TextureFormat
	if format == "" {
		format = texture.FormatAuto
	}
	if !texture.ValidFormat(format) {
		return nil, errors.Errorf("convert: unknown texture format %q", format)
	}
	srcEnc := opts.SourceEncoding
	if srcEnc == nil {
		srcEnc = textenc.MustLookup(textenc.Default)
	}
	dstEnc := opts.TargetEncoding
	if dstEnc == nil {
		dstEnc = textenc.MustLookup(textenc.Default)
	}

	f, err := load(src, srcEnc)
	if err != nil {
		return nil, err
	}

	res = &Result{Source: src, Target: dst, Materials: len(f.Materials), Bones: len(f.Nodes)}
	for _, m := range f.Materials {
		for _, p := range m.Unknown {
			logger.Warningf("%s: material %q: unknown parameter %s", src, m.Name, p)
		}
		res.UnknownParams += len(m.Unknown)
	}

	if err := f.RemapBones(); err != nil {
		return nil, errors.Wrapf(err, "convert: remap %s", src)
	}

	index := texture.NewIndex(f.Textures, format)
	logger.Debugf("%s: %d texture name(s) indexed as %s", src, index.Len(), format)
	doc, sk, err := Build(f, index)
	if err != nil {
		return nil, errors.Wrapf(err, "convert: build %s", src)
	}
	for _, o := range doc.Objects {
		res.Objects++
		res.Vertices += len(o.Vertices)
		res.Faces += len(o.Faces)
	}

	st := &stage{}
	defer func() {
		if err != nil {
			st.discard()
		}
	}()

	if opts.Sidecar {
		res.Sidecar = SidecarPath(dst)
		doc.IncludeXML = filepath.Base(res.Sidecar)
	}

	err = st.create(dst, func(w io.Writer) error {
		tw := textenc.NewWriter(w, dstEnc)
		if err := mqo.Write(tw, doc, mqo.WriterConfig{UIDs: opts.Sidecar}); err != nil {
			return err
		}
		return tw.Close()
	})
	if err != nil {
		return nil, err
	}

	if opts.Sidecar {
		side := mqx.New(sk, filepath.Base(dst), len(doc.Objects))
		if err = st.create(res.Sidecar, func(w io.Writer) error { return mqx.Write(w, side) }); err != nil {
			return nil, err
		}
	}

	if !opts.SkipTextures {
		dir := filepath.Dir(dst)
		for i := range f.Textures {
			t := &f.Textures[i]
			name, ok := index.Resolve(t.Name)
			if !ok {
				err = errors.Wrapf(&tso.LookupError{What: "texture", Key: t.Name}, "convert: %s", src)
				return nil, err
			}
			path := filepath.Join(dir, name)
			err = st.create(path, func(w io.Writer) error {
				return texture.Write(w, texture.FormatOf(name), t.Data, t.Width, t.Height, t.Depth)
			})
			if err != nil {
				return nil, err
			}
			res.Textures = append(res.Textures, path)
		}
	}

	if err = st.commit(); err != nil {
		return nil, err
	}

	logger.Infof("%s -> %s: %d objects, %d vertices, %d faces, %d bones", src, dst, res.Objects, res.Vertices, res.Faces, res.Bones)
	return res, nil
}

func load(src string, enc encoding.Encoding) (*tso.File, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, &IOError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	f, err := tso.Read(in, tso.ReaderConfig{Encoding: enc})
	if err != nil {
		return nil, errors.Wrapf(err, "convert: read %s", src)
	}
	logger.Debugf("%s: %d nodes, %d textures, %d materials, %d meshes", src, len(f.Nodes), len(f.Textures), len(f.Materials), len(f.Meshes))
	return f, nil
}
