package tso

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/encoding"

	"tso2mqo/internal/mathutil"
	"tso2mqo/internal/textenc"
	"tso2mqo/internal/weight"
)

// Smallest encoded sizes, used to reject counts the remaining bytes cannot hold.
const (
	minStringSize  = 4
	matrixSize     = 16 * 4
	minTextureSize = 2*minStringSize + 3*4
	minEffectSize  = minStringSize + 4
	minMatSize     = 2*minStringSize + 4
	minMeshSize    = minStringSize + matrixSize + 2*4
	minSubMeshSize = 3 * 4
	minVertexSize  = 8*4 + 4
)

// ReaderConfig controls how strings are decoded.
type ReaderConfig struct {
	// Encoding of every string in the file. Nil selects textenc.Default.
	Encoding encoding.Encoding
}

// Load reads the source model at path.
func Load(path string, cfg ReaderConfig) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file, err := Read(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("tso: read %s: %w", path, err)
	}
	return file, nil
}

// Read decodes a complete source model. Any structural violation aborts the
// whole load.
func Read(rd io.Reader, cfg ReaderConfig) (*File, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}

	enc := cfg.Encoding
	if enc == nil {
		enc = textenc.MustLookup(textenc.Default)
	}

	r := &reader{data: data, dec: textenc.NewDecoder(enc)}
	return r.parse()
}

type reader struct {
	data []byte
	off  int
	dec  *textenc.Decoder
}

func (r *reader) errorf(format string, args ...interface{}) error {
	return &FormatError{Offset: int64(r.off), Msg: fmt.Sprintf(format, args...)}
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) need(n int, what string) error {
	if n < 0 || r.off+n > len(r.data) {
		return r.errorf("truncated %s: need %d bytes, have %d", what, n, r.remaining())
	}
	return nil
}

func (r *reader) readBytes(n int, what string) ([]byte, error) {
	if err := r.need(n, what); err != nil {
		return nil, err
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) readI32(what string) (int32, error) {
	if err := r.need(4, what); err != nil {
		return 0, err
	}
	v := int32(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v, nil
}

func (r *reader) readF32(what string) (float32, error) {
	if err := r.need(4, what); err != nil {
		return 0, err
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v, nil
}

// readCount reads a 32-bit count and checks that count entries of at least
// minSize bytes each fit in what is left.
func (r *reader) readCount(what string, minSize int) (int, error) {
	n, err := r.readI32(what + " count")
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, r.errorf("negative %s count %d", what, n)
	}
	if int64(n)*int64(minSize) > int64(r.remaining()) {
		return 0, r.errorf("%s count %d does not fit in %d remaining bytes", what, n, r.remaining())
	}
	return int(n), nil
}

func (r *reader) readString(what string) (string, error) {
	n, err := r.readI32(what + " length")
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", r.errorf("negative %s length %d", what, n)
	}
	b, err := r.readBytes(int(n), what)
	if err != nil {
		return "", err
	}
	return r.dec.String(b), nil
}

func (r *reader) readFloats(dst []float32, what string) error {
	if err := r.need(4*len(dst), what); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off:]))
		r.off += 4
	}
	return nil
}

func (r *reader) readMatrix(what string) (mgl32.Mat4, error) {
	var m [16]float32
	if err := r.readFloats(m[:], what); err != nil {
		return mgl32.Mat4{}, err
	}
	return mathutil.FromRowMajor(m), nil
}

// readLines reads a line count followed by that many strings and joins them
// with '\n'.
func (r *reader) readLines(what string) (string, error) {
	n, err := r.readCount(what+" line", minStringSize)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := 0; i < n; i++ {
		line, err := r.readString(what + " line")
		if err != nil {
			return "", err
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func (r *reader) parse() (*File, error) {
	magic, err := r.readBytes(len(Magic), "magic")
	if err != nil {
		return nil, err
	}
	if string(magic) != Magic {
		r.off = 0
		return nil, r.errorf("bad magic %q, expected %q", magic, Magic)
	}

	f := &File{
		nodeByPath:    make(map[string]int),
		textureByName: make(map[string]int),
	}

	if err := r.parseNodes(f); err != nil {
		return nil, err
	}
	if err := r.parseTextures(f); err != nil {
		return nil, err
	}
	if err := r.parseEffects(f); err != nil {
		return nil, err
	}
	if err := r.parseMaterials(f); err != nil {
		return nil, err
	}
	if err := r.parseMeshes(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *reader) parseNodes(f *File) error {
	count, err := r.readCount("node", minStringSize)
	if err != nil {
		return err
	}

	f.Nodes = make([]Node, count)
	for i := range f.Nodes {
		path, err := r.readString("node path")
		if err != nil {
			return err
		}
		if _, dup := f.nodeByPath[path]; dup {
			return r.errorf("duplicate node path %q", path)
		}
		f.Nodes[i] = Node{
			ID:     i,
			Path:   path,
			Name:   path[strings.LastIndexByte(path, '|')+1:],
			Parent: NoParent,
		}
		f.nodeByPath[path] = i
	}

	for i := range f.Nodes {
		n := &f.Nodes[i]
		sep := strings.LastIndexByte(n.Path, '|')
		if sep <= 0 {
			continue
		}
		parent, ok := f.nodeByPath[n.Path[:sep]]
		if !ok {
			return &LookupError{What: "parent node", Key: fmt.Sprintf("%q of %q", n.Path[:sep], n.Path)}
		}
		n.Parent = parent
		f.Nodes[parent].Children = append(f.Nodes[parent].Children, i)
	}

	mcount, err := r.readCount("node matrix", matrixSize)
	if err != nil {
		return err
	}
	if mcount != count {
		return r.errorf("node matrix count %d does not match node count %d", mcount, count)
	}
	for i := range f.Nodes {
		m, err := r.readMatrix("node matrix")
		if err != nil {
			return err
		}
		f.Nodes[i].Local = m
		f.Nodes[i].World = m
	}
	return nil
}

func (r *reader) parseTextures(f *File) error {
	count, err := r.readCount("texture", minTextureSize)
	if err != nil {
		return err
	}

	f.Textures = make([]Texture, count)
	for i := range f.Textures {
		t := &f.Textures[i]
		t.ID = i
		if t.Name, err = r.readString("texture name"); err != nil {
			return err
		}
		if t.File, err = r.readString("texture file"); err != nil {
			return err
		}

		var dims [3]int32
		for k, what := range []string{"texture width", "texture height", "texture depth"} {
			if dims[k], err = r.readI32(what); err != nil {
				return err
			}
			if dims[k] < 0 {
				return r.errorf("negative %s %d", what, dims[k])
			}
		}
		t.Width, t.Height, t.Depth = int(dims[0]), int(dims[1]), int(dims[2])

		size := int64(t.Width) * int64(t.Height) * int64(t.Depth)
		if size > int64(r.remaining()) {
			return r.errorf("texture %q needs %d pixel bytes, have %d", t.Name, size, r.remaining())
		}
		raw, err := r.readBytes(int(size), "texture pixels")
		if err != nil {
			return err
		}
		t.Data = append([]byte(nil), raw...)
		SwapChannels(t.Data, t.Depth)

		if _, dup := f.textureByName[t.Name]; dup {
			return r.errorf("duplicate texture name %q", t.Name)
		}
		f.textureByName[t.Name] = i
	}
	return nil
}

// SwapChannels exchanges bytes 0 and 2 of every depth-byte pixel in place.
// Buffers with fewer than three channels are left untouched.
func SwapChannels(data []byte, depth int) {
	if depth < 3 {
		return
	}
	for j := 0; j+depth <= len(data); j += depth {
		data[j], data[j+2] = data[j+2], data[j]
	}
}

func (r *reader) parseEffects(f *File) error {
	count, err := r.readCount("effect", minEffectSize)
	if err != nil {
		return err
	}

	f.Effects = make([]Effect, count)
	for i := range f.Effects {
		e := &f.Effects[i]
		if e.Name, err = r.readString("effect name"); err != nil {
			return err
		}
		if e.Code, err = r.readLines("effect"); err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) parseMaterials(f *File) error {
	count, err := r.readCount("material", minMatSize)
	if err != nil {
		return err
	}

	f.Materials = make([]Material, count)
	for i := range f.Materials {
		m := &f.Materials[i]
		m.ID = i
		if m.Name, err = r.readString("material name"); err != nil {
			return err
		}
		if m.File, err = r.readString("material file"); err != nil {
			return err
		}
		if m.Code, err = r.readLines("material"); err != nil {
			return err
		}
		if err := m.ParseParameters(); err != nil {
			return r.errorf("material %q: %v", m.Name, err)
		}
	}
	return nil
}

func (r *reader) parseMeshes(f *File) error {
	count, err := r.readCount("mesh", minMeshSize)
	if err != nil {
		return err
	}

	f.Meshes = make([]Mesh, count)
	for i := range f.Meshes {
		m := &f.Meshes[i]
		if m.Name, err = r.readString("mesh name"); err != nil {
			return err
		}
		if m.Transform, err = r.readMatrix("mesh matrix"); err != nil {
			return err
		}
		effect, err := r.readI32("mesh effect")
		if err != nil {
			return err
		}
		m.Effect = int(effect)

		subs, err := r.readCount("submesh", minSubMeshSize)
		if err != nil {
			return err
		}
		m.SubMeshes = make([]SubMesh, subs)
		for j := range m.SubMeshes {
			if err := r.parseSubMesh(&m.SubMeshes[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *reader) parseSubMesh(s *SubMesh) error {
	spec, err := r.readI32("submesh spec")
	if err != nil {
		return err
	}
	s.Spec = int(spec)

	bones, err := r.readCount("palette", 4)
	if err != nil {
		return err
	}
	s.Palette = make([]int, bones)
	for k := range s.Palette {
		id, err := r.readI32("palette entry")
		if err != nil {
			return err
		}
		s.Palette[k] = int(id)
	}

	verts, err := r.readCount("vertex", minVertexSize)
	if err != nil {
		return err
	}
	s.Vertices = make([]Vertex, verts)
	for k := range s.Vertices {
		if err := r.readVertex(&s.Vertices[k]); err != nil {
			return err
		}
	}
	return nil
}

// readVertex reads position, normal, uv, and a weight count followed by
// (palette index, weight) pairs.
func (r *reader) readVertex(v *Vertex) error {
	var f [8]float32
	if err := r.readFloats(f[:], "vertex"); err != nil {
		return err
	}
	v.Position = mgl32.Vec3{f[0], f[1], f[2]}
	v.Normal = mgl32.Vec3{f[3], f[4], f[5]}
	v.UV = mgl32.Vec2{f[6], f[7]}

	n, err := r.readI32("vertex weight count")
	if err != nil {
		return err
	}
	if n < 0 || n > weight.Lanes {
		return r.errorf("vertex weight count %d out of range 0..%d", n, weight.Lanes)
	}

	v.Weights = weight.Packed{}
	for k := 0; k < int(n); k++ {
		idx, err := r.readI32("vertex bone index")
		if err != nil {
			return err
		}
		if idx < 0 || idx > math.MaxUint8 {
			return r.errorf("vertex bone index %d does not fit a lane", idx)
		}
		w, err := r.readF32("vertex bone weight")
		if err != nil {
			return err
		}
		v.Weights.Index[k] = uint8(idx)
		v.Weights.Weight[k] = w
	}
	return nil
}
