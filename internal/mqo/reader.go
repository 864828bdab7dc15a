package mqo

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// FormatError reports a malformed line. Line is 1-based; Text is the raw
// line.
type FormatError struct {
	Line int
	Text string
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("mqo: line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// Read parses a complete document. r must yield UTF-8; wrap it with
// textenc.NewReader for other encodings. Blocks with an unknown chunk name
// are skipped; any other unrecognized top-level line is an error.
func Read(r io.Reader) (*Document, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	p := &parser{sc: sc, doc: &Document{}}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

type parser struct {
	sc   *bufio.Scanner
	line int
	text string
	doc  *Document
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &FormatError{Line: p.line, Text: p.text, Msg: fmt.Sprintf(format, args...)}
}

// next advances to the next non-blank line and returns its tokens.
func (p *parser) next() ([]string, error) {
	for p.sc.Scan() {
		p.line++
		p.text = p.sc.Text()
		if tokens := Tokenize(strings.TrimSpace(p.text)); len(tokens) > 0 {
			return tokens, nil
		}
	}
	if err := p.sc.Err(); err != nil {
		return nil, err
	}
	p.text = ""
	if p.line == 0 {
		p.line = 1
	}
	return nil, p.errorf("unexpected end of document")
}

func isClose(tokens []string) bool {
	return len(tokens) == 1 && tokens[0] == blockClose
}

func opensBlock(tokens []string) bool {
	return tokens[len(tokens)-1] == blockOpen
}

func (p *parser) parse() error {
	tokens, err := p.next()
	if err != nil {
		return err
	}
	if strings.Join(tokens, " ") != HeaderTitle {
		return p.errorf("expected %q", HeaderTitle)
	}

	tokens, err = p.next()
	if err != nil {
		return err
	}
	if len(tokens) != 4 || strings.Join(tokens[:3], " ") != HeaderFormat {
		return p.errorf("expected %q followed by a version", HeaderFormat)
	}
	if !Versions[tokens[3]] {
		return p.errorf("unsupported format version %s", tokens[3])
	}
	p.doc.Version = tokens[3]

	for {
		tokens, err := p.next()
		if err != nil {
			return err
		}

		switch tokens[0] {
		case chunkEOF:
			return nil
		case chunkInclude:
			if len(tokens) != 2 {
				return p.errorf("expected 1 argument for %s; got %d", chunkInclude, len(tokens)-1)
			}
			p.doc.IncludeXML = unquote(tokens[1])
		case chunkScene:
			if len(tokens) != 2 || !opensBlock(tokens) {
				return p.errorf("expected %s {", chunkScene)
			}
			if err := p.parseScene(); err != nil {
				return err
			}
		case chunkMaterial:
			if len(tokens) != 3 || !opensBlock(tokens) {
				return p.errorf("expected %s <count> {", chunkMaterial)
			}
			n, err := p.parseCount(tokens[1])
			if err != nil {
				return err
			}
			if err := p.parseMaterials(n); err != nil {
				return err
			}
		case chunkObject:
			if len(tokens) != 3 || !opensBlock(tokens) {
				return p.errorf("expected %s \"name\" {", chunkObject)
			}
			if err := p.parseObject(unquote(tokens[1])); err != nil {
				return err
			}
		default:
			if !opensBlock(tokens) {
				return p.errorf("unknown chunk %s", tokens[0])
			}
			if err := p.skipBlock(); err != nil {
				return err
			}
		}
	}
}

// skipBlock consumes lines up to the brace closing the block just opened.
func (p *parser) skipBlock() error {
	for depth := 1; depth > 0; {
		tokens, err := p.next()
		if err != nil {
			return err
		}
		switch {
		case isClose(tokens):
			depth--
		case opensBlock(tokens):
			depth++
		}
	}
	return nil
}

func (p *parser) parseCount(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, p.errorf("invalid count %s", tok)
	}
	return n, nil
}

func (p *parser) parseInt(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, p.errorf("invalid integer %s", tok)
	}
	return n, nil
}

func (p *parser) parseFloats(tokens []string, dst []float64) error {
	if len(tokens) != len(dst) {
		return p.errorf("expected %d numbers; got %d", len(dst), len(tokens))
	}
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return p.errorf("invalid number %s", tok)
		}
		dst[i] = v
	}
	return nil
}

// parseAttr validates the argument count of a known numeric attribute and
// returns its values.
func (p *parser) parseAttr(tokens []string, want int) ([]float64, error) {
	if len(tokens)-1 != want {
		return nil, p.errorf("expected %d arguments for %s; got %d", want, tokens[0], len(tokens)-1)
	}
	vals := make([]float64, want)
	if err := p.parseFloats(tokens[1:], vals); err != nil {
		return nil, err
	}
	return vals, nil
}

func (p *parser) parseScene() error {
	s := &p.doc.Scene
	for {
		tokens, err := p.next()
		if err != nil {
			return err
		}
		if isClose(tokens) {
			return nil
		}
		if opensBlock(tokens) {
			if err := p.skipBlock(); err != nil {
				return err
			}
			continue
		}

		want, known := sceneAttrs[tokens[0]]
		if !known {
			continue
		}
		vals, err := p.parseAttr(tokens, want)
		if err != nil {
			return err
		}
		switch tokens[0] {
		case "pos":
			copy(s.Pos[:], vals)
		case "lookat":
			copy(s.LookAt[:], vals)
		case "head":
			s.Head = vals[0]
		case "pich":
			s.Pich = vals[0]
		case "ortho":
			s.Ortho = int(vals[0])
		case "zoom2":
			s.Zoom2 = vals[0]
		case "amb":
			copy(s.Amb[:], vals)
		}
	}
}

func (p *parser) parseMaterials(n int) error {
	for {
		tokens, err := p.next()
		if err != nil {
			return err
		}
		if isClose(tokens) {
			if len(p.doc.Materials) != n {
				return p.errorf("expected %d materials; got %d", n, len(p.doc.Materials))
			}
			return nil
		}
		if len(p.doc.Materials) == n {
			return p.errorf("more than %d materials", n)
		}

		m, err := p.parseMaterial(tokens)
		if err != nil {
			return err
		}
		p.doc.Materials = append(p.doc.Materials, m)
	}
}

// parseMaterial parses `"name" key(args)...`. Unknown groups are ignored.
func (p *parser) parseMaterial(tokens []string) (Material, error) {
	m := Material{Name: unquote(tokens[0])}
	for _, tok := range tokens[1:] {
		key, args, ok := splitGroup(tok)
		if !ok {
			return m, p.errorf("malformed material parameter %s", tok)
		}

		var err error
		switch key {
		case "col":
			err = p.parseFloats(args, m.Color[:])
		case "dif":
			m.Dif, err = p.parseScalar(args)
		case "amb":
			m.Amb, err = p.parseScalar(args)
		case "emi":
			m.Emi, err = p.parseScalar(args)
		case "spc":
			m.Spc, err = p.parseScalar(args)
		case "power":
			m.Power, err = p.parseScalar(args)
		case "tex":
			if len(args) != 1 {
				return m, p.errorf("expected 1 argument for tex; got %d", len(args))
			}
			m.Tex = unquote(args[0])
		}
		if err != nil {
			return m, err
		}
	}
	return m, nil
}

func (p *parser) parseScalar(tokens []string) (float64, error) {
	var v [1]float64
	err := p.parseFloats(tokens, v[:])
	return v[0], err
}

func (p *parser) parseObject(name string) error {
	o := Object{Name: name}
	for {
		tokens, err := p.next()
		if err != nil {
			return err
		}
		if isClose(tokens) {
			p.doc.Objects = append(p.doc.Objects, o)
			return nil
		}

		switch tokens[0] {
		case "vertex":
			n, err := p.openCounted(tokens)
			if err != nil {
				return err
			}
			if o.Vertices, err = p.parseVertices(n); err != nil {
				return err
			}
			continue
		case "face":
			n, err := p.openCounted(tokens)
			if err != nil {
				return err
			}
			if o.Faces, err = p.parseFaces(n, len(o.Vertices)); err != nil {
				return err
			}
			continue
		case "vertexattr":
			if len(tokens) != 2 || !opensBlock(tokens) {
				return p.errorf("expected vertexattr {")
			}
			if o.VertexUIDs, err = p.parseVertexAttr(); err != nil {
				return err
			}
			continue
		}

		if opensBlock(tokens) {
			if err := p.skipBlock(); err != nil {
				return err
			}
			continue
		}

		want, known := objectAttrs[tokens[0]]
		if !known {
			continue
		}
		vals, err := p.parseAttr(tokens, want)
		if err != nil {
			return err
		}
		switch tokens[0] {
		case "uid":
			o.UID = int(vals[0])
		case "visible":
			o.Visible = int(vals[0])
		case "locking":
			o.Locking = int(vals[0])
		case "shading":
			o.Shading = int(vals[0])
		case "facet":
			o.Facet = vals[0]
		case "color":
			copy(o.Color[:], vals)
		case "color_type":
			o.ColorType = int(vals[0])
		}
	}
}

// openCounted checks a `key <count> {` line and returns the count.
func (p *parser) openCounted(tokens []string) (int, error) {
	if len(tokens) != 3 || !opensBlock(tokens) {
		return 0, p.errorf("expected %s <count> {", tokens[0])
	}
	return p.parseCount(tokens[1])
}

// closeCounted reads the line after n entries, which must close the block.
func (p *parser) closeCounted(what string, n int) error {
	tokens, err := p.next()
	if err != nil {
		return err
	}
	if !isClose(tokens) {
		return p.errorf("expected %s block of %d entries to end", what, n)
	}
	return nil
}

func (p *parser) parseVertices(n int) ([]mgl32.Vec3, error) {
	verts := make([]mgl32.Vec3, 0, n)
	for len(verts) < n {
		tokens, err := p.next()
		if err != nil {
			return nil, err
		}
		if isClose(tokens) {
			return nil, p.errorf("expected %d vertices; got %d", n, len(verts))
		}
		var v [3]float64
		if err := p.parseFloats(tokens, v[:]); err != nil {
			return nil, err
		}
		verts = append(verts, mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])})
	}
	return verts, p.closeCounted("vertex", n)
}

func (p *parser) parseFaces(n, nverts int) ([]Face, error) {
	faces := make([]Face, 0, n)
	for len(faces) < n {
		tokens, err := p.next()
		if err != nil {
			return nil, err
		}
		if isClose(tokens) {
			return nil, p.errorf("expected %d faces; got %d", n, len(faces))
		}
		f, err := p.parseFace(tokens, nverts)
		if err != nil {
			return nil, err
		}
		faces = append(faces, f)
	}
	return faces, p.closeCounted("face", n)
}

// parseFace parses `N V(...) [M(m)] [UV(...)]`. Other groups are ignored.
func (p *parser) parseFace(tokens []string, nverts int) (Face, error) {
	f := Face{Material: -1}

	n, err := p.parseInt(tokens[0])
	if err != nil {
		return f, err
	}
	if n != 3 && n != 4 {
		return f, p.errorf("unsupported face with %d vertices", n)
	}

	for _, tok := range tokens[1:] {
		key, args, ok := splitGroup(tok)
		if !ok {
			return f, p.errorf("malformed face group %s", tok)
		}

		switch key {
		case "V":
			if len(args) != n {
				return f, p.errorf("expected %d vertex indices; got %d", n, len(args))
			}
			f.V = make([]int, n)
			for i, a := range args {
				if f.V[i], err = p.parseInt(a); err != nil {
					return f, err
				}
				if f.V[i] < 0 || f.V[i] >= nverts {
					return f, p.errorf("vertex index %d out of range 0..%d", f.V[i], nverts-1)
				}
			}
		case "M":
			if len(args) != 1 {
				return f, p.errorf("expected 1 material index; got %d", len(args))
			}
			if f.Material, err = p.parseInt(args[0]); err != nil {
				return f, err
			}
		case "UV":
			vals := make([]float64, 2*n)
			if err := p.parseFloats(args, vals); err != nil {
				return f, err
			}
			f.UV = make([]mgl32.Vec2, n)
			for i := range f.UV {
				f.UV[i] = mgl32.Vec2{float32(vals[2*i]), float32(vals[2*i+1])}
			}
		}
	}

	if f.V == nil {
		return f, p.errorf("face without V group")
	}
	return f, nil
}

// parseVertexAttr reads a vertexattr block, returning the uid list when one
// is present. Other attribute blocks are skipped.
func (p *parser) parseVertexAttr() ([]int, error) {
	var uids []int
	for {
		tokens, err := p.next()
		if err != nil {
			return nil, err
		}
		if isClose(tokens) {
			return uids, nil
		}
		if !opensBlock(tokens) {
			return nil, p.errorf("expected an attribute block")
		}
		if tokens[0] != "uid" {
			if err := p.skipBlock(); err != nil {
				return nil, err
			}
			continue
		}

		for {
			tokens, err := p.next()
			if err != nil {
				return nil, err
			}
			if isClose(tokens) {
				break
			}
			if len(tokens) != 1 {
				return nil, p.errorf("expected 1 uid; got %d", len(tokens))
			}
			uid, err := p.parseInt(tokens[0])
			if err != nil {
				return nil, err
			}
			uids = append(uids, uid)
		}
	}
}
