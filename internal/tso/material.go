package tso

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Parameter is one `type name = value` line of a material block.
type Parameter struct {
	Type  string
	Name  string
	Value string
}

func (p Parameter) String() string {
	return p.Type + " " + p.Name + " = " + p.Value
}

// MaterialCode is the parsed parameter table of a material block, in line
// order. A repeated name keeps its first definition.
type MaterialCode struct {
	Params []Parameter
	index  map[string]int
}

// ParseMaterialCode splits each line at the first space (type) and the first
// '=' after it (name/value). Lines without both separators are skipped.
func ParseMaterialCode(code string) MaterialCode {
	mc := MaterialCode{index: make(map[string]int)}
	for _, line := range strings.FieldsFunc(code, func(r rune) bool { return r == '\r' || r == '\n' }) {
		n1 := strings.IndexByte(line, ' ')
		if n1 < 0 {
			continue
		}
		n2 := strings.IndexByte(line[n1+1:], '=')
		if n2 < 0 {
			continue
		}
		n2 += n1 + 1

		p := Parameter{
			Type:  strings.TrimSpace(line[:n1]),
			Name:  strings.TrimSpace(line[n1:n2]),
			Value: strings.TrimSpace(line[n2+1:]),
		}
		if _, ok := mc.index[p.Name]; ok {
			continue
		}
		mc.index[p.Name] = len(mc.Params)
		mc.Params = append(mc.Params, p)
	}
	return mc
}

// Get returns the parameter registered under name.
func (mc MaterialCode) Get(name string) (Parameter, bool) {
	i, ok := mc.index[name]
	if !ok {
		return Parameter{}, false
	}
	return mc.Params[i], true
}

// Material is a named shader parameter block. Known parameters are decoded
// into typed fields; the rest are listed in Unknown.
type Material struct {
	ID   int
	Name string
	File string
	Code string

	Params  MaterialCode
	Unknown []Parameter

	Description    string
	Shader         string
	Technique      string
	LightDirX      float32
	LightDirY      float32
	LightDirZ      float32
	LightDirW      float32
	ShadowColor    mgl32.Vec4
	ShadeTex       string
	HighLight      float32
	ColorBlend     float32
	HighLightBlend float32
	PenColor       mgl32.Vec4
	Ambient        float32
	ColorTex       string
	Thickness      float32
	ShadeBlend     float32
	HighLightPower float32
}

// ParseParameters parses Code into Params and the typed fields.
func (m *Material) ParseParameters() error {
	m.Params = ParseMaterialCode(m.Code)
	m.Unknown = m.Unknown[:0]
	for _, p := range m.Params.Params {
		known, err := m.setValue(p.Name, p.Value)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		if !known {
			m.Unknown = append(m.Unknown, p)
		}
	}
	return nil
}

func (m *Material) setValue(name, value string) (bool, error) {
	var err error
	switch name {
	case "description":
		m.Description = parseString(value)
	case "shader":
		m.Shader = parseString(value)
	case "technique":
		m.Technique = parseString(value)
	case "LightDirX":
		m.LightDirX, err = parseFloat(value)
	case "LightDirY":
		m.LightDirY, err = parseFloat(value)
	case "LightDirZ":
		m.LightDirZ, err = parseFloat(value)
	case "LightDirW":
		m.LightDirW, err = parseFloat(value)
	case "ShadowColor":
		m.ShadowColor, err = parseColor(value)
	case "ShadeTex":
		m.ShadeTex = value
	case "HighLight":
		m.HighLight, err = parseFloat(value)
	case "ColorBlend":
		m.ColorBlend, err = parseFloat(value)
	case "HighLightBlend":
		m.HighLightBlend, err = parseFloat(value)
	case "PenColor":
		m.PenColor, err = parseColor(value)
	case "Ambient":
		m.Ambient, err = parseFloat(value)
	case "ColorTex":
		m.ColorTex = value
	case "Thickness":
		m.Thickness, err = parseFloat(value)
	case "ShadeBlend":
		m.ShadeBlend, err = parseFloat(value)
	case "HighLightPower":
		m.HighLightPower, err = parseFloat(value)
	default:
		return false, nil
	}
	return true, err
}

func parseString(value string) string {
	return strings.Trim(value, `"`)
}

func parseFloat(value string) (float32, error) {
	v, err := strconv.ParseFloat(strings.Trim(value, "[] "), 32)
	return float32(v), err
}

// parseColor parses "[r, g, b, a]".
func parseColor(value string) (mgl32.Vec4, error) {
	tokens := strings.Split(strings.Trim(value, "[] "), ",")
	if len(tokens) != 4 {
		return mgl32.Vec4{}, fmt.Errorf("expected 4 components; got %d", len(tokens))
	}
	var c mgl32.Vec4
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 32)
		if err != nil {
			return mgl32.Vec4{}, err
		}
		c[i] = float32(v)
	}
	return c, nil
}
