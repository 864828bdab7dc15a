// Package mqx reads and writes the bone sidecar consumed by the target
// modeler's skeleton plugin.
package mqx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"tso2mqo/internal/skeleton"
)

// PluginElement is the element name of the bone plugin data block.
const PluginElement = "Plugin.56A31D20.71F282AB"

// Document is the sidecar root.
type Document struct {
	XMLName    xml.Name `xml:"MetasequoiaDocument"`
	IncludedBy string   `xml:"IncludedBy"`
	Plugin     Plugin   `xml:"Plugin.56A31D20.71F282AB"`
}

// Plugin holds the bone set and one placeholder per target object.
type Plugin struct {
	Name    string `xml:"name,attr"`
	Bones   []Bone `xml:"BoneSet>Bone"`
	Objects []Obj  `xml:"Obj"`
}

// Obj is an object placeholder; ID is the object's 1-based uid.
type Obj struct {
	ID int `xml:"id,attr"`
}

// Ref points at another bone by id. ID 0 means none.
type Ref struct {
	ID int `xml:"id,attr"`
}

// Weight assigns Percent of vertex Vertex in object Object to a bone.
type Weight struct {
	Object  int   `xml:"oi,attr"`
	Vertex  int   `xml:"vi,attr"`
	Percent Float `xml:"w,attr"`
}

// Bone is one joint. Rotation, movement, scale and joint limits are written
// with their neutral values.
type Bone struct {
	ID      int    `xml:"id,attr"`
	RtX     Float  `xml:"rtX,attr"`
	RtY     Float  `xml:"rtY,attr"`
	RtZ     Float  `xml:"rtZ,attr"`
	TpX     Float  `xml:"tpX,attr"`
	TpY     Float  `xml:"tpY,attr"`
	TpZ     Float  `xml:"tpZ,attr"`
	RotB    string `xml:"rotB,attr"`
	RotH    string `xml:"rotH,attr"`
	RotP    string `xml:"rotP,attr"`
	MvX     string `xml:"mvX,attr"`
	MvY     string `xml:"mvY,attr"`
	MvZ     string `xml:"mvZ,attr"`
	Sc      string `xml:"sc,attr"`
	MaxAngB string `xml:"maxAngB,attr"`
	MaxAngH string `xml:"maxAngH,attr"`
	MaxAngP string `xml:"maxAngP,attr"`
	MinAngB string `xml:"minAngB,attr"`
	MinAngH string `xml:"minAngH,attr"`
	MinAngP string `xml:"minAngP,attr"`
	IsDummy int    `xml:"isDummy,attr"`
	Name    string `xml:"name,attr"`

	Parent   Ref      `xml:"P"`
	Children []Ref    `xml:"C"`
	Weights  []Weight `xml:"W"`
}

// Float is a float32 attribute written in its shortest round-trip form.
type Float float32

func (f Float) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	return xml.Attr{Name: name, Value: strconv.FormatFloat(float64(f), 'g', -1, 32)}, nil
}

func (f *Float) UnmarshalXMLAttr(attr xml.Attr) error {
	v, err := strconv.ParseFloat(attr.Value, 32)
	if err != nil {
		return fmt.Errorf("mqx: attribute %s: %w", attr.Name.Local, err)
	}
	*f = Float(v)
	return nil
}

// New builds the sidecar for sk. includedBy is the target file name and
// objects the number of objects written to it.
func New(sk *skeleton.Skeleton, includedBy string, objects int) *Document {
	doc := &Document{
		IncludedBy: includedBy,
		Plugin: Plugin{
			Name:    "Bone",
			Bones:   make([]Bone, 0, len(sk.Bones)),
			Objects: make([]Obj, objects),
		},
	}
	for i := range doc.Plugin.Objects {
		doc.Plugin.Objects[i].ID = i + 1
	}

	for _, sb := range sk.Bones {
		b := Bone{
			ID:      sb.ID,
			RtX:     Float(sb.Root[0]),
			RtY:     Float(sb.Root[1]),
			RtZ:     Float(sb.Root[2]),
			TpX:     Float(sb.Tip[0]),
			TpY:     Float(sb.Tip[1]),
			TpZ:     Float(sb.Tip[2]),
			RotB:    "0.0",
			RotH:    "0.0",
			RotP:    "0.0",
			MvX:     "0.0",
			MvY:     "0.0",
			MvZ:     "0.0",
			Sc:      "1.0",
			MaxAngB: "90.0",
			MaxAngH: "180.0",
			MaxAngP: "180.0",
			MinAngB: "-90.0",
			MinAngH: "-180.0",
			MinAngP: "-180.0",
			Name:    sb.Name,
			Parent:  Ref{ID: sb.ParentID},
		}
		if sb.Tail {
			b.IsDummy = 1
		}
		for _, c := range sb.ChildIDs {
			b.Children = append(b.Children, Ref{ID: c})
		}
		for _, a := range sb.Weights {
			b.Weights = append(b.Weights, Weight{Object: a.Object, Vertex: a.Vertex, Percent: Float(a.Percent)})
		}
		doc.Plugin.Bones = append(doc.Plugin.Bones, b)
	}
	return doc
}

// Write encodes doc with an XML declaration and four-space indentation.
func Write(w io.Writer, doc *Document) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("mqx: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Read decodes a sidecar.
func Read(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("mqx: decode: %w", err)
	}
	return &doc, nil
}
