package mqo

// Header lines every document starts with.
const (
	HeaderTitle   = "Metasequoia Document"
	HeaderFormat  = "Format Text Ver"
	WriteVersion  = "1.0"
	chunkScene    = "Scene"
	chunkMaterial = "Material"
	chunkObject   = "Object"
	chunkInclude  = "IncludeXml"
	chunkEOF      = "Eof"
	blockOpen     = "{"
	blockClose    = "}"
)

// Versions lists the format versions Read accepts.
var Versions = map[string]bool{
	"1.0": true,
	"1.1": true,
}

// Argument counts of the numeric attributes inside Scene and Object blocks.
var (
	sceneAttrs = map[string]int{
		"pos":    3,
		"lookat": 3,
		"head":   1,
		"pich":   1,
		"ortho":  1,
		"zoom2":  1,
		"amb":    3,
	}
	objectAttrs = map[string]int{
		"uid":        1,
		"visible":    1,
		"locking":    1,
		"shading":    1,
		"facet":      1,
		"color":      3,
		"color_type": 1,
	}
)

// DefaultScene returns the camera framing written for converted models.
func DefaultScene() Scene {
	return Scene{
		Pos:    [3]float64{-7.0446, 4.1793, 1541.1764},
		LookAt: [3]float64{11.8726, 193.8590, 0.4676},
		Head:   0.8564,
		Pich:   0.1708,
		Ortho:  0,
		Zoom2:  31.8925,
		Amb:    [3]float64{0.25, 0.25, 0.25},
	}
}

// NewMaterial returns a material with the default shading parameters. tex
// may be empty.
func NewMaterial(name, tex string) Material {
	return Material{
		Name:  name,
		Color: [4]float64{1, 1, 1, 1},
		Dif:   0.8,
		Amb:   0.6,
		Emi:   0,
		Spc:   0,
		Power: 5,
		Tex:   tex,
	}
}

// NewObject returns an empty object with the default display attributes.
func NewObject(name string) Object {
	return Object{
		Name:      name,
		Visible:   15,
		Locking:   0,
		Shading:   1,
		Facet:     59.5,
		Color:     [3]float64{0.898, 0.498, 0.698},
		ColorType: 0,
	}
}
