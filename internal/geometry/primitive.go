// Package geometry maps a configuration to positioned solid primitives and
// point lights for a renderer.  The mapping is pure: it reads a snapshot and
// returns descriptors, never touching the store.
package geometry

import "github.com/iliyamo/wardrobe-designer/internal/model"

// Kind is the shape of a primitive.
type Kind string

const (
	KindBox      Kind = "box"
	KindCylinder Kind = "cylinder"
)

// Axis is the direction a cylinder's length runs along.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// Finish describes surface response, mirroring a PBR material.
type Finish struct {
	Roughness float64 `json:"roughness"`
	Metalness float64 `json:"metalness"`
	Emissive  bool    `json:"emissive,omitempty"`
}

var (
	woodFinish   = Finish{Roughness: 0.5, Metalness: 0.1}
	metalFinish  = Finish{Roughness: 0.5, Metalness: 0.8}
	mirrorFinish = Finish{Roughness: 0.1, Metalness: 0.9}
	frameFinish  = Finish{Roughness: 0.5, Metalness: 0.5}
	glowFinish   = Finish{Emissive: true}
)

// Fixed looks for hardware-like parts.
var (
	metalColor       = model.RGB{R: 0xc0, G: 0xc0, B: 0xc0}
	mirrorColor      = model.RGB{R: 0xe0, G: 0xe0, B: 0xe0}
	mirrorFrameColor = model.RGB{R: 0xa0, G: 0xa0, B: 0xa0}
	glowColor        = model.RGB{R: 0xff, G: 0xff, B: 0xff}
)

// Primitive is one solid to draw.
//
// Position is the world position of the primitive center before the owning
// component's rotation is applied; Offset is the same point relative to the
// component position (Pivot).  Rotation, in degrees, turns the whole
// component around Pivot.  Boxes use Size; cylinders use Radius, Length,
// Segments and Axis.
type Primitive struct {
	Kind          Kind                `json:"kind"`
	Part          string              `json:"part"`
	ComponentID   string              `json:"component_id,omitempty"`
	ComponentType model.ComponentType `json:"component_type,omitempty"`
	Position      model.Vec3          `json:"position"`
	Offset        model.Vec3          `json:"offset"`
	Pivot         model.Vec3          `json:"pivot"`
	Rotation      model.Vec3          `json:"rotation"`
	Size          model.Vec3          `json:"size"`
	Radius        float64             `json:"radius,omitempty"`
	Length        float64             `json:"length,omitempty"`
	Segments      int                 `json:"segments,omitempty"`
	Axis          Axis                `json:"axis,omitempty"`
	Color         model.RGB           `json:"color"`
	Hex           string              `json:"hex"`
	Finish        Finish              `json:"finish"`
}

// PointLight is an auxiliary light emitted by lighting components.  Like a
// Primitive it carries its Offset from the component Pivot and the
// component Rotation, so it turns together with the fixture.
type PointLight struct {
	ComponentID string     `json:"component_id"`
	Position    model.Vec3 `json:"position"`
	Offset      model.Vec3 `json:"offset"`
	Pivot       model.Vec3 `json:"pivot"`
	Rotation    model.Vec3 `json:"rotation"`
	Intensity   float64    `json:"intensity"`
	Color       model.RGB  `json:"color"`
}

// Scene is the full derivation result for one configuration.
type Scene struct {
	Primitives []Primitive  `json:"primitives"`
	Lights     []PointLight `json:"lights"`
}

// part accumulates the primitives of one component, keeping pivot and
// rotation consistent across them.
type part struct {
	comp  model.Component
	items []Primitive
}

func (p *part) box(name string, offset, size model.Vec3, color model.RGB, f Finish) {
	p.items = append(p.items, p.base(KindBox, name, offset, color, f, func(pr *Primitive) {
		pr.Size = size
	}))
}

func (p *part) cylinder(name string, offset model.Vec3, radius, length float64, segments int, axis Axis, color model.RGB, f Finish) {
	p.items = append(p.items, p.base(KindCylinder, name, offset, color, f, func(pr *Primitive) {
		pr.Radius = radius
		pr.Length = length
		pr.Segments = segments
		pr.Axis = axis
	}))
}

func (p *part) base(k Kind, name string, offset model.Vec3, color model.RGB, f Finish, shape func(*Primitive)) Primitive {
	pr := Primitive{
		Kind:          k,
		Part:          string(p.comp.Type) + "." + name,
		ComponentID:   p.comp.ID,
		ComponentType: p.comp.Type,
		Position:      p.comp.Position.Add(offset),
		Offset:        offset,
		Pivot:         p.comp.Position,
		Rotation:      p.comp.RotationOrZero(),
		Color:         color,
		Hex:           color.Hex(),
		Finish:        f,
	}
	shape(&pr)
	return pr
}
