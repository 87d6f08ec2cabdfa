package model

// ComponentType tags the kind of a placed sub-component.  The set is closed;
// values outside it are rejected on write and ignored by the geometry mapping.
type ComponentType string

const (
	ComponentShelf       ComponentType = "shelf"
	ComponentDrawer      ComponentType = "drawer"
	ComponentRail        ComponentType = "rail"
	ComponentDoor        ComponentType = "door"
	ComponentDivider     ComponentType = "divider"
	ComponentShoeRack    ComponentType = "shoe_rack"
	ComponentTrouserRack ComponentType = "trouser_rack"
	ComponentTieRack     ComponentType = "tie_rack"
	ComponentMirror      ComponentType = "mirror"
	ComponentLighting    ComponentType = "lighting"
	ComponentJewelryTray ComponentType = "jewelry_tray"
	ComponentPullOut     ComponentType = "pull_out"
)

// ComponentTypes lists the closed set in display order.
var ComponentTypes = []ComponentType{
	ComponentShelf,
	ComponentDrawer,
	ComponentRail,
	ComponentDoor,
	ComponentDivider,
	ComponentShoeRack,
	ComponentTrouserRack,
	ComponentTieRack,
	ComponentMirror,
	ComponentLighting,
	ComponentJewelryTray,
	ComponentPullOut,
}

var componentLabels = map[ComponentType]string{
	ComponentShelf:       "Shelf",
	ComponentDrawer:      "Drawer",
	ComponentRail:        "Hanging Rail",
	ComponentDoor:        "Door",
	ComponentDivider:     "Divider",
	ComponentShoeRack:    "Shoe Rack",
	ComponentTrouserRack: "Trouser Rack",
	ComponentTieRack:     "Tie Rack",
	ComponentMirror:      "Mirror",
	ComponentLighting:    "Lighting",
	ComponentJewelryTray: "Jewelry Tray",
	ComponentPullOut:     "Pull-out Basket",
}

// Valid reports whether t is one of the twelve known component types.
func (t ComponentType) Valid() bool {
	_, ok := componentLabels[t]
	return ok
}

// Label returns the display name of the type, or the raw tag if unknown.
func (t ComponentType) Label() string {
	if l, ok := componentLabels[t]; ok {
		return l
	}
	return string(t)
}

// Vec3 is a point or an Euler rotation (degrees) in wardrobe space.  The
// origin is the center of the footprint at floor level.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Component is one placed sub-element of a configuration.
//
// Fields:
//
//	ID         – unique within the configuration, generated on creation.
//	Type       – closed enumeration tag.
//	Position   – placement relative to the configuration origin.
//	Dimensions – the component's own size.
//	Material   – catalog id; not validated until price/geometry time.
//	Rotation   – optional rotation in degrees; nil means no rotation.
type Component struct {
	ID         string        `json:"id"`
	Type       ComponentType `json:"type"`
	Position   Vec3          `json:"position"`
	Dimensions Dimensions    `json:"dimensions"`
	Material   string        `json:"material"`
	Rotation   *Vec3         `json:"rotation,omitempty"`
}

// Clone returns a copy of c that does not share the rotation pointer.
func (c Component) Clone() Component {
	if c.Rotation != nil {
		r := *c.Rotation
		c.Rotation = &r
	}
	return c
}

// RotationOrZero returns the rotation, treating absence as zero.
func (c Component) RotationOrZero() Vec3 {
	if c.Rotation == nil {
		return Vec3{}
	}
	return *c.Rotation
}

// ComponentSpec is a component without an id, as passed to AddComponent.
type ComponentSpec struct {
	Type       ComponentType `json:"type"`
	Position   Vec3          `json:"position"`
	Dimensions Dimensions    `json:"dimensions"`
	Material   string        `json:"material"`
	Rotation   *Vec3         `json:"rotation,omitempty"`
}

// WithID turns the spec into a component carrying id.
func (s ComponentSpec) WithID(id string) Component {
	c := Component{
		ID:         id,
		Type:       s.Type,
		Position:   s.Position,
		Dimensions: s.Dimensions,
		Material:   s.Material,
		Rotation:   s.Rotation,
	}
	return c.Clone()
}

// Spec strips the id from c.
func (c Component) Spec() ComponentSpec {
	c = c.Clone()
	return ComponentSpec{
		Type:       c.Type,
		Position:   c.Position,
		Dimensions: c.Dimensions,
		Material:   c.Material,
		Rotation:   c.Rotation,
	}
}

// ComponentPatch is a partial update of an existing component.  Only the
// fields that are non-nil are merged; id and type never change.
type ComponentPatch struct {
	Position   *Vec3       `json:"position,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
	Rotation   *Vec3       `json:"rotation,omitempty"`
	Material   *string     `json:"material,omitempty"`
}

// Merge applies p onto c and returns the result.
func (p ComponentPatch) Merge(c Component) Component {
	c = c.Clone()
	if p.Position != nil {
		c.Position = *p.Position
	}
	if p.Dimensions != nil {
		c.Dimensions = *p.Dimensions
	}
	if p.Rotation != nil {
		r := *p.Rotation
		c.Rotation = &r
	}
	if p.Material != nil {
		c.Material = *p.Material
	}
	return c
}
