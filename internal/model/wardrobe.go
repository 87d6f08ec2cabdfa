package model

// WardrobeType is the overall kind of wardrobe being designed.
type WardrobeType string

const (
	WardrobeStandard WardrobeType = "standard"
	WardrobeCorner   WardrobeType = "corner"
	WardrobeSliding  WardrobeType = "sliding"
	WardrobeWalkIn   WardrobeType = "walk-in"
)

// WardrobeTypes lists every wardrobe type in display order.
var WardrobeTypes = []WardrobeType{WardrobeStandard, WardrobeCorner, WardrobeSliding, WardrobeWalkIn}

// Valid reports whether t belongs to the closed set of wardrobe types.
func (t WardrobeType) Valid() bool {
	switch t {
	case WardrobeStandard, WardrobeCorner, WardrobeSliding, WardrobeWalkIn:
		return true
	}
	return false
}

// Dimensions is a width/height/depth triple in centimeters.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Volume returns width × height × depth.
func (d Dimensions) Volume() float64 {
	return d.Width * d.Height * d.Depth
}

// DimensionsPatch carries a partial dimension update.  Nil fields are left
// untouched when the patch is merged.
type DimensionsPatch struct {
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Depth  *float64 `json:"depth,omitempty"`
}

// Merge applies the non-nil fields of p onto d and returns the result.
func (p DimensionsPatch) Merge(d Dimensions) Dimensions {
	if p.Width != nil {
		d.Width = *p.Width
	}
	if p.Height != nil {
		d.Height = *p.Height
	}
	if p.Depth != nil {
		d.Depth = *p.Depth
	}
	return d
}

// Empty reports whether the patch carries no field at all.
func (p DimensionsPatch) Empty() bool {
	return p.Width == nil && p.Height == nil && p.Depth == nil
}

// FullPatch builds a patch that overwrites every field with d.
func FullPatch(d Dimensions) DimensionsPatch {
	return DimensionsPatch{Width: &d.Width, Height: &d.Height, Depth: &d.Depth}
}

var defaultDimensions = map[WardrobeType]Dimensions{
	WardrobeStandard: {Width: 200, Height: 220, Depth: 60},
	WardrobeCorner:   {Width: 200, Height: 220, Depth: 200},
	WardrobeSliding:  {Width: 250, Height: 240, Depth: 65},
	WardrobeWalkIn:   {Width: 300, Height: 240, Depth: 300},
}

// DefaultDimensions returns the canonical dimensions of a wardrobe type.
// Unknown types get the standard triple.
func DefaultDimensions(t WardrobeType) Dimensions {
	if d, ok := defaultDimensions[t]; ok {
		return d
	}
	return defaultDimensions[WardrobeStandard]
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp limits v to the interval.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// DimensionLimits are the ranges the editing UI accepts for the overall
// wardrobe.  The store never enforces them; they are offered to callers that
// want to clamp user input before issuing a mutation.
var DimensionLimits = struct {
	Width  Range `json:"width"`
	Height Range `json:"height"`
	Depth  Range `json:"depth"`
}{
	Width:  Range{Min: 50, Max: 400},
	Height: Range{Min: 100, Max: 300},
	Depth:  Range{Min: 30, Max: 300},
}

// ClampDimensions limits every field of d to DimensionLimits.
func ClampDimensions(d Dimensions) Dimensions {
	return Dimensions{
		Width:  DimensionLimits.Width.Clamp(d.Width),
		Height: DimensionLimits.Height.Clamp(d.Height),
		Depth:  DimensionLimits.Depth.Clamp(d.Depth),
	}
}

// Configuration is the complete design currently being edited.
//
// Fields:
//
//	ID         – session-stable identifier, regenerated only on reset.
//	Type       – wardrobe type; changing it resets Dimensions.
//	Dimensions – overall outer size.
//	Components – placed sub-components in insertion order, ids unique.
//	Materials  – role material assignments.
//	Price      – last computed price.  A cache only; recompute before trusting it.
type Configuration struct {
	ID         string       `json:"id"`
	Type       WardrobeType `json:"type"`
	Dimensions Dimensions   `json:"dimensions"`
	Components []Component  `json:"components"`
	Materials  Materials    `json:"materials"`
	Price      int          `json:"price"`
}

// NewConfiguration returns a default configuration with the given id.
func NewConfiguration(id string) Configuration {
	return Configuration{
		ID:         id,
		Type:       WardrobeStandard,
		Dimensions: DefaultDimensions(WardrobeStandard),
		Components: []Component{},
		Materials:  DefaultMaterials(),
	}
}

// Clone returns a deep copy of c.  The component slice and every rotation
// pointer are duplicated so the copy shares no mutable state with c.
func (c Configuration) Clone() Configuration {
	out := c
	out.Components = make([]Component, len(c.Components))
	for i, comp := range c.Components {
		out.Components[i] = comp.Clone()
	}
	return out
}

// FindComponent returns the component with the given id.
func (c Configuration) FindComponent(id string) (Component, bool) {
	for _, comp := range c.Components {
		if comp.ID == id {
			return comp, true
		}
	}
	return Component{}, false
}
