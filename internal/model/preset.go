package model

// Preset returns a ready-to-add component of type t sized from the overall
// wardrobe dimensions d and colored from the role materials m.  It is what
// the "add component" panel inserts when the caller only names a type, and
// what document loading falls back to when a component entry lacks fields.
// Unknown types yield ok == false.
func Preset(t ComponentType, d Dimensions, m Materials) (ComponentSpec, bool) {
	w, h, dp := d.Width, d.Height, d.Depth
	spec := ComponentSpec{Type: t}
	switch t {
	case ComponentShelf:
		spec.Position = Vec3{Y: h / 2}
		spec.Dimensions = Dimensions{Width: w - 10, Height: 2, Depth: dp - 10}
		spec.Material = m.Body
	case ComponentDrawer:
		spec.Position = Vec3{Y: h / 3, Z: dp/2 - 5}
		spec.Dimensions = Dimensions{Width: w - 10, Height: 20, Depth: dp - 10}
		spec.Material = m.Doors
	case ComponentRail:
		spec.Position = Vec3{Y: h - 30}
		spec.Dimensions = Dimensions{Width: w - 10, Height: 2, Depth: 2}
		spec.Material = m.Handles
	case ComponentDoor:
		spec.Position = Vec3{Y: h / 2, Z: dp / 2}
		spec.Dimensions = Dimensions{Width: w/2 - 5, Height: h - 4, Depth: 2}
		spec.Material = m.Doors
	case ComponentDivider:
		spec.Position = Vec3{Y: h / 2}
		spec.Dimensions = Dimensions{Width: 2, Height: h - 4, Depth: dp - 10}
		spec.Material = m.Body
	case ComponentShoeRack:
		spec.Position = Vec3{Y: 20}
		spec.Dimensions = Dimensions{Width: w - 10, Height: 30, Depth: dp - 10}
		spec.Material = m.Body
	case ComponentTrouserRack:
		spec.Position = Vec3{Y: h - 60}
		spec.Dimensions = Dimensions{Width: w/2 - 10, Height: 3, Depth: dp - 10}
		spec.Material = m.Handles
	case ComponentTieRack:
		spec.Position = Vec3{Y: h - 80, Z: -dp/2 + 5}
		spec.Dimensions = Dimensions{Width: w / 4, Height: 2, Depth: 2}
		spec.Material = m.Handles
	case ComponentMirror:
		spec.Position = Vec3{Y: h / 2, Z: dp/2 + 1}
		spec.Dimensions = Dimensions{Width: 60, Height: 120, Depth: 2}
		spec.Material = m.Handles
	case ComponentLighting:
		spec.Position = Vec3{Y: h - 5}
		spec.Dimensions = Dimensions{Width: w - 20, Height: 5, Depth: dp - 20}
		spec.Material = m.Handles
	case ComponentJewelryTray:
		spec.Position = Vec3{Y: h/3 + 25}
		spec.Dimensions = Dimensions{Width: w/2 - 10, Height: 10, Depth: dp - 10}
		spec.Material = m.Body
	case ComponentPullOut:
		spec.Position = Vec3{Y: 30}
		spec.Dimensions = Dimensions{Width: w - 20, Height: 20, Depth: dp - 10}
		spec.Material = m.Body
	default:
		return ComponentSpec{}, false
	}
	return spec, true
}
