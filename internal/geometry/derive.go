package geometry

import (
	"github.com/iliyamo/wardrobe-designer/internal/catalog"
	"github.com/iliyamo/wardrobe-designer/internal/model"
)

// panelThickness is the thickness of every frame panel and door leaf.
const panelThickness = 2

// lightOffset places a lighting component's point light just below it.
var lightOffset = model.Vec3{Y: -5}

// Derive builds the scene for cfg: the five frame panels followed by the
// primitives of every component in collection order.  Components of unknown
// type contribute nothing.
func Derive(cfg model.Configuration, cat *catalog.Catalog) Scene {
	scene := Scene{
		Primitives: Frame(cfg.Dimensions, cfg.Materials, cat),
		Lights:     []PointLight{},
	}
	for _, c := range cfg.Components {
		prims, lights := Component(c, cfg.Materials, cat)
		scene.Primitives = append(scene.Primitives, prims...)
		scene.Lights = append(scene.Lights, lights...)
	}
	return scene
}

// Frame returns the back, left, right, top and bottom panels of a wardrobe
// with dimensions d, colored with the body material.
func Frame(d model.Dimensions, m model.Materials, cat *catalog.Catalog) []Primitive {
	color := cat.ColorOf(m.Body, catalog.White)
	w, h, dp := d.Width, d.Height, d.Depth
	panel := func(name string, pos, size model.Vec3) Primitive {
		return Primitive{
			Kind:     KindBox,
			Part:     "frame." + name,
			Position: pos,
			Offset:   pos,
			Size:     size,
			Color:    color,
			Hex:      color.Hex(),
			Finish:   woodFinish,
		}
	}
	return []Primitive{
		panel("back", model.Vec3{Y: h / 2, Z: -dp / 2}, model.Vec3{X: w, Y: h, Z: panelThickness}),
		panel("left", model.Vec3{X: -w / 2, Y: h / 2}, model.Vec3{X: panelThickness, Y: h, Z: dp}),
		panel("right", model.Vec3{X: w / 2, Y: h / 2}, model.Vec3{X: panelThickness, Y: h, Z: dp}),
		panel("top", model.Vec3{Y: h}, model.Vec3{X: w, Y: panelThickness, Z: dp}),
		panel("bottom", model.Vec3{}, model.Vec3{X: w, Y: panelThickness, Z: dp}),
	}
}

// Component maps one component to its primitives and lights.  Door
// components take their colors from the configuration's doors and handles
// roles instead of their own material; rails, mirrors and lighting use fixed
// hardware looks.  Every other type uses the component's own material.
func Component(c model.Component, m model.Materials, cat *catalog.Catalog) ([]Primitive, []PointLight) {
	p := &part{comp: c}
	w, h, d := c.Dimensions.Width, c.Dimensions.Height, c.Dimensions.Depth
	own := cat.ColorOf(c.Material, catalog.White)
	var lights []PointLight

	switch c.Type {
	case model.ComponentShelf, model.ComponentDivider:
		p.box("body", model.Vec3{}, model.Vec3{X: w, Y: h, Z: d}, own, woodFinish)

	case model.ComponentDrawer:
		p.box("front", model.Vec3{Z: d / 2}, model.Vec3{X: w, Y: h, Z: panelThickness}, own, woodFinish)
		p.box("body", model.Vec3{Y: -h / 4}, model.Vec3{X: w - 4, Y: h / 2, Z: d - 4}, own, woodFinish)
		p.box("handle", model.Vec3{Z: d/2 + 2}, model.Vec3{X: w / 4, Y: 2, Z: 1}, metalColor, metalFinish)

	case model.ComponentRail:
		// laid along the width as a hanging rod
		p.cylinder("bar", model.Vec3{}, 1, w, 16, AxisX, metalColor, metalFinish)

	case model.ComponentDoor:
		leaf := cat.ColorOf(m.Doors, catalog.Oak)
		knob := cat.ColorOf(m.Handles, catalog.Chrome)
		p.box("panel", model.Vec3{}, model.Vec3{X: w, Y: h, Z: panelThickness}, leaf, woodFinish)
		p.cylinder("handle", model.Vec3{X: w / 3, Z: 2}, 1, 10, 16, AxisY, knob, metalFinish)

	case model.ComponentShoeRack:
		p.box("base", model.Vec3{}, model.Vec3{X: w, Y: h, Z: d}, own, woodFinish)
		for _, x := range []float64{-w / 3, 0, w / 3} {
			p.box("divider", model.Vec3{X: x, Y: h / 2}, model.Vec3{X: 1, Y: h, Z: d}, own, woodFinish)
		}

	case model.ComponentTrouserRack:
		col := cat.ColorOf(c.Material, catalog.Chrome)
		p.box("bar", model.Vec3{}, model.Vec3{X: w, Y: h, Z: d / 4}, col, metalFinish)
		for i := 0; i < 5; i++ {
			x := -w/2 + (w/5)*(float64(i)+0.5)
			p.box("hanger", model.Vec3{X: x, Y: -h * 2, Z: d / 3}, model.Vec3{X: w / 10, Y: h * 4, Z: d / 10}, col, metalFinish)
		}

	case model.ComponentTieRack:
		col := cat.ColorOf(c.Material, catalog.Chrome)
		p.box("bar", model.Vec3{}, model.Vec3{X: w, Y: h, Z: d}, col, metalFinish)
		for i := 0; i < 6; i++ {
			x := -w/2 + (w/6)*(float64(i)+0.5)
			p.cylinder("hook", model.Vec3{X: x, Y: -h * 1.5}, 0.5, h*2, 8, AxisY, col, metalFinish)
		}

	case model.ComponentMirror:
		p.box("surface", model.Vec3{}, model.Vec3{X: w, Y: h, Z: d / 2}, mirrorColor, mirrorFinish)
		p.box("frame", model.Vec3{Z: -d / 4}, model.Vec3{X: w + 4, Y: h + 4, Z: d / 2}, mirrorFrameColor, frameFinish)

	case model.ComponentLighting:
		p.box("fixture", model.Vec3{}, model.Vec3{X: w, Y: h, Z: d}, metalColor, metalFinish)
		p.box("glow", model.Vec3{Y: -h}, model.Vec3{X: w, Y: 0.5, Z: d}, glowColor, glowFinish)
		lights = append(lights, PointLight{
			ComponentID: c.ID,
			Position:    c.Position.Add(lightOffset),
			Offset:      lightOffset,
			Pivot:       c.Position,
			Rotation:    c.RotationOrZero(),
			Intensity:   0.5,
			Color:       glowColor,
		})

	case model.ComponentJewelryTray:
		p.box("base", model.Vec3{}, model.Vec3{X: w, Y: h / 2, Z: d}, own, woodFinish)
		for _, z := range []float64{0, -d / 3, d / 3} {
			p.box("divider", model.Vec3{Y: h / 2, Z: z}, model.Vec3{X: w, Y: h / 2, Z: 1}, own, woodFinish)
		}

	case model.ComponentPullOut:
		p.box("base", model.Vec3{}, model.Vec3{X: w, Y: h / 2, Z: d}, own, woodFinish)
		p.box("side", model.Vec3{Y: h / 2, Z: d / 2}, model.Vec3{X: w, Y: h / 2, Z: 1}, own, woodFinish)
		p.box("side", model.Vec3{Y: h / 2, Z: -d / 2}, model.Vec3{X: w, Y: h / 2, Z: 1}, own, woodFinish)
		p.box("side", model.Vec3{X: w / 2, Y: h / 2}, model.Vec3{X: 1, Y: h / 2, Z: d}, own, woodFinish)
		p.box("side", model.Vec3{X: -w / 2, Y: h / 2}, model.Vec3{X: 1, Y: h / 2, Z: d}, own, woodFinish)
		p.box("rail", model.Vec3{X: -w/2 - 1}, model.Vec3{X: 1, Y: 1, Z: d}, metalColor, metalFinish)
		p.box("rail", model.Vec3{X: w/2 + 1}, model.Vec3{X: 1, Y: 1, Z: d}, metalColor, metalFinish)

	default:
		return nil, nil
	}
	return p.items, lights
}
