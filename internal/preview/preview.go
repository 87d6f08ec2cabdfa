// Package preview paints a flat front elevation of a derived scene and
// encodes it as WebP.  It is a thumbnail for listings and exports; the
// interactive 3D view is rendered elsewhere from the same scene.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sort"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/iliyamo/wardrobe-designer/internal/geometry"
)

// Options controls the output image.
type Options struct {
	Size        int     // output edge length in pixels
	Supersample int     // render scale before downsampling
	Margin      float64 // fraction of Size left empty around the drawing
	Background  color.NRGBA
}

// DefaultOptions returns a 512px square with 2× supersampling.
func DefaultOptions() Options {
	return Options{
		Size:        512,
		Supersample: 2,
		Margin:      0.06,
		Background:  color.NRGBA{R: 0xf4, G: 0xf4, B: 0xf2, A: 0xff},
	}
}

func (o Options) normalised() Options {
	def := DefaultOptions()
	if o.Size <= 0 {
		o.Size = def.Size
	}
	if o.Supersample <= 0 {
		o.Supersample = def.Supersample
	}
	if o.Margin < 0 || o.Margin >= 0.5 {
		o.Margin = def.Margin
	}
	if o.Background.A == 0 {
		o.Background = def.Background
	}
	return o
}

// rect is a primitive's footprint on the XY plane plus its front depth.
type rect struct {
	minX, minY, maxX, maxY float64
	front                  float64
	color                  color.NRGBA
}

// footprint projects p onto the XY plane.  Component rotation is not
// applied; the preview shows every part in its unrotated pose.
func footprint(p geometry.Primitive) rect {
	var hx, hy, hz float64
	switch p.Kind {
	case geometry.KindBox:
		hx, hy, hz = p.Size.X/2, p.Size.Y/2, p.Size.Z/2
	case geometry.KindCylinder:
		hx, hy, hz = p.Radius, p.Radius, p.Radius
		switch p.Axis {
		case geometry.AxisX:
			hx = p.Length / 2
		case geometry.AxisZ:
			hz = p.Length / 2
		default:
			hy = p.Length / 2
		}
	}
	hx, hy, hz = math.Abs(hx), math.Abs(hy), math.Abs(hz)
	c := color.NRGBA{R: p.Color.R, G: p.Color.G, B: p.Color.B, A: 0xff}
	return rect{
		minX:  p.Position.X - hx,
		maxX:  p.Position.X + hx,
		minY:  p.Position.Y - hy,
		maxY:  p.Position.Y + hy,
		front: p.Position.Z + hz,
		color: c,
	}
}

// Render paints scene and returns the downsampled image.
func Render(scene geometry.Scene, opts Options) *image.NRGBA {
	opts = opts.normalised()
	big := opts.Size * opts.Supersample
	canvas := image.NewNRGBA(image.Rect(0, 0, big, big))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: opts.Background}, image.Point{}, draw.Src)

	rects := make([]rect, 0, len(scene.Primitives))
	for _, p := range scene.Primitives {
		r := footprint(p)
		if isFinite(r) {
			rects = append(rects, r)
		}
	}
	if len(rects) > 0 {
		paint(canvas, rects, opts.Margin)
	}

	if opts.Supersample == 1 {
		return canvas
	}
	out := image.NewNRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	draw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	return out
}

func paint(canvas *image.NRGBA, rects []rect, margin float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX, minY = math.Min(minX, r.minX), math.Min(minY, r.minY)
		maxX, maxY = math.Max(maxX, r.maxX), math.Max(maxY, r.maxY)
	}
	size := float64(canvas.Bounds().Dx())
	usable := size * (1 - 2*margin)
	span := math.Max(maxX-minX, maxY-minY)
	if span <= 0 {
		span = 1
	}
	scale := usable / span
	// center the drawing inside the usable square
	offX := (size - (maxX-minX)*scale) / 2
	offY := (size - (maxY-minY)*scale) / 2

	toPx := func(x, y float64) (int, int) {
		px := offX + (x-minX)*scale
		py := size - (offY + (y-minY)*scale) // image y grows downwards
		return int(math.Round(px)), int(math.Round(py))
	}

	// back to front; stable keeps frame panels ahead of components at equal depth
	sort.SliceStable(rects, func(i, j int) bool { return rects[i].front < rects[j].front })

	for _, r := range rects {
		x0, y1 := toPx(r.minX, r.minY)
		x1, y0 := toPx(r.maxX, r.maxY)
		area := image.Rect(x0, y0, x1, y1)
		if area.Dx() == 0 {
			area.Max.X++
		}
		if area.Dy() == 0 {
			area.Max.Y++
		}
		draw.Draw(canvas, area, &image.Uniform{C: r.color}, image.Point{}, draw.Src)
		outline(canvas, area, shade(r.color, 0.7))
	}
}

func outline(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}

func shade(c color.NRGBA, f float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}

func isFinite(r rect) bool {
	for _, v := range []float64{r.minX, r.minY, r.maxX, r.maxY, r.front} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// EncodeWebP renders scene and writes it to w as lossless WebP.
func EncodeWebP(w io.Writer, scene geometry.Scene, opts Options) error {
	img := Render(scene, opts)
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("preview: webp encode: %w", err)
	}
	return nil
}
