package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/iliyamo/wardrobe-designer/internal/catalog"
	"github.com/iliyamo/wardrobe-designer/internal/model"
)

const (
	reasonMissing     = "missing, default applied"
	reasonMalformed   = "malformed, default applied"
	reasonUnknownType = "unknown component type, entry dropped"
	reasonDropped     = "not an object, entry dropped"
	reasonDuplicateID = "duplicate id, regenerated"
	reasonIgnored     = "malformed, ignored"

	maxIDLength = 128
)

// Options tunes decoding.
type Options struct {
	// Catalog supplies the body default (its first material).  Nil means
	// the built-in catalog.
	Catalog *catalog.Catalog
	// NewID generates configuration and component ids.  Nil means uuid v4.
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.Catalog == nil {
		o.Catalog = catalog.Default()
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// Decode parses a saved document.  It fails only when data is not a JSON
// object; every other defect is repaired and listed in Result.Corrections.
func Decode(data []byte, opts Options) (Result, error) {
	return decode(data, opts.withDefaults(), false)
}

// DecodeTemplate parses a template payload: the same schema without id and
// savedAt.  Those keys are ignored if present and a fresh id is assigned.
func DecodeTemplate(data []byte, opts Options) (Result, error) {
	return decode(data, opts.withDefaults(), true)
}

type decoder struct {
	opts        Options
	template    bool
	corrections []Correction
}

func (d *decoder) note(field, reason string) {
	d.corrections = append(d.corrections, Correction{Field: field, Reason: reason})
}

func decode(data []byte, opts Options, template bool) (Result, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if raw == nil {
		return Result{}, fmt.Errorf("%w: not an object", ErrMalformedDocument)
	}

	d := &decoder{opts: opts, template: template}
	var res Result
	cfg := model.Configuration{}

	if template {
		cfg.ID = opts.NewID()
	} else {
		cfg.ID = d.configID(raw["id"])
	}
	cfg.Type = d.wardrobeType(raw["type"])
	cfg.Dimensions = d.dimensions("dimensions", raw["dimensions"], model.DefaultDimensions(cfg.Type))
	cfg.Materials = d.materials(raw["materials"])
	cfg.Components = d.components(raw["components"], cfg.Dimensions, cfg.Materials)
	cfg.Price = d.price(raw["price"])

	if !template {
		res.SavedAt = d.savedAt(raw["savedAt"])
	}
	res.Configuration = cfg
	res.Corrections = d.corrections
	if res.Corrections == nil {
		res.Corrections = []Correction{}
	}
	return res, nil
}

// present reports whether a key carried a non-null value.
func present(v json.RawMessage) bool {
	return len(v) > 0 && !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func (d *decoder) configID(v json.RawMessage) string {
	if !present(v) {
		d.note("id", "missing, regenerated")
		return d.opts.NewID()
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil || !wellFormedID(s) {
		d.note("id", "malformed, regenerated")
		return d.opts.NewID()
	}
	return s
}

// wellFormedID accepts non-empty printable ids without whitespace.
func wellFormedID(s string) bool {
	if s == "" || len(s) > maxIDLength || !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func (d *decoder) wardrobeType(v json.RawMessage) model.WardrobeType {
	if !present(v) {
		d.note("type", reasonMissing)
		return model.WardrobeStandard
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil || !model.WardrobeType(s).Valid() {
		d.note("type", reasonMalformed)
		return model.WardrobeStandard
	}
	return model.WardrobeType(s)
}

func (d *decoder) number(field string, v json.RawMessage, def float64) float64 {
	if !present(v) {
		d.note(field, reasonMissing)
		return def
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		d.note(field, reasonMalformed)
		return def
	}
	return f
}

func (d *decoder) object(field string, v json.RawMessage) (map[string]json.RawMessage, bool) {
	if !present(v) {
		d.note(field, reasonMissing)
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(v, &m); err != nil {
		d.note(field, reasonMalformed)
		return nil, false
	}
	return m, true
}

func (d *decoder) dimensions(field string, v json.RawMessage, def model.Dimensions) model.Dimensions {
	m, ok := d.object(field, v)
	if !ok {
		return def
	}
	return model.Dimensions{
		Width:  d.number(field+".width", m["width"], def.Width),
		Height: d.number(field+".height", m["height"], def.Height),
		Depth:  d.number(field+".depth", m["depth"], def.Depth),
	}
}

func (d *decoder) vec3(field string, v json.RawMessage, def model.Vec3) model.Vec3 {
	m, ok := d.object(field, v)
	if !ok {
		return def
	}
	return model.Vec3{
		X: d.number(field+".x", m["x"], def.X),
		Y: d.number(field+".y", m["y"], def.Y),
		Z: d.number(field+".z", m["z"], def.Z),
	}
}

func (d *decoder) materialID(field string, v json.RawMessage, def string) string {
	if !present(v) {
		d.note(field, reasonMissing)
		return def
	}
	// any string is kept verbatim, including ""; it resolves to a fallback
	// at price and geometry time like every other unknown id
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		d.note(field, reasonMalformed)
		return def
	}
	return s
}

func (d *decoder) materials(v json.RawMessage) model.Materials {
	def := model.DefaultMaterials()
	if first, ok := d.opts.Catalog.First(); ok {
		def.Body = first.ID
	}
	m, ok := d.object("materials", v)
	if !ok {
		return def
	}
	return model.Materials{
		Body:    d.materialID("materials.body", m["body"], def.Body),
		Doors:   d.materialID("materials.doors", m["doors"], def.Doors),
		Handles: d.materialID("materials.handles", m["handles"], def.Handles),
	}
}

func (d *decoder) components(v json.RawMessage, dims model.Dimensions, mats model.Materials) []model.Component {
	out := []model.Component{}
	if !present(v) {
		d.note("components", reasonMissing)
		return out
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(v, &entries); err != nil {
		d.note("components", reasonMalformed)
		return out
	}
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		field := fmt.Sprintf("components[%d]", i)
		var m map[string]json.RawMessage
		if err := json.Unmarshal(e, &m); err != nil || m == nil {
			d.note(field, reasonDropped)
			continue
		}
		var tag string
		if err := json.Unmarshal(m["type"], &tag); err != nil || !model.ComponentType(tag).Valid() {
			d.note(field+".type", reasonUnknownType)
			continue
		}
		t := model.ComponentType(tag)
		preset, _ := model.Preset(t, dims, mats)

		c := model.Component{Type: t}
		c.ID = d.componentID(field+".id", m["id"], seen)
		c.Position = d.vec3(field+".position", m["position"], preset.Position)
		c.Dimensions = d.dimensions(field+".dimensions", m["dimensions"], preset.Dimensions)
		c.Material = d.materialID(field+".material", m["material"], preset.Material)
		c.Rotation = d.rotation(field+".rotation", m["rotation"])
		out = append(out, c)
	}
	return out
}

func (d *decoder) componentID(field string, v json.RawMessage, seen map[string]struct{}) string {
	var s string
	if present(v) {
		if err := json.Unmarshal(v, &s); err != nil || !wellFormedID(s) {
			d.noteID(field, "malformed, regenerated")
			s = ""
		}
	} else {
		d.noteID(field, "missing, regenerated")
	}
	if s != "" {
		if _, dup := seen[s]; dup {
			d.noteID(field, reasonDuplicateID)
			s = ""
		}
	}
	for s == "" {
		s = d.opts.NewID()
		if _, dup := seen[s]; dup {
			s = ""
		}
	}
	seen[s] = struct{}{}
	return s
}

// noteID records an id repair.  Template payloads carry no component ids
// and Apply assigns fresh ones, so repairs there are not worth reporting.
func (d *decoder) noteID(field, reason string) {
	if d.template {
		return
	}
	d.note(field, reason)
}

func (d *decoder) rotation(field string, v json.RawMessage) *model.Vec3 {
	if !present(v) {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(v, &m); err != nil {
		d.note(field, reasonIgnored)
		return nil
	}
	r := d.vec3(field, v, model.Vec3{})
	return &r
}

func (d *decoder) price(v json.RawMessage) int {
	if !present(v) {
		return 0
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		d.note("price", reasonIgnored)
		return 0
	}
	f = math.Round(f)
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

func (d *decoder) savedAt(v json.RawMessage) *time.Time {
	if !present(v) {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		d.note("savedAt", reasonIgnored)
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		d.note("savedAt", reasonIgnored)
		return nil
	}
	return &t
}
