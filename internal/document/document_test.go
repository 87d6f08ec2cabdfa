package document

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/wardrobe-designer/internal/catalog"
	"github.com/iliyamo/wardrobe-designer/internal/model"
	"github.com/iliyamo/wardrobe-designer/internal/pricing"
	"github.com/iliyamo/wardrobe-designer/internal/store"
)

func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func opts() Options {
	return Options{Catalog: catalog.Default(), NewID: sequence()}
}

func hasCorrection(res Result, field string) bool {
	for _, c := range res.Corrections {
		if c.Field == field {
			return true
		}
	}
	return false
}

// edited builds a configuration using only store operations.
func edited(t *testing.T) model.Configuration {
	t.Helper()
	s := store.New()
	require.NoError(t, s.SetWardrobeType(model.WardrobeSliding))
	w := 237.5
	s.SetDimensions(model.DimensionsPatch{Width: &w})
	require.NoError(t, s.SetMaterial(model.RoleDoors, "mat4"))
	require.NoError(t, s.SetMaterial(model.RoleHandles, "doesNotExist"))
	for _, ct := range model.ComponentTypes {
		spec, ok := model.Preset(ct, s.Snapshot().Dimensions, s.Snapshot().Materials)
		require.True(t, ok)
		_, err := s.AddComponent(spec)
		require.NoError(t, err)
	}
	id := s.Snapshot().Components[2].ID
	s.UpdateComponent(id, model.ComponentPatch{Rotation: &model.Vec3{X: 1.25, Y: -90, Z: 0}})
	pricing.Refresh(s, catalog.Default())
	return s.Snapshot()
}

func TestRoundTrip(t *testing.T) {
	cfg := edited(t)
	savedAt := time.Date(2024, 5, 1, 12, 30, 15, 123_000_000, time.UTC)

	data, err := Encode(cfg, savedAt)
	require.NoError(t, err)

	res, err := Decode(data, opts())
	require.NoError(t, err)
	assert.Equal(t, cfg, res.Configuration)
	assert.Empty(t, res.Corrections)
	require.NotNil(t, res.SavedAt)
	assert.True(t, savedAt.Equal(*res.SavedAt))
}

func TestRoundTripDefaultConfiguration(t *testing.T) {
	cfg := store.New().Snapshot()
	data, err := Encode(cfg, time.Time{})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "savedAt")

	res, err := Decode(data, opts())
	require.NoError(t, err)
	assert.Equal(t, cfg, res.Configuration)
	assert.Nil(t, res.SavedAt)
}

func TestEncodeShape(t *testing.T) {
	cfg := model.NewConfiguration("abc")
	cfg.Components = []model.Component{{ID: "c", Type: model.ComponentRail}}
	data, err := Encode(cfg, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, k := range []string{"id", "type", "dimensions", "components", "materials", "price", "savedAt"} {
		assert.Contains(t, m, k)
	}
	assert.Equal(t, "2024-01-02T03:04:05.000Z", m["savedAt"])
	comp := m["components"].([]any)[0].(map[string]any)
	assert.NotContains(t, comp, "rotation")
}

func TestUnknownComponentTypeIsDropped(t *testing.T) {
	doc := `{
	  "id": "cfg-1", "type": "standard",
	  "dimensions": {"width": 200, "height": 220, "depth": 60},
	  "materials": {"body": "mat1", "doors": "mat2", "handles": "mat6"},
	  "price": 0,
	  "components": [
	    {"id": "a", "type": "shelf", "position": {"x":0,"y":110,"z":0}, "dimensions": {"width":190,"height":2,"depth":50}, "material": "mat2"},
	    {"id": "b", "type": "hot_tub", "position": {"x":0,"y":0,"z":0}, "dimensions": {"width":1,"height":1,"depth":1}, "material": "mat2"},
	    {"id": "c", "type": "rail", "position": {"x":0,"y":190,"z":0}, "dimensions": {"width":190,"height":2,"depth":2}, "material": "mat6"}
	  ]
	}`
	res, err := Decode([]byte(doc), opts())
	require.NoError(t, err)

	comps := res.Configuration.Components
	require.Len(t, comps, 2)
	assert.Equal(t, "a", comps[0].ID)
	assert.Equal(t, "c", comps[1].ID)
	require.Len(t, res.Dropped(), 1)
	assert.Equal(t, "components[1].type", res.Dropped()[0].Field)
}

func TestMissingFieldsGetDefaults(t *testing.T) {
	res, err := Decode([]byte(`{"type": "walk-in", "components": [{"type": "drawer"}]}`), opts())
	require.NoError(t, err)
	cfg := res.Configuration

	assert.Equal(t, "gen-1", cfg.ID)
	assert.Equal(t, model.DefaultDimensions(model.WardrobeWalkIn), cfg.Dimensions)
	assert.Equal(t, model.Materials{Body: "mat1", Doors: "mat2", Handles: "mat6"}, cfg.Materials)
	assert.Equal(t, 0, cfg.Price)

	require.Len(t, cfg.Components, 1)
	want, _ := model.Preset(model.ComponentDrawer, cfg.Dimensions, cfg.Materials)
	assert.Equal(t, want.WithID("gen-2"), cfg.Components[0])

	for _, f := range []string{"id", "dimensions", "materials", "components[0].id", "components[0].position"} {
		assert.True(t, hasCorrection(res, f), "expected correction for %s", f)
	}
}

func TestBodyDefaultsToFirstCatalogEntry(t *testing.T) {
	o := opts()
	o.Catalog = catalog.New([]model.Material{{ID: "birch"}, {ID: "mat1"}})
	res, err := Decode([]byte(`{"materials": {"doors": "mat3"}}`), o)
	require.NoError(t, err)
	assert.Equal(t, model.Materials{Body: "birch", Doors: "mat3", Handles: "mat6"}, res.Configuration.Materials)
}

func TestInvalidTypeFallsBackToStandard(t *testing.T) {
	res, err := Decode([]byte(`{"type": "igloo", "dimensions": {"width": 10}}`), opts())
	require.NoError(t, err)
	assert.Equal(t, model.WardrobeStandard, res.Configuration.Type)
	assert.Equal(t, model.Dimensions{Width: 10, Height: 220, Depth: 60}, res.Configuration.Dimensions)
	assert.True(t, hasCorrection(res, "type"))
	assert.True(t, hasCorrection(res, "dimensions.height"))
}

func TestOutOfRangeValuesAreKept(t *testing.T) {
	res, err := Decode([]byte(`{"id":"x","dimensions":{"width":-3,"height":0,"depth":9000}}`), opts())
	require.NoError(t, err)
	assert.Equal(t, model.Dimensions{Width: -3, Height: 0, Depth: 9000}, res.Configuration.Dimensions)
}

func TestComponentIDRepair(t *testing.T) {
	doc := `{"id":"x","components":[
	  {"id":"dup","type":"shelf"},
	  {"id":"dup","type":"shelf"},
	  {"id":"  ","type":"shelf"},
	  {"type":"shelf"},
	  "not an object"
	]}`
	res, err := Decode([]byte(doc), opts())
	require.NoError(t, err)

	comps := res.Configuration.Components
	require.Len(t, comps, 4)
	seen := map[string]bool{}
	for _, c := range comps {
		assert.False(t, seen[c.ID])
		seen[c.ID] = true
	}
	assert.Equal(t, "dup", comps[0].ID)
	assert.True(t, hasCorrection(res, "components[1].id"))
	assert.True(t, hasCorrection(res, "components[2].id"))
	assert.True(t, hasCorrection(res, "components[4]"))
}

func TestMalformedEnvelope(t *testing.T) {
	for _, in := range []string{``, `not json`, `[1,2,3]`, `"text"`, `null`, `{"id": "x"`} {
		_, err := Decode([]byte(in), opts())
		assert.ErrorIs(t, err, ErrMalformedDocument, "input %q", in)
	}
}

func TestConfigurationIDValidation(t *testing.T) {
	tests := []struct {
		raw  string
		keep bool
	}{
		{`"cfg-123"`, true},
		{`"f47ac10b-58cc-4372-a567-0e02b2c3d479"`, true},
		{`""`, false},
		{`"has space"`, false},
		{`42`, false},
	}
	for _, tt := range tests {
		res, err := Decode([]byte(`{"id":`+tt.raw+`}`), opts())
		require.NoError(t, err)
		if tt.keep {
			var want string
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &want))
			assert.Equal(t, want, res.Configuration.ID)
		} else {
			assert.Equal(t, "gen-1", res.Configuration.ID, "input %s", tt.raw)
		}
	}
}

func TestPriceAndSavedAtAreOptional(t *testing.T) {
	res, err := Decode([]byte(`{"id":"x","price":"cheap","savedAt":"yesterday"}`), opts())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Configuration.Price)
	assert.Nil(t, res.SavedAt)
	assert.True(t, hasCorrection(res, "price"))
	assert.True(t, hasCorrection(res, "savedAt"))

	res, err = Decode([]byte(`{"id":"x","price":26780.4}`), opts())
	require.NoError(t, err)
	assert.Equal(t, 26780, res.Configuration.Price)
}

func TestDecodeTemplateIgnoresIDAndSavedAt(t *testing.T) {
	res, err := DecodeTemplate([]byte(`{"id":"fixed","savedAt":"2024-01-01T00:00:00.000Z","type":"corner"}`), opts())
	require.NoError(t, err)
	assert.Equal(t, "gen-1", res.Configuration.ID)
	assert.Nil(t, res.SavedAt)
	assert.False(t, hasCorrection(res, "id"))
}

func TestHugeValuesDoNotWrap(t *testing.T) {
	res, err := Decode([]byte(`{"id":"x","price":1e30,"dimensions":{"width":1e8,"height":1e8,"depth":1e8}}`), opts())
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, res.Configuration.Price)
	assert.Equal(t, math.MaxInt, pricing.Calculate(res.Configuration, catalog.Default()))

	res, err = Decode([]byte(`{"id":"x","price":-1e30}`), opts())
	require.NoError(t, err)
	assert.Equal(t, math.MinInt, res.Configuration.Price)
}

func TestDecodeTemplateDoesNotReportComponentIDs(t *testing.T) {
	payload := `{"type":"standard","components":[{"type":"shelf"},{"type":"rail"},{"id":"a","type":"drawer"},{"id":"a","type":"door"}]}`
	res, err := DecodeTemplate([]byte(payload), opts())
	require.NoError(t, err)

	require.Len(t, res.Configuration.Components, 4)
	for i := range res.Configuration.Components {
		assert.False(t, hasCorrection(res, fmt.Sprintf("components[%d].id", i)))
	}

	// the same payload as a saved document reports every repair
	res, err = Decode([]byte(payload), opts())
	require.NoError(t, err)
	assert.True(t, hasCorrection(res, "components[0].id"))
	assert.True(t, hasCorrection(res, "components[3].id"))
}
