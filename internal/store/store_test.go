package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/wardrobe-designer/internal/model"
)

func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func shelf() model.ComponentSpec {
	return model.ComponentSpec{
		Type:       model.ComponentShelf,
		Position:   model.Vec3{Y: 110},
		Dimensions: model.Dimensions{Width: 190, Height: 2, Depth: 50},
		Material:   "mat2",
	}
}

func ptr[T any](v T) *T { return &v }

func TestNewStoreDefaults(t *testing.T) {
	s := New(WithIDGenerator(sequence("cfg")))
	cfg := s.Snapshot()

	assert.Equal(t, "cfg-1", cfg.ID)
	assert.Equal(t, model.WardrobeStandard, cfg.Type)
	assert.Equal(t, model.Dimensions{Width: 200, Height: 220, Depth: 60}, cfg.Dimensions)
	assert.Equal(t, model.Materials{Body: "mat1", Doors: "mat2", Handles: "mat6"}, cfg.Materials)
	assert.NotNil(t, cfg.Components)
	assert.Empty(t, cfg.Components)
}

func TestSetWardrobeTypeResetsDimensionsOnly(t *testing.T) {
	s := New()
	_, err := s.AddComponent(shelf())
	require.NoError(t, err)
	require.NoError(t, s.SetMaterial(model.RoleBody, "mat3"))
	s.SetDimensions(model.DimensionsPatch{Width: ptr(123.0)})
	before := s.Snapshot()

	require.NoError(t, s.SetWardrobeType(model.WardrobeWalkIn))
	after := s.Snapshot()

	assert.Equal(t, model.Dimensions{Width: 300, Height: 240, Depth: 300}, after.Dimensions)
	assert.Equal(t, model.WardrobeWalkIn, after.Type)
	assert.Equal(t, before.Components, after.Components)
	assert.Equal(t, before.Materials, after.Materials)
	assert.Equal(t, before.ID, after.ID)
}

func TestInvalidInputsLeaveStateUntouched(t *testing.T) {
	s := New()
	_, err := s.AddComponent(shelf())
	require.NoError(t, err)
	before := s.Snapshot()

	err = s.SetWardrobeType("wardrobe-of-narnia")
	assert.ErrorIs(t, err, ErrInvalidWardrobeType)

	_, err = s.AddComponent(model.ComponentSpec{Type: "hammock"})
	assert.ErrorIs(t, err, ErrInvalidComponentType)

	err = s.SetMaterial("legs", "mat1")
	assert.ErrorIs(t, err, ErrInvalidRole)

	assert.Equal(t, before, s.Snapshot())
}

func TestSetDimensionsMergesWithoutClamping(t *testing.T) {
	s := New()
	s.SetDimensions(model.DimensionsPatch{Height: ptr(-5.0)})
	s.SetDimensions(model.DimensionsPatch{Depth: ptr(1000.0)})

	assert.Equal(t, model.Dimensions{Width: 200, Height: -5, Depth: 1000}, s.Snapshot().Dimensions)
}

func TestComponentLifecycle(t *testing.T) {
	s := New(WithIDGenerator(sequence("id")))
	id, err := s.AddComponent(shelf())
	require.NoError(t, err)

	c, ok := s.Snapshot().FindComponent(id)
	require.True(t, ok)
	assert.Equal(t, shelf().WithID(id), c)

	ok = s.UpdateComponent(id, model.ComponentPatch{
		Material: ptr("doesNotExist"),
		Rotation: &model.Vec3{Y: 90},
	})
	require.True(t, ok)
	c, _ = s.Snapshot().FindComponent(id)
	assert.Equal(t, "doesNotExist", c.Material)
	assert.Equal(t, model.Vec3{Y: 90}, c.RotationOrZero())
	assert.Equal(t, shelf().Position, c.Position)

	assert.False(t, s.UpdateComponent("missing", model.ComponentPatch{Material: ptr("mat1")}))
	assert.False(t, s.RemoveComponent("missing"))
	assert.Len(t, s.Snapshot().Components, 1)

	assert.True(t, s.RemoveComponent(id))
	assert.Empty(t, s.Snapshot().Components)
}

func TestComponentIDsStayUnique(t *testing.T) {
	// a generator that repeats itself must not produce duplicate ids
	ids := []string{"a", "a", "b", "a", "b", "c", "c", "d", "e", "f"}
	i := 0
	gen := func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
	s := New(WithIDGenerator(gen))
	for n := 0; n < 3; n++ {
		_, err := s.AddComponent(shelf())
		require.NoError(t, err)
	}
	first := s.Snapshot().Components[0].ID
	s.RemoveComponent(first)
	_, err := s.AddComponent(shelf())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, c := range s.Snapshot().Components {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		assert.NotEqual(t, first, c.ID, "removed id reused")
		seen[c.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestResetGeneratesNewID(t *testing.T) {
	s := New(WithIDGenerator(sequence("id")))
	_, _ = s.AddComponent(shelf())
	require.NoError(t, s.SetWardrobeType(model.WardrobeCorner))
	oldID := s.ID()

	s.Reset()
	cfg := s.Snapshot()
	assert.NotEqual(t, oldID, cfg.ID)
	assert.Equal(t, model.NewConfiguration(cfg.ID), cfg)
}

func TestReplaceReservesIDs(t *testing.T) {
	s := New(WithIDGenerator(sequence("id")))
	loaded := model.NewConfiguration("id-2")
	loaded.Components = []model.Component{shelf().WithID("id-3")}
	s.Replace(loaded)

	assert.Equal(t, "id-2", s.ID())
	newID, err := s.AddComponent(shelf())
	require.NoError(t, err)
	assert.NotEqual(t, "id-3", newID)
	assert.NotEqual(t, "id-2", newID)
}

func TestSnapshotIsDetached(t *testing.T) {
	s := New()
	id, _ := s.AddComponent(model.ComponentSpec{Type: model.ComponentMirror, Rotation: &model.Vec3{Z: 10}})
	snap := s.Snapshot()
	snap.Components[0].Rotation.Z = 99
	snap.Components[0].Material = "x"

	c, _ := s.Snapshot().FindComponent(id)
	assert.Equal(t, 10.0, c.Rotation.Z)
	assert.Equal(t, "", c.Material)
}

func TestObserverCalledOncePerMutation(t *testing.T) {
	var calls int
	s := New(WithObserver(func(model.Configuration) { calls++ }))
	assert.Equal(t, 0, calls)

	id, _ := s.AddComponent(shelf())
	s.UpdateComponent(id, model.ComponentPatch{Material: ptr("mat1")})
	s.RemoveComponent(id)
	_ = s.SetWardrobeType("bogus")
	s.RemoveComponent("missing")
	s.SetPrice(10)
	assert.Equal(t, 3, calls)
}
