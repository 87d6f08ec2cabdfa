// Package store owns the configuration being edited and the only operations
// allowed to change it.  Every operation builds the next configuration value
// in full and swaps it in at the end, so a rejected call never leaves a
// partially applied change behind.  A Store is not safe for concurrent use;
// callers serialise access (see package session).
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/wardrobe-designer/internal/model"
)

var (
	// ErrInvalidWardrobeType is returned when a type tag is outside the closed set.
	ErrInvalidWardrobeType = errors.New("invalid wardrobe type")
	// ErrInvalidComponentType is returned when AddComponent receives an unknown tag.
	ErrInvalidComponentType = errors.New("invalid component type")
	// ErrInvalidRole is returned when SetMaterial receives an unknown role.
	ErrInvalidRole = errors.New("invalid material role")
)

// Store holds a single configuration.
type Store struct {
	cfg      model.Configuration
	newID    func() string
	issued   map[string]struct{}
	onChange func(model.Configuration)
}

// Option customises a Store.
type Option func(*Store)

// WithIDGenerator replaces the uuid generator.  Tests use it for stable ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithObserver registers fn to be called once after each successful
// mutation with a snapshot of the new configuration.
func WithObserver(fn func(model.Configuration)) Option {
	return func(s *Store) { s.onChange = fn }
}

// New creates a store holding a fresh default configuration.
func New(opts ...Option) *Store {
	s := &Store{
		newID:  uuid.NewString,
		issued: make(map[string]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.cfg = model.NewConfiguration(s.nextID())
	return s
}

// Snapshot returns a deep copy of the current configuration.
func (s *Store) Snapshot() model.Configuration {
	return s.cfg.Clone()
}

// ID returns the configuration id.
func (s *Store) ID() string { return s.cfg.ID }

// SetWardrobeType switches the wardrobe type and resets dimensions to the
// type's canonical default.  Components, materials and id are kept.
func (s *Store) SetWardrobeType(t model.WardrobeType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidWardrobeType, t)
	}
	next := s.cfg.Clone()
	next.Type = t
	next.Dimensions = model.DefaultDimensions(t)
	s.commit(next)
	return nil
}

// SetDimensions merges the given fields onto the current dimensions.  No
// clamping happens here; non-positive values are stored as given.
func (s *Store) SetDimensions(p model.DimensionsPatch) {
	next := s.cfg.Clone()
	next.Dimensions = p.Merge(next.Dimensions)
	s.commit(next)
}

// AddComponent appends a component with a freshly generated id and returns
// that id.
func (s *Store) AddComponent(spec model.ComponentSpec) (string, error) {
	if !spec.Type.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidComponentType, spec.Type)
	}
	id := s.nextID()
	next := s.cfg.Clone()
	next.Components = append(next.Components, spec.WithID(id))
	s.commit(next)
	return id, nil
}

// RemoveComponent deletes the component with id.  It reports whether an
// entry was removed; an absent id is not an error.
func (s *Store) RemoveComponent(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	next := s.cfg.Clone()
	next.Components = append(next.Components[:idx], next.Components[idx+1:]...)
	s.commit(next)
	return true
}

// UpdateComponent merges p onto the component with id.  It reports whether
// the component existed.
func (s *Store) UpdateComponent(id string, p model.ComponentPatch) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	next := s.cfg.Clone()
	next.Components[idx] = p.Merge(next.Components[idx])
	s.commit(next)
	return true
}

// SetMaterial assigns materialID to role.  The id is stored verbatim; it is
// not checked against the catalog.
func (s *Store) SetMaterial(role model.MaterialRole, materialID string) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	next := s.cfg.Clone()
	next.Materials = next.Materials.With(role, materialID)
	s.commit(next)
	return nil
}

// Reset discards everything and starts over with a new id and defaults.
func (s *Store) Reset() {
	s.commit(model.NewConfiguration(s.nextID()))
}

// Replace swaps in a whole configuration, as produced by document loading.
// Component ids of cfg are reserved so later additions never reuse them.
func (s *Store) Replace(cfg model.Configuration) {
	next := cfg.Clone()
	if next.Components == nil {
		next.Components = []model.Component{}
	}
	s.reserve(next.ID)
	for _, c := range next.Components {
		s.reserve(c.ID)
	}
	s.commit(next)
}

// SetPrice stores the derived price.  It is a cache write and does not
// notify the observer.
func (s *Store) SetPrice(price int) {
	s.cfg.Price = price
}

func (s *Store) commit(next model.Configuration) {
	s.cfg = next
	if s.onChange != nil {
		s.onChange(s.cfg.Clone())
	}
}

func (s *Store) indexOf(id string) int {
	for i, c := range s.cfg.Components {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// nextID returns an id never handed out by this store before.
func (s *Store) nextID() string {
	for {
		id := s.newID()
		if _, used := s.issued[id]; used || id == "" {
			continue
		}
		s.issued[id] = struct{}{}
		return id
	}
}

func (s *Store) reserve(id string) {
	if id != "" {
		s.issued[id] = struct{}{}
	}
}
