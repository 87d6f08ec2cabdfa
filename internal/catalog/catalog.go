// Package catalog holds the fixed set of finishes a wardrobe can be built
// from.  The catalog never changes after construction; lookups of unknown
// ids are a normal outcome and callers fall back to documented defaults.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/wardrobe-designer/internal/model"
)

// Fallback colors used when a material id does not resolve.
var (
	White  = model.RGB{R: 0xff, G: 0xff, B: 0xff}
	Oak    = model.RGB{R: 0xd2, G: 0xb4, B: 0x8c}
	Chrome = model.RGB{R: 0xc0, G: 0xc0, B: 0xc0}
)

// ErrInvalidColor is returned by ParseHexColor for malformed input.
var ErrInvalidColor = errors.New("invalid hex color")

// Catalog is an ordered, immutable set of materials.
type Catalog struct {
	items []model.Material
	index map[string]int
}

// New builds a catalog from items.  Later duplicates of an id are ignored so
// that Find always returns the first listed entry.
func New(items []model.Material) *Catalog {
	c := &Catalog{index: make(map[string]int, len(items))}
	for _, m := range items {
		if _, dup := c.index[m.ID]; dup {
			continue
		}
		c.index[m.ID] = len(c.items)
		c.items = append(c.items, m)
	}
	return c
}

// Default returns the built-in catalog of six finishes.
func Default() *Catalog {
	return New([]model.Material{
		{ID: "mat1", Name: "White Melamine", Color: mustHex("#ffffff"), Price: 100},
		{ID: "mat2", Name: "Oak Veneer", Color: mustHex("#d2b48c"), Price: 200},
		{ID: "mat3", Name: "Walnut Veneer", Color: mustHex("#654321"), Price: 250},
		{ID: "mat4", Name: "Black Melamine", Color: mustHex("#222222"), Price: 120},
		{ID: "mat5", Name: "Gray Melamine", Color: mustHex("#808080"), Price: 110},
		{ID: "mat6", Name: "Chrome", Color: mustHex("#c0c0c0"), Price: 80},
	})
}

// List returns the materials in catalog order.  The returned slice is a copy
// so callers may keep or modify it freely; repeated calls restart from the
// first entry.
func (c *Catalog) List() []model.Material {
	out := make([]model.Material, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of materials.
func (c *Catalog) Len() int { return len(c.items) }

// Find looks up a material by id.
func (c *Catalog) Find(id string) (model.Material, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Material{}, false
	}
	return c.items[i], true
}

// First returns the first material, used as the body default when loading
// documents.  ok is false for an empty catalog.
func (c *Catalog) First() (model.Material, bool) {
	if len(c.items) == 0 {
		return model.Material{}, false
	}
	return c.items[0], true
}

// ColorOf resolves the display color of id, or fallback when id is unknown.
func (c *Catalog) ColorOf(id string, fallback model.RGB) model.RGB {
	if m, ok := c.Find(id); ok {
		return m.Color
	}
	return fallback
}

// PriceOf resolves the unit price of id, or 0 when id is unknown.
func (c *Catalog) PriceOf(id string) float64 {
	if m, ok := c.Find(id); ok {
		return m.Price
	}
	return 0
}

// ParseHexColor parses "#rrggbb", "rrggbb" or the short "#rgb" form.
func ParseHexColor(s string) (model.RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return model.RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return model.RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return model.RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

func mustHex(s string) model.RGB {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
