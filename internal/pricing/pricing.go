// Package pricing derives the price of a configuration.
//
// total = round(width·height·depth·0.01 + Σ role material prices + 50·components)
//
// Rounding is half away from zero.  Unknown role materials contribute 0.
// Component type and size do not influence the price.  Totals beyond the
// range of int saturate at math.MaxInt or math.MinInt.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/wardrobe-designer/internal/catalog"
	"github.com/iliyamo/wardrobe-designer/internal/model"
)

var (
	volumeRate   = decimal.RequireFromString("0.01")
	perComponent = decimal.NewFromInt(50)

	maxTotal = decimal.NewFromInt(math.MaxInt)
	minTotal = decimal.NewFromInt(math.MinInt)
)

// Breakdown itemises how a price was reached.
type Breakdown struct {
	Volume     float64 `json:"volume"`
	Materials  float64 `json:"materials"`
	Components float64 `json:"components"`
	Total      int     `json:"total"`
}

// Calculate returns the rounded price of cfg.  It reads nothing but its
// arguments and may be called any number of times.
func Calculate(cfg model.Configuration, cat *catalog.Catalog) int {
	return Itemise(cfg, cat).Total
}

// Itemise returns each term of the price together with the rounded total.
func Itemise(cfg model.Configuration, cat *catalog.Catalog) Breakdown {
	d := cfg.Dimensions
	volume := decimal.NewFromFloat(d.Width).
		Mul(decimal.NewFromFloat(d.Height)).
		Mul(decimal.NewFromFloat(d.Depth)).
		Mul(volumeRate)

	materials := decimal.Zero
	for _, role := range model.MaterialRoles {
		materials = materials.Add(decimal.NewFromFloat(cat.PriceOf(cfg.Materials.Get(role))))
	}

	components := perComponent.Mul(decimal.NewFromInt(int64(len(cfg.Components))))

	total := volume.Add(materials).Add(components).Round(0)

	return Breakdown{
		Volume:     finite(volume),
		Materials:  finite(materials),
		Components: finite(components),
		Total:      saturate(total),
	}
}

// saturate converts a whole decimal to int, pinning values outside the int
// range to its bounds.  IntPart alone wraps silently.
func saturate(d decimal.Decimal) int {
	switch {
	case d.GreaterThan(maxTotal):
		return math.MaxInt
	case d.LessThan(minTotal):
		return math.MinInt
	}
	return int(d.IntPart())
}

// finite returns d as a float64 clamped to the finite range, so a breakdown
// always marshals to JSON.
func finite(d decimal.Decimal) float64 {
	f := d.InexactFloat64()
	switch {
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	}
	return f
}

// Cache is the part of a store that holds a price cache.
type Cache interface {
	Snapshot() model.Configuration
	SetPrice(int)
}

// Refresh recomputes the price of the configuration held by c, writes it to
// the cache and returns it.
func Refresh(c Cache, cat *catalog.Catalog) int {
	p := Calculate(c.Snapshot(), cat)
	c.SetPrice(p)
	return p
}
