// Package document converts configurations to and from the portable JSON
// document used for save, load and template payloads.
//
// Encoding is lossless.  Decoding is forgiving: anything short of an
// unparseable envelope produces a usable configuration, and every
// substitution made along the way is reported as a Correction so callers
// and tests can observe it.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/wardrobe-designer/internal/model"
)

// ErrMalformedDocument is returned when the input is not a JSON object.
var ErrMalformedDocument = errors.New("malformed document")

// TimeLayout is the savedAt format: ISO-8601 UTC with milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Document is the persisted shape of a configuration.
type Document struct {
	ID         string             `json:"id"`
	Type       model.WardrobeType `json:"type"`
	Dimensions model.Dimensions   `json:"dimensions"`
	Components []model.Component  `json:"components"`
	Materials  model.Materials    `json:"materials"`
	Price      int                `json:"price"`
	SavedAt    string             `json:"savedAt,omitempty"`
}

// FromConfiguration builds the document for cfg stamped with savedAt.  A
// zero savedAt leaves the field out.
func FromConfiguration(cfg model.Configuration, savedAt time.Time) Document {
	cfg = cfg.Clone()
	doc := Document{
		ID:         cfg.ID,
		Type:       cfg.Type,
		Dimensions: cfg.Dimensions,
		Components: cfg.Components,
		Materials:  cfg.Materials,
		Price:      cfg.Price,
	}
	if !savedAt.IsZero() {
		doc.SavedAt = savedAt.UTC().Format(TimeLayout)
	}
	return doc
}

// Encode serialises cfg as an indented JSON document.
func Encode(cfg model.Configuration, savedAt time.Time) ([]byte, error) {
	b, err := json.MarshalIndent(FromConfiguration(cfg, savedAt), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return b, nil
}

// Correction records one substitution made while decoding.
type Correction struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (c Correction) String() string { return c.Field + ": " + c.Reason }

// Result is the outcome of a successful decode.
type Result struct {
	Configuration model.Configuration `json:"configuration"`
	SavedAt       *time.Time          `json:"saved_at,omitempty"`
	Corrections   []Correction        `json:"corrections"`
}

// Dropped returns the corrections that removed a component entry.
func (r Result) Dropped() []Correction {
	var out []Correction
	for _, c := range r.Corrections {
		if c.Reason == reasonDropped || c.Reason == reasonUnknownType {
			out = append(out, c)
		}
	}
	return out
}
