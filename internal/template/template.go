// Package template provides curated wardrobe designs and applies them to a
// store.  A template's configuration is a literal document payload and goes
// through the same decoding contract as a loaded file.
package template

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/wardrobe-designer/internal/document"
	"github.com/iliyamo/wardrobe-designer/internal/model"
	"github.com/iliyamo/wardrobe-designer/internal/store"
)

// ErrNotFound is returned when no template has the requested id.
var ErrNotFound = errors.New("template not found")

//go:embed templates.yaml
var builtinYAML []byte

// Template is a named, pre-built configuration payload.
type Template struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Payload     json.RawMessage `json:"configuration"`
}

// Source lists and fetches templates.
type Source interface {
	List(ctx context.Context) ([]Template, error)
	Get(ctx context.Context, id string) (Template, error)
}

type yamlFile struct {
	Templates []struct {
		ID            string         `yaml:"id"`
		Name          string         `yaml:"name"`
		Description   string         `yaml:"description"`
		ImageURL      string         `yaml:"image_url"`
		Configuration map[string]any `yaml:"configuration"`
	} `yaml:"templates"`
}

// Parse reads a YAML template file.  Each configuration block is converted
// to its JSON payload form.
func Parse(data []byte) ([]Template, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	out := make([]Template, 0, len(f.Templates))
	seen := make(map[string]bool, len(f.Templates))
	for i, t := range f.Templates {
		if t.ID == "" {
			return nil, fmt.Errorf("parse templates: entry %d has no id", i)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("parse templates: duplicate id %q", t.ID)
		}
		seen[t.ID] = true
		payload, err := json.Marshal(t.Configuration)
		if err != nil {
			return nil, fmt.Errorf("parse templates: %s: %w", t.ID, err)
		}
		out = append(out, Template{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			ImageURL:    t.ImageURL,
			Payload:     payload,
		})
	}
	return out, nil
}

// Catalog is an in-memory Source.
type Catalog struct {
	items []Template
}

// NewCatalog wraps a fixed list of templates.
func NewCatalog(items []Template) *Catalog {
	return &Catalog{items: items}
}

// Builtin returns the embedded curated templates.
func Builtin() (*Catalog, error) {
	items, err := Parse(builtinYAML)
	if err != nil {
		return nil, err
	}
	return NewCatalog(items), nil
}

// List returns every template in file order.
func (c *Catalog) List(context.Context) ([]Template, error) {
	out := make([]Template, len(c.items))
	copy(out, c.items)
	return out, nil
}

// Get returns the template with id.
func (c *Catalog) Get(_ context.Context, id string) (Template, error) {
	for _, t := range c.items {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Chain queries several sources in order.  Get returns the first hit; List
// merges all sources, earlier sources winning on duplicate ids.
type Chain []Source

func (ch Chain) List(ctx context.Context) ([]Template, error) {
	var out []Template
	seen := map[string]bool{}
	for _, s := range ch {
		items, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range items {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			out = append(out, t)
		}
	}
	return out, nil
}

func (ch Chain) Get(ctx context.Context, id string) (Template, error) {
	for _, s := range ch {
		t, err := s.Get(ctx, id)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Template{}, err
		}
	}
	return Template{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Apply loads payload into st: reset, wardrobe type, dimensions, the three
// role materials, then one AddComponent per listed component in order.  The
// payload is decoded before anything is touched, so an unparseable payload
// leaves st as it was.
func Apply(st *store.Store, payload []byte, opts document.Options) (document.Result, error) {
	res, err := document.DecodeTemplate(payload, opts)
	if err != nil {
		return document.Result{}, err
	}
	cfg := res.Configuration

	st.Reset()
	if err := st.SetWardrobeType(cfg.Type); err != nil {
		return document.Result{}, err
	}
	st.SetDimensions(model.FullPatch(cfg.Dimensions))
	for _, role := range model.MaterialRoles {
		if err := st.SetMaterial(role, cfg.Materials.Get(role)); err != nil {
			return document.Result{}, err
		}
	}
	for _, c := range cfg.Components {
		if _, err := st.AddComponent(c.Spec()); err != nil {
			return document.Result{}, err
		}
	}
	res.Configuration = st.Snapshot()
	return res, nil
}
