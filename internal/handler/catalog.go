package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wardrobe-designer/internal/catalog"
	"github.com/iliyamo/wardrobe-designer/internal/model"
	"github.com/iliyamo/wardrobe-designer/internal/template"
)

// CatalogHandler serves the read-only reference data.  None of these routes
// need a session.
type CatalogHandler struct {
	Catalog   *catalog.Catalog
	Templates template.Source
}

func NewCatalogHandler(cat *catalog.Catalog, tpl template.Source) *CatalogHandler {
	if cat == nil || tpl == nil {
		panic("nil dependency passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: cat, Templates: tpl}
}

type materialItem struct {
	model.Material
	Hex string `json:"hex"`
}

// ListMaterials returns the catalog in its fixed order.
func (h *CatalogHandler) ListMaterials(c echo.Context) error {
	items := h.Catalog.List()
	out := make([]materialItem, 0, len(items))
	for _, m := range items {
		out = append(out, materialItem{Material: m, Hex: m.Color.Hex()})
	}
	return c.JSON(http.StatusOK, echo.Map{"materials": out})
}

type wardrobeTypeItem struct {
	Type       model.WardrobeType `json:"type"`
	Dimensions model.Dimensions   `json:"default_dimensions"`
}

type componentTypeItem struct {
	Type  model.ComponentType `json:"type"`
	Label string              `json:"label"`
}

// ListWardrobeTypes returns the wardrobe types with their default
// dimensions, the recommended dimension ranges and the component types.
func (h *CatalogHandler) ListWardrobeTypes(c echo.Context) error {
	types := make([]wardrobeTypeItem, 0, len(model.WardrobeTypes))
	for _, t := range model.WardrobeTypes {
		types = append(types, wardrobeTypeItem{Type: t, Dimensions: model.DefaultDimensions(t)})
	}
	comps := make([]componentTypeItem, 0, len(model.ComponentTypes))
	for _, t := range model.ComponentTypes {
		comps = append(comps, componentTypeItem{Type: t, Label: t.Label()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"wardrobe_types":   types,
		"component_types":  comps,
		"dimension_limits": model.DimensionLimits,
		"material_roles":   model.MaterialRoles,
	})
}

// ListTemplates returns every curated template including its payload.
func (h *CatalogHandler) ListTemplates(c echo.Context) error {
	items, err := h.Templates.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("templates: list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list templates"})
	}
	if items == nil {
		items = []template.Template{}
	}
	return c.JSON(http.StatusOK, echo.Map{"templates": items})
}

// GetTemplate returns one template.
func (h *CatalogHandler) GetTemplate(c echo.Context) error {
	t, err := h.Templates.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}
