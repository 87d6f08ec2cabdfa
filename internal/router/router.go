package router // router wires URL paths to handlers and middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wardrobe-designer/internal/handler"
	"github.com/iliyamo/wardrobe-designer/internal/middleware"
)

// RegisterRoutes registers routes that do not belong to any API group.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterCatalog registers the public reference-data routes.  cache and
// limit wrap every route of the group; pass nil to skip either.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache, limit echo.MiddlewareFunc) {
	g := e.Group("/v1", skipNil(limit, cache)...)
	g.GET("/materials", h.ListMaterials)
	g.GET("/wardrobe-types", h.ListWardrobeTypes)
	g.GET("/templates", h.ListTemplates)
	g.GET("/templates/:id", h.GetTemplate)
}

// RegisterDesign registers session creation and the per-session editing
// API.  Everything under /v1/design requires a bearer session token; the
// rate limiter runs after authentication so it can key on the session.
func RegisterDesign(e *echo.Echo, h *handler.DesignHandler, secret string, limit echo.MiddlewareFunc) {
	e.POST("/v1/designs", h.Create, skipNil(limit)...)

	g := e.Group("/v1/design", skipNil(middleware.SessionAuth(secret), limit)...)
	g.GET("", h.Get)
	g.DELETE("", h.End)
	g.PUT("/type", h.SetType)
	g.PATCH("/dimensions", h.SetDimensions)
	g.PUT("/materials/:role", h.SetMaterial)
	g.POST("/components", h.AddComponent)
	g.PATCH("/components/:id", h.UpdateComponent)
	g.DELETE("/components/:id", h.RemoveComponent)
	g.POST("/reset", h.Reset)
	g.GET("/price", h.Price)
	g.GET("/geometry", h.Geometry)
	g.GET("/export", h.Export)
	g.POST("/import", h.Import)
	g.POST("/templates/:id/apply", h.ApplyTemplate)
	g.GET("/preview.webp", h.Preview)
}

func skipNil(mw ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mw))
	for _, m := range mw {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
