package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wardrobe-designer/internal/catalog"
	"github.com/iliyamo/wardrobe-designer/internal/document"
	"github.com/iliyamo/wardrobe-designer/internal/geometry"
	"github.com/iliyamo/wardrobe-designer/internal/middleware"
	"github.com/iliyamo/wardrobe-designer/internal/model"
	"github.com/iliyamo/wardrobe-designer/internal/preview"
	"github.com/iliyamo/wardrobe-designer/internal/pricing"
	"github.com/iliyamo/wardrobe-designer/internal/queue"
	"github.com/iliyamo/wardrobe-designer/internal/session"
	"github.com/iliyamo/wardrobe-designer/internal/store"
	"github.com/iliyamo/wardrobe-designer/internal/template"
	"github.com/iliyamo/wardrobe-designer/internal/utils"
)

// maxDocumentBytes bounds imported documents.
const maxDocumentBytes = 1 << 20

// ExportPublisher is notified after every export.  Failures are logged only.
type ExportPublisher interface {
	PublishDesignExported(ctx context.Context, event queue.DesignExportedEvent) error
}

// DesignHandler serves the per-session editing API.
type DesignHandler struct {
	Sessions  *session.Registry
	Catalog   *catalog.Catalog
	Templates template.Source
	Publisher ExportPublisher // optional
	Secret    string
	TokenTTL  time.Duration
	Now       func() time.Time
}

// NewDesignHandler wires a handler and panics if a required dependency is nil.
func NewDesignHandler(reg *session.Registry, cat *catalog.Catalog, tpl template.Source, pub ExportPublisher, secret string, ttl time.Duration) *DesignHandler {
	if reg == nil || cat == nil || tpl == nil {
		panic("nil dependency passed to NewDesignHandler")
	}
	return &DesignHandler{
		Sessions:  reg,
		Catalog:   cat,
		Templates: tpl,
		Publisher: pub,
		Secret:    secret,
		TokenTTL:  ttl,
		Now:       time.Now,
	}
}

type designResponse struct {
	Configuration model.Configuration `json:"configuration"`
	Price         int                 `json:"price"`
}

type sessionResponse struct {
	SessionID string         `json:"session_id"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Design    designResponse `json:"design"`
}

type loadResponse struct {
	designResponse
	SavedAt     *time.Time            `json:"saved_at,omitempty"`
	Corrections []document.Correction `json:"corrections"`
}

// respond prices cfg afresh; the cached field is never trusted for output.
func (h *DesignHandler) respond(c echo.Context, status int, cfg model.Configuration) error {
	price := pricing.Calculate(cfg, h.Catalog)
	cfg.Price = price
	return c.JSON(status, designResponse{Configuration: cfg, Price: price})
}

// session resolves the caller's session or writes the error response.
func (h *DesignHandler) session(c echo.Context) (*session.Session, error) {
	sess, err := h.Sessions.Get(middleware.SessionID(c))
	if err != nil {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	return sess, nil
}

// mutate runs fn under the session lock and answers with the resulting
// configuration.  Errors from fn are mapped to status codes.
func (h *DesignHandler) mutate(c echo.Context, status int, fn func(st *store.Store) error) error {
	sess, err := h.session(c)
	if sess == nil {
		return err
	}
	var cfg model.Configuration
	err = sess.Do(func(st *store.Store) error {
		if err := fn(st); err != nil {
			return err
		}
		cfg = st.Snapshot()
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, status, cfg)
}

// writeError maps domain errors onto HTTP responses.
func writeError(c echo.Context, err error) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return c.JSON(he.Code, echo.Map{"error": fmt.Sprint(he.Message)})
	case errors.Is(err, store.ErrInvalidWardrobeType),
		errors.Is(err, store.ErrInvalidComponentType),
		errors.Is(err, store.ErrInvalidRole):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, document.ErrMalformedDocument):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, template.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
	case errors.Is(err, session.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	c.Logger().Errorf("design: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// Create starts a session and returns its bearer token with the initial
// configuration.
func (h *DesignHandler) Create(c echo.Context) error {
	sess := h.Sessions.Create()
	tok, err := utils.NewSessionToken(h.Secret, sess.ID, h.TokenTTL)
	if err != nil {
		h.Sessions.Delete(sess.ID)
		c.Logger().Errorf("design: sign token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	cfg := sess.Snapshot()
	price := pricing.Calculate(cfg, h.Catalog)
	cfg.Price = price
	return c.JSON(http.StatusCreated, sessionResponse{
		SessionID: sess.ID,
		Token:     tok.Token,
		ExpiresAt: tok.Exp,
		Design:    designResponse{Configuration: cfg, Price: price},
	})
}

// Get returns the current configuration.
func (h *DesignHandler) Get(c echo.Context) error {
	sess, err := h.session(c)
	if sess == nil {
		return err
	}
	return h.respond(c, http.StatusOK, sess.Snapshot())
}

// End discards the session.
func (h *DesignHandler) End(c echo.Context) error {
	if !h.Sessions.Delete(middleware.SessionID(c)) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

type typeRequest struct {
	Type model.WardrobeType `json:"type"`
}

// SetType switches the wardrobe type.
func (h *DesignHandler) SetType(c echo.Context) error {
	var req typeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.mutate(c, http.StatusOK, func(st *store.Store) error {
		return st.SetWardrobeType(req.Type)
	})
}

// SetDimensions merges a partial dimension update.  With ?clamp=true the
// merged result is limited to the recommended ranges first.
func (h *DesignHandler) SetDimensions(c echo.Context) error {
	var p model.DimensionsPatch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	clamp, _ := strconv.ParseBool(c.QueryParam("clamp"))
	return h.mutate(c, http.StatusOK, func(st *store.Store) error {
		if clamp {
			merged := model.ClampDimensions(p.Merge(st.Snapshot().Dimensions))
			p = model.FullPatch(merged)
		}
		st.SetDimensions(p)
		return nil
	})
}

type materialRequest struct {
	MaterialID *string `json:"material_id"`
}

// SetMaterial assigns a catalog id to a role.  Unknown ids, "" included, are
// stored as given and priced and drawn with the fallbacks.
func (h *DesignHandler) SetMaterial(c echo.Context) error {
	var req materialRequest
	if err := c.Bind(&req); err != nil || req.MaterialID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "material_id is required"})
	}
	role := model.MaterialRole(c.Param("role"))
	return h.mutate(c, http.StatusOK, func(st *store.Store) error {
		return st.SetMaterial(role, *req.MaterialID)
	})
}

type addComponentRequest struct {
	Type       model.ComponentType `json:"type"`
	Position   *model.Vec3         `json:"position"`
	Dimensions *model.Dimensions   `json:"dimensions"`
	Material   *string             `json:"material"`
	Rotation   *model.Vec3         `json:"rotation"`
}

type componentResponse struct {
	designResponse
	ComponentID string `json:"component_id"`
}

// AddComponent appends a component.  Fields left out of the body are taken
// from the type's preset for the current wardrobe.
func (h *DesignHandler) AddComponent(c echo.Context) error {
	var req addComponentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	sess, err := h.session(c)
	if sess == nil {
		return err
	}
	var (
		id  string
		cfg model.Configuration
	)
	err = sess.Do(func(st *store.Store) error {
		cur := st.Snapshot()
		spec, ok := model.Preset(req.Type, cur.Dimensions, cur.Materials)
		if !ok {
			return fmt.Errorf("%w: %q", store.ErrInvalidComponentType, req.Type)
		}
		if req.Position != nil {
			spec.Position = *req.Position
		}
		if req.Dimensions != nil {
			spec.Dimensions = *req.Dimensions
		}
		if req.Material != nil {
			spec.Material = *req.Material
		}
		spec.Rotation = req.Rotation
		var err error
		if id, err = st.AddComponent(spec); err != nil {
			return err
		}
		cfg = st.Snapshot()
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	price := pricing.Calculate(cfg, h.Catalog)
	cfg.Price = price
	return c.JSON(http.StatusCreated, componentResponse{
		designResponse: designResponse{Configuration: cfg, Price: price},
		ComponentID:    id,
	})
}

// UpdateComponent merges a partial update.  An unknown id changes nothing.
func (h *DesignHandler) UpdateComponent(c echo.Context) error {
	var p model.ComponentPatch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	id := c.Param("id")
	return h.mutate(c, http.StatusOK, func(st *store.Store) error {
		st.UpdateComponent(id, p)
		return nil
	})
}

// RemoveComponent deletes a component.  An unknown id changes nothing.
func (h *DesignHandler) RemoveComponent(c echo.Context) error {
	id := c.Param("id")
	return h.mutate(c, http.StatusOK, func(st *store.Store) error {
		st.RemoveComponent(id)
		return nil
	})
}

// Reset starts the session's design over with a new id.
func (h *DesignHandler) Reset(c echo.Context) error {
	return h.mutate(c, http.StatusOK, func(st *store.Store) error {
		st.Reset()
		return nil
	})
}

// Price returns the itemised price of the live configuration.
func (h *DesignHandler) Price(c echo.Context) error {
	sess, err := h.session(c)
	if sess == nil {
		return err
	}
	return c.JSON(http.StatusOK, pricing.Itemise(sess.Snapshot(), h.Catalog))
}

// Geometry returns the derived scene.  ?component=<id> limits the output to
// one component.
func (h *DesignHandler) Geometry(c echo.Context) error {
	sess, err := h.session(c)
	if sess == nil {
		return err
	}
	cfg := sess.Snapshot()
	if id := c.QueryParam("component"); id != "" {
		comp, ok := cfg.FindComponent(id)
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "component not found"})
		}
		prims, lights := geometry.Component(comp, cfg.Materials, h.Catalog)
		scene := geometry.Scene{Primitives: prims, Lights: lights}
		if scene.Primitives == nil {
			scene.Primitives = []geometry.Primitive{}
		}
		if scene.Lights == nil {
			scene.Lights = []geometry.PointLight{}
		}
		return c.JSON(http.StatusOK, scene)
	}
	return c.JSON(http.StatusOK, geometry.Derive(cfg, h.Catalog))
}

// Export returns the saved document as a download and announces it on the
// export queue.
func (h *DesignHandler) Export(c echo.Context) error {
	sess, err := h.session(c)
	if sess == nil {
		return err
	}
	cfg := sess.Snapshot()
	cfg.Price = pricing.Calculate(cfg, h.Catalog)
	savedAt := h.Now().UTC()
	body, err := document.Encode(cfg, savedAt)
	if err != nil {
		return writeError(c, err)
	}

	if h.Publisher != nil {
		ev := queue.DesignExportedEvent{
			ConfigurationID: cfg.ID,
			SessionID:       sess.ID,
			WardrobeType:    string(cfg.Type),
			ComponentCount:  len(cfg.Components),
			Price:           cfg.Price,
			SavedAt:         savedAt.Format(document.TimeLayout),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.Publisher.PublishDesignExported(ctx, ev); err != nil {
				log.Printf("design: export event for %s not published: %v", ev.ConfigurationID, err)
			}
		}()
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": "wardrobe-" + cfg.ID + ".json"}))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, body)
}

// Import replaces the session's configuration with an uploaded document.
// An unparseable document leaves the configuration untouched.
func (h *DesignHandler) Import(c echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxDocumentBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to read body"})
	}
	if len(data) > maxDocumentBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "document too large"})
	}
	res, err := document.Decode(data, document.Options{Catalog: h.Catalog})
	if err != nil {
		return writeError(c, err)
	}
	return h.load(c, func(st *store.Store) (document.Result, error) {
		st.Replace(res.Configuration)
		res.Configuration = st.Snapshot()
		return res, nil
	})
}

// ApplyTemplate loads a curated template into the session.
func (h *DesignHandler) ApplyTemplate(c echo.Context) error {
	t, err := h.Templates.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return h.load(c, func(st *store.Store) (document.Result, error) {
		return template.Apply(st, t.Payload, document.Options{Catalog: h.Catalog})
	})
}

func (h *DesignHandler) load(c echo.Context, fn func(st *store.Store) (document.Result, error)) error {
	sess, err := h.session(c)
	if sess == nil {
		return err
	}
	var res document.Result
	err = sess.Do(func(st *store.Store) error {
		var err error
		res, err = fn(st)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}
	for _, corr := range res.Corrections {
		c.Logger().Debugf("design %s: load correction %s", sess.ID, corr)
	}
	cfg := res.Configuration
	price := pricing.Calculate(cfg, h.Catalog)
	cfg.Price = price
	return c.JSON(http.StatusOK, loadResponse{
		designResponse: designResponse{Configuration: cfg, Price: price},
		SavedAt:        res.SavedAt,
		Corrections:    res.Corrections,
	})
}

// Preview renders a WebP front elevation.  ?size= sets the edge length
// (64..1024 pixels).
func (h *DesignHandler) Preview(c echo.Context) error {
	sess, err := h.session(c)
	if sess == nil {
		return err
	}
	opts := preview.DefaultOptions()
	if s := c.QueryParam("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 64 || n > 1024 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "size must be between 64 and 1024"})
		}
		opts.Size = n
	}
	scene := geometry.Derive(sess.Snapshot(), h.Catalog)

	var buf bytes.Buffer
	if err := preview.EncodeWebP(&buf, scene, opts); err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, "image/webp", buf.Bytes())
}
