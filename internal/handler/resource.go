package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-news/internal/middleware"
	"github.com/iliyamo/movie-news/internal/pagination"
	"github.com/iliyamo/movie-news/internal/repository"
)

// Orchestrator is the service contract one ResourceHandler serves.
// *service.Resource satisfies it for every entity kind.
type Orchestrator[D any] interface {
	Create(ctx context.Context, d D) (D, error)
	Update(ctx context.Context, id uint64, d D) (D, error)
	Patch(ctx context.Context, id uint64, d D) (D, error)
	Get(ctx context.Context, id uint64) (D, error)
	List(ctx context.Context, req pagination.Request, f repository.Filter) (pagination.Page[D], error)
	Delete(ctx context.Context, id uint64) error
}

// ResourceConfig describes how one entity kind is exposed.
type ResourceConfig[D any] struct {
	Entity      string // entity name in alerts and errors, e.g. "movie"
	BasePath    string // e.g. /api/movies
	AppName     string // prefix of the alert headers
	SortKeys    []string
	OwnerFilter bool // supports ?mine=true
	ID          func(D) *uint64
}

// ResourceHandler serves the CRUD endpoints of one entity kind.
type ResourceHandler[D any] struct {
	svc Orchestrator[D]
	cfg ResourceConfig[D]
	log zerolog.Logger
}

// NewResourceHandler builds the handler set for one entity kind.
func NewResourceHandler[D any](svc Orchestrator[D], cfg ResourceConfig[D], log zerolog.Logger) *ResourceHandler[D] {
	return &ResourceHandler[D]{
		svc: svc,
		cfg: cfg,
		log: log.With().Str("component", cfg.Entity+"-handler").Logger(),
	}
}

// Register mounts the handlers on g at rel, the base path relative to the
// group prefix.
func (h *ResourceHandler[D]) Register(g *echo.Group, rel string) {
	g.POST(rel, h.Create)
	g.GET(rel, h.List)
	g.GET(rel+"/:id", h.Get)
	g.PUT(rel+"/:id", h.Update)
	g.PATCH(rel+"/:id", h.Patch)
	g.DELETE(rel+"/:id", h.Delete)
}

func (h *ResourceHandler[D]) alert(c echo.Context, action string, id uint64) {
	hdr := c.Response().Header()
	hdr.Set("X-"+h.cfg.AppName+"-alert", h.cfg.AppName+"."+h.cfg.Entity+"."+action)
	hdr.Set("X-"+h.cfg.AppName+"-params", url.QueryEscape(strconv.FormatUint(id, 10)))
}

func (h *ResourceHandler[D]) idOf(d D) uint64 {
	if p := h.cfg.ID(d); p != nil {
		return *p
	}
	return 0
}

// Create handles POST {base}.
func (h *ResourceHandler[D]) Create(c echo.Context) error {
	var body D
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	out, err := h.svc.Create(c.Request().Context(), body)
	if err != nil {
		return respondError(c, h.log, h.cfg.Entity, err)
	}
	id := h.idOf(out)
	c.Response().Header().Set(echo.HeaderLocation, h.cfg.BasePath+"/"+strconv.FormatUint(id, 10))
	h.alert(c, "created", id)
	return c.JSON(http.StatusCreated, out)
}

// Update handles PUT {base}/:id.
func (h *ResourceHandler[D]) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var body D
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	out, err := h.svc.Update(c.Request().Context(), id, body)
	if err != nil {
		return respondError(c, h.log, h.cfg.Entity, err)
	}
	h.alert(c, "updated", id)
	return c.JSON(http.StatusOK, out)
}

// Patch handles PATCH {base}/:id with a JSON merge patch.
func (h *ResourceHandler[D]) Patch(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var body D
	if err := bindPatch(c, &body); err != nil {
		if errors.Is(err, echo.ErrUnsupportedMediaType) {
			return c.JSON(http.StatusUnsupportedMediaType, errorBody{Error: "unsupported media type"})
		}
		return badRequest(c, "invalid request body")
	}
	out, err := h.svc.Patch(c.Request().Context(), id, body)
	if err != nil {
		return respondError(c, h.log, h.cfg.Entity, err)
	}
	h.alert(c, "updated", id)
	return c.JSON(http.StatusOK, out)
}

// Get handles GET {base}/:id.
func (h *ResourceHandler[D]) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.log, h.cfg.Entity, err)
	}
	return c.JSON(http.StatusOK, out)
}

// List handles GET {base}?page=&size=&sort=[&mine=true].
func (h *ResourceHandler[D]) List(c echo.Context) error {
	q := c.QueryParams()
	req, err := pagination.ParseRequest(q, h.cfg.SortKeys...)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var f repository.Filter
	if h.cfg.OwnerFilter && q.Get("mine") == "true" {
		login, ok := c.Get(middleware.CtxLogin).(string)
		if !ok || login == "" {
			return c.JSON(http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		}
		f.OwnerLogin = login
	}
	page, err := h.svc.List(c.Request().Context(), req, f)
	if err != nil {
		return respondError(c, h.log, h.cfg.Entity, err)
	}
	base := &url.URL{Path: h.cfg.BasePath, RawQuery: c.Request().URL.RawQuery}
	for k, v := range pagination.Headers(base, page) {
		c.Response().Header()[k] = v
	}
	return c.JSON(http.StatusOK, page.Content)
}

// Delete handles DELETE {base}/:id.  Deleting a missing record is not an
// error.
func (h *ResourceHandler[D]) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.log, h.cfg.Entity, err)
	}
	h.alert(c, "deleted", id)
	return c.NoContent(http.StatusNoContent)
}
