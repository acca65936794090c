package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/service"
)

// MovieTwittersHandler serves the derived twitter collection of a movie.
type MovieTwittersHandler struct {
	svc *service.MovieService
	log zerolog.Logger
}

func NewMovieTwittersHandler(svc *service.MovieService, log zerolog.Logger) *MovieTwittersHandler {
	return &MovieTwittersHandler{svc: svc, log: log.With().Str("component", "movie-handler").Logger()}
}

// List handles GET /api/movies/:id/twitters.
func (h *MovieTwittersHandler) List(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	posts, err := h.svc.Twitters(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.log, "movie", err)
	}
	return c.JSON(http.StatusOK, posts)
}

// Replace handles PUT /api/movies/:id/twitters.  The body is either a list
// of post ids or a list of post references ({"id": n}).
func (h *MovieTwittersHandler) Replace(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var refs []dto.Twitter
	if err := c.Bind(&refs); err != nil {
		return badRequest(c, "invalid request body")
	}
	ids := make([]uint64, 0, len(refs))
	for _, r := range refs {
		if r.ID == nil {
			return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid id", ErrorKey: KeyIDNull, EntityName: "twitter"})
		}
		ids = append(ids, *r.ID)
	}
	posts, err := h.svc.SetTwitters(c.Request().Context(), id, ids)
	if err != nil {
		return respondError(c, h.log, "movie", err)
	}
	return c.JSON(http.StatusOK, posts)
}
