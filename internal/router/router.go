package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/handler"
	"github.com/iliyamo/movie-news/internal/middleware"
	"github.com/iliyamo/movie-news/internal/model"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Movies        *handler.ResourceHandler[dto.Movie]
	MovieTwitters *handler.MovieTwittersHandler
	News          *handler.ResourceHandler[dto.News]
	Twitters      *handler.ResourceHandler[dto.Twitter]
	Auth          *handler.AuthHandler
	Health        echo.HandlerFunc
}

// Register mounts every route on e.  The /api group requires a valid
// access token; mw runs after authentication so it can key on the caller
// (rate limiting, response cache).
func Register(e *echo.Echo, h Handlers, jwtSecret string, mw ...echo.MiddlewareFunc) {
	// health check for load balancers and monitoring
	e.GET("/healthz", h.Health)

	// user directory: no session required
	e.POST("/api/register", h.Auth.Register)
	e.POST("/api/authenticate", h.Auth.Authenticate)

	api := e.Group("/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)
	api.Use(mw...)

	api.GET("/account", h.Auth.Account)

	h.Movies.Register(api, "/movies")
	api.GET("/movies/:id/twitters", h.MovieTwitters.List)
	api.PUT("/movies/:id/twitters", h.MovieTwitters.Replace)

	h.News.Register(api, "/news")
	h.Twitters.Register(api, "/twitters")
}
