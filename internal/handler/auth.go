package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/middleware"
	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/service"
)

// AuthHandler bundles the user directory endpoints.
type AuthHandler struct {
	users *service.UserService
	log   zerolog.Logger
}

func NewAuthHandler(users *service.UserService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: log.With().Str("component", "auth-handler").Logger()}
}

type tokenResp struct {
	IDToken string    `json:"id_token"`
	Expires time.Time `json:"expires"`
}

func account(u *model.User) dto.Account {
	return dto.Account{
		ID:          u.ID,
		Login:       u.Login,
		Email:       u.Email,
		Authorities: []string{u.Role},
		CreatedAt:   u.CreatedAt,
	}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.Registration
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	u, err := h.users.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.log, "user", err)
	}
	return c.JSON(http.StatusCreated, account(u))
}

// Authenticate handles POST /api/authenticate and returns a bearer token,
// also set in the Authorization response header.
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req dto.Credentials
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	tok, err := h.users.Authenticate(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.log, "user", err)
	}
	c.Response().Header().Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	return c.JSON(http.StatusOK, tokenResp{IDToken: tok.Token, Expires: tok.Exp})
}

// Account handles GET /api/account for the authenticated caller.
func (h *AuthHandler) Account(c echo.Context) error {
	login, _ := c.Get(middleware.CtxLogin).(string)
	u, err := h.users.Account(c.Request().Context(), login)
	if err != nil {
		return respondError(c, h.log, "user", err)
	}
	return c.JSON(http.StatusOK, account(u))
}
