package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-news/internal/security"
	"github.com/iliyamo/movie-news/internal/utils"
)

// Context keys set by JWTAuth.
const (
	CtxLogin = "login"
	CtxRole  = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token.
// The token's subject (the login) and role are stored in the echo context
// under CtxLogin and CtxRole, and the login is also attached to the
// request context for the service layer (see package security).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			SetCaller(c, claims.Login, claims.Role)
			return next(c)
		}
	}
}

// SetCaller records an authenticated caller on c.
func SetCaller(c echo.Context, login, role string) {
	c.Set(CtxLogin, login)
	c.Set(CtxRole, role)
	req := c.Request()
	c.SetRequest(req.WithContext(security.WithLogin(req.Context(), login)))
}
