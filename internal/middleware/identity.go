package middleware

import "github.com/labstack/echo/v4"

// callerLogin returns the login JWTAuth stored on c, or "anon" for
// unauthenticated requests.
func callerLogin(c echo.Context) string {
	if s, ok := c.Get(CtxLogin).(string); ok && s != "" {
		return s
	}
	return "anon"
}
