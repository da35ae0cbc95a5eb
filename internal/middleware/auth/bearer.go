package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_catalog/internal/logging"
	"github.com/Skotchmaster/online_catalog/internal/tokens"
)

// UserIDKey is the echo context key holding the authenticated user id.
const UserIDKey = "user_id"

// Bearer guards a route with an "Authorization: Bearer <token>" header.
// A missing header is a bad request; anything else that fails is unauthorized.
func Bearer(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "missing authorization header")
			}

			parts := strings.Split(header, " ")
			if len(parts) != 2 {
				return echo.NewHTTPError(http.StatusUnauthorized, "malformed authorization header")
			}
			if !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "unsupported authorization scheme")
			}

			claims, err := tokens.AccessClaimsFromToken(parts[1], secret)
			if err != nil {
				logging.FromContext(c.Request().Context()).Debug("token_rejected", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}

			c.Set(UserIDKey, claims.UserID)
			return next(c)
		}
	}
}

// UserID returns the id stored by Bearer, or 0 outside a guarded route.
func UserID(c echo.Context) uint {
	id, _ := c.Get(UserIDKey).(uint)
	return id
}
