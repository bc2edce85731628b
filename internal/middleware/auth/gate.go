package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/taskforge/internal/tokens"
)

const (
	ctxUserID = "userID"
	ctxEmail  = "userEmail"
	ctxName   = "userName"
)

// RequireLogin extracts and verifies the bearer token from the
// Authorization header and stores the resolved identity in the echo
// context. The raw token is never passed downstream.
func RequireLogin(issuer *tokens.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			claims, err := issuer.ParseAccess(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			setUserContext(c, claims)
			return next(c)
		}
	}
}

// RequireOwner guards routes that carry a user id path segment: the
// authenticated identity must match it. Run after RequireLogin.
func RequireOwner(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Param(param) != UserID(c) {
				return echo.NewHTTPError(http.StatusForbidden, "not the resource owner")
			}
			return next(c)
		}
	}
}

func setUserContext(c echo.Context, claims *tokens.Claims) {
	c.Set(ctxUserID, claims.Subject)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxName, claims.Name)
}

// UserID returns the identity resolved by RequireLogin, or "" on
// unprotected routes.
func UserID(c echo.Context) string {
	if v, ok := c.Get(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func UserEmail(c echo.Context) string {
	if v, ok := c.Get(ctxEmail).(string); ok {
		return v
	}
	return ""
}
