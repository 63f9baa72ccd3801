package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextSession  = "session"
	ContextIdentity = "identity"
)

// Auth resolves the bearer token into a live session and injects the session
// and the current identity into the echo context.
func Auth(sessions ports.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			session, identity, err := sessions.Resolve(c.Request().Context(), parts[1])
			switch {
			case errors.Is(err, domain.ErrSessionNotFound):
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			case err != nil:
				return err
			}

			c.Set(ContextSession, session)
			c.Set(ContextIdentity, identity)
			return next(c)
		}
	}
}
