package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/campusdesk/accounts/internal/api/metrics"
	"github.com/campusdesk/accounts/internal/core/domain"
)

// RequireAdmin admits only identities that pass the admin gate. It must run
// after Auth. The services repeat the check, so a route registered without
// this middleware is still protected.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, _ := c.Get(ContextIdentity).(*domain.Identity)
			if !domain.AuthorizeAdminAction(identity) {
				metrics.GateDecisionsTotal.WithLabelValues("deny").Inc()
				return domain.ErrUnauthorized
			}
			metrics.GateDecisionsTotal.WithLabelValues("allow").Inc()
			return next(c)
		}
	}
}
