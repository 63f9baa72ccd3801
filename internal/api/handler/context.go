package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/campusdesk/accounts/internal/api/middleware"
	"github.com/campusdesk/accounts/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Auth middleware. A missing
// identity means the route was registered without Auth.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, _ := c.Get(middleware.ContextIdentity).(*domain.Identity)
	if identity == nil {
		return nil, domain.ErrSessionNotFound
	}
	return identity, nil
}

func ctxSession(c echo.Context) (*domain.Session, error) {
	session, _ := c.Get(middleware.ContextSession).(*domain.Session)
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// bind decodes and validates a request. An unknown role in the payload is
// reported as such; any other decoding failure is a malformed request.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		if errors.Is(err, domain.ErrInvalidRole) {
			return domain.ErrInvalidRole
		}
		return domain.ErrMalformedRequest
	}
	return c.Validate(req)
}
