package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusdesk/accounts/internal/api/handler"
	"github.com/campusdesk/accounts/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Renders validation failures with per-field messages.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	if ve, ok := domain.AsValidationErrors(err); ok {
		return http.StatusBadRequest, validationResponse(ve)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, handler.ErrorResponse{Error: "invalid role"}
	case errors.Is(err, domain.ErrMalformedRequest):
		return http.StatusBadRequest, handler.ErrorResponse{Error: "malformed request"}
	case errors.Is(err, domain.ErrInvalidResetToken):
		return http.StatusBadRequest, handler.ErrorResponse{Error: "the password reset link is invalid or has expired"}
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrPasswordMismatch),
		errors.Is(err, domain.ErrForbiddenRole),
		errors.Is(err, domain.ErrPasswordReused):
		return http.StatusBadRequest, handler.ErrorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, handler.ErrorResponse{Error: "invalid email or password"}
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, handler.ErrorResponse{Error: "authentication required"}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, handler.ErrorResponse{Error: "you are not authorized to perform this action"}
	case errors.Is(err, domain.ErrInactiveAccount):
		return http.StatusForbidden, handler.ErrorResponse{Error: "this account is inactive"}
	case errors.Is(err, domain.ErrIdentityNotFound):
		return http.StatusNotFound, handler.ErrorResponse{Error: "identity not found"}
	case errors.Is(err, domain.ErrApprovalQueueNotFound):
		return http.StatusNotFound, handler.ErrorResponse{Error: "approval queue not found"}
	}

	// Echo's own errors (router 404/405, auth middleware 401, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		return he.Code, handler.ErrorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.ErrorResponse{Error: "internal server error"}
}

// validationResponse uses the form-scoped messages as the headline; field
// messages go under "fields".
func validationResponse(ve domain.ValidationErrors) handler.ErrorResponse {
	resp := handler.ErrorResponse{Error: "validation failed"}
	if form := ve.Form(); len(form) > 0 {
		resp.Error = strings.Join(form, "; ")
	}
	if fields := ve.Fields(); len(fields) > 0 {
		resp.Fields = fields
	}
	return resp
}
