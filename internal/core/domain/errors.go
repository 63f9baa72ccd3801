package domain

import "errors"

// Validation failures. These surface to clients as 400 responses, either
// alone or aggregated inside ValidationErrors.
var (
	ErrDuplicateEmail   = errors.New("an account with this email already exists")
	ErrWeakPassword     = errors.New("password is too weak")
	ErrPasswordMismatch = errors.New("password and confirm password do not match")
	ErrForbiddenRole    = errors.New("you cannot register as an admin")
	ErrPasswordReused   = errors.New("you cannot reuse your old password")
	ErrInvalidRole      = errors.New("invalid role")
	ErrMalformedRequest = errors.New("malformed request")
	ErrInvalidEmail     = errors.New("enter a valid email address")
	ErrFieldTooLong     = errors.New("value is too long")
	ErrRequired         = errors.New("this field is required")
)

var (
	ErrUnauthorized          = errors.New("admin privileges required")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInactiveAccount       = errors.New("account is inactive")
	ErrIdentityNotFound      = errors.New("identity not found")
	ErrInvalidResetToken     = errors.New("password reset link is invalid or has expired")
	ErrSessionNotFound       = errors.New("session not found")
	ErrApprovalQueueNotFound = errors.New("approval queue not found")
)
