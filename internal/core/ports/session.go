package ports

import (
	"context"
	"time"

	"github.com/campusdesk/accounts/internal/core/domain"
)

// SessionStore keeps server-side sessions. Deleting a missing session is not
// an error.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteForIdentity(ctx context.Context, identityID string) error
}

// SessionManager issues and resolves login sessions.
type SessionManager interface {
	Issue(ctx context.Context, identity *domain.Identity) (token string, session *domain.Session, err error)
	// Resolve validates token, loads its session and the current state of the
	// owning identity.
	Resolve(ctx context.Context, token string) (*domain.Session, *domain.Identity, error)
	Destroy(ctx context.Context, sessionID string) error
	DestroyAll(ctx context.Context, identityID string) error
}

// ResetTokenStore issues single-use, time-limited password reset tokens.
type ResetTokenStore interface {
	Issue(ctx context.Context, identityID string, ttl time.Duration) (string, error)
	// Resolve returns the identity a token is bound to without consuming it.
	Resolve(ctx context.Context, token string) (string, error)
	// Consume invalidates the token; consuming twice reports
	// domain.ErrInvalidResetToken.
	Consume(ctx context.Context, token string) error
	// RevokeAll invalidates every outstanding token of an identity.
	RevokeAll(ctx context.Context, identityID string) error
}

// ResetNotifier delivers a password reset link to the identity's owner.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, identity *domain.Identity, token string) error
}
