package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

// sessionClaims is the JWT payload handed to clients. The token is only a
// signed reference; the session itself lives in the SessionStore so that
// logout takes effect immediately.
type sessionClaims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// SessionManager implements ports.SessionManager on top of a SessionStore and
// HS256-signed tokens.
type SessionManager struct {
	store      ports.SessionStore
	identities ports.IdentityRepository
	secret     []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewSessionManager(store ports.SessionStore, identities ports.IdentityRepository, jwtSecret string, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionManager{
		store:      store,
		identities: identities,
		secret:     []byte(jwtSecret),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Issue creates a session for identity and returns the bearer token for it.
func (m *SessionManager) Issue(ctx context.Context, identity *domain.Identity) (string, *domain.Session, error) {
	now := m.now().UTC()
	session := &domain.Session{
		ID:         uuid.NewString(),
		IdentityID: identity.ID,
		Role:       identity.Role,
		IssuedAt:   now,
		ExpiresAt:  now.Add(m.ttl),
	}

	if err := m.store.Save(ctx, session, m.ttl); err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}

	claims := sessionClaims{
		SessionID: session.ID,
		Role:      string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, session, nil
}

// Resolve returns the live session behind token together with the current
// state of its identity. Any token that does not lead to a live session is
// reported as domain.ErrSessionNotFound.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*domain.Session, *domain.Identity, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return nil, nil, domain.ErrSessionNotFound
	}

	session, err := m.store.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil, domain.ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("resolve session: %w", err)
	}
	if session.IdentityID != claims.Subject || session.Expired(m.now()) {
		return nil, nil, domain.ErrSessionNotFound
	}

	identity, err := m.identities.FindByID(ctx, session.IdentityID)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			_ = m.store.Delete(ctx, session.ID)
			return nil, nil, domain.ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("resolve session identity: %w", err)
	}
	if !identity.IsActive {
		return nil, nil, domain.ErrInactiveAccount
	}
	return session, identity, nil
}

// Destroy ends a single session. Destroying an unknown session succeeds.
func (m *SessionManager) Destroy(ctx context.Context, sessionID string) error {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// DestroyAll ends every session of an identity.
func (m *SessionManager) DestroyAll(ctx context.Context, identityID string) error {
	if err := m.store.DeleteForIdentity(ctx, identityID); err != nil {
		return fmt.Errorf("destroy identity sessions: %w", err)
	}
	return nil
}
