package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	repo      ports.IdentityRepository
	validator *CredentialValidator
	hasher    PasswordHasher
	sessions  ports.SessionManager
	audit     auditor
	log       zerolog.Logger
}

func NewAuthService(
	repo ports.IdentityRepository,
	validator *CredentialValidator,
	hasher PasswordHasher,
	sessions ports.SessionManager,
	audit ports.AuditRepository,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:      repo,
		validator: validator,
		hasher:    hasher,
		sessions:  sessions,
		audit:     auditor{repo: audit, log: log},
		log:       log,
	}
}

// Register validates and persists a self-service registration.
func (s *AuthService) Register(ctx context.Context, in ports.RegistrationInput) (*domain.Identity, error) {
	validated, err := s.validator.ValidateRegistration(ctx, in)
	if err != nil {
		return nil, err
	}

	created, err := createIdentity(ctx, s.repo, s.hasher, validated)
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, created.ID, created.ID, domain.ActionRegistered)
	s.log.Info().Str("identity_id", created.ID).Str("role", string(created.Role)).Msg("identity registered")
	return created, nil
}

// Login verifies credentials and issues a new session. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(identity.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !identity.IsActive {
		return nil, domain.ErrInactiveAccount
	}

	token, session, err := s.sessions.Issue(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLastLogin(ctx, identity.ID, now); err != nil {
		s.log.Warn().Err(err).Str("identity_id", identity.ID).Msg("failed to record last login")
	} else {
		identity.LastLogin = &now
	}

	s.audit.record(ctx, identity.ID, identity.ID, domain.ActionLogin)
	return &ports.LoginResult{Token: token, Session: session, Identity: identity}, nil
}

// Logout destroys session. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return domain.ErrSessionNotFound
	}
	if err := s.sessions.Destroy(ctx, session.ID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.audit.record(ctx, session.IdentityID, session.IdentityID, domain.ActionLogout)
	return nil
}

// createIdentity hashes the password and inserts a validated registration.
// A unique-index violation from the store surfaces as a field error, the
// same shape the validator produces for a duplicate it detected itself.
func createIdentity(ctx context.Context, repo ports.IdentityRepository, hasher PasswordHasher, v *ValidatedRegistration) (*domain.Identity, error) {
	hash, err := hasher.Hash(v.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		Email:        v.Email,
		PasswordHash: hash,
		FirstName:    v.FirstName,
		LastName:     v.LastName,
		Role:         v.Role,
		IsActive:     true,
		IsStaff:      v.Role == domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := repo.Create(ctx, identity)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			var errs domain.ValidationErrors
			errs.Add("email", domain.ErrDuplicateEmail)
			return nil, errs
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}
	return created, nil
}
