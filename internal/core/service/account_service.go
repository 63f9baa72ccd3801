package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

const maxProfileImageLength = 512

// AccountService implements self-service account operations and the
// password reset flow.
type AccountService struct {
	repo      ports.IdentityRepository
	validator *CredentialValidator
	hasher    PasswordHasher
	sessions  ports.SessionManager
	resets    ports.ResetTokenStore
	notifier  ports.ResetNotifier
	resetTTL  time.Duration
	audit     auditor
	log       zerolog.Logger
}

func NewAccountService(
	repo ports.IdentityRepository,
	validator *CredentialValidator,
	hasher PasswordHasher,
	sessions ports.SessionManager,
	resets ports.ResetTokenStore,
	notifier ports.ResetNotifier,
	resetTTL time.Duration,
	audit ports.AuditRepository,
	log zerolog.Logger,
) *AccountService {
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &AccountService{
		repo:      repo,
		validator: validator,
		hasher:    hasher,
		sessions:  sessions,
		resets:    resets,
		notifier:  notifier,
		resetTTL:  resetTTL,
		audit:     auditor{repo: audit, log: log},
		log:       log,
	}
}

// Dashboard routes identity to its dashboard variant. The admin overview also
// carries identity counts per role.
func (s *AccountService) Dashboard(ctx context.Context, identity *domain.Identity) (*ports.DashboardView, error) {
	variant, err := domain.RouteDashboard(identity)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRole) {
			s.log.Warn().Str("identity_id", identity.ID).Str("role", string(identity.Role)).Msg("identity has invalid role")
		}
		return nil, err
	}

	view := &ports.DashboardView{Variant: variant, Identity: identity}
	if variant == domain.AdminOverview {
		counts, err := s.repo.CountByRole(ctx)
		if err != nil {
			return nil, fmt.Errorf("dashboard: %w", err)
		}
		view.RoleCounts = counts
	}
	return view, nil
}

func (s *AccountService) Profile(ctx context.Context, identityID string) (*domain.Identity, error) {
	return s.repo.FindByID(ctx, identityID)
}

// UpdateProfile applies the supplied profile fields.
func (s *AccountService) UpdateProfile(ctx context.Context, identityID string, update ports.ProfileUpdate) (*domain.Identity, error) {
	identity, err := s.repo.FindByID(ctx, identityID)
	if err != nil {
		return nil, err
	}

	var errs domain.ValidationErrors
	if update.FirstName != nil {
		identity.FirstName = strings.TrimSpace(*update.FirstName)
		CheckName("first_name", identity.FirstName, &errs)
	}
	if update.LastName != nil {
		identity.LastName = strings.TrimSpace(*update.LastName)
		CheckName("last_name", identity.LastName, &errs)
	}
	if update.ProfileImage != nil {
		identity.ProfileImage = strings.TrimSpace(*update.ProfileImage)
		if len(identity.ProfileImage) > maxProfileImageLength {
			errs.Add("profile_image", domain.ErrFieldTooLong)
		}
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	identity.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, identity); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return identity, nil
}

// ChangePassword replaces the password of an authenticated identity and ends
// all of its sessions.
func (s *AccountService) ChangePassword(ctx context.Context, identityID, current, newPassword, confirmation string) error {
	identity, err := s.repo.FindByID(ctx, identityID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(identity.PasswordHash, current) {
		var errs domain.ValidationErrors
		errs.Add("current_password", domain.ErrInvalidCredentials, "your current password was entered incorrectly")
		return errs
	}
	if err := s.validator.ValidatePasswordReset(identity, newPassword, confirmation); err != nil {
		return err
	}

	if err := s.storePassword(ctx, identity, newPassword); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	s.revokeCredentials(ctx, identity.ID)
	s.audit.record(ctx, identity.ID, identity.ID, domain.ActionPasswordChanged)
	return nil
}

// RequestPasswordReset issues a reset token for an active identity and hands
// it to the notifier. Unknown or inactive emails succeed silently so the
// endpoint cannot be used to probe for accounts.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return domain.ErrMalformedRequest
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			s.log.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("request password reset: %w", err)
	}
	if !identity.IsActive {
		s.log.Debug().Str("identity_id", identity.ID).Msg("password reset requested for inactive identity")
		return nil
	}

	token, err := s.resets.Issue(ctx, identity.ID, s.resetTTL)
	if err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	if err := s.notifier.NotifyPasswordReset(ctx, identity, token); err != nil {
		return fmt.Errorf("request password reset: notify: %w", err)
	}
	return nil
}

// ConfirmPasswordReset redeems token and sets the new password. The token is
// consumed only once the new password is stored. Any password change revokes
// every other outstanding token of the identity.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, token, newPassword, confirmation string) error {
	if token == "" {
		return domain.ErrInvalidResetToken
	}

	identityID, err := s.resets.Resolve(ctx, token)
	if err != nil {
		return err
	}
	identity, err := s.repo.FindByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return domain.ErrInvalidResetToken
		}
		return fmt.Errorf("confirm password reset: %w", err)
	}
	if !identity.IsActive {
		return domain.ErrInvalidResetToken
	}

	if err := s.validator.ValidatePasswordReset(identity, newPassword, confirmation); err != nil {
		return err
	}

	if err := s.storePassword(ctx, identity, newPassword); err != nil {
		return fmt.Errorf("confirm password reset: %w", err)
	}
	if err := s.resets.Consume(ctx, token); err != nil {
		// The password is already stored; a concurrent redemption of the
		// same token got there first.
		s.log.Warn().Err(err).Str("identity_id", identity.ID).Msg("reset token redeemed concurrently")
	}
	s.revokeCredentials(ctx, identity.ID)
	s.audit.record(ctx, identity.ID, identity.ID, domain.ActionPasswordReset)
	return nil
}

func (s *AccountService) storePassword(ctx context.Context, identity *domain.Identity, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.SetPassword(ctx, identity.ID, hash); err != nil {
		return err
	}
	identity.PasswordHash = hash
	return nil
}

// revokeCredentials ends every session and reset token of the identity after
// its password changed.
func (s *AccountService) revokeCredentials(ctx context.Context, identityID string) {
	if err := s.resets.RevokeAll(ctx, identityID); err != nil {
		s.log.Warn().Err(err).Str("identity_id", identityID).Msg("failed to revoke reset tokens after password change")
	}
	if err := s.sessions.DestroyAll(ctx, identityID); err != nil {
		s.log.Warn().Err(err).Str("identity_id", identityID).Msg("failed to destroy sessions after password change")
	}
}
