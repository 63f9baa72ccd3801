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

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AdminService implements admin-only identity management. Each method passes
// the acting identity through domain.AuthorizeAdminAction before doing
// anything else.
type AdminService struct {
	repo      ports.IdentityRepository
	validator *CredentialValidator
	hasher    PasswordHasher
	sessions  ports.SessionManager
	audit     auditor
	log       zerolog.Logger
}

func NewAdminService(
	repo ports.IdentityRepository,
	validator *CredentialValidator,
	hasher PasswordHasher,
	sessions ports.SessionManager,
	audit ports.AuditRepository,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		repo:      repo,
		validator: validator,
		hasher:    hasher,
		sessions:  sessions,
		audit:     auditor{repo: audit, log: log},
		log:       log,
	}
}

func (s *AdminService) authorize(actor *domain.Identity) error {
	if !domain.AuthorizeAdminAction(actor) {
		return domain.ErrUnauthorized
	}
	return nil
}

// Search lists identities matching query. Out-of-range pages are clamped to
// the nearest valid page; an empty listing still has one page.
func (s *AdminService) Search(ctx context.Context, actor *domain.Identity, query string, page, pageSize int) (*ports.IdentityPage, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	total, err := s.repo.Count(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search identities: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	items, err := s.repo.Search(ctx, ports.IdentitySearch{
		Query: query,
		Skip:  (page - 1) * pageSize,
		Limit: pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("search identities: %w", err)
	}

	return &ports.IdentityPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *AdminService) Get(ctx context.Context, actor *domain.Identity, id string) (*domain.Identity, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Create is the privileged registration path; it is the only way an admin
// identity comes into existence after bootstrap.
func (s *AdminService) Create(ctx context.Context, actor *domain.Identity, in ports.RegistrationInput) (*domain.Identity, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	validated, err := s.validator.ValidatePrivilegedRegistration(ctx, in)
	if err != nil {
		return nil, err
	}
	created, err := createIdentity(ctx, s.repo, s.hasher, validated)
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, created.ID, actor.ID, domain.ActionIdentityCreated)
	s.log.Info().Str("identity_id", created.ID).Str("actor_id", actor.ID).Str("role", string(created.Role)).Msg("identity created by admin")
	return created, nil
}

// Update applies admin edits to an arbitrary identity. Deactivating an
// identity ends its sessions.
func (s *AdminService) Update(ctx context.Context, actor *domain.Identity, id string, update ports.IdentityUpdate) (*domain.Identity, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var errs domain.ValidationErrors
	if update.Email != nil {
		email, err := s.validator.CheckEmail(ctx, *update.Email, target.ID, &errs)
		if err != nil {
			return nil, fmt.Errorf("update identity: %w", err)
		}
		target.Email = email
	}
	if update.FirstName != nil {
		target.FirstName = strings.TrimSpace(*update.FirstName)
		CheckName("first_name", target.FirstName, &errs)
	}
	if update.LastName != nil {
		target.LastName = strings.TrimSpace(*update.LastName)
		CheckName("last_name", target.LastName, &errs)
	}
	if update.Role != nil {
		if !update.Role.Valid() {
			errs.Add("role", domain.ErrInvalidRole)
		} else {
			target.Role = *update.Role
			target.IsStaff = target.Role == domain.RoleAdmin || target.IsSuperuser
		}
	}
	deactivated := false
	if update.IsActive != nil {
		deactivated = target.IsActive && !*update.IsActive
		target.IsActive = *update.IsActive
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	target.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, target); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			var dup domain.ValidationErrors
			dup.Add("email", domain.ErrDuplicateEmail)
			return nil, dup
		}
		return nil, fmt.Errorf("update identity: %w", err)
	}

	if deactivated {
		if err := s.sessions.DestroyAll(ctx, target.ID); err != nil {
			s.log.Warn().Err(err).Str("identity_id", target.ID).Msg("failed to destroy sessions of deactivated identity")
		}
	}
	s.audit.record(ctx, target.ID, actor.ID, domain.ActionIdentityUpdated)
	return target, nil
}

// Delete removes an identity and ends its sessions.
func (s *AdminService) Delete(ctx context.Context, actor *domain.Identity, id string) error {
	if err := s.authorize(actor); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.sessions.DestroyAll(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("identity_id", id).Msg("failed to destroy sessions of deleted identity")
	}

	s.audit.record(ctx, id, actor.ID, domain.ActionIdentityDeleted)
	s.log.Info().Str("identity_id", id).Str("actor_id", actor.ID).Msg("identity deleted")
	return nil
}

// Overview returns identity counts per role. Roles without identities are
// reported as zero.
func (s *AdminService) Overview(ctx context.Context, actor *domain.Identity) (map[domain.Role]int64, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin overview: %w", err)
	}
	out := make(map[domain.Role]int64, len(domain.Roles))
	for _, r := range domain.Roles {
		out[r] = counts[r]
	}
	return out, nil
}

// ApprovalQueue admits an admin to one of the approval queues.
func (s *AdminService) ApprovalQueue(ctx context.Context, actor *domain.Identity, queue string) (*ports.ApprovalQueueView, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	q, err := domain.ParseApprovalQueue(queue)
	if err != nil {
		return nil, err
	}
	return &ports.ApprovalQueueView{Queue: q, Items: []any{}}, nil
}

// EnsureBootstrapAdmin creates the initial superuser when no identity holds
// email yet. It reports whether an identity was created. The password must
// pass the same strength rules as any other.
func (s *AdminService) EnsureBootstrapAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, domain.ErrIdentityNotFound):
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}

	validated, err := s.validator.ValidatePrivilegedRegistration(ctx, ports.RegistrationInput{
		Email:                email,
		Password:             password,
		PasswordConfirmation: password,
		Role:                 domain.RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}

	hash, err := s.hasher.Hash(validated.Password)
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: hash password: %w", err)
	}
	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Identity{
		Email:        validated.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return false, nil
		}
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}

	s.audit.record(ctx, created.ID, created.ID, domain.ActionIdentityCreated)
	s.log.Info().Str("identity_id", created.ID).Msg("bootstrap admin created")
	return true, nil
}
