package ports

import (
	"context"
	"time"

	"github.com/campusdesk/accounts/internal/core/domain"
)

// IdentitySearch carries the admin listing query. Skip and Limit are already
// clamped by the service layer.
type IdentitySearch struct {
	Query string // optional: case-insensitive substring on first_name, last_name or email
	Skip  int
	Limit int
}

// IdentityRepository persists identities keyed by their normalized email.
type IdentityRepository interface {
	// Create inserts a new identity and returns it with its ID assigned.
	// A unique-email violation is reported as domain.ErrDuplicateEmail.
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	// Update replaces the mutable fields of an existing identity.
	Update(ctx context.Context, identity *domain.Identity) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error

	// Count returns the number of identities matching query ("" = all).
	Count(ctx context.Context, query string) (int64, error)
	// Search returns one page of identities ordered by creation.
	Search(ctx context.Context, search IdentitySearch) ([]*domain.Identity, error)
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}

// AuditRepository stores the account audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AccountEvent) error
}
