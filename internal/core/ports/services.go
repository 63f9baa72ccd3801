package ports

import (
	"context"

	"github.com/campusdesk/accounts/internal/core/domain"
)

// RegistrationInput carries raw registration fields from any transport.
type RegistrationInput struct {
	Email                string
	Password             string
	PasswordConfirmation string
	FirstName            string
	LastName             string
	Role                 domain.Role // zero value means "not supplied"
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token    string
	Session  *domain.Session
	Identity *domain.Identity
}

// AuthService covers registration and session login/logout.
type AuthService interface {
	Register(ctx context.Context, input RegistrationInput) (*domain.Identity, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, session *domain.Session) error
}

// ProfileUpdate holds optional self-service profile changes; nil leaves a
// field untouched.
type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	ProfileImage *string
}

// DashboardView is the landing payload for an authenticated identity.
type DashboardView struct {
	Variant  domain.DashboardVariant
	Identity *domain.Identity
	// RoleCounts is only populated for the admin overview.
	RoleCounts map[domain.Role]int64
}

// AccountService covers self-service operations of an authenticated identity
// and the anonymous password reset flow.
type AccountService interface {
	Dashboard(ctx context.Context, identity *domain.Identity) (*DashboardView, error)
	Profile(ctx context.Context, identityID string) (*domain.Identity, error)
	UpdateProfile(ctx context.Context, identityID string, update ProfileUpdate) (*domain.Identity, error)
	ChangePassword(ctx context.Context, identityID, current, newPassword, confirmation string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword, confirmation string) error
}

// IdentityUpdate holds optional admin edits; nil leaves a field untouched.
type IdentityUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Role      *domain.Role
	IsActive  *bool
}

// IdentityPage is one page of an admin listing.
type IdentityPage struct {
	Items      []*domain.Identity
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// ApprovalQueueView is the stub payload of an approval queue.
type ApprovalQueueView struct {
	Queue domain.ApprovalQueue
	Items []any
}

// AdminService covers admin-only identity management. Every method checks
// the acting identity against the admin gate.
type AdminService interface {
	Search(ctx context.Context, actor *domain.Identity, query string, page, pageSize int) (*IdentityPage, error)
	Get(ctx context.Context, actor *domain.Identity, id string) (*domain.Identity, error)
	Create(ctx context.Context, actor *domain.Identity, input RegistrationInput) (*domain.Identity, error)
	Update(ctx context.Context, actor *domain.Identity, id string, update IdentityUpdate) (*domain.Identity, error)
	Delete(ctx context.Context, actor *domain.Identity, id string) error
	Overview(ctx context.Context, actor *domain.Identity) (map[domain.Role]int64, error)
	ApprovalQueue(ctx context.Context, actor *domain.Identity, queue string) (*ApprovalQueueView, error)
}
