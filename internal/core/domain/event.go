package domain

import "time"

// AccountAction names an audited account mutation.
type AccountAction string

const (
	ActionRegistered      AccountAction = "registered"
	ActionLogin           AccountAction = "login"
	ActionLogout          AccountAction = "logout"
	ActionPasswordChanged AccountAction = "password_changed"
	ActionPasswordReset   AccountAction = "password_reset"
	ActionIdentityCreated AccountAction = "identity_created"
	ActionIdentityUpdated AccountAction = "identity_updated"
	ActionIdentityDeleted AccountAction = "identity_deleted"
)

// AccountEvent is an audit trail entry. ActorID differs from IdentityID when
// an admin acts on someone else's account.
type AccountEvent struct {
	IdentityID string
	ActorID    string
	Action     AccountAction
	At         time.Time
}
