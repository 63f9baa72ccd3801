package domain

import "strings"

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

// DefaultRole is assigned when registration omits a role.
const DefaultRole = RoleStudent

// Roles lists every valid role in display order.
var Roles = []Role{RoleStudent, RoleLecturer, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts s into a Role. Matching ignores case and surrounding
// whitespace; anything outside the closed set yields ErrInvalidRole.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// UnmarshalText rejects unknown roles while decoding request payloads. The
// empty string decodes to the zero Role, meaning "not supplied".
func (r *Role) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*r = ""
		return nil
	}
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// DashboardVariant names the dashboard an identity lands on.
type DashboardVariant string

const (
	StudentView   DashboardVariant = "student_view"
	LecturerView  DashboardVariant = "lecturer_view"
	AdminOverview DashboardVariant = "admin_overview"
)

var dashboards = map[Role]DashboardVariant{
	RoleStudent:  StudentView,
	RoleLecturer: LecturerView,
	RoleAdmin:    AdminOverview,
}

// RouteDashboard maps the identity's role to its dashboard. Unknown roles are
// an error; there is no fallback dashboard.
func RouteDashboard(identity *Identity) (DashboardVariant, error) {
	if identity == nil {
		return "", ErrUnauthorized
	}
	v, ok := dashboards[identity.Role]
	if !ok {
		return "", ErrInvalidRole
	}
	return v, nil
}

// AuthorizeAdminAction is the single gate in front of every admin-only
// operation.
func AuthorizeAdminAction(identity *Identity) bool {
	return identity != nil && identity.Role == RoleAdmin
}
