package handler

import (
	"time"

	"github.com/campusdesk/accounts/internal/core/domain"
)

// ErrorResponse is the error envelope returned on all 4xx/5xx responses.
// Fields is present only for validation failures.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	FirstName string      `json:"first_name" validate:"max=150"`
	LastName  string      `json:"last_name"  validate:"max=150"`
	Email     string      `json:"email"      validate:"max=254"`
	Role      domain.Role `json:"role"`
	Password1 string      `json:"password1"`
	Password2 string      `json:"password2"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message   string      `json:"message"`
	Token     string      `json:"token"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// --- Account ---

type identityResponse struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	FullName     string      `json:"full_name"`
	Role         domain.Role `json:"role"`
	ProfileImage string      `json:"profile_image,omitempty"`
	IsActive     bool        `json:"is_active"`
	IsStaff      bool        `json:"is_staff"`
	CreatedAt    time.Time   `json:"created_at"`
	LastLogin    *time.Time  `json:"last_login,omitempty"`
}

type dashboardResponse struct {
	Variant  domain.DashboardVariant `json:"variant"`
	Identity identityResponse        `json:"identity"`
	Overview map[domain.Role]int64   `json:"overview,omitempty"`
}

type profileUpdateRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,max=512"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword1    string `json:"new_password1"`
	NewPassword2    string `json:"new_password2"`
}

type resetRequest struct {
	Email string `json:"email" validate:"required"`
}

type resetConfirmRequest struct {
	Token        string `json:"token" validate:"required"`
	NewPassword1 string `json:"new_password1"`
	NewPassword2 string `json:"new_password2"`
}

// --- Admin ---

type searchRequest struct {
	Query    string `query:"q"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

type identityPageResponse struct {
	Items      []identityResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
	HasNext    bool               `json:"has_next"`
	HasPrev    bool               `json:"has_prev"`
}

type identityUpdateRequest struct {
	Email     *string      `json:"email"      validate:"omitempty,max=254"`
	FirstName *string      `json:"first_name"`
	LastName  *string      `json:"last_name"`
	Role      *domain.Role `json:"role"`
	IsActive  *bool        `json:"is_active"`
}

type approvalQueueResponse struct {
	Queue domain.ApprovalQueue `json:"queue"`
	Items []any                `json:"items"`
}
