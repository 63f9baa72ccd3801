package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

const (
	minPasswordLength = 8
	maxNameLength     = 150
)

// commonPasswords is matched case-insensitively.
var commonPasswords = map[string]struct{}{
	"password": {},
	"12345678": {},
	"qwerty":   {},
	"letmein":  {},
	"123456":   {},
}

// EmailLookup is the slice of the identity store the validator needs for the
// uniqueness rule.
type EmailLookup interface {
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
}

// ValidatedRegistration holds normalized fields ready for persistence.
type ValidatedRegistration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

// CredentialValidator enforces the registration and password rules. It holds
// no mutable state and is safe for concurrent use.
type CredentialValidator struct {
	lookup   EmailLookup
	hasher   PasswordHasher
	validate *validator.Validate
}

func NewCredentialValidator(lookup EmailLookup, hasher PasswordHasher) *CredentialValidator {
	return &CredentialValidator{
		lookup:   lookup,
		hasher:   hasher,
		validate: validator.New(),
	}
}

// NormalizeEmail trims and lower-cases an email so it can serve as the
// identity key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks a self-service registration. Every field rule
// runs before the cross-field password confirmation rule, and all failures
// are reported together.
func (v *CredentialValidator) ValidateRegistration(ctx context.Context, in ports.RegistrationInput) (*ValidatedRegistration, error) {
	return v.validateRegistration(ctx, in, false)
}

// ValidatePrivilegedRegistration is the admin create path: identical rules,
// except that the admin role may be assigned.
func (v *CredentialValidator) ValidatePrivilegedRegistration(ctx context.Context, in ports.RegistrationInput) (*ValidatedRegistration, error) {
	return v.validateRegistration(ctx, in, true)
}

func (v *CredentialValidator) validateRegistration(ctx context.Context, in ports.RegistrationInput, allowAdmin bool) (*ValidatedRegistration, error) {
	var errs domain.ValidationErrors

	email, err := v.checkEmail(ctx, in.Email, "", &errs)
	if err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	checkName("first_name", firstName, &errs)
	checkName("last_name", lastName, &errs)

	role := in.Role
	switch {
	case role == "":
		role = domain.DefaultRole
	case !role.Valid():
		errs.Add("role", domain.ErrInvalidRole)
	case role == domain.RoleAdmin && !allowAdmin:
		errs.Add("role", domain.ErrForbiddenRole)
	}

	if in.Password == "" {
		errs.Add("password1", domain.ErrRequired)
	} else {
		checkStrength("password1", in.Password, &errs)
	}
	if in.PasswordConfirmation == "" {
		errs.Add("password2", domain.ErrRequired)
	}

	if in.Password != "" && in.PasswordConfirmation != "" && in.Password != in.PasswordConfirmation {
		errs.AddForm(domain.ErrPasswordMismatch)
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	return &ValidatedRegistration{
		Email:     email,
		Password:  in.Password,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}, nil
}

// ValidatePasswordReset checks a new password for identity: strength,
// confirmation match, and that it differs from the current password.
func (v *CredentialValidator) ValidatePasswordReset(identity *domain.Identity, newPassword, confirmation string) error {
	var errs domain.ValidationErrors

	if newPassword == "" {
		errs.Add("new_password1", domain.ErrRequired)
	} else {
		checkStrength("new_password1", newPassword, &errs)
	}
	if confirmation == "" {
		errs.Add("new_password2", domain.ErrRequired)
	}

	if newPassword != "" && confirmation != "" && newPassword != confirmation {
		errs.AddForm(domain.ErrPasswordMismatch)
	}
	if newPassword != "" && identity != nil && v.hasher.Verify(identity.PasswordHash, newPassword) {
		errs.AddForm(domain.ErrPasswordReused)
	}

	return errs.OrNil()
}

// CheckEmail validates and normalizes an email for an identity update.
// selfID is excluded from the uniqueness rule.
func (v *CredentialValidator) CheckEmail(ctx context.Context, email, selfID string, errs *domain.ValidationErrors) (string, error) {
	return v.checkEmail(ctx, email, selfID, errs)
}

// checkEmail records field errors in errs. The returned error is reserved for
// store failures, which are not validation outcomes.
func (v *CredentialValidator) checkEmail(ctx context.Context, raw, selfID string, errs *domain.ValidationErrors) (string, error) {
	email := NormalizeEmail(raw)
	if email == "" {
		errs.Add("email", domain.ErrRequired)
		return "", nil
	}
	if err := v.validate.Var(email, "email"); err != nil {
		errs.Add("email", domain.ErrInvalidEmail)
		return email, nil
	}

	existing, err := v.lookup.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrIdentityNotFound):
	case err != nil:
		return "", fmt.Errorf("check email uniqueness: %w", err)
	case existing != nil && existing.ID != selfID:
		errs.Add("email", domain.ErrDuplicateEmail)
	}
	return email, nil
}

// CheckName validates an optional name field.
func CheckName(field, value string, errs *domain.ValidationErrors) {
	checkName(field, value, errs)
}

func checkName(field, value string, errs *domain.ValidationErrors) {
	if utf8.RuneCountInString(value) > maxNameLength {
		errs.Add(field, domain.ErrFieldTooLong,
			fmt.Sprintf("ensure this value has at most %d characters", maxNameLength))
	}
}

func checkStrength(field, password string, errs *domain.ValidationErrors) {
	if utf8.RuneCountInString(password) < minPasswordLength {
		errs.Add(field, domain.ErrWeakPassword,
			fmt.Sprintf("this password is too short, it must contain at least %d characters", minPasswordLength))
		return
	}
	if _, common := commonPasswords[strings.ToLower(password)]; common {
		errs.Add(field, domain.ErrWeakPassword, "this password is too common")
		return
	}
	if len(password) > maxPasswordBytes {
		errs.Add(field, domain.ErrFieldTooLong,
			fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
}
