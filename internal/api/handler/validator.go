package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campusdesk/accounts/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Failures are reported under the JSON field names.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return domain.ErrMalformedRequest
	}

	var errs domain.ValidationErrors
	for _, fe := range ve {
		msg, sentinel := fieldError(fe)
		errs.Add(fe.Field(), sentinel, msg)
	}
	return errs
}

// fieldError converts a single validator failure into a human-readable
// message and the matching domain sentinel.
func fieldError(fe validator.FieldError) (string, error) {
	switch fe.Tag() {
	case "required":
		return "this field is required", domain.ErrRequired
	case "email":
		return "enter a valid email address", domain.ErrInvalidEmail
	case "max":
		return fmt.Sprintf("ensure this value has at most %s characters", fe.Param()), domain.ErrFieldTooLong
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param()), domain.ErrMalformedRequest
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag()), domain.ErrMalformedRequest
	}
}
