package domain

import (
	"errors"
	"strings"
)

// FieldError ties a validation failure to a form field. An empty Field marks
// a form-scoped error (cross-field rules such as password confirmation).
type FieldError struct {
	Field   string
	Err     error
	Message string
}

func (fe FieldError) Error() string {
	msg := fe.Message
	if msg == "" && fe.Err != nil {
		msg = fe.Err.Error()
	}
	if fe.Field == "" {
		return msg
	}
	return fe.Field + ": " + msg
}

func (fe FieldError) Unwrap() error { return fe.Err }

// ValidationErrors aggregates every rule violation found in one request.
// errors.Is matches any contained sentinel.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, fe := range v {
		errs = append(errs, fe)
	}
	return errs
}

// Add records err against field. A nil err is ignored.
func (v *ValidationErrors) Add(field string, err error, message ...string) {
	if err == nil {
		return
	}
	fe := FieldError{Field: field, Err: err}
	if len(message) > 0 {
		fe.Message = message[0]
	}
	*v = append(*v, fe)
}

// AddForm records a form-scoped error.
func (v *ValidationErrors) AddForm(err error) { v.Add("", err) }

// Fields groups field-scoped messages by field name.
func (v ValidationErrors) Fields() map[string][]string {
	out := make(map[string][]string)
	for _, fe := range v {
		if fe.Field == "" {
			continue
		}
		msg := fe.Message
		if msg == "" {
			msg = fe.Err.Error()
		}
		out[fe.Field] = append(out[fe.Field], msg)
	}
	return out
}

// Form returns the form-scoped messages.
func (v ValidationErrors) Form() []string {
	var out []string
	for _, fe := range v {
		if fe.Field == "" {
			out = append(out, fe.Error())
		}
	}
	return out
}

// Has reports whether field has at least one error.
func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns nil when no errors were collected so callers can return it
// directly as an error value.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// AsValidationErrors unwraps err into ValidationErrors when possible.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
