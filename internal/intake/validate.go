// internal/intake/validate.go
//
// Candidate shape and server-side validation.
//
/*
Context
--------
A Candidate is what the form posts: contact details plus the requested
service.  Name, email, and service are mandatory; phone and message are
not.  Service membership in the configured catalog is deliberately not
enforced here—the form restricts the choices, and rejecting an unknown
label would only lose a lead over a UI drift.

Validation failures come back as a *ValidationError carrying per-field
messages, distinguishable from system failures via errors.As, so handlers
can render a 422 instead of a 500.  No side effect of any kind happens on
a validation failure.
*/
package intake

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Candidate is an unvalidated inquiry submission.
type Candidate struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required"`
	Phone   string `json:"phone"`
	Service string `json:"service" validate:"required"`
	Message string `json:"message"`
}

// FieldError describes a single validation failure so the caller can
// point at the exact input.
type FieldError struct {
	Name    string `json:"field"`
	Message string `json:"message"`
}

// ValidationError wraps []FieldError and satisfies the error interface.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string { return "inquiry validation failed" }

// IsValidationError reports whether err came from a failed Validate.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// package-level singleton, same as the config validator
var v = validator.New()

// normalize trims surrounding whitespace in place and lowercases the
// email, so equal submissions compare equal downstream.
func (c *Candidate) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Service = strings.TrimSpace(c.Service)
	c.Message = strings.TrimSpace(c.Message)
}

// validate normalizes and checks the candidate, returning *ValidationError
// when a required field is missing.
func (c *Candidate) validate() error {
	c.normalize()

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ve := &ValidationError{}
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		ve.Fields = append(ve.Fields, FieldError{
			Name:    name,
			Message: "please provide your " + name,
		})
	}
	return ve
}
