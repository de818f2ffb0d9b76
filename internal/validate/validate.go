// Package validate runs struct-tag validation for the application's forms
// and reports the outcome as a list of per-field errors.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emersion/go-message/mail"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// mailbox accepts a bare RFC 5322 address ("a@b.com"), not a display
	// name form ("A <a@b.com>").
	validate.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return IsMailbox(fl.Field().String())
	})
}

// IsMailbox reports whether s is a syntactically valid bare email address.
func IsMailbox(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	var h mail.Header
	h.Set("To", s)
	list, err := h.AddressList("To")
	if err != nil || len(list) != 1 {
		return false
	}
	return list[0].Name == "" && list[0].Address == s
}

// FieldError is a validation failure on one form field.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Result is the outcome of validating a form. The zero value is OK.
type Result struct {
	Errors []FieldError
}

// OK reports whether validation found no errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// For returns the first error on field, if any.
func (r Result) For(field string) (FieldError, bool) {
	for _, e := range r.Errors {
		if e.Field == field {
			return e, true
		}
	}
	return FieldError{}, false
}

// Messages maps a field name and validator tag to a user-facing message.
// The key "*" matches any tag for that field.
type Messages map[string]map[string]string

func (m Messages) lookup(field, tag string) string {
	if byTag, ok := m[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
		if msg, ok := byTag["*"]; ok {
			return msg
		}
	}
	return fmt.Sprintf("%s is invalid (%s)", field, tag)
}

// Struct validates v and converts validator failures into a Result. Field
// names are the struct field names. A non-validation error (e.g. v is not
// a struct) is a programming mistake and panics.
func Struct(v any, msgs Messages) Result {
	err := validate.Struct(v)
	if err == nil {
		return Result{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		panic(fmt.Sprintf("validate: %v", err))
	}

	res := Result{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.StructField(),
			Tag:     fe.Tag(),
			Message: msgs.lookup(fe.StructField(), fe.Tag()),
		})
	}
	return res
}
