// Package validate runs client-side form checks before anything is sent
// to the backend.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Error is a client-side validation failure. It is shown next to the
// form that produced it and never results in a request.
type Error struct {
	// Field is the struct field that failed.
	Field string

	// Tag is the validation rule that failed (e.g., "required", "min").
	Tag string

	// Message is the user-facing text.
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsValidation reports whether err (or any error in its chain) is a
// validation Error.
func IsValidation(err error) bool {
	var vErr *Error
	return errors.As(err, &vErr)
}

// Messages maps "Field.tag" or "tag" to a user-facing message.
// The more specific key wins.
type Messages map[string]string

// emailPattern is the loose address shape the web forms accepted.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// tagPriority orders rules so that the most basic failure is reported
// first: missing fields, then length, then mismatches, then format.
var tagPriority = map[string]int{
	"required": 0,
	"min":      1,
	"eqfield":  2,
	"mailaddr": 3,
}

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Register custom validation for the address shape used by the
		// registration form.
		_ = v.RegisterValidation("mailaddr", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if s == "" {
				return true // "required" reports empty values
			}
			return emailPattern.MatchString(s)
		})

		instance = v
	})
	return instance
}

// Struct validates s using its `validate` struct tags and returns the
// highest-priority failure as an *Error, or nil.
func Struct(s any, msgs Messages) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("validating %T: %w", s, err)
	}

	first := errs[0]
	for _, fe := range errs[1:] {
		if rank(fe.Tag()) < rank(first.Tag()) {
			first = fe
		}
	}

	return &Error{
		Field:   first.Field(),
		Tag:     first.Tag(),
		Message: message(first, msgs),
	}
}

func rank(tag string) int {
	if p, ok := tagPriority[tag]; ok {
		return p
	}
	return len(tagPriority)
}

func message(fe validator.FieldError, msgs Messages) string {
	if m, ok := msgs[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if m, ok := msgs[fe.Tag()]; ok {
		return m
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s characters", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s does not match %s", fe.Field(), fe.Param())
	case "mailaddr":
		return "Enter a valid e-mail address"
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
