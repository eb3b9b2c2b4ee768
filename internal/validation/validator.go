// Package validation wraps a single go-playground/validator instance shared
// by request binding and the domain services.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// ErrInvalidEmail is returned by Email for syntactically invalid addresses.
var ErrInvalidEmail = errors.New("invalid email address")

func get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		registerCustom(validate)
	})
	return validate
}

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
}

// RegisterGinValidators adds the custom tags to gin's binding validator so
// `binding:"slug"` works on request structs.
func RegisterGinValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	registerCustom(v)
	return nil
}

// Email validates the syntax of a single address.
func Email(addr string) error {
	if addr == "" || len(addr) > 254 {
		return ErrInvalidEmail
	}
	if err := get().Var(addr, "email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// Slug reports whether s is a URL slug (lower-case words joined by hyphens).
func Slug(s string) bool {
	return slugPattern.MatchString(s)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a slug from a title.
func Slugify(title string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if len(s) > 80 {
		s = strings.TrimRight(s[:80], "-")
	}
	return s
}

// Struct validates s with `validate` tags.
func Struct(s any) error {
	return get().Struct(s)
}

// Message turns a binding/validation error into a short user-facing message.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "slug":
		return field + " must contain only lower-case letters, digits and hyphens"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
