package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Custom tags registered on every Validator.
const (
	TagEmailFormat = "email_format"
	TagNotBlank    = "notblank"
)

// RE2's \s is ASCII only; \v, \p{Z} and U+FEFF cover the remaining spaces.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// FieldError names the first field that failed and the rule it broke.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e *FieldError) Error() string {
	return DefaultMessage(e.Field, e.Tag, e.Param)
}

// Validator wraps validator.Validate with the rules the API needs.
// Struct fields are checked in declaration order, so field order in an
// input struct decides which rule is reported first.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	// registration only fails for an empty tag or a nil func
	_ = v.RegisterValidation(TagEmailFormat, func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	_ = v.RegisterValidation(TagNotBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Validator{validate: v}
}

// RegisterAlias maps alias to a comma separated list of existing tags.
// Errors raised through an alias report the underlying tag.
func (v *Validator) RegisterAlias(alias, tags string) {
	v.validate.RegisterAlias(alias, tags)
}

// Struct validates s and returns the first failing field, or nil.
func (v *Validator) Struct(s interface{}) *FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &FieldError{Field: fe.Field(), Tag: fe.ActualTag(), Param: fe.Param()}
	}

	return &FieldError{Field: "", Tag: "invalid", Param: err.Error()}
}

// IsEmail reports whether s looks like local@domain.tld
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// DefaultMessage renders a readable message for a failed rule.
func DefaultMessage(field, tag, param string) string {
	field = strings.ToLower(field)

	switch tag {
	case TagEmailFormat:
		return fmt.Sprintf("%s must be a valid email address", field)
	case TagNotBlank, "required":
		return fmt.Sprintf("%s must not be empty", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, param)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
