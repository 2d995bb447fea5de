package service

import (
	"fmt"

	"github.com/Payphone-Digital/chirpy/internal/constants"
	apperrors "github.com/Payphone-Digital/chirpy/internal/errors"
	"github.com/Payphone-Digital/chirpy/pkg/validation"
)

const (
	tagPasswordLength = "password_len"
	tagNameLength     = "name_len"
	tagMessageLength  = "message_len"
)

func newValidator() *validation.Validator {
	v := validation.New()
	v.RegisterAlias(tagPasswordLength, lengthRule(constants.MinPasswordLength, constants.MaxPasswordLength))
	v.RegisterAlias(tagNameLength, lengthRule(constants.MinNameLength, constants.MaxNameLength))
	v.RegisterAlias(tagMessageLength, lengthRule(constants.MinMessageLength, constants.MaxMessageLength))
	return v
}

func lengthRule(lo, hi int) string {
	return fmt.Sprintf("min=%d,max=%d", lo, hi)
}

// Field order is the order rules are reported in.
type loginInput struct {
	Email    string `validate:"email_format"`
	Password string `validate:"password_len"`
}

type registerInput struct {
	Email    string `validate:"email_format"`
	Name     string `validate:"name_len"`
	Password string `validate:"password_len"`
}

type chirpInput struct {
	Message string `validate:"notblank,message_len"`
}

func validationError(fe *validation.FieldError) *apperrors.DomainError {
	switch fe.Field {
	case "Email":
		return apperrors.ErrInvalidEmail
	case "Name":
		return apperrors.ErrInvalidName
	case "Password":
		return apperrors.ErrInvalidPassword
	case "Message":
		if fe.Tag == validation.TagNotBlank {
			return apperrors.ErrEmptyMessage
		}
		return apperrors.ErrInvalidMessage
	default:
		return apperrors.WrapError(apperrors.ErrInternal, fe)
	}
}
