package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/berneytech/helpdesk/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
// Failures surface as *domain.ValidationError carrying one {param, msg} entry
// per invalid field, which the error handler renders as a 422.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]domain.FieldError, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, domain.FieldError{
					Param: paramName(fe.Field()),
					Msg:   fieldMessage(fe),
				})
			}
			return &domain.ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

// paramName converts a struct field name to the request's camelCase form.
func paramName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// fieldMessage keeps the exact wording existing clients match on.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		return "Email not valid"
	case "FirstName":
		return "First name must be at least length one"
	case "LastName":
		return "Last name must be at least length one"
	case "Password":
		return "Password must be at least length 6"
	case "ConfirmPassword":
		return "Passwords don't match"
	}

	field := paramName(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, paramName(fe.Param()))
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
