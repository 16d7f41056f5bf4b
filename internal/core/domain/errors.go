package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrSessionTeardown    = errors.New("session teardown failed")
	ErrBillingUnavailable = errors.New("billing provider unavailable")
)

// FieldError reports a single invalid request field.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// ValidationError aggregates per-field input failures. It maps to a 422 with
// an errors array, one entry per field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Param, f.Msg))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
