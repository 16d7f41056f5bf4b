package ports

import (
	"context"

	"github.com/berneytech/helpdesk/internal/core/domain"
)

// SignupInput carries a validated signup request. Validation (email format,
// name lengths, password length and confirmation match) happens at the HTTP
// layer before the service is called.
type SignupInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// AuthService implements credential verification and account creation.
type AuthService interface {
	// Signup hashes the password, registers a billing customer, and persists
	// the user. Returns domain.ErrDuplicateUser for a taken email and
	// domain.ErrBillingUnavailable when the provider call fails.
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	// Login verifies credentials. A missing user and a wrong password both
	// return domain.ErrInvalidCredentials; no distinction leaks to callers.
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// IdentityService restores the full authenticated identity from the minimal
// session claim (the email) on each request.
type IdentityService interface {
	// Restore fetches the user and resolves the billing subscription status,
	// consulting the cache first. A billing outage degrades the status to
	// domain.SubscriptionNone rather than failing the request.
	Restore(ctx context.Context, email string) (*domain.Identity, error)
	// Forget drops the cached subscription status. Called on logout.
	Forget(ctx context.Context, email string) error
}
