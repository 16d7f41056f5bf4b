package ports

import (
	"context"

	"github.com/berneytech/helpdesk/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create inserts a new user. Returns domain.ErrDuplicateUser when the
	// email is already taken.
	Create(ctx context.Context, user *domain.User) error
	// AppendTicket adds a ticket id to the user's owned-ticket set.
	AppendTicket(ctx context.Context, email, ticketID string) error
	// List returns all users. Privileged callers only; enforced upstream.
	List(ctx context.Context) ([]*domain.User, error)
}
