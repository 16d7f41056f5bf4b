package ports

import (
	"context"

	"github.com/berneytech/helpdesk/internal/core/domain"
)

// TicketRepository defines persistence for support tickets.
type TicketRepository interface {
	// Create inserts a new ticket and assigns its generated id.
	Create(ctx context.Context, ticket *domain.Ticket) error
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	// AppendMessage adds a message id to the end of the ticket's message
	// sequence. Returns domain.ErrTicketNotFound when the ticket is absent.
	AppendMessage(ctx context.Context, ticketID, messageID string) error
	// Delete removes a ticket. Used only to compensate a failed owner-list
	// append so no orphaned ticket is left behind.
	Delete(ctx context.Context, id string) error
}

// MessageRepository defines persistence for ticket messages.
type MessageRepository interface {
	// Create inserts a new message and assigns its generated id.
	Create(ctx context.Context, message *domain.Message) error
	// FindByTicket returns the ticket's messages in creation order.
	FindByTicket(ctx context.Context, ticketID string) ([]*domain.Message, error)
	// Delete removes a message. Compensation counterpart of AppendMessage.
	Delete(ctx context.Context, id string) error
}
