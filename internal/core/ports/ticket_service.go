package ports

import (
	"context"

	"github.com/berneytech/helpdesk/internal/core/domain"
)

// MessageDetail pairs a message with the public view of its author.
type MessageDetail struct {
	Message *domain.Message `json:"message"`
	Author  *domain.User    `json:"author,omitempty"`
}

// TicketDetail is the expanded ticket view: the ticket plus its messages in
// creation order, each with the author resolved.
type TicketDetail struct {
	Ticket   *domain.Ticket  `json:"ticket"`
	Messages []MessageDetail `json:"messages"`
}

// TicketService defines use-case operations over tickets and their threads.
type TicketService interface {
	// CreateTicket inserts a ticket for an existing user and records it on
	// the author's owned-ticket set. The pair of writes is compensated: if
	// the owner-list append fails the ticket is deleted again.
	CreateTicket(ctx context.Context, categories []string, authorEmail string) (*domain.Ticket, error)
	// ViewTicket returns the expanded ticket. Only the author may view;
	// anyone else gets domain.ErrNotAuthorized.
	ViewTicket(ctx context.Context, ticketID, requesterEmail string) (*TicketDetail, error)
	// AddMessage appends to the thread. Allowed for the ticket author or any
	// staff user (access level >= 1).
	AddMessage(ctx context.Context, ticketID, authorEmail, body string) (*domain.Message, error)
}
