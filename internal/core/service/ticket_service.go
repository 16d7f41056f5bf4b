package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/berneytech/helpdesk/internal/api/metrics"
	"github.com/berneytech/helpdesk/internal/core/domain"
	"github.com/berneytech/helpdesk/internal/core/ports"
)

// TicketService implements ticket creation, viewing, and message appends.
// Multi-document writes (ticket + owner list, message + ticket thread) are
// compensated: the first insert is rolled back when the second write fails,
// so no orphaned documents are left behind.
type TicketService struct {
	tickets  ports.TicketRepository
	messages ports.MessageRepository
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewTicketService(tickets ports.TicketRepository, messages ports.MessageRepository, users ports.UserRepository, logger zerolog.Logger) *TicketService {
	return &TicketService{tickets: tickets, messages: messages, users: users, logger: logger}
}

func (s *TicketService) CreateTicket(ctx context.Context, categories []string, authorEmail string) (*domain.Ticket, error) {
	author := domain.NormalizeEmail(authorEmail)

	// The author must exist at creation time.
	if _, err := s.users.FindByEmail(ctx, author); err != nil {
		return nil, err
	}

	if categories == nil {
		categories = []string{}
	}
	ticket := &domain.Ticket{
		Categories: categories,
		Author:     author,
		Messages:   []string{},
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	if err := s.users.AppendTicket(ctx, author, ticket.ID); err != nil {
		if delErr := s.tickets.Delete(ctx, ticket.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("ticket_id", ticket.ID).Msg("compensating ticket delete failed")
		}
		return nil, err
	}

	s.logger.Info().Str("ticket_id", ticket.ID).Str("author", author).Msg("ticket created")
	metrics.TicketsCreatedTotal.Inc()
	return ticket, nil
}

func (s *TicketService) ViewTicket(ctx context.Context, ticketID, requesterEmail string) (*ports.TicketDetail, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !ticket.IsOwnedBy(requesterEmail) {
		return nil, domain.ErrNotAuthorized
	}

	msgs, err := s.messages.FindByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}

	detail := &ports.TicketDetail{Ticket: ticket, Messages: make([]ports.MessageDetail, 0, len(msgs))}
	authors := make(map[string]*domain.User, 2)
	for _, m := range msgs {
		author, ok := authors[m.Author]
		if !ok {
			author, err = s.users.FindByEmail(ctx, m.Author)
			if err != nil {
				// Message authors may be staff accounts removed out of band;
				// the thread still renders without the author expansion.
				s.logger.Warn().Err(err).Str("author", m.Author).Str("ticket_id", ticket.ID).Msg("message author lookup failed")
				author = nil
			}
			authors[m.Author] = author
		}
		detail.Messages = append(detail.Messages, ports.MessageDetail{Message: m, Author: author})
	}
	return detail, nil
}

func (s *TicketService) AddMessage(ctx context.Context, ticketID, authorEmail, body string) (*domain.Message, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	author := domain.NormalizeEmail(authorEmail)
	user, err := s.users.FindByEmail(ctx, author)
	if err != nil {
		return nil, err
	}
	if !ticket.IsOwnedBy(author) && !user.IsStaff() {
		return nil, domain.ErrNotAuthorized
	}

	message := &domain.Message{
		TicketID:  ticket.ID,
		Author:    author,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	if err := s.tickets.AppendMessage(ctx, ticket.ID, message.ID); err != nil {
		if delErr := s.messages.Delete(ctx, message.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("message_id", message.ID).Msg("compensating message delete failed")
		}
		return nil, err
	}

	role := "owner"
	if !ticket.IsOwnedBy(author) {
		role = "staff"
	}
	s.logger.Info().Str("ticket_id", ticket.ID).Str("author", author).Msg("message added")
	metrics.MessagesCreatedTotal.WithLabelValues(role).Inc()
	return message, nil
}
