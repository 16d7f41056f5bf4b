package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/berneytech/helpdesk/internal/core/ports"
)

// TicketHandler serves ticket creation, viewing, and message appends. All
// routes sit behind RequireAuth; authorization beyond authentication (owner
// or staff checks) lives in the service.
type TicketHandler struct {
	tickets ports.TicketService
}

func NewTicketHandler(tickets ports.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

type newTicketRequest struct {
	Categories []string `json:"categories"`
}

type newMessageRequest struct {
	TicketID    string `json:"ticketId" validate:"required"`
	MessageBody string `json:"messageBody" validate:"required"`
}

func (h *TicketHandler) Create(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req newTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ticket, err := h.tickets.CreateTicket(c.Request().Context(), req.Categories, identity.User.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) View(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.tickets.ViewTicket(c.Request().Context(), c.Param("ticketId"), identity.User.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *TicketHandler) AddMessage(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req newMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	message, err := h.tickets.AddMessage(c.Request().Context(), req.TicketID, identity.User.Email, req.MessageBody)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message)
}
