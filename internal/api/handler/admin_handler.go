package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/berneytech/helpdesk/internal/core/ports"
)

// AdminHandler serves staff-only endpoints. Routes are gated by
// RequireAccessLevel(1) in the router.
type AdminHandler struct {
	users ports.UserRepository
}

func NewAdminHandler(users ports.UserRepository) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListUsers returns every user account. Password hashes and billing customer
// ids never serialize (json:"-" on the domain type).
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
