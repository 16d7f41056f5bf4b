package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/berneytech/helpdesk/internal/api/middleware"
	"github.com/berneytech/helpdesk/internal/core/domain"
)

// requireIdentity extracts the identity restored by the LoadIdentity
// middleware. Routes behind RequireAuth always have one; the fast-fail here
// covers handlers wired without the guard.
func requireIdentity(c echo.Context) (*domain.Identity, error) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not Authorized")
	}
	return identity, nil
}
