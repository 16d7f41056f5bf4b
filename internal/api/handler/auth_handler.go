package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/berneytech/helpdesk/internal/api/middleware"
	"github.com/berneytech/helpdesk/internal/core/domain"
	"github.com/berneytech/helpdesk/internal/core/ports"
)

// AuthHandler serves login, signup, identity lookup, and logout.
type AuthHandler struct {
	auth       ports.AuthService
	identities ports.IdentityService
	logger     zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, identities ports.IdentityService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, identities: identities, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"firstName" validate:"required,min=1"`
	LastName        string `json:"lastName" validate:"required,min=1"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// Login verifies credentials and establishes a session holding the email
// claim. Bad credentials return the fixed 401 array body the frontend keys
// on; whether the user exists is never distinguishable from a wrong password.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, []string{"user doesn't exist"})
		}
		return err
	}

	sess, err := session.Get(middleware.SessionName, c)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	// A login never reuses a pre-authentication session id, so a fixated
	// cookie cannot inherit the new claim. The superseded server-side record
	// ages out via the TTL index.
	sess.ID = ""
	sess.Values[middleware.EmailClaim] = user.Email
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return c.JSON(http.StatusOK, "OK")
}

// Signup validates the registration payload, creates the billing customer
// and the user record. Validation failures return 422 with per-field errors
// and never reach the store.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.auth.Signup(c.Request().Context(), ports.SignupInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, "OK")
}

// Get returns the restored identity for the current session, or JSON null
// for anonymous callers. Always 200.
func (h *AuthHandler) Get(c echo.Context) error {
	if identity, ok := middleware.CurrentIdentity(c); ok {
		return c.JSON(http.StatusOK, identity)
	}
	return c.JSON(http.StatusOK, nil)
}

// Logout destroys the server-side session, expires the cookie, and drops the
// cached subscription status.
func (h *AuthHandler) Logout(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	sess, err := session.Get(middleware.SessionName, c)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	sess.Options.MaxAge = -1
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		h.logger.Error().Err(err).Str("email", identity.User.Email).Msg("session teardown failed")
		return c.JSON(http.StatusInternalServerError, "error logging out")
	}

	if err := h.identities.Forget(c.Request().Context(), identity.User.Email); err != nil {
		h.logger.Warn().Err(err).Str("email", identity.User.Email).Msg("subscription cache invalidation failed")
	}

	return c.JSON(http.StatusOK, "OK")
}
