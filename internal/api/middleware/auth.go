package middleware

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/berneytech/helpdesk/internal/core/domain"
	"github.com/berneytech/helpdesk/internal/core/ports"
)

const (
	// SessionName is the cookie/session name shared by the handlers.
	SessionName = "helpdesk-session"
	// EmailClaim is the only value serialized into the session; the full
	// identity is re-resolved from it on every request.
	EmailClaim = "email"

	identityKey = "identity"
)

// CurrentIdentity returns the identity restored by LoadIdentity, if any.
func CurrentIdentity(c echo.Context) (*domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(*domain.Identity)
	return identity, ok
}

// LoadIdentity restores the authenticated identity from the session cookie
// and injects it into the request context. Requests without a valid session,
// or whose stored claim no longer resolves to a user, proceed as anonymous;
// rejection is left to RequireAuth on the routes that need it.
func LoadIdentity(identities ports.IdentityService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(SessionName, c)
			if err != nil {
				return next(c)
			}

			email, _ := sess.Values[EmailClaim].(string)
			if email == "" {
				return next(c)
			}

			identity, err := identities.Restore(c.Request().Context(), email)
			if err != nil {
				// Stale claim: the session outlived the user record.
				log.Warn().Err(err).Str("email", email).Msg("session claim failed to restore")
				return next(c)
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// RequireAuth rejects requests that carry no restored identity.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := CurrentIdentity(c); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not Authorized")
		}
		return next(c)
	}
}

// RequireAccessLevel gates privileged endpoints on the user's numeric
// privilege level. The rejection carries a fixed message; no detail leaks.
func RequireAccessLevel(min int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := CurrentIdentity(c)
			if !ok || identity.User.AccessLevel < min {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not Authorized")
			}
			return next(c)
		}
	}
}
