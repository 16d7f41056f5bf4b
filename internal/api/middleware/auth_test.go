package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	contribsession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/berneytech/helpdesk/internal/core/domain"
)

type stubIdentityService struct {
	restoreFn func(ctx context.Context, email string) (*domain.Identity, error)
}

func (s *stubIdentityService) Restore(ctx context.Context, email string) (*domain.Identity, error) {
	return s.restoreFn(ctx, email)
}

func (s *stubIdentityService) Forget(context.Context, string) error { return nil }

func authedRequest(t *testing.T, store sessions.Store, email string) *http.Request {
	t.Helper()
	seed := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	sess, err := store.New(seed, SessionName)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	sess.Values[EmailClaim] = email
	if err := sess.Save(seed, rec); err != nil {
		t.Fatalf("save session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func runChain(t *testing.T, store sessions.Store, req *http.Request, next echo.HandlerFunc, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := next
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	h = contribsession.Middleware(store)(h)

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestLoadIdentity_RestoresFromSession(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret"))
	identities := &stubIdentityService{
		restoreFn: func(_ context.Context, email string) (*domain.Identity, error) {
			return &domain.Identity{User: &domain.User{Email: email}, Subscription: "premium"}, nil
		},
	}

	req := authedRequest(t, store, "a@x.com")
	called := false
	rec := runChain(t, store, req, func(c echo.Context) error {
		called = true
		identity, ok := CurrentIdentity(c)
		if !ok {
			t.Fatalf("identity not injected")
		}
		if identity.User.Email != "a@x.com" || identity.Subscription != "premium" {
			t.Fatalf("unexpected identity: %+v", identity)
		}
		return c.NoContent(http.StatusOK)
	}, LoadIdentity(identities, zerolog.Nop()))

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLoadIdentity_AnonymousPassesThrough(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret"))
	identities := &stubIdentityService{
		restoreFn: func(_ context.Context, _ string) (*domain.Identity, error) {
			t.Fatalf("restore must not run without a session claim")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := runChain(t, store, req, func(c echo.Context) error {
		if _, ok := CurrentIdentity(c); ok {
			t.Fatalf("anonymous request must carry no identity")
		}
		return c.NoContent(http.StatusOK)
	}, LoadIdentity(identities, zerolog.Nop()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLoadIdentity_StaleClaimTreatedAsAnonymous(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret"))
	identities := &stubIdentityService{
		restoreFn: func(_ context.Context, _ string) (*domain.Identity, error) {
			return nil, domain.ErrUserNotFound
		},
	}

	req := authedRequest(t, store, "gone@x.com")
	rec := runChain(t, store, req, func(c echo.Context) error {
		if _, ok := CurrentIdentity(c); ok {
			t.Fatalf("stale claim must not produce an identity")
		}
		return c.NoContent(http.StatusOK)
	}, LoadIdentity(identities, zerolog.Nop()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()

	// Anonymous → 401.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := RequireAuth(func(c echo.Context) error {
		t.Fatalf("next must not run for anonymous caller")
		return nil
	})(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	// Authenticated → pass.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(identityKey, &domain.Identity{User: &domain.User{Email: "a@x.com"}})
	if err := RequireAuth(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAccessLevel(t *testing.T) {
	e := echo.New()

	cases := []struct {
		name     string
		identity *domain.Identity
		want     int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"ordinary user", &domain.Identity{User: &domain.User{AccessLevel: 0}}, http.StatusUnauthorized},
		{"staff", &domain.Identity{User: &domain.User{AccessLevel: 1}}, http.StatusOK},
		{"admin", &domain.Identity{User: &domain.User{AccessLevel: 5}}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.identity != nil {
				c.Set(identityKey, tc.identity)
			}

			err := RequireAccessLevel(1)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})(c)
			if err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
