package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/berneytech/helpdesk/internal/core/domain"
	"github.com/berneytech/helpdesk/internal/core/ports"
)

type stubUserRepo struct {
	users      map[string]*domain.User
	createErr  error
	appendErr  error
	appendedTo []string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[domain.NormalizeEmail(email)]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.users[user.Email]; exists {
		return domain.ErrDuplicateUser
	}
	r.users[user.Email] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) AppendTicket(_ context.Context, email, ticketID string) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	u, ok := r.users[domain.NormalizeEmail(email)]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Tickets = append(u.Tickets, ticketID)
	r.appendedTo = append(r.appendedTo, ticketID)
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

type stubBilling struct {
	customerErr error
	statusErr   error
	status      string
	customers   int
	lookups     int
	deleted     []string
}

func (b *stubBilling) CreateCustomer(_ context.Context, email, _ string) (string, error) {
	if b.customerErr != nil {
		return "", b.customerErr
	}
	b.customers++
	return "cus_" + email, nil
}

func (b *stubBilling) DeleteCustomer(_ context.Context, customerID string) error {
	b.deleted = append(b.deleted, customerID)
	return nil
}

func (b *stubBilling) SubscriptionStatus(_ context.Context, _ string) (string, error) {
	b.lookups++
	if b.statusErr != nil {
		return "", b.statusErr
	}
	return b.status, nil
}

func signup(t *testing.T, svc *AuthService, email, password string) *domain.User {
	t.Helper()
	user, err := svc.Signup(context.Background(), ports.SignupInput{
		Email:     email,
		FirstName: "A",
		LastName:  "B",
		Password:  password,
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	return user
}

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, &stubBilling{}, zerolog.Nop())

	user := signup(t, svc, "Alice@Example.com", "secret1")

	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "secret1" || user.PasswordHash == "" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.BillingCustomerID != "cus_alice@example.com" {
		t.Fatalf("expected billing customer id, got %q", user.BillingCustomerID)
	}
	if user.AccessLevel != 0 {
		t.Fatalf("new users must start at access level 0, got %d", user.AccessLevel)
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	billing := &stubBilling{}
	svc := NewAuthService(repo, billing, zerolog.Nop())

	signup(t, svc, "bob@example.com", "secret1")
	if _, err := svc.Signup(context.Background(), ports.SignupInput{
		Email: "bob@example.com", FirstName: "B", LastName: "C", Password: "secret2",
	}); !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("store must contain exactly one user, got %d", len(repo.users))
	}
	if billing.customers != 1 {
		t.Fatalf("duplicate signup must not create a second billing customer, got %d", billing.customers)
	}
}

func TestAuthService_Signup_BillingFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, &stubBilling{customerErr: fmt.Errorf("provider down")}, zerolog.Nop())

	_, err := svc.Signup(context.Background(), ports.SignupInput{
		Email: "carol@example.com", FirstName: "C", LastName: "D", Password: "secret1",
	})
	if !errors.Is(err, domain.ErrBillingUnavailable) {
		t.Fatalf("expected ErrBillingUnavailable, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("no user may be stored when the billing provider fails")
	}
}

func TestAuthService_Signup_LostRaceDeletesBillingCustomer(t *testing.T) {
	repo := newStubUserRepo()
	repo.createErr = domain.ErrDuplicateUser
	billing := &stubBilling{}
	svc := NewAuthService(repo, billing, zerolog.Nop())

	// The pre-check sees no user, so the insert itself loses the race.
	_, err := svc.Signup(context.Background(), ports.SignupInput{
		Email: "race@example.com", FirstName: "R", LastName: "C", Password: "secret1",
	})
	if !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
	if len(billing.deleted) != 1 || billing.deleted[0] != "cus_race@example.com" {
		t.Fatalf("billing customer must be deleted when the insert fails, got %v", billing.deleted)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, &stubBilling{}, zerolog.Nop())

	signup(t, svc, "dave@example.com", "goodpass")

	user, err := svc.Login(context.Background(), "DAVE@example.com", "goodpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Email != "dave@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, &stubBilling{}, zerolog.Nop())

	signup(t, svc, "erin@example.com", "goodpass")
	if _, err := svc.Login(context.Background(), "erin@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), &stubBilling{}, zerolog.Nop())

	// A missing user and a wrong password are indistinguishable to callers.
	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	user := &domain.User{PasswordHash: hash}
	if !VerifyPassword(user, "s3cret!") {
		t.Fatalf("expected hash to verify its own plaintext")
	}
	if VerifyPassword(user, "s3cret") {
		t.Fatalf("expected mismatching plaintext to fail")
	}
}
