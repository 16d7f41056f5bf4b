package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/berneytech/helpdesk/internal/api/metrics"
	"github.com/berneytech/helpdesk/internal/core/domain"
	"github.com/berneytech/helpdesk/internal/core/ports"
)

// bcryptCost matches the cost factor existing account hashes were generated
// with, so they keep verifying.
const bcryptCost = 10

// AuthService implements signup and login against the user repository and
// the billing provider.
type AuthService struct {
	users   ports.UserRepository
	billing ports.BillingProvider
	logger  zerolog.Logger
}

func NewAuthService(users ports.UserRepository, billing ports.BillingProvider, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, billing: billing, logger: logger}
}

// HashPassword produces a salted one-way hash of the plaintext.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the user's stored hash.
// Fails closed: any error counts as a mismatch.
func VerifyPassword(user *domain.User, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)) == nil
}

func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	email := domain.NormalizeEmail(input.Email)

	// Cheap pre-check so the common duplicate case never reaches the billing
	// provider. The unique index still catches the race.
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrDuplicateUser
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	customerID, err := s.billing.CreateCustomer(ctx, email, input.FirstName+" "+input.LastName)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("billing customer creation failed")
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrBillingUnavailable, err)
	}

	user := &domain.User{
		Email:             email,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		PasswordHash:      hash,
		BillingCustomerID: customerID,
		AccessLevel:       0,
		Tickets:           []string{},
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A lost duplicate race (or any store failure) leaves the billing
		// customer without a user; delete it so the provider stays in sync.
		if delErr := s.billing.DeleteCustomer(ctx, customerID); delErr != nil {
			s.logger.Error().Err(delErr).Str("email", email).Str("customer_id", customerID).Msg("compensating billing customer delete failed")
		}
		if errors.Is(err, domain.ErrDuplicateUser) {
			metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.SignupsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	s.logger.Info().Str("email", email).Msg("user signed up")
	metrics.SignupsTotal.WithLabelValues("success").Inc()
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(user, password) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	s.logger.Info().Str("email", user.Email).Msg("user logged in")
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, nil
}
