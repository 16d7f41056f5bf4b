package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/berneytech/helpdesk/internal/api/metrics"
	"github.com/berneytech/helpdesk/internal/core/domain"
	"github.com/berneytech/helpdesk/internal/core/ports"
)

// IdentityService rebuilds the full identity from the email claim stored in
// the session. It runs on every authenticated request, so the subscription
// status goes through a cache and the billing provider is only consulted on
// a miss.
type IdentityService struct {
	users   ports.UserRepository
	billing ports.BillingProvider
	cache   ports.SubscriptionCache
	logger  zerolog.Logger
}

func NewIdentityService(users ports.UserRepository, billing ports.BillingProvider, cache ports.SubscriptionCache, logger zerolog.Logger) *IdentityService {
	return &IdentityService{users: users, billing: billing, cache: cache, logger: logger}
}

func (s *IdentityService) Restore(ctx context.Context, email string) (*domain.Identity, error) {
	email = domain.NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return &domain.Identity{
		User:         user,
		Subscription: s.subscriptionStatus(ctx, user),
	}, nil
}

// subscriptionStatus never fails the restore: a billing outage degrades the
// status to SubscriptionNone and the user stays authenticated.
func (s *IdentityService) subscriptionStatus(ctx context.Context, user *domain.User) string {
	if user.BillingCustomerID == "" {
		return domain.SubscriptionNone
	}

	if status, ok, err := s.cache.Get(ctx, user.Email); err != nil {
		s.logger.Warn().Err(err).Str("email", user.Email).Msg("subscription cache read failed")
	} else if ok {
		metrics.SubscriptionCacheTotal.WithLabelValues("hit").Inc()
		return status
	}
	metrics.SubscriptionCacheTotal.WithLabelValues("miss").Inc()

	start := time.Now()
	status, err := s.billing.SubscriptionStatus(ctx, user.BillingCustomerID)
	if err != nil {
		metrics.BillingLookupDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		s.logger.Warn().Err(err).Str("email", user.Email).Msg("subscription lookup failed, degrading to none")
		return domain.SubscriptionNone
	}
	metrics.BillingLookupDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	if err := s.cache.Set(ctx, user.Email, status); err != nil {
		s.logger.Warn().Err(err).Str("email", user.Email).Msg("subscription cache write failed")
	}
	return status
}

func (s *IdentityService) Forget(ctx context.Context, email string) error {
	return s.cache.Invalidate(ctx, domain.NormalizeEmail(email))
}
