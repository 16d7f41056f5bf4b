// Package billing talks to Stripe. The core only sees the BillingProvider
// port; everything Stripe-specific stays here.
package billing

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/berneytech/helpdesk/internal/core/domain"
)

// StripeProvider implements ports.BillingProvider against the Stripe API.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(apiKey string) *StripeProvider {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeProvider{api: api}
}

// CreateCustomer registers a Stripe customer for a new signup and returns
// its id for storage on the user record.
func (p *StripeProvider) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx

	customer, err := p.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return customer.ID, nil
}

// DeleteCustomer removes a Stripe customer created for a signup that did not
// complete.
func (p *StripeProvider) DeleteCustomer(ctx context.Context, customerID string) error {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	if _, err := p.api.Customers.Del(customerID, params); err != nil {
		return fmt.Errorf("stripe delete customer: %w", err)
	}
	return nil
}

// SubscriptionStatus returns the plan nickname of the customer's first active
// subscription, "active" when the plan carries no nickname, and
// domain.SubscriptionNone when nothing is active.
func (p *StripeProvider) SubscriptionStatus(ctx context.Context, customerID string) (string, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx

	iter := p.api.Subscriptions.List(params)
	for iter.Next() {
		sub := iter.Subscription()
		if sub.Items != nil && len(sub.Items.Data) > 0 {
			if price := sub.Items.Data[0].Price; price != nil && price.Nickname != "" {
				return price.Nickname, nil
			}
		}
		return string(stripe.SubscriptionStatusActive), nil
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("stripe list subscriptions: %w", err)
	}
	return domain.SubscriptionNone, nil
}
