package ports

import "context"

// BillingProvider is the external billing collaborator. Implementations talk
// to the payment platform; the core only sees customer ids and a subscription
// status string.
type BillingProvider interface {
	// CreateCustomer registers a billing customer for a new user and returns
	// the provider-side id.
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	// DeleteCustomer removes a billing customer. Compensation counterpart of
	// CreateCustomer for signups that fail after the customer exists.
	DeleteCustomer(ctx context.Context, customerID string) error
	// SubscriptionStatus resolves the active subscription for a customer.
	// Returns domain.SubscriptionNone when the customer has none.
	SubscriptionStatus(ctx context.Context, customerID string) (string, error)
}

// SubscriptionCache holds recently resolved subscription statuses so the
// billing provider is not consulted on every authenticated request.
type SubscriptionCache interface {
	Get(ctx context.Context, email string) (status string, ok bool, err error)
	Set(ctx context.Context, email, status string) error
	Invalidate(ctx context.Context, email string) error
}
