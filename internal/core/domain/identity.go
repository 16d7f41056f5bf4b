package domain

// SubscriptionNone is the status reported when the billing provider knows of
// no active subscription for the user, or when the user has no billing
// customer at all.
const SubscriptionNone = "None"

// Identity is the fully restored view of an authenticated user: the user
// record plus the billing subscription status resolved for this request.
type Identity struct {
	User         *User  `json:"user"`
	Subscription string `json:"subscription"`
}
