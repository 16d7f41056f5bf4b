package domain

import (
	"strings"
	"time"
)

// User models an account in the helpdesk. The email doubles as the primary
// key and is stored lowercased; it never changes after signup.
type User struct {
	Email             string    `json:"email" bson:"_id"`
	FirstName         string    `json:"first_name" bson:"first_name"`
	LastName          string    `json:"last_name" bson:"last_name"`
	PasswordHash      string    `json:"-" bson:"password_hash"`
	BillingCustomerID string    `json:"-" bson:"billing_customer_id,omitempty"`
	AccessLevel       int       `json:"access_level" bson:"access_level"`
	Tickets           []string  `json:"tickets" bson:"tickets"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
}

// IsStaff reports whether the user holds a nonzero privilege level.
func (u *User) IsStaff() bool {
	return u.AccessLevel >= 1
}

// NormalizeEmail is the canonical form used for all identity comparisons and
// as the users collection key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
