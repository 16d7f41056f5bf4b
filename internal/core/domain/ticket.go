package domain

import "time"

// Ticket is a support request thread owned by a single user. The author is
// immutable and the message sequence is append-only.
type Ticket struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	Categories []string  `json:"categories" bson:"categories"`
	Author     string    `json:"author" bson:"author"`
	Messages   []string  `json:"messages" bson:"messages"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// IsOwnedBy compares the ticket author against an email using the canonical
// normalized form.
func (t *Ticket) IsOwnedBy(email string) bool {
	return NormalizeEmail(t.Author) == NormalizeEmail(email)
}

// Message is one entry in a ticket's thread. Immutable once created.
type Message struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	TicketID  string    `json:"ticket_id" bson:"ticket_id"`
	Author    string    `json:"author" bson:"author"`
	Body      string    `json:"body" bson:"body"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
