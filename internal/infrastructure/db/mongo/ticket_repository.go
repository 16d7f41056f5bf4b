package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/berneytech/helpdesk/internal/core/domain"
)

const (
	ticketCollection  = "tickets"
	messageCollection = "messages"
)

// TicketRepository persists tickets with generated string ids.
type TicketRepository struct {
	coll *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{coll: db.Collection(ticketCollection)}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ticket.ID = primitive.NewObjectID().Hex()
	if _, err := r.coll.InsertOne(ctx, ticket); err != nil {
		ticket.ID = ""
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ticket domain.Ticket
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return &ticket, nil
}

// AppendMessage relies on the store's atomic per-document update; concurrent
// appends to the same ticket serialize on the $push.
func (r *TicketRepository) AppendMessage(ctx context.Context, ticketID, messageID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": ticketID},
		bson.M{"$push": bson.M{"messages": messageID}},
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes backing owner lookups.
func (r *TicketRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "author", Value: 1}},
	})
	return err
}

// MessageRepository persists ticket messages.
type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{coll: db.Collection(messageCollection)}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	message.ID = primitive.NewObjectID().Hex()
	if _, err := r.coll.InsertOne(ctx, message); err != nil {
		message.ID = ""
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// FindByTicket returns messages in creation order.
func (r *MessageRepository) FindByTicket(ctx context.Context, ticketID string) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"ticket_id": ticketID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []*domain.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// EnsureIndexes creates the index backing thread queries.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ticket_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}
