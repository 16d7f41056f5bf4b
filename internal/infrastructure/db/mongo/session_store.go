package mongo

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollection = "sessions"

// SessionStore implements gorilla's sessions.Store on top of a MongoDB
// collection. The cookie carries only the signed session id; all values live
// in the session document. Expired documents are reaped by a TTL index.
type SessionStore struct {
	coll    *mongo.Collection
	codecs  []securecookie.Codec
	options *sessions.Options
	ttl     time.Duration
}

type sessionDoc struct {
	ID         string    `bson:"_id"`
	Data       string    `bson:"data"`
	ModifiedAt time.Time `bson:"modified_at"`
	ExpiresAt  time.Time `bson:"expires_at"`
}

func NewSessionStore(db *mongo.Database, secret []byte, ttl time.Duration, secure bool) *SessionStore {
	return &SessionStore{
		coll:   db.Collection(sessionCollection),
		codecs: securecookie.CodecsFromPairs(secret),
		options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		},
		ttl: ttl,
	}
}

// Get returns the request-cached session, loading it on first use.
func (s *SessionStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session referenced by the request cookie, or returns a fresh
// one when the cookie is missing, malformed, or points at an expired or
// deleted document. A bad cookie is never an error, just an anonymous session.
func (s *SessionStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, cookie.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	var doc sessionDoc
	if err := s.coll.FindOne(r.Context(), bson.M{"_id": id}).Decode(&doc); err != nil {
		return session, nil
	}
	if time.Now().After(doc.ExpiresAt) {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, doc.Data, &session.Values, s.codecs...); err != nil {
		return session, nil
	}

	session.ID = id
	session.IsNew = false
	return session, nil
}

// Save persists the session document and (re)writes the cookie. A negative
// MaxAge destroys the session server-side and expires the cookie; a failed
// delete surfaces so logout can report the teardown error.
func (s *SessionStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if _, err := s.coll.DeleteOne(r.Context(), bson.M{"_id": session.ID}); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = primitive.NewObjectID().Hex()
	}

	data, err := securecookie.EncodeMulti(session.Name(), session.Values, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}

	now := time.Now().UTC()
	doc := sessionDoc{
		ID:         session.ID,
		Data:       data,
		ModifiedAt: now,
		ExpiresAt:  now.Add(s.ttl),
	}
	_, err = s.coll.ReplaceOne(r.Context(),
		bson.M{"_id": session.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// EnsureIndexes creates the TTL index that reaps expired session documents.
func (s *SessionStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}
