// internal/app/store/passwordreset/store.go

// Package passwordreset manages single-use password reset tokens. The token
// itself is emailed to the user; only its bcrypt hash is stored, so a
// database leak does not yield working reset links.
package passwordreset

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const (
	// TokenBytes is the raw token length (32 bytes = 64 hex chars).
	TokenBytes = 32
	// DefaultExpiry is how long a reset link stays valid.
	DefaultExpiry = 30 * time.Minute
	// BcryptCost for hashing tokens.
	BcryptCost = 10
)

var (
	// ErrNotFound is returned when no live reset record exists for the user.
	ErrNotFound = errors.New("reset token not found or expired")
	// ErrInvalidToken is returned when the presented token doesn't match.
	ErrInvalidToken = errors.New("invalid reset token")
)

// Reset is a pending password reset.
type Reset struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Email     string             `bson:"email"`
	TokenHash string             `bson:"token_hash"`
	ExpiresAt time.Time          `bson:"expires_at"` // TTL index field
	CreatedAt time.Time          `bson:"created_at"`
}

// Store manages password reset records.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a Store with the given expiry; zero means DefaultExpiry.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{c: db.Collection("password_resets"), expiry: expiry}
}

// Expiry returns how long issued tokens stay valid.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// EnsureIndexes creates the TTL and lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_pwreset_expires_ttl").SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_pwreset_user"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create issues a new reset token for the user, replacing any outstanding
// one, and returns the plaintext token to email.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, email string) (string, error) {
	token := generateToken()

	hash, err := bcrypt.GenerateFromPassword([]byte(token), BcryptCost)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	rec := Reset{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Email:     email,
		TokenHash: string(hash),
		ExpiresAt: now.Add(s.expiry),
		CreatedAt: now,
	}

	// One outstanding reset per user.
	if _, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return "", err
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return "", err
	}
	return token, nil
}

// Consume verifies the token for the user and deletes the record so it
// cannot be replayed. Returns ErrNotFound when no live record exists and
// ErrInvalidToken when the token doesn't match.
func (s *Store) Consume(ctx context.Context, userID primitive.ObjectID, token string) error {
	var rec Reset
	err := s.c.FindOne(ctx, bson.M{
		"user_id":    userID,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.TokenHash), []byte(token)) != nil {
		return ErrInvalidToken
	}

	_, err = s.c.DeleteOne(ctx, bson.M{"_id": rec.ID})
	return err
}

func generateToken() string {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failure makes token issuance unsafe; fail loudly.
		panic("passwordreset: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
