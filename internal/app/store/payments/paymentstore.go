// internal/app/store/payments/paymentstore.go

// Package paymentstore persists membership-fee payment attempts. Records are
// never deleted; status transitions stamp the matching timestamp fields.
package paymentstore

import (
	"context"
	"errors"
	"time"

	"github.com/alumhub/alumhub/internal/app/system/normalize"
	"github.com/alumhub/alumhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when the requested payment does not exist.
	ErrNotFound = errors.New("payment not found")
	// ErrInvalidStatus is returned for a status outside the known vocabulary.
	ErrInvalidStatus = errors.New(`status must be "pending"|"verified"|"completed"|"failed"|"cancelled"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("payments")}
}

// Submit records a new payment attempt with status pending.
func (s *Store) Submit(ctx context.Context, p models.Payment) (models.Payment, error) {
	p.ID = primitive.NewObjectID()
	p.Status = models.PaymentPending
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = nil
	p.VerifiedAt = nil
	p.CompletedAt = nil

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

// SetGatewaySession stores the session key the gateway returned for a
// pending checkout, so the IPN can be cross-checked later.
func (s *Store) SetGatewaySession(ctx context.Context, id primitive.ObjectID, sessionKey string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"gateway_session_key": sessionKey,
		"updated_at":          time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID loads a payment by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var p models.Payment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetBySessionKey loads a payment by the gateway session key issued at
// checkout initiation.
func (s *Store) GetBySessionKey(ctx context.Context, key string) (*models.Payment, error) {
	var p models.Payment
	if err := s.c.FindOne(ctx, bson.M{"gateway_session_key": key}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByTransactionRef loads a payment by its transaction reference.
func (s *Store) GetByTransactionRef(ctx context.Context, ref string) (*models.Payment, error) {
	var p models.Payment
	if err := s.c.FindOne(ctx, bson.M{"transaction_ref": ref}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByUser returns a user's payments, most recent first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payment, error) {
	return s.list(ctx, bson.M{"user_id": userID})
}

// ListAll returns every payment, most recent first.
func (s *Store) ListAll(ctx context.Context) ([]models.Payment, error) {
	return s.list(ctx, bson.M{})
}

// ListByStatus returns payments with the given status, most recent first.
func (s *Store) ListByStatus(ctx context.Context, status string) ([]models.Payment, error) {
	status = normalize.Status(status)
	if !models.ValidPaymentStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.list(ctx, bson.M{"status": status})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// UpdateStatus transitions a payment to a new status, stamping verified_at
// or completed_at when the status reaches that value. gatewayErr, when
// non-empty, is stored in the error field for failed and cancelled payments.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status, gatewayErr string) error {
	status = normalize.Status(status)
	if !models.ValidPaymentStatus(status) {
		return ErrInvalidStatus
	}

	now := time.Now().UTC()
	set := bson.M{
		"status":     status,
		"updated_at": now,
	}
	switch status {
	case models.PaymentVerified:
		set["verified_at"] = now
	case models.PaymentCompleted:
		set["completed_at"] = now
	}
	if gatewayErr != "" {
		set["error"] = gatewayErr
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkCompleted records a successful gateway settlement: status completed,
// completed_at stamped, and the gateway's validation ID stored.
func (s *Store) MarkCompleted(ctx context.Context, id primitive.ObjectID, validationID string) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":                models.PaymentCompleted,
		"gateway_validation_id": validationID,
		"completed_at":          now,
		"updated_at":            now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns how many payments currently hold the given status.
func (s *Store) CountByStatus(ctx context.Context, status string) (int64, error) {
	status = normalize.Status(status)
	if !models.ValidPaymentStatus(status) {
		return 0, ErrInvalidStatus
	}
	return s.c.CountDocuments(ctx, bson.M{"status": status})
}

// EnsureIndexes creates lookup indexes for the payment collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transaction_ref", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
