// internal/app/store/users/approval.go
package userstore

import (
	"context"
	"time"

	"github.com/alumhub/alumhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SetApproval records an admin's approve/reject decision for a member.
//
// Approving sets approved=true, stamps approved_at and approved_by, grants a
// membership term of MembershipTermMonths from now, and advances the rolling
// payment counter: once the counter has reached PaymentCountResetThreshold
// it resets to 1, otherwise it increments. Re-approving an already-approved
// member grants a fresh term from now, extending again.
//
// Rejecting stamps rejected_at and clears approved_at and membership_expiry.
//
// Either way the unapproved_users staging stub is removed.
func (s *Store) SetApproval(ctx context.Context, id primitive.ObjectID, approve bool, actor primitive.ObjectID) (*models.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var update bson.M

	if approve {
		expiry := now.AddDate(0, models.MembershipTermMonths, 0)
		count := u.PaymentCountInYear + 1
		if u.PaymentCountInYear >= models.PaymentCountResetThreshold {
			count = 1
		}
		update = bson.M{
			"$set": bson.M{
				"approved":              true,
				"approved_at":           now,
				"approved_by":           actor,
				"membership_expiry":     expiry,
				"payment_count_in_year": count,
				"updated_at":            now,
			},
			"$unset": bson.M{"rejected_at": ""},
		}
	} else {
		update = bson.M{
			"$set": bson.M{
				"approved":    false,
				"rejected_at": now,
				"updated_at":  now,
			},
			"$unset": bson.M{
				"approved_at":       "",
				"approved_by":       "",
				"membership_expiry": "",
			},
		}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	// Decision made: the staging stub has served its purpose.
	if _, err := s.pending.DeleteMany(ctx, bson.M{"user_id": id}); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// RecordPayment stamps last_payment_date on a user when a payment completes.
func (s *Store) RecordPayment(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"last_payment_date": at.UTC(),
		"updated_at":        time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
