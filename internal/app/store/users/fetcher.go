package userstore

import (
	"context"

	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewFetcher returns an auth.UserFetcher that reloads the user from the
// database on each request, so approval decisions and role edits take
// effect without a re-login. A missing user invalidates the session.
func NewFetcher(db *mongo.Database) auth.UserFetcher {
	users := db.Collection("users")

	return func(ctx context.Context, userID string) (*auth.SessionUser, bool) {
		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return nil, false
		}

		ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
		defer cancel()

		proj := options.FindOne().SetProjection(bson.M{
			"_id":       1,
			"full_name": 1,
			"email":     1,
			"role":      1,
		})

		var u models.User
		if err := users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
			return nil, false
		}

		return &auth.SessionUser{
			ID:    u.ID.Hex(),
			Name:  u.FullName,
			Email: u.Email,
			Role:  u.Role,
		}, true
	}
}
