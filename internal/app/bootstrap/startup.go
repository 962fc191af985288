// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/alumhub/alumhub/internal/app/resources"
	"github.com/alumhub/alumhub/internal/app/system/normalize"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to load shared resources (like templates), warm caches, or perform
// any app-wide setup that depends on config and backends.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
		return err
	}

	return nil
}

// ensureAdmin promotes the configured account to the admin role, creating
// it when it does not exist yet. A created account has no password; the
// operator signs in with Google or sets a password through the reset flow.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	if email == "" {
		return nil
	}
	email = normalize.Email(email)
	users := deps.AlumHubMongoDatabase.Collection("users")
	now := time.Now().UTC()

	var existing struct {
		ID   interface{} `bson:"_id"`
		Role string      `bson:"role"`
	}
	err := users.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	switch {
	case err == nil:
		if existing.Role == "admin" {
			return nil
		}
		_, err := users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{
			"role":        "admin",
			"approved":    true,
			"approved_at": now,
			"updated_at":  now,
		}})
		if err != nil {
			return err
		}
		logger.Info("promoted existing user to admin", zap.String("email", email))
		return nil

	case err == mongo.ErrNoDocuments:
		_, err := users.InsertOne(ctx, bson.M{
			"full_name":             "Administrator",
			"full_name_ci":          text.Fold("Administrator"),
			"email":                 email,
			"email_ci":              text.Fold(email),
			"auth_method":           "google",
			"role":                  "admin",
			"approved":              true,
			"approved_at":           now,
			"payment_count_in_year": 0,
			"created_at":            now,
			"updated_at":            now,
		})
		if err != nil {
			return err
		}
		logger.Info("created admin account", zap.String("email", email))
		return nil

	default:
		return err
	}
}
