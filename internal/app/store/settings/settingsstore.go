// internal/app/store/settings/settingsstore.go

// Package settingsstore persists the single site-settings document that the
// admin console edits and every page's chrome reads.
package settingsstore

import (
	"context"
	"time"

	"github.com/alumhub/alumhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// settingsKey identifies the single settings document.
const settingsKey = "site"

// Store provides access to the site_settings collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("site_settings")}
}

// Get returns the site settings, falling back to defaults when none have
// been saved yet.
func (s *Store) Get(ctx context.Context) (models.SiteSettings, error) {
	var settings models.SiteSettings
	err := s.c.FindOne(ctx, bson.M{"key": settingsKey}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return models.SiteSettings{
			SiteName:      models.DefaultSiteName,
			MembershipFee: models.DefaultMembershipFee,
		}, nil
	}
	if err != nil {
		return models.SiteSettings{}, err
	}
	if settings.MembershipFee <= 0 {
		settings.MembershipFee = models.DefaultMembershipFee
	}
	return settings, nil
}

// Save upserts the site settings document.
func (s *Store) Save(ctx context.Context, settings models.SiteSettings) error {
	now := time.Now().UTC()
	settings.UpdatedAt = &now

	update := bson.M{
		"$set": bson.M{
			"key":             settingsKey,
			"site_name":       settings.SiteName,
			"tagline":         settings.Tagline,
			"contact_email":   settings.ContactEmail,
			"membership_fee":  settings.MembershipFee,
			"footer_html":     settings.FooterHTML,
			"updated_at":      settings.UpdatedAt,
			"updated_by_id":   settings.UpdatedByID,
			"updated_by_name": settings.UpdatedByName,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"key": settingsKey}, update, opts)
	return err
}

// Exists checks whether settings have ever been saved.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"key": settingsKey})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
