// internal/app/store/users/userstore.go

// Package userstore persists member and admin records in the users
// collection, plus the unapproved_users staging stubs the admin console
// lists while a registration awaits review.
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/alumhub/alumhub/internal/app/system/normalize"
	"github.com/alumhub/alumhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrNotFound is returned when the requested user does not exist.
	ErrNotFound = errors.New("user not found")

	errBadRole       = errors.New(`role must be "admin"|"member"`)
	errBadAuthMethod = errors.New(`auth_method must be "password"|"google"`)
)

type Store struct {
	c       *mongo.Collection
	pending *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("users"),
		pending: db.Collection("unapproved_users"),
	}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields, and
// stages an unapproved_users stub when the user starts out unapproved.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.EmailCI = u.Email
	u.Phone = normalize.Phone(u.Phone)
	u.Role = normalize.Role(u.Role)
	if u.Role == "" {
		u.Role = models.RoleMember
	}

	switch u.Role {
	case models.RoleAdmin, models.RoleMember:
	default:
		return models.User{}, errBadRole
	}

	switch u.AuthMethod {
	case models.AuthMethodPassword, models.AuthMethodGoogle:
	default:
		return models.User{}, errBadAuthMethod
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}

	if !u.Approved && u.Role == models.RoleMember {
		stub := models.PendingUser{
			ID:        primitive.NewObjectID(),
			UserID:    u.ID,
			FullName:  u.FullName,
			Email:     u.Email,
			CreatedAt: now,
		}
		if _, err := s.pending.InsertOne(ctx, stub); err != nil {
			// The authoritative record exists; a missing stub only hides
			// the user from the pending list, so surface the error.
			return models.User{}, err
		}
	}

	return u, nil
}

// List returns users ordered by creation time, optionally filtered by role.
func (s *Store) List(ctx context.Context, role string) ([]models.User, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = normalize.Role(role)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListPending returns members awaiting approval, oldest first.
func (s *Store) ListPending(ctx context.Context) ([]models.User, error) {
	filter := bson.M{
		"role":        models.RoleMember,
		"approved":    false,
		"rejected_at": nil,
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// MemberCounts summarizes the membership for the admin overview.
type MemberCounts struct {
	Total    int64
	Approved int64
	Pending  int64
	Rejected int64
}

// CountMembers tallies members by standing.
func (s *Store) CountMembers(ctx context.Context) (MemberCounts, error) {
	var counts MemberCounts
	var err error

	base := bson.M{"role": models.RoleMember}
	if counts.Total, err = s.c.CountDocuments(ctx, base); err != nil {
		return MemberCounts{}, err
	}
	if counts.Approved, err = s.c.CountDocuments(ctx, bson.M{"role": models.RoleMember, "approved": true}); err != nil {
		return MemberCounts{}, err
	}
	if counts.Pending, err = s.c.CountDocuments(ctx, bson.M{"role": models.RoleMember, "approved": false, "rejected_at": nil}); err != nil {
		return MemberCounts{}, err
	}
	if counts.Rejected, err = s.c.CountDocuments(ctx, bson.M{"role": models.RoleMember, "rejected_at": bson.M{"$ne": nil}}); err != nil {
		return MemberCounts{}, err
	}
	return counts, nil
}

// EmailExistsForOther checks if an email already exists for a user other than the given ID.
func (s *Store) EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"email": normalize.Email(email),
		"_id":   bson.M{"$ne": excludeID},
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// UpdatePassword replaces a user's password hash.
func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index and lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email_ci", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "full_name_ci", Value: 1},
			},
		},
	}
	if _, err := s.c.Indexes().CreateMany(ctx, indexes); err != nil {
		return err
	}
	_, err := s.pending.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
