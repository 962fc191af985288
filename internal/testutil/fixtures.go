// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateMember inserts an unapproved member plus its staging stub, as
// registration does, and returns the user.
func (f *Fixtures) CreateMember(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    email,
		AuthMethod: models.AuthMethodPassword,
		Role:       models.RoleMember,
		Approved:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}

	stub := models.PendingUser{
		ID:        primitive.NewObjectID(),
		UserID:    u.ID,
		FullName:  fullName,
		Email:     email,
		CreatedAt: now,
	}
	if _, err := f.db.Collection("unapproved_users").InsertOne(ctx, stub); err != nil {
		f.t.Fatalf("failed to create staging stub: %v", err)
	}

	return u
}

// CreateApprovedMember inserts a member already approved with an active
// membership term ending at expiry.
func (f *Fixtures) CreateApprovedMember(ctx context.Context, fullName, email string, expiry time.Time) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	approvedAt := now.Add(-time.Hour)
	u := models.User{
		ID:                 primitive.NewObjectID(),
		FullName:           fullName,
		FullNameCI:         text.Fold(fullName),
		Email:              email,
		EmailCI:            email,
		AuthMethod:         models.AuthMethodPassword,
		Role:               models.RoleMember,
		Approved:           true,
		ApprovedAt:         &approvedAt,
		MembershipExpiry:   &expiry,
		PaymentCountInYear: 1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create approved member: %v", err)
	}
	return u
}

// CreateAdmin inserts an admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    email,
		AuthMethod: models.AuthMethodPassword,
		Role:       models.RoleAdmin,
		Approved:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test admin: %v", err)
	}
	return u
}

// CreatePayment inserts a payment with the given status for a user.
func (f *Fixtures) CreatePayment(ctx context.Context, userID primitive.ObjectID, amount int, status string) models.Payment {
	f.t.Helper()

	p := models.Payment{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		Amount:         amount,
		Method:         models.MethodBkash,
		PayerNumber:    "01712345678",
		TransactionRef: "TRX" + p8(primitive.NewObjectID().Hex()),
		Status:         status,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := f.db.Collection("payments").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test payment: %v", err)
	}
	return p
}

func p8(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
