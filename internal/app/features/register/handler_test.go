package register_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/alumhub/alumhub/internal/app/features/errors"
	"github.com/alumhub/alumhub/internal/app/features/register"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/alumhub/alumhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*register.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return register.NewHandler(db, sm, uierrors.NewErrorLogger(logger), nil, logger), db
}

func postRegister(h *register.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	func() {
		// Validation failures re-render the form, which panics without a
		// booted template engine.
		defer func() { recover() }()
		h.HandleRegisterPost(rec, req)
	}()
	return rec
}

func validForm(email string) url.Values {
	return url.Values{
		"full_name":        {"Rahim Uddin"},
		"email":            {email},
		"phone":            {"01712-345678"},
		"password":         {"sturdy-pass-9"},
		"confirm_password": {"sturdy-pass-9"},
	}
}

func TestHandleRegisterPost_Success(t *testing.T) {
	h, db := newTestHandler(t)

	rec := postRegister(h, validForm("new.member@example.com"))

	if rec.Code != 303 {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("expected redirect to /dashboard, got %q", loc)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	u, err := userstore.New(db).GetByEmail(ctx, "new.member@example.com")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if u.Approved {
		t.Error("new registrations must start unapproved")
	}
	if u.Role != "member" {
		t.Errorf("role: got %q", u.Role)
	}
	if u.Phone != "01712345678" {
		t.Errorf("phone not normalized: got %q", u.Phone)
	}

	// Registration stages an approval stub.
	n, err := db.Collection("unapproved_users").CountDocuments(ctx, bson.M{"user_id": u.ID})
	if err != nil {
		t.Fatalf("count stubs: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 approval stub, got %d", n)
	}
}

func TestHandleRegisterPost_DuplicateEmail(t *testing.T) {
	h, _ := newTestHandler(t)

	first := postRegister(h, validForm("taken@example.com"))
	if first.Code != 303 {
		t.Fatalf("first registration should succeed, got %d", first.Code)
	}

	second := postRegister(h, validForm("taken@example.com"))
	if second.Code == 303 {
		t.Error("duplicate email must not redirect to dashboard")
	}
}

func TestHandleRegisterPost_PasswordMismatch(t *testing.T) {
	h, db := newTestHandler(t)

	form := validForm("mismatch@example.com")
	form.Set("confirm_password", "different-pass")
	rec := postRegister(h, form)

	if rec.Code == 303 {
		t.Error("mismatched passwords must not register")
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := userstore.New(db).GetByEmail(ctx, "mismatch@example.com"); err == nil {
		t.Error("user must not be created on mismatch")
	}
}

func TestHandleRegisterPost_ShortPassword(t *testing.T) {
	h, _ := newTestHandler(t)

	form := validForm("short@example.com")
	form.Set("password", "abc")
	form.Set("confirm_password", "abc")
	rec := postRegister(h, form)

	if rec.Code == 303 {
		t.Error("short password must not register")
	}
}
