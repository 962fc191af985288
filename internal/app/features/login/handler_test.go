package login_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/alumhub/alumhub/internal/app/features/errors"
	"github.com/alumhub/alumhub/internal/app/features/login"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/alumhub/alumhub/internal/app/system/authutil"
	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/alumhub/alumhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*login.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	errLog := uierrors.NewErrorLogger(logger)
	return login.NewHandler(db, sm, errLog, nil, false, logger), db
}

func createPasswordUser(t *testing.T, db *mongo.Database, email, password string) models.User {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hash, err := authutil.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err := userstore.New(db).Create(ctx, models.User{
		FullName:   "Login Test User",
		Email:      email,
		AuthMethod: models.AuthMethodPassword,
		Role:       models.RoleMember,
		PasswordHash: &hash,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func postLogin(h *login.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	func() {
		// Error paths re-render the form, which panics without a booted
		// template engine.
		defer func() { recover() }()
		h.HandleLoginPost(rec, req)
	}()
	return rec
}

func TestHandleLoginPost_Success(t *testing.T) {
	h, db := newTestHandler(t)
	createPasswordUser(t, db, "member@example.com", "correct-horse")

	rec := postLogin(h, url.Values{
		"email":    {"member@example.com"},
		"password": {"correct-horse"},
	})

	if rec.Code != 303 {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("expected redirect to /dashboard, got %q", loc)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie to be set")
	}
}

func TestHandleLoginPost_SafeReturnURL(t *testing.T) {
	h, db := newTestHandler(t)
	createPasswordUser(t, db, "member2@example.com", "correct-horse")

	rec := postLogin(h, url.Values{
		"email":    {"member2@example.com"},
		"password": {"correct-horse"},
		"return":   {"/dashboard/profile"},
	})

	if rec.Code != 303 {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard/profile" {
		t.Errorf("expected redirect to return url, got %q", loc)
	}
}

func TestHandleLoginPost_WrongPassword(t *testing.T) {
	h, db := newTestHandler(t)
	createPasswordUser(t, db, "member3@example.com", "correct-horse")

	rec := postLogin(h, url.Values{
		"email":    {"member3@example.com"},
		"password": {"wrong-password"},
	})

	if rec.Code == 303 {
		t.Error("wrong password must not redirect to dashboard")
	}
}

func TestHandleLoginPost_UnknownEmail(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postLogin(h, url.Values{
		"email":    {"nobody@example.com"},
		"password": {"whatever"},
	})

	if rec.Code == 303 {
		t.Error("unknown email must not redirect to dashboard")
	}
}

func TestHandleLoginPost_EmailNormalized(t *testing.T) {
	h, db := newTestHandler(t)
	createPasswordUser(t, db, "Mixed.Case@Example.com", "correct-horse")

	rec := postLogin(h, url.Values{
		"email":    {"  MIXED.CASE@EXAMPLE.COM  "},
		"password": {"correct-horse"},
	})

	if rec.Code != 303 {
		t.Errorf("expected 303 for case-folded email, got %d", rec.Code)
	}
}
