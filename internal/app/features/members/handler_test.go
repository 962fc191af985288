package members_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	uierrors "github.com/alumhub/alumhub/internal/app/features/errors"
	"github.com/alumhub/alumhub/internal/app/features/members"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/alumhub/alumhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*members.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return members.NewHandler(db, uierrors.NewErrorLogger(logger), nil, logger), testutil.NewFixtures(t, db)
}

func postDecision(h http.HandlerFunc, actor models.User, memberID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/admin/users/"+memberID+"/decision", nil)
	req = testutil.WithUser(req, testutil.TestUser{
		ID: actor.ID.Hex(), Name: actor.FullName, Email: actor.Email, Role: actor.Role,
	})
	req = testutil.WithChiURLParam(req, "id", memberID)
	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		h(rec, req)
	}()
	return rec
}

func TestServeList_Renders(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateMember(ctx, "Pending Person", "pending-person@example.com")
	fx.CreateApprovedMember(ctx, "Active Person", "active-person@example.com",
		time.Now().UTC().Add(90*24*time.Hour))

	req := testutil.NewAuthenticatedRequest("GET", "/admin/users?filter=pending", testutil.AdminUser())
	rec := httptest.NewRecorder()

	// Render panics without a booted template engine; the query and
	// filtering before it are what this exercises.
	func() {
		defer func() { recover() }()
		h.ServeList(rec, req)
	}()
}

func TestHandleApprove_ApprovesAndExtendsMembership(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	actor := fx.CreateAdmin(ctx, "Deciding Admin", "deciding-admin@example.com")
	member := fx.CreateMember(ctx, "Approve Me", "approve-me@example.com")

	rec := postDecision(h.HandleApprove, actor, member.ID.Hex())

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "decided=approved") {
		t.Errorf("Location = %q, want decided=approved", loc)
	}

	got, err := userstore.New(fx.DB()).GetByID(ctx, member.ID)
	if err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if !got.Approved {
		t.Error("member should be approved")
	}
	if got.MembershipExpiry == nil {
		t.Fatal("membership expiry should be set")
	}
	months := time.Until(*got.MembershipExpiry).Hours() / 24 / 30
	if months < 5 || months > 7 {
		t.Errorf("expiry %v, want roughly six months out", got.MembershipExpiry)
	}

	stubs, err := fx.DB().Collection("unapproved_users").CountDocuments(ctx, bson.M{"user_id": member.ID})
	if err != nil {
		t.Fatalf("count stubs: %v", err)
	}
	if stubs != 0 {
		t.Errorf("staging stub should be removed, found %d", stubs)
	}
}

func TestHandleReject_RecordsRejection(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	actor := fx.CreateAdmin(ctx, "Rejecting Admin", "rejecting-admin@example.com")
	member := fx.CreateMember(ctx, "Reject Me", "reject-me@example.com")

	rec := postDecision(h.HandleReject, actor, member.ID.Hex())

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	got, err := userstore.New(fx.DB()).GetByID(ctx, member.ID)
	if err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if got.Approved {
		t.Error("member should not be approved")
	}
	if got.RejectedAt == nil {
		t.Error("rejection timestamp should be set")
	}
}

func TestHandleApprove_UnknownMember(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	actor := fx.CreateAdmin(ctx, "Lost Admin", "lost-admin@example.com")

	rec := postDecision(h.HandleApprove, actor, "64b0c0ffee0c0ffee0c0ffee")

	if rec.Code == http.StatusSeeOther {
		t.Error("unknown member should not produce a decision redirect")
	}
}

func TestServeDetail_BadID(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	actor := fx.CreateAdmin(ctx, "Detail Admin", "detail-admin@example.com")

	rec := postDecision(h.ServeDetail, actor, "not-hex")

	if rec.Code == http.StatusSeeOther {
		t.Error("bad id should render an error page, not redirect")
	}
}

func TestServeExportCSV_StreamsFilteredMembers(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateApprovedMember(ctx, "Export Active", "export-active@example.com",
		time.Now().UTC().Add(90*24*time.Hour))
	fx.CreateMember(ctx, "Export Pending", "export-pending@example.com")

	req := testutil.NewAuthenticatedRequest("GET", "/admin/users/export.csv?filter=approved", testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeExportCSV(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition = %q, want attachment", cd)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "export-active@example.com") {
		t.Error("approved member missing from export")
	}
	if strings.Contains(body, "export-pending@example.com") {
		t.Error("pending member should be excluded by the approved filter")
	}
}
