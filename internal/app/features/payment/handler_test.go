package payment_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/alumhub/alumhub/internal/app/features/errors"
	"github.com/alumhub/alumhub/internal/app/features/payment"
	"github.com/alumhub/alumhub/internal/app/gateway/sslcommerz"
	paymentstore "github.com/alumhub/alumhub/internal/app/store/payments"
	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/alumhub/alumhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, gateway *sslcommerz.Client) (*payment.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := payment.NewHandler(db, uierrors.NewErrorLogger(logger), nil, gateway, "http://localhost:8080", logger)
	return h, testutil.NewFixtures(t, db)
}

func asUser(u models.User) testutil.TestUser {
	return testutil.TestUser{ID: u.ID.Hex(), Name: u.FullName, Email: u.Email, Role: u.Role}
}

func postForm(h http.HandlerFunc, target string, u models.User, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, asUser(u))
	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		h(rec, req)
	}()
	return rec
}

func TestServePayment_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	req := httptest.NewRequest("GET", "/dashboard/payment", nil)
	rec := httptest.NewRecorder()

	h.ServePayment(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestHandleManualPost_CreatesPendingPayment(t *testing.T) {
	h, fx := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := fx.CreateApprovedMember(ctx, "Manual Payer", "manual-payer@example.com",
		time.Now().UTC().Add(90*24*time.Hour))

	rec := postForm(h.HandleManualPost, "/dashboard/payment", member, url.Values{
		"method":          {"bKash"},
		"payer_number":    {"+8801712345678"},
		"transaction_ref": {"9G5X3K7TRX"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	payments, err := paymentstore.New(fx.DB()).ListByUser(ctx, member.ID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("got %d payments, want 1", len(payments))
	}
	p := payments[0]
	if p.Status != models.PaymentPending {
		t.Errorf("Status = %q, want pending", p.Status)
	}
	if p.Method != models.MethodBkash {
		t.Errorf("Method = %q, want bKash", p.Method)
	}
	if p.PayerNumber != "01712345678" {
		t.Errorf("PayerNumber = %q, want normalized 01712345678", p.PayerNumber)
	}
	if p.TransactionRef != "9G5X3K7TRX" {
		t.Errorf("TransactionRef = %q", p.TransactionRef)
	}
}

func TestHandleManualPost_UnapprovedMemberRejected(t *testing.T) {
	h, fx := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := fx.CreateMember(ctx, "Pending Payer", "pending-payer@example.com")

	rec := postForm(h.HandleManualPost, "/dashboard/payment", member, url.Values{
		"method":          {"bKash"},
		"payer_number":    {"01712345678"},
		"transaction_ref": {"TRX123"},
	})

	if rec.Code == http.StatusSeeOther {
		t.Error("unapproved member should not be able to submit a payment")
	}

	payments, err := paymentstore.New(fx.DB()).ListByUser(ctx, member.ID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 0 {
		t.Errorf("got %d payments, want none", len(payments))
	}
}

func TestHandleManualPost_UnknownMethodRejected(t *testing.T) {
	h, fx := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := fx.CreateApprovedMember(ctx, "Method Payer", "method-payer@example.com",
		time.Now().UTC().Add(90*24*time.Hour))

	rec := postForm(h.HandleManualPost, "/dashboard/payment", member, url.Values{
		"method":          {"cash"},
		"payer_number":    {"01712345678"},
		"transaction_ref": {"TRX123"},
	})

	if rec.Code == http.StatusSeeOther {
		t.Error("unknown method should not be accepted")
	}
}

func TestHandleCheckout_RedirectsToGateway(t *testing.T) {
	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"status":         "SUCCESS",
			"sessionkey":     "SESSIONKEY123",
			"GatewayPageURL": "https://sandbox.sslcommerz.com/EasyCheckOut/abc123",
		})
	}))
	defer gatewayServer.Close()

	gateway := sslcommerz.New(sslcommerz.Config{
		StoreID:       "teststore",
		StorePassword: "testpass",
		BaseURL:       gatewayServer.URL,
	})

	h, fx := newTestHandler(t, gateway)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := fx.CreateApprovedMember(ctx, "Gateway Payer", "gateway-payer@example.com",
		time.Now().UTC().Add(90*24*time.Hour))

	rec := postForm(h.HandleCheckout, "/dashboard/payment/checkout", member, url.Values{})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "EasyCheckOut") {
		t.Errorf("Location = %q, want the gateway page", loc)
	}

	payments, err := paymentstore.New(fx.DB()).ListByUser(ctx, member.ID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("got %d payments, want 1", len(payments))
	}
	p := payments[0]
	if p.Status != models.PaymentPending {
		t.Errorf("Status = %q, want pending until the IPN arrives", p.Status)
	}
	if p.Method != models.MethodSSLCommerz {
		t.Errorf("Method = %q, want sslcommerz", p.Method)
	}
	if p.GatewaySessionKey != "SESSIONKEY123" {
		t.Errorf("GatewaySessionKey = %q, want SESSIONKEY123", p.GatewaySessionKey)
	}
	if p.TransactionRef == "" {
		t.Error("TransactionRef should be generated")
	}
}

func TestHandleCheckout_GatewayFailureMarksPaymentFailed(t *testing.T) {
	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"status":       "FAILED",
			"failedreason": "store deactivated",
		})
	}))
	defer gatewayServer.Close()

	gateway := sslcommerz.New(sslcommerz.Config{
		StoreID:       "teststore",
		StorePassword: "testpass",
		BaseURL:       gatewayServer.URL,
	})

	h, fx := newTestHandler(t, gateway)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := fx.CreateApprovedMember(ctx, "Failed Payer", "failed-payer@example.com",
		time.Now().UTC().Add(90*24*time.Hour))

	rec := postForm(h.HandleCheckout, "/dashboard/payment/checkout", member, url.Values{})

	if rec.Code == http.StatusSeeOther {
		t.Error("failed gateway session should not redirect")
	}

	payments, err := paymentstore.New(fx.DB()).ListByUser(ctx, member.ID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("got %d payments, want 1", len(payments))
	}
	if payments[0].Status != models.PaymentFailed {
		t.Errorf("Status = %q, want failed", payments[0].Status)
	}
}

func postIPN(h *payment.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/payment/ipn", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleIPN(rec, req)
	return rec
}

func TestHandleIPN_ValidCompletesPayment(t *testing.T) {
	h, fx := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := fx.CreateApprovedMember(ctx, "IPN Payer", "ipn-payer@example.com",
		time.Now().UTC().Add(90*24*time.Hour))
	p := fx.CreatePayment(ctx, member.ID, 500, models.PaymentPending)

	rec := postIPN(h, url.Values{
		"status":  {"VALID"},
		"tran_id": {p.TransactionRef},
		"val_id":  {"VAL987"},
		"amount":  {"500.00"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	got, err := paymentstore.New(fx.DB()).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("reload payment: %v", err)
	}
	if got.Status != models.PaymentCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if got.GatewayValidationID != "VAL987" {
		t.Errorf("GatewayValidationID = %q, want VAL987", got.GatewayValidationID)
	}
	if got.CompletedAt == nil {
		t.Error("CompletedAt should be stamped")
	}
}

func TestHandleIPN_FailedMarksFailed(t *testing.T) {
	h, fx := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := fx.CreateApprovedMember(ctx, "IPN Fail", "ipn-fail@example.com",
		time.Now().UTC().Add(90*24*time.Hour))
	p := fx.CreatePayment(ctx, member.ID, 500, models.PaymentPending)

	rec := postIPN(h, url.Values{
		"status":  {"FAILED"},
		"tran_id": {p.TransactionRef},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	got, err := paymentstore.New(fx.DB()).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("reload payment: %v", err)
	}
	if got.Status != models.PaymentFailed {
		t.Errorf("Status = %q, want failed", got.Status)
	}
}

func TestHandleIPN_ReplayDoesNotRegressCompleted(t *testing.T) {
	h, fx := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := fx.CreateApprovedMember(ctx, "IPN Replay", "ipn-replay@example.com",
		time.Now().UTC().Add(90*24*time.Hour))
	p := fx.CreatePayment(ctx, member.ID, 500, models.PaymentCompleted)

	rec := postIPN(h, url.Values{
		"status":  {"CANCELLED"},
		"tran_id": {p.TransactionRef},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	got, err := paymentstore.New(fx.DB()).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("reload payment: %v", err)
	}
	if got.Status != models.PaymentCompleted {
		t.Errorf("Status = %q, completed must not regress", got.Status)
	}
}

func TestHandleIPN_UnknownTransaction(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := postIPN(h, url.Values{
		"status":  {"VALID"},
		"tran_id": {"no-such-ref"},
	})

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
