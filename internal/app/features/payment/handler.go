// internal/app/features/payment/handler.go
package payment

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/alumhub/alumhub/internal/app/features/errors"
	"github.com/alumhub/alumhub/internal/app/gateway/sslcommerz"
	paymentstore "github.com/alumhub/alumhub/internal/app/store/payments"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/auditlog"
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/alumhub/alumhub/internal/app/system/membership"
	"github.com/alumhub/alumhub/internal/app/system/normalize"
	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/app/system/viewdata"
	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the member payment pages and the gateway callback.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Users    *userstore.Store
	Payments *paymentstore.Store
	Gateway  *sslcommerz.Client
	BaseURL  string
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, gateway *sslcommerz.Client, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Users:    userstore.New(db),
		Payments: paymentstore.New(db),
		Gateway:  gateway,
		BaseURL:  baseURL,
	}
}

type paymentRow struct {
	Payment models.Payment
	Badge   membership.Badge
}

type pageData struct {
	viewdata.BaseVM

	CanPay         bool
	StateLabel     string
	MembershipFee  int
	GatewayEnabled bool
	Payments       []paymentRow
	Submitted      bool
	FormError      string
}

func (h *Handler) currentUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, false
	}
	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid user id in session", err,
			"Your session is no longer valid. Please sign in again.", "/login")
		return nil, false
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user for payment", err,
			"We could not load your account. Please try again.", "/dashboard")
		return nil, false
	}
	return u, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/payment                                                       |
| Manual submission form, gateway checkout button, and payment history.        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, ok := h.currentUser(ctx, w, r)
	if !ok {
		return
	}

	h.renderPayment(ctx, w, r, u, r.URL.Query().Get("submitted") == "1", "")
}

func (h *Handler) renderPayment(ctx context.Context, w http.ResponseWriter, r *http.Request, u *models.User, submitted bool, formErr string) {
	payments, err := h.Payments.ListByUser(ctx, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list payments", err,
			"We could not load your payment history. Please try again.", "/dashboard")
		return
	}
	rows := make([]paymentRow, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, paymentRow{Payment: p, Badge: membership.PaymentBadge(p.Status)})
	}

	settings := viewdata.GetSettings(ctx, h.DB)
	state := membership.DeriveState(u, time.Now().UTC())

	data := pageData{
		BaseVM:         viewdata.NewBaseVM(r, h.DB, "Payments", "/dashboard"),
		CanPay:         u.Approved,
		StateLabel:     state.Label(),
		MembershipFee:  settings.MembershipFee,
		GatewayEnabled: h.Gateway != nil && h.Gateway.IsConfigured(),
		Payments:       rows,
		Submitted:      submitted,
		FormError:      formErr,
	}
	templates.Render(w, r, "payment", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/payment                                                      |
| Manual bKash/Nagad submission; an admin verifies it later.                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleManualPost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, ok := h.currentUser(ctx, w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse payment form", err,
			"The submitted form could not be read.", "/dashboard/payment")
		return
	}

	if !u.Approved {
		h.renderPayment(ctx, w, r, u, false,
			"Your membership is not approved yet. You can pay once an administrator approves your registration.")
		return
	}

	method := r.PostFormValue("method")
	if method != models.MethodBkash && method != models.MethodNagad {
		h.renderPayment(ctx, w, r, u, false, "Choose bKash or Nagad for a manual submission.")
		return
	}
	payerNumber := normalize.Phone(r.PostFormValue("payer_number"))
	if payerNumber == "" {
		h.renderPayment(ctx, w, r, u, false, "Enter the number you sent the payment from.")
		return
	}
	trxID := normalize.Name(r.PostFormValue("transaction_ref"))
	if trxID == "" {
		h.renderPayment(ctx, w, r, u, false, "Enter the transaction ID from your payment confirmation.")
		return
	}

	settings := viewdata.GetSettings(ctx, h.DB)

	p, err := h.Payments.Submit(ctx, models.Payment{
		UserID:         u.ID,
		Amount:         settings.MembershipFee,
		Method:         method,
		PayerNumber:    payerNumber,
		TransactionRef: trxID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "submit manual payment", err,
			"We could not record your payment. Please try again.", "/dashboard/payment")
		return
	}

	h.AuditLog.PaymentSubmitted(ctx, r, u.ID, p.ID, method, p.Amount)

	http.Redirect(w, r, "/dashboard/payment?submitted=1", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/payment/checkout                                             |
| Creates a pending payment and sends the browser to the hosted gateway page.  |
| Nothing is marked completed here; the IPN decides the outcome.               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	u, ok := h.currentUser(ctx, w, r)
	if !ok {
		return
	}

	if !u.Approved {
		h.renderPayment(ctx, w, r, u, false,
			"Your membership is not approved yet. You can pay once an administrator approves your registration.")
		return
	}
	if h.Gateway == nil || !h.Gateway.IsConfigured() {
		h.renderPayment(ctx, w, r, u, false, "Online payment is not available right now. Use a manual submission instead.")
		return
	}

	settings := viewdata.GetSettings(ctx, h.DB)

	p, err := h.Payments.Submit(ctx, models.Payment{
		UserID:         u.ID,
		Amount:         settings.MembershipFee,
		Method:         models.MethodSSLCommerz,
		TransactionRef: uuid.NewString(),
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create checkout payment", err,
			"We could not start the payment. Please try again.", "/dashboard/payment")
		return
	}

	session, err := h.Gateway.InitiateSession(ctx, sslcommerz.Session{
		TransactionRef: p.TransactionRef,
		Amount:         p.Amount,
		CustomerName:   u.FullName,
		CustomerEmail:  u.Email,
		CustomerPhone:  u.Phone,
		SuccessURL:     h.BaseURL + "/dashboard/payment/success",
		FailURL:        h.BaseURL + "/dashboard/payment/fail",
		CancelURL:      h.BaseURL + "/dashboard/payment/cancel",
		IPNURL:         h.BaseURL + "/payment/ipn",
	})
	if err != nil {
		if updErr := h.Payments.UpdateStatus(ctx, p.ID, models.PaymentFailed, err.Error()); updErr != nil {
			h.Log.Error("mark failed checkout", zap.Error(updErr), zap.String("payment_id", p.ID.Hex()))
		}
		h.Log.Warn("gateway session failed", zap.Error(err), zap.String("payment_id", p.ID.Hex()))
		h.renderPayment(ctx, w, r, u, false, "The payment gateway did not accept the request. Please try again later.")
		return
	}

	if err := h.Payments.SetGatewaySession(ctx, p.ID, session.SessionKey); err != nil {
		h.Log.Error("store gateway session key", zap.Error(err), zap.String("payment_id", p.ID.Hex()))
	}

	h.AuditLog.PaymentInitiated(ctx, r, u.ID, p.ID, p.Amount)

	http.Redirect(w, r, session.GatewayPageURL, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/payment/{success,fail,cancel}                                 |
| Landing pages after the hosted checkout. The IPN is authoritative; these     |
| only tell the member what to expect.                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSuccess(w http.ResponseWriter, r *http.Request) {
	h.renderResult(w, r, "Payment received",
		"Thank you. The gateway confirmed your payment; your history will update once the confirmation arrives.")
}

func (h *Handler) ServeFail(w http.ResponseWriter, r *http.Request) {
	h.renderResult(w, r, "Payment failed",
		"The gateway could not complete your payment. No money was taken. You can try again from the payment page.")
}

func (h *Handler) ServeCancel(w http.ResponseWriter, r *http.Request) {
	h.renderResult(w, r, "Payment cancelled",
		"You cancelled the payment at the gateway. Nothing was charged.")
}

type resultData struct {
	viewdata.BaseVM
	Heading string
	Message string
}

func (h *Handler) renderResult(w http.ResponseWriter, r *http.Request, heading, message string) {
	data := resultData{
		BaseVM:  viewdata.NewBaseVM(r, h.DB, heading, "/dashboard/payment"),
		Heading: heading,
		Message: message,
	}
	templates.Render(w, r, "payment_result", data)
}
