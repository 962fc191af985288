// internal/app/features/payments/handler.go
package payments

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/alumhub/alumhub/internal/app/features/errors"
	paymentstore "github.com/alumhub/alumhub/internal/app/store/payments"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/auditlog"
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/alumhub/alumhub/internal/app/system/membership"
	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/app/system/viewdata"
	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the admin payment verification pages.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Users    *userstore.Store
	Payments *paymentstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Users:    userstore.New(db),
		Payments: paymentstore.New(db),
	}
}

type paymentRow struct {
	Payment    models.Payment
	Badge      membership.Badge
	PayerName  string
	PayerEmail string
}

type listData struct {
	viewdata.BaseVM

	Payments []paymentRow
	Status   string
	Search   string
	Statuses []string
	Updated  string // status applied by the last decision redirect
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/payments                                                          |
| Payment list with status filter and search over payer name, email, and       |
| transaction reference.                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	status := query.Get(r, "status")
	var (
		all []models.Payment
		err error
	)
	if models.ValidPaymentStatus(status) {
		all, err = h.Payments.ListByStatus(ctx, status)
	} else {
		status = ""
		all, err = h.Payments.ListAll(ctx)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list payments", err,
			"We could not load the payments. Please try again.", "/admin")
		return
	}

	// Resolve payer identities once per distinct user.
	names := make(map[primitive.ObjectID]*models.User)
	for _, p := range all {
		if _, seen := names[p.UserID]; seen {
			continue
		}
		u, err := h.Users.GetByID(ctx, p.UserID)
		if err != nil {
			names[p.UserID] = nil
			continue
		}
		names[p.UserID] = u
	}

	search := strings.TrimSpace(query.Get(r, "search"))
	folded := text.Fold(search)

	rows := make([]paymentRow, 0, len(all))
	for _, p := range all {
		row := paymentRow{Payment: p, Badge: membership.PaymentBadge(p.Status)}
		if u := names[p.UserID]; u != nil {
			row.PayerName = u.FullName
			row.PayerEmail = u.Email
		}
		if folded != "" &&
			!strings.Contains(text.Fold(row.PayerName), folded) &&
			!strings.Contains(text.Fold(row.PayerEmail), folded) &&
			!strings.Contains(text.Fold(p.TransactionRef), folded) {
			continue
		}
		rows = append(rows, row)
	}

	data := listData{
		BaseVM:   viewdata.NewBaseVM(r, h.DB, "Payments", "/admin"),
		Payments: rows,
		Status:   status,
		Search:   search,
		Statuses: models.PaymentStatuses,
		Updated:  query.Get(r, "updated"),
	}
	templates.Render(w, r, "admin_payments", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/payments/{id}/verify                                             |
| POST /admin/payments/{id}/fail                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.PaymentVerified, "")
}

func (h *Handler) HandleFail(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.PaymentFailed, "rejected by administrator")
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, status, reason string) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	actorID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid user id in session", err,
			"Your session is no longer valid. Please sign in again.", "/login")
		return
	}

	paymentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid payment id", err,
			"That payment does not exist.", "/admin/payments")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, paymentstore.ErrNotFound) {
			h.ErrLog.LogBadRequest(w, r, "payment not found", err,
				"That payment does not exist.", "/admin/payments")
			return
		}
		h.ErrLog.LogServerError(w, r, "load payment for decision", err,
			"We could not load that payment. Please try again.", "/admin/payments")
		return
	}

	// Only pending submissions are decided by hand; the gateway owns the
	// rest of the lifecycle.
	if p.Status != models.PaymentPending {
		h.ErrLog.LogBadRequest(w, r, "payment already decided", nil,
			"That payment has already been decided.", "/admin/payments")
		return
	}

	if err := h.Payments.UpdateStatus(ctx, paymentID, status, reason); err != nil {
		h.ErrLog.LogServerError(w, r, "update payment status", err,
			"We could not update the payment. Please try again.", "/admin/payments")
		return
	}

	if status == models.PaymentVerified {
		if err := h.Users.RecordPayment(ctx, p.UserID, time.Now().UTC()); err != nil {
			h.Log.Error("stamp last payment date", zap.Error(err), zap.String("user_id", p.UserID.Hex()))
		}
	}

	h.AuditLog.PaymentStatusUpdated(ctx, r, paymentID, &actorID, status)

	http.Redirect(w, r, "/admin/payments?updated="+status, http.StatusSeeOther)
}
