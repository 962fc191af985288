// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/alumhub/alumhub/internal/app/features/errors"
	paymentstore "github.com/alumhub/alumhub/internal/app/store/payments"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/alumhub/alumhub/internal/app/system/membership"
	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/app/system/viewdata"
	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// recentPaymentLimit caps how many payments show on the dashboard card.
const recentPaymentLimit = 5

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Users    *userstore.Store
	Payments *paymentstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Users:    userstore.New(db),
		Payments: paymentstore.New(db),
	}
}

type paymentRow struct {
	Payment models.Payment
	Badge   membership.Badge
}

type pageData struct {
	viewdata.BaseVM

	User          *models.User
	State         membership.State
	StateLabel    string
	Completion    int
	MembershipFee int
	Payments      []paymentRow
	MorePayments  bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard                                                               |
| Member overview: membership standing, profile completion, recent payments.   |
| Admins are sent on to the admin console.                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if su.Role == models.RoleAdmin {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	userID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid user id in session", err,
			"Your session is no longer valid. Please sign in again.", "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user for dashboard", err,
			"We could not load your account. Please try again.", "/")
		return
	}

	payments, err := h.Payments.ListByUser(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load payments for dashboard", err,
			"We could not load your payment history. Please try again.", "/")
		return
	}

	more := len(payments) > recentPaymentLimit
	if more {
		payments = payments[:recentPaymentLimit]
	}
	rows := make([]paymentRow, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, paymentRow{Payment: p, Badge: membership.PaymentBadge(p.Status)})
	}

	settings := viewdata.GetSettings(ctx, h.DB)
	state := membership.DeriveState(u, time.Now().UTC())

	data := pageData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Dashboard", "/"),
		User:          u,
		State:         state,
		StateLabel:    state.Label(),
		Completion:    membership.CompletionPercent(u),
		MembershipFee: settings.MembershipFee,
		Payments:      rows,
		MorePayments:  more,
	}

	templates.Render(w, r, "dashboard", data)
}
