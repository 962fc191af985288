// internal/app/features/members/handler.go
package members

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

// Handler owns the admin member management pages.
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

type memberRow struct {
	User       models.User
	StateLabel string
	StateKind  membership.StateKind
}

type listData struct {
	viewdata.BaseVM

	Members      []memberRow
	PendingCount int
	Filter       string
	Search       string
	Decided      string // "approved" or "rejected" after a decision redirect
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/users                                                             |
| Member list with a standing filter and a folded-text search.                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx, models.RoleMember)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members", err,
			"We could not load the member list. Please try again.", "/admin")
		return
	}

	filter := query.Get(r, "filter")
	search := strings.TrimSpace(query.Get(r, "search"))
	folded := text.Fold(search)

	now := time.Now().UTC()
	rows := make([]memberRow, 0, len(users))
	pending := 0
	for i := range users {
		u := users[i]
		state := membership.DeriveState(&u, now)
		if state.Kind == membership.StatePendingApproval {
			pending++
		}
		if !matchesFilter(state.Kind, filter) {
			continue
		}
		if folded != "" &&
			!strings.Contains(u.FullNameCI, folded) &&
			!strings.Contains(u.EmailCI, folded) {
			continue
		}
		rows = append(rows, memberRow{User: u, StateLabel: state.Label(), StateKind: state.Kind})
	}

	data := listData{
		BaseVM:       viewdata.NewBaseVM(r, h.DB, "Members", "/admin"),
		Members:      rows,
		PendingCount: pending,
		Filter:       filter,
		Search:       search,
		Decided:      query.Get(r, "decided"),
	}
	templates.Render(w, r, "admin_members", data)
}

func matchesFilter(kind membership.StateKind, filter string) bool {
	switch filter {
	case "pending":
		return kind == membership.StatePendingApproval
	case "approved":
		return kind == membership.StateActiveUntil || kind == membership.StateApprovedNoExpiry
	case "expired":
		return kind == membership.StateExpired
	case "rejected":
		return kind == membership.StateRejected
	default:
		return true
	}
}

type detailData struct {
	viewdata.BaseVM

	Member     models.User
	StateLabel string
	StateKind  membership.StateKind
	Completion int
	Payments   []paymentRow
}

type paymentRow struct {
	Payment models.Payment
	Badge   membership.Badge
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/users/{id}                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid member id", err,
			"That member does not exist.", "/admin/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.LogBadRequest(w, r, "member not found", err,
				"That member does not exist.", "/admin/users")
			return
		}
		h.ErrLog.LogServerError(w, r, "load member", err,
			"We could not load that member. Please try again.", "/admin/users")
		return
	}

	payments, err := h.Payments.ListByUser(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load member payments", err,
			"We could not load that member's payments. Please try again.", "/admin/users")
		return
	}
	rows := make([]paymentRow, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, paymentRow{Payment: p, Badge: membership.PaymentBadge(p.Status)})
	}

	state := membership.DeriveState(u, time.Now().UTC())
	data := detailData{
		BaseVM:     viewdata.NewBaseVM(r, h.DB, u.FullName, "/admin/users"),
		Member:     *u,
		StateLabel: state.Label(),
		StateKind:  state.Kind,
		Completion: membership.CompletionPercent(u),
		Payments:   rows,
	}
	templates.Render(w, r, "admin_member_detail", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/{id}/approve                                               |
| POST /admin/users/{id}/reject                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
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

	memberID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid member id", err,
			"That member does not exist.", "/admin/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Users.SetApproval(ctx, memberID, approve, actorID); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.LogBadRequest(w, r, "member not found for decision", err,
				"That member does not exist.", "/admin/users")
			return
		}
		h.ErrLog.LogServerError(w, r, "record approval decision", err,
			"We could not record the decision. Please try again.", "/admin/users")
		return
	}

	h.AuditLog.ApprovalDecision(ctx, r, memberID, actorID, approve)

	decided := "rejected"
	if approve {
		decided = "approved"
	}
	http.Redirect(w, r, "/admin/users?decided="+decided, http.StatusSeeOther)
}
