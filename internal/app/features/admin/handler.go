// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"net/http"
	"strconv"

	uierrors "github.com/alumhub/alumhub/internal/app/features/errors"
	paymentstore "github.com/alumhub/alumhub/internal/app/store/payments"
	settingsstore "github.com/alumhub/alumhub/internal/app/store/settings"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/auditlog"
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/alumhub/alumhub/internal/app/system/htmlsanitize"
	"github.com/alumhub/alumhub/internal/app/system/normalize"
	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/app/system/viewdata"
	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the admin overview and site settings pages.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Users    *userstore.Store
	Payments *paymentstore.Store
	Settings *settingsstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Users:    userstore.New(db),
		Payments: paymentstore.New(db),
		Settings: settingsstore.New(db),
	}
}

type overviewData struct {
	viewdata.BaseVM

	Members         userstore.MemberCounts
	PendingPayments int64
	VerifiedCount   int64
	CompletedCount  int64
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	counts, err := h.Users.CountMembers(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count members", err,
			"We could not load the member counts. Please try again.", "/")
		return
	}

	pending, err := h.Payments.CountByStatus(ctx, models.PaymentPending)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count pending payments", err,
			"We could not load the payment counts. Please try again.", "/")
		return
	}
	verified, err := h.Payments.CountByStatus(ctx, models.PaymentVerified)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count verified payments", err,
			"We could not load the payment counts. Please try again.", "/")
		return
	}
	completed, err := h.Payments.CountByStatus(ctx, models.PaymentCompleted)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count completed payments", err,
			"We could not load the payment counts. Please try again.", "/")
		return
	}

	data := overviewData{
		BaseVM:          viewdata.NewBaseVM(r, h.DB, "Admin", "/"),
		Members:         counts,
		PendingPayments: pending,
		VerifiedCount:   verified,
		CompletedCount:  completed,
	}
	templates.Render(w, r, "admin_overview", data)
}

type settingsData struct {
	viewdata.BaseVM

	Settings  models.SiteSettings
	Saved     bool
	FormError string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/settings                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load site settings", err,
			"We could not load the site settings. Please try again.", "/admin")
		return
	}

	h.renderSettings(w, r, settings, r.URL.Query().Get("saved") == "1", "")
}

func (h *Handler) renderSettings(w http.ResponseWriter, r *http.Request, s models.SiteSettings, saved bool, formErr string) {
	data := settingsData{
		BaseVM:    viewdata.NewBaseVM(r, h.DB, "Site Settings", "/admin"),
		Settings:  s,
		Saved:     saved,
		FormError: formErr,
	}
	templates.Render(w, r, "admin_settings", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/settings                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSettingsPost(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse settings form", err,
			"The submitted form could not be read.", "/admin/settings")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Settings.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load site settings", err,
			"We could not load the site settings. Please try again.", "/admin")
		return
	}

	siteName := normalize.Name(r.PostFormValue("site_name"))
	if siteName == "" {
		h.renderSettings(w, r, current, false, "Site name cannot be empty.")
		return
	}

	fee, err := strconv.Atoi(r.PostFormValue("membership_fee"))
	if err != nil || fee <= 0 {
		h.renderSettings(w, r, current, false, "Membership fee must be a positive whole number of taka.")
		return
	}

	contactEmail := normalize.Email(r.PostFormValue("contact_email"))

	actorID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid user id in session", err,
			"Your session is no longer valid. Please sign in again.", "/login")
		return
	}

	updated := current
	updated.SiteName = siteName
	updated.Tagline = normalize.Name(r.PostFormValue("tagline"))
	updated.ContactEmail = contactEmail
	updated.MembershipFee = fee
	updated.FooterHTML = htmlsanitize.Sanitize(r.PostFormValue("footer_html"))
	updated.UpdatedByID = &actorID
	updated.UpdatedByName = su.Name

	if err := h.Settings.Save(ctx, updated); err != nil {
		h.ErrLog.LogServerError(w, r, "save site settings", err,
			"We could not save the settings. Please try again.", "/admin/settings")
		return
	}

	h.AuditLog.SettingsUpdated(ctx, r, actorID)

	http.Redirect(w, r, "/admin/settings?saved=1", http.StatusSeeOther)
}
